package sese

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketList_PushTop(t *testing.T) {
	arena := newBracketArena(4)
	l := newBracketList()

	assert.Equal(t, -1, l.top(arena))
	assert.Equal(t, 0, l.size)

	l.push(arena, 7)
	l.push(arena, 8)
	assert.Equal(t, 8, l.top(arena))
	assert.Equal(t, 2, l.size)
}

func TestBracketList_Remove(t *testing.T) {
	arena := newBracketArena(4)
	l := newBracketList()

	c7 := l.push(arena, 7)
	c8 := l.push(arena, 8)
	c9 := l.push(arena, 9)

	// Remove the middle, then the tail, then the head.
	l.remove(arena, c8)
	assert.Equal(t, 9, l.top(arena))
	assert.Equal(t, 2, l.size)

	l.remove(arena, c9)
	assert.Equal(t, 7, l.top(arena))

	l.remove(arena, c7)
	assert.Equal(t, -1, l.top(arena))
	assert.Equal(t, 0, l.size)
}

func TestBracketList_Concat(t *testing.T) {
	arena := newBracketArena(8)

	a := newBracketList()
	a.push(arena, 1)
	a.push(arena, 2)

	b := newBracketList()
	b.push(arena, 3)

	merged := concatBrackets(arena, a, b)
	require.Equal(t, 3, merged.size)
	// The right list's tail stays the most recent bracket.
	assert.Equal(t, 3, merged.top(arena))

	empty := newBracketList()
	merged = concatBrackets(arena, merged, empty)
	assert.Equal(t, 3, merged.size)
	merged = concatBrackets(arena, empty, merged)
	assert.Equal(t, 3, merged.size)
}

func TestBracketList_RemoveAfterConcat(t *testing.T) {
	arena := newBracketArena(8)

	a := newBracketList()
	c1 := a.push(arena, 1)

	b := newBracketList()
	b.push(arena, 2)

	merged := concatBrackets(arena, a, b)
	merged.remove(arena, c1)
	assert.Equal(t, 1, merged.size)
	assert.Equal(t, 2, merged.top(arena))
}
