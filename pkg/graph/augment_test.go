package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAugment_Idempotent(t *testing.T) {
	// A unique source and sink are reused; no synthetic node appears.
	g, err := FromEdges([][2]string{{"S", "A"}, {"A", "T"}})
	require.NoError(t, err)

	aug, err := Augment(g)
	require.NoError(t, err)

	assert.Equal(t, g.NumNodes(), aug.Graph.NumNodes())
	assert.Equal(t, "S", aug.Graph.Label(aug.Entry))
	assert.Equal(t, "T", aug.Graph.Label(aug.Exit))
	_, hasEntry := aug.Graph.Index(EntryLabel)
	assert.False(t, hasEntry)
	_, hasExit := aug.Graph.Index(ExitLabel)
	assert.False(t, hasExit)
}

func TestAugment_BackEdgeAlwaysLast(t *testing.T) {
	g, err := FromEdges([][2]string{{"S", "A"}, {"A", "T"}})
	require.NoError(t, err)
	aug, err := Augment(g)
	require.NoError(t, err)

	back := aug.BackEdge()
	assert.Equal(t, EdgeBack, back.Kind)
	assert.Equal(t, aug.Exit, back.From)
	assert.Equal(t, aug.Entry, back.To)
	assert.Equal(t, len(aug.Edges)-1, back.ID)
}

func TestAugment_MultiSource(t *testing.T) {
	// Scenario: {A->C, B->C, C->D} gets a super-entry over A and B.
	adj := Adjacency{
		"A": {Out: []string{"C"}},
		"B": {Out: []string{"C"}},
		"C": {Out: []string{"D"}, In: []string{"A", "B"}},
		"D": {In: []string{"C"}},
	}
	g, err := FromAdjacency(adj)
	require.NoError(t, err)

	aug, err := Augment(g)
	require.NoError(t, err)

	assert.Equal(t, EntryLabel, aug.Graph.Label(aug.Entry))
	assert.Equal(t, "D", aug.Graph.Label(aug.Exit))

	out := aug.Graph.Adjacency()[EntryLabel].Out
	assert.Equal(t, []string{"A", "B"}, out)

	var entryEdges int
	for _, e := range aug.Edges {
		if e.Kind == EdgeEntry {
			entryEdges++
		}
	}
	assert.Equal(t, 2, entryEdges)
}

func TestAugment_MultiSink(t *testing.T) {
	g, err := FromEdges([][2]string{{"S", "A"}, {"S", "B"}})
	require.NoError(t, err)

	aug, err := Augment(g)
	require.NoError(t, err)

	assert.Equal(t, "S", aug.Graph.Label(aug.Entry))
	assert.Equal(t, ExitLabel, aug.Graph.Label(aug.Exit))
	assert.Equal(t, []string{"A", "B"}, func() []string {
		var sinks []string
		for _, e := range aug.Edges {
			if e.Kind == EdgeExit {
				sinks = append(sinks, aug.Graph.Label(e.From))
			}
		}
		return sinks
	}())
}

func TestAugment_ReservedLabelCollision(t *testing.T) {
	adj := Adjacency{
		EntryLabel: {Out: []string{"C"}},
		"B":        {Out: []string{"C"}},
		"C":        {In: []string{EntryLabel, "B"}},
	}
	g, err := FromAdjacency(adj)
	require.NoError(t, err)

	_, err = Augment(g)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAugment_NoSourceFallback(t *testing.T) {
	// Pure cycle: the super-entry is wired to every node and a warning
	// records the synthesized entry.
	g, err := FromEdges([][2]string{{"A", "B"}, {"B", "A"}})
	require.NoError(t, err)

	aug, err := Augment(g)
	require.NoError(t, err)

	assert.Equal(t, EntryLabel, aug.Graph.Label(aug.Entry))
	assert.Equal(t, ExitLabel, aug.Graph.Label(aug.Exit))
	assert.Len(t, aug.Warnings, 2)

	out := aug.Graph.Adjacency()[EntryLabel].Out
	assert.Equal(t, []string{"A", "B"}, out)
}

func TestAugment_SingleNode(t *testing.T) {
	g, err := FromAdjacency(Adjacency{"N": {}})
	require.NoError(t, err)

	aug, err := Augment(g)
	require.NoError(t, err)

	// The node is both source and sink, so the back edge is a self-loop.
	assert.Equal(t, aug.Entry, aug.Exit)
	assert.Equal(t, "N", aug.Graph.Label(aug.Entry))
	require.Len(t, aug.Edges, 1)
	assert.Equal(t, EdgeBack, aug.Edges[0].Kind)
}

func TestUndirected_SelfLoopIncidentTwice(t *testing.T) {
	g, err := FromEdges([][2]string{{"S", "A"}, {"A", "A"}, {"A", "T"}})
	require.NoError(t, err)
	aug, err := Augment(g)
	require.NoError(t, err)

	und := aug.Undirected()
	assert.Len(t, und.Arcs, len(aug.Edges))

	a, _ := aug.Graph.Index("A")
	count := 0
	for _, ref := range und.Adj[a] {
		if und.Arcs[ref.Arc].A == a && und.Arcs[ref.Arc].B == a {
			count++
		}
	}
	assert.Equal(t, 2, count)
}
