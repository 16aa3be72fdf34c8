package cache

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klintqinami/sese-regions/pkg/graph"
	"github.com/klintqinami/sese-regions/pkg/sese"
)

func diamondResult(t *testing.T) (*graph.Graph, *sese.Result) {
	t.Helper()
	g, err := graph.FromEdges([][2]string{
		{"S", "A"}, {"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}, {"D", "T"},
	})
	require.NoError(t, err)
	res, err := sese.Analyze(g)
	require.NoError(t, err)
	return g, res
}

func TestFingerprint_Deterministic(t *testing.T) {
	g1, _ := graph.FromEdges([][2]string{{"S", "A"}, {"A", "T"}})
	g2, _ := graph.FromEdges([][2]string{{"S", "A"}, {"A", "T"}})
	assert.Equal(t, Fingerprint(g1), Fingerprint(g2))

	g3, _ := graph.FromEdges([][2]string{{"S", "A"}, {"A", "B"}})
	assert.NotEqual(t, Fingerprint(g1), Fingerprint(g3))
}

func TestCache_Basic(t *testing.T) {
	_, res := diamondResult(t)
	c := New(4)

	c.Put("k1", res)
	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, res, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCache_LRUEviction(t *testing.T) {
	_, res := diamondResult(t)
	c := New(2)

	c.Put("a", res)
	c.Put("b", res)

	// Touch "a" so "b" is the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", res)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCache_Delete(t *testing.T) {
	_, res := diamondResult(t)
	c := New(4)

	c.Put("a", res)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	// Deleting a missing key is a no-op.
	c.Delete("missing")
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	g, res := diamondResult(t)
	c := New(4)
	c.Put(Fingerprint(g), res)

	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf))

	restored := New(4)
	require.NoError(t, restored.Load(&buf))
	assert.Equal(t, 1, restored.Len())

	got, ok := restored.Get(Fingerprint(g))
	require.True(t, ok)
	assert.Equal(t, res.Entry, got.Entry)
	assert.Equal(t, res.Exit, got.Exit)
	assert.Equal(t, res.Regions, got.Regions)
	assert.Equal(t, res.ArcClass, got.ArcClass)
}

func TestCache_SaveFileLoadFile(t *testing.T) {
	g, res := diamondResult(t)
	path := filepath.Join(t.TempDir(), "sub", "cache.msgpack")

	c := New(4)
	c.Put(Fingerprint(g), res)
	require.NoError(t, c.SaveFile(path))

	restored := New(4)
	require.NoError(t, restored.LoadFile(path))
	assert.Equal(t, 1, restored.Len())
}

func TestCache_LoadFileMissing(t *testing.T) {
	c := New(4)
	require.NoError(t, c.LoadFile(filepath.Join(t.TempDir(), "absent.msgpack")))
	assert.Equal(t, 0, c.Len())
}
