package multigraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSquare(t *testing.T) *Graph[string, int] {
	t.Helper()
	g := New[string, int]()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, g.AddNode(n, n+"-attr"))
	}
	require.NoError(t, g.AddEdge("a", "east", "b", 1))
	require.NoError(t, g.AddEdge("b", "west", "a", 2))
	require.NoError(t, g.AddEdge("b", "south", "c", 3))
	require.NoError(t, g.AddEdge("c", "loop", "c", 4))
	return g
}

func TestGraph_AddAndLookup(t *testing.T) {
	g := buildSquare(t)

	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())
	assert.ErrorIs(t, g.AddNode("a", ""), ErrNodeExists)
	assert.ErrorIs(t, g.AddEdge("a", "east", "c", 0), ErrEdgeExists)
	assert.ErrorIs(t, g.AddEdge("a", "up", "zzz", 0), ErrNodeNotFound)

	e, ok := g.Edge("b", "south")
	require.True(t, ok)
	assert.Equal(t, "c", e.To)
	assert.Equal(t, 3, e.Attr)

	keys := []string{}
	for _, e := range g.Outgoing("b") {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"west", "south"}, keys)
}

func TestGraph_Incoming(t *testing.T) {
	g := buildSquare(t)

	in := g.Incoming("c")
	require.Len(t, in, 2)
	assert.Equal(t, "b", in[0].From)
	assert.Equal(t, "loop", in[1].Key)
}

func TestGraph_RemoveNode(t *testing.T) {
	g := buildSquare(t)

	removed, err := g.RemoveNode("b")
	require.NoError(t, err)
	assert.Len(t, removed, 3)
	assert.False(t, g.HasNode("b"))
	assert.False(t, g.HasEdge("a", "east"))
	assert.Equal(t, []string{"a", "c"}, g.Nodes())
}

func TestGraph_RetargetAndRename(t *testing.T) {
	g := buildSquare(t)

	require.NoError(t, g.SetEdgeTarget("a", "east", "c"))
	e, _ := g.Edge("a", "east")
	assert.Equal(t, "c", e.To)
	assert.Equal(t, 1, e.Attr)

	require.NoError(t, g.RenameEdge("b", "west", "back"))
	assert.False(t, g.HasEdge("b", "west"))
	keys := []string{}
	for _, e := range g.Outgoing("b") {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"back", "south"}, keys)
	assert.ErrorIs(t, g.RenameEdge("b", "back", "south"), ErrEdgeExists)
}

func TestGraph_CloneIsIndependent(t *testing.T) {
	g := buildSquare(t)
	c := g.Clone(nil, func(v int) int { return v * 10 })

	require.NoError(t, c.RemoveEdge("a", "east"))
	require.NoError(t, c.AddNode("d", "d-attr"))

	assert.True(t, g.HasEdge("a", "east"))
	assert.False(t, g.HasNode("d"))
	e, _ := c.Edge("b", "south")
	assert.Equal(t, 30, e.Attr)
}
