package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddNodeNeverReusesSlots(t *testing.T) {
	s := NewStore(0)
	a := s.AddNode()
	b := s.AddNode()
	require.NoError(t, s.RemoveNode(a))
	c := s.AddNode()

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, s.NumNodes())
	assert.Equal(t, 3, s.Len())
}

func TestStore_AddEdgeRejectsUnknownEndpoint(t *testing.T) {
	s := NewStore(0)
	a := s.AddNode()
	err := s.AddEdge(a, a+1, 1.0)
	assert.ErrorIs(t, err, ErrUnknownEndpoint)
}

func TestStore_AddEdgeRejectsDuplicate(t *testing.T) {
	s := NewStore(0)
	a, b := s.AddNode(), s.AddNode()
	require.NoError(t, s.AddEdge(a, b, 1.0))
	err := s.AddEdge(a, b, 2.0)
	assert.ErrorIs(t, err, ErrEdgeExists)

	e, ok := s.GetEdge(a, b)
	require.True(t, ok)
	assert.Equal(t, 1.0, e.Weight)
}

func TestStore_AddRemoveEdgeRestoresDegreesAndCount(t *testing.T) {
	s := NewStore(0)
	a, b := s.AddNode(), s.AddNode()
	require.NoError(t, s.AddEdge(a, b, 1.5))

	na, _ := s.GetNode(a)
	nb, _ := s.GetNode(b)
	assert.Equal(t, 1, na.OutDegree)
	assert.Equal(t, 1, nb.InDegree)
	assert.Equal(t, 1, s.NumEdges())

	require.NoError(t, s.RemoveEdge(a, b))

	na, _ = s.GetNode(a)
	nb, _ = s.GetNode(b)
	assert.Equal(t, 0, na.OutDegree)
	assert.Equal(t, 0, nb.InDegree)
	assert.Equal(t, 0, s.NumEdges())

	_, ok := s.GetEdge(a, b)
	assert.False(t, ok)
}

func TestStore_RemoveEdgeMissing(t *testing.T) {
	s := NewStore(0)
	a, b := s.AddNode(), s.AddNode()
	err := s.RemoveEdge(a, b)
	assert.ErrorIs(t, err, ErrEdgeMissing)
}

func TestStore_RemoveNodeCascadesIncidentEdges(t *testing.T) {
	// A -> B -> C
	s := NewStore(0)
	a, b, c := s.AddNode(), s.AddNode(), s.AddNode()
	require.NoError(t, s.AddEdge(a, b, 1))
	require.NoError(t, s.AddEdge(b, c, 1))

	require.NoError(t, s.RemoveNode(b))

	assert.Equal(t, 2, s.NumNodes())
	assert.Equal(t, 0, s.NumEdges())

	na, _ := s.GetNode(a)
	nc, _ := s.GetNode(c)
	assert.Equal(t, 0, na.OutDegree)
	assert.Equal(t, 0, nc.InDegree)
}

func TestStore_RemoveNodeDegreeAccounting(t *testing.T) {
	// property 3: remove_node(u) decreases num_edges by
	// out_degree(u) + in_degree(u) - self-loops at u.
	s := NewStore(0)
	a, b, c := s.AddNode(), s.AddNode(), s.AddNode()
	require.NoError(t, s.AddEdge(a, b, 1)) // out of a
	require.NoError(t, s.AddEdge(c, a, 1)) // in of a
	require.NoError(t, s.AddEdge(a, a, 1)) // self-loop at a

	before := s.NumEdges()
	require.NoError(t, s.RemoveNode(a))
	after := s.NumEdges()

	assert.Equal(t, 3, before-after) // 2 out + 2 in - 1 self-loop counted in both
}

func TestStore_SelfLoopAddRemove(t *testing.T) {
	s := NewStore(0)
	a := s.AddNode()
	require.NoError(t, s.AddEdge(a, a, 3.0))

	na, _ := s.GetNode(a)
	assert.Equal(t, 1, na.OutDegree)
	assert.Equal(t, 1, na.InDegree)
	assert.Equal(t, 1, s.NumEdges())

	require.NoError(t, s.RemoveEdge(a, a))
	na, _ = s.GetNode(a)
	assert.Equal(t, 0, na.OutDegree)
	assert.Equal(t, 0, na.InDegree)
	assert.Equal(t, 0, s.NumEdges())
}

func TestStore_CompactNodes(t *testing.T) {
	s := NewStore(0)
	a, b, c := s.AddNode(), s.AddNode(), s.AddNode()
	require.NoError(t, s.AddEdge(a, c, 1))
	require.NoError(t, s.RemoveNode(b))

	assert.Equal(t, 2, s.NumNodes())
	assert.Equal(t, 3, s.Len())

	s.CompactNodes()

	assert.Equal(t, 2, s.NumNodes())
	assert.Equal(t, 2, s.Len())

	for id := 0; id < s.Len(); id++ {
		_, ok := s.GetNode(id)
		assert.True(t, ok, "id %d should be live after compaction", id)
	}

	// The surviving edge (old a -> old c) should still resolve, now
	// between new indices 0 and 1.
	e, ok := s.GetEdge(0, 1)
	require.True(t, ok)
	assert.Equal(t, 1.0, e.Weight)
}

func TestStore_CompactNodesNoOpWhenDense(t *testing.T) {
	s := NewStore(0)
	s.AddNode()
	s.AddNode()
	s.CompactNodes()
	assert.Equal(t, 2, s.NumNodes())
	assert.Equal(t, 2, s.Len())
}

// findEdge must pick whichever chain is shorter: here dst's in-degree
// (1) is far smaller than src's out-degree (many), so RemoveEdge must
// resolve the edge via dst's incoming chain rather than scanning every
// one of src's outgoing edges.
func TestStore_FindEdgePicksShorterChain(t *testing.T) {
	s := NewStore(0)
	hub := s.AddNode()
	popular := s.AddNode()
	for i := 0; i < 50; i++ {
		leaf := s.AddNode()
		require.NoError(t, s.AddEdge(hub, leaf, 1))
	}
	require.NoError(t, s.AddEdge(hub, popular, 1))

	idx, ok := s.findEdge(hub, popular)
	require.True(t, ok)
	assert.Equal(t, popular, s.edges[idx].dst)

	require.NoError(t, s.RemoveEdge(hub, popular))
	_, ok = s.GetEdge(hub, popular)
	assert.False(t, ok)
}

func TestStore_ForEachOut(t *testing.T) {
	s := NewStore(0)
	a, b, c := s.AddNode(), s.AddNode(), s.AddNode()
	require.NoError(t, s.AddEdge(a, b, 1))
	require.NoError(t, s.AddEdge(a, c, 2))

	got := map[int]float64{}
	s.ForEachOut(a, func(dst int, w float64) { got[dst] = w })
	assert.Equal(t, map[int]float64{b: 1, c: 2}, got)
}
