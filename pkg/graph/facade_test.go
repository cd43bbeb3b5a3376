package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddEdgeAutoCreatesEndpoints(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B", Attrs: map[string]interface{}{"weight": 1.0}}))

	assert.True(t, g.Contains("A"))
	assert.True(t, g.Contains("B"))
	assert.True(t, g.ContainsEdge("A", "B"))
}

// S3: add_edge(A,B) twice raises EdgeExists; graph state is identical to
// after the first call.
func TestGraph_S3_DuplicateEdgeRejected(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B"}))

	err := g.AddEdge(EdgeSpec{Src: "A", Dst: "B", Attrs: map[string]interface{}{"weight": 99.0}})
	assert.ErrorIs(t, err, ErrEdgeExists)

	eh, err := g.GetEdge("A", "B")
	require.NoError(t, err)
	assert.Equal(t, 0.0, eh.Weight) // unchanged from first call (weight defaults to 0)
	assert.Len(t, g.NodeList(), 2)
	assert.Len(t, g.EdgeList(), 1)
}

// S4: build {A->B, B->C}, then remove_node(B) -> node list is [A, C],
// edge list is empty, num_edges == 0.
func TestGraph_S4_RemoveNodeCascades(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B"}))
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "B", Dst: "C"}))

	require.NoError(t, g.RemoveNode("B"))

	names := g.NodeList()
	assert.ElementsMatch(t, []string{"A", "C"}, names)
	assert.Empty(t, g.EdgeList())
	assert.Equal(t, 0, g.store.NumEdges())
	assert.False(t, g.Contains("B"))
	assert.False(t, g.ContainsEdge("A", "B"))
	assert.False(t, g.ContainsEdge("B", "C"))
}

func TestGraph_RemoveMissingFails(t *testing.T) {
	g := NewGraph(0)
	assert.ErrorIs(t, g.RemoveNode("ghost"), ErrNodeMissing)
	assert.ErrorIs(t, g.RemoveEdge("a", "b"), ErrEdgeMissing)
}

func TestGraph_UpdateNodeAndEdge(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddNode("A", map[string]interface{}{"count": 1}))
	require.NoError(t, g.UpdateNode("A", map[string]interface{}{"count": 2}))

	nh, err := g.GetNode("A")
	require.NoError(t, err)
	assert.Equal(t, 2, nh.Attrs["count"])

	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B"}))
	require.NoError(t, g.UpdateEdge(EdgeSpec{Src: "A", Dst: "B", Attrs: map[string]interface{}{"weight": 5.0}}))

	eh, err := g.GetEdge("A", "B")
	require.NoError(t, err)
	assert.Equal(t, 5.0, eh.Weight)

	assert.ErrorIs(t, g.UpdateNode("ghost", nil), ErrNodeMissing)
	assert.ErrorIs(t, g.UpdateEdge(EdgeSpec{Src: "ghost", Dst: "B"}), ErrEdgeMissing)
}

func TestGraph_GetNodeAttrAndGetEdgeAttr(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddNode("A", map[string]interface{}{"count": 3}))
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B", Attrs: map[string]interface{}{"weight": 2.5, "label": "e1"}}))

	v, err := g.GetNodeAttr("A", "count")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = g.GetNodeAttr("A", "missing")
	assert.ErrorIs(t, err, ErrAttributeMissing)

	_, err = g.GetNodeAttr("ghost", "count")
	assert.ErrorIs(t, err, ErrNodeMissing)

	v, err = g.GetEdgeAttr("A", "B", "label")
	require.NoError(t, err)
	assert.Equal(t, "e1", v)

	_, err = g.GetEdgeAttr("A", "B", "missing")
	assert.ErrorIs(t, err, ErrAttributeMissing)

	_, err = g.GetEdgeAttr("A", "ghost", "label")
	assert.ErrorIs(t, err, ErrEdgeMissing)
}

func TestGraph_CompactNodeArrayRebindsNames(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddNode("A", nil))
	require.NoError(t, g.AddNode("B", nil))
	require.NoError(t, g.AddNode("C", nil))
	require.NoError(t, g.RemoveNode("B"))

	g.CompactNodeArray()

	assert.Equal(t, 2, g.store.Len())
	idxA, _ := g.registry.indexOf("A")
	idxC, _ := g.registry.indexOf("C")
	assert.ElementsMatch(t, []int{0, 1}, []int{idxA, idxC})
}

func TestGraph_Clear(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B"}))
	g.Clear()
	assert.Empty(t, g.NodeList())
	assert.Empty(t, g.EdgeList())
}

// S1: three-cycle, uniform defaults, alpha=0.85 -> each node's score is
// 1/3 +/- 1e-6.
func TestGraph_S1_ThreeCycleUniformScores(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B", Attrs: map[string]interface{}{"weight": 1.0}}))
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "B", Dst: "C", Attrs: map[string]interface{}{"weight": 1.0}}))
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "C", Dst: "A", Attrs: map[string]interface{}{"weight": 1.0}}))

	scores, err := g.RunPageRank(RunPageRankOptions{Alpha: floatPtr(0.85), MaxIter: intPtr(1000), Tol: floatPtr(1e-9)})
	require.NoError(t, err)

	for _, name := range []string{"A", "B", "C"} {
		assert.InDelta(t, 1.0/3.0, scores[name], 1e-6)
	}
}

// S2: star-in hub <- leaf1, leaf2, leaf3, weights 1, uniform defaults ->
// hub's score exceeds each leaf's; leaves tie.
func TestGraph_S2_StarInHubDominates(t *testing.T) {
	g := NewGraph(0)
	for _, leaf := range []string{"leaf1", "leaf2", "leaf3"} {
		require.NoError(t, g.AddEdge(EdgeSpec{Src: leaf, Dst: "hub", Attrs: map[string]interface{}{"weight": 1.0}}))
	}

	scores, err := g.RunPageRank(RunPageRankOptions{Alpha: floatPtr(0.85), MaxIter: intPtr(1000), Tol: floatPtr(1e-9)})
	require.NoError(t, err)

	for _, leaf := range []string{"leaf1", "leaf2", "leaf3"} {
		assert.Greater(t, scores["hub"], scores[leaf])
	}
	assert.InDelta(t, scores["leaf1"], scores["leaf2"], 1e-9)
	assert.InDelta(t, scores["leaf2"], scores["leaf3"], 1e-9)
}

// S5: A->B->C->A plus isolated D; personalization = {D: 1}, alpha=0.85.
// D receives mass >= 0.15 (the teleport floor: (1-alpha)*personalization).
func TestGraph_S5_IsolatedPersonalizedNode(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B", Attrs: map[string]interface{}{"weight": 1.0}}))
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "B", Dst: "C", Attrs: map[string]interface{}{"weight": 1.0}}))
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "C", Dst: "A", Attrs: map[string]interface{}{"weight": 1.0}}))
	require.NoError(t, g.AddNode("D", nil))

	scores, err := g.RunPageRank(RunPageRankOptions{
		Personalization: map[string]float64{"D": 1},
		Alpha:           floatPtr(0.85),
		MaxIter:         intPtr(1000),
		Tol:             floatPtr(1e-9),
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, scores["D"], 0.15-1e-9)
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

// Property 8: personalization point mass at k, alpha=0 returns exactly
// personalization regardless of structure.
func TestGraph_AlphaZeroReturnsPersonalizationExactly(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B", Attrs: map[string]interface{}{"weight": 1.0}}))
	require.NoError(t, g.AddNode("C", nil))

	scores, err := g.RunPageRank(RunPageRankOptions{
		Personalization: map[string]float64{"B": 1},
		Alpha:           floatPtr(0),
		MaxIter:         intPtr(1),
		Tol:             floatPtr(1e-12),
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, scores["B"], 1e-6)
	assert.InDelta(t, 0.0, scores["A"], 1e-6)
	assert.InDelta(t, 0.0, scores["C"], 1e-6)
}

func TestGraph_InvalidInputZeroSumRejected(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B"}))

	_, err := g.RunPageRank(RunPageRankOptions{
		DanglingWeight: map[string]float64{},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// An entirely zero-valued RunPageRankOptions (all pointer fields nil)
// must still fall back to the documented defaults rather than running
// with alpha=0, max_iter=0, tol=0.
func TestGraph_ZeroValueOptionsUseDefaults(t *testing.T) {
	g := NewGraph(0)
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "A", Dst: "B", Attrs: map[string]interface{}{"weight": 1.0}}))
	require.NoError(t, g.AddEdge(EdgeSpec{Src: "B", Dst: "A", Attrs: map[string]interface{}{"weight": 1.0}}))

	scores, err := g.RunPageRank(RunPageRankOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, scores["A"], 1e-6)
	assert.InDelta(t, 0.5, scores["B"], 1e-6)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
