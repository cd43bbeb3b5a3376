package graph

import (
	"fmt"
	"math"
	"strconv"

	"github.com/orneryd/pagegraph/pkg/pagerank"
)

// Graph is the facade: component F. It exposes the name-keyed graph API
// (spec section 6) by routing every request through the name registry to
// dense indices, which the adjacency Store then manipulates.
//
// Attribute storage is an out-of-core concern the Store neither reads
// nor requires (spec section 1); Graph owns it directly as plain
// attribute maps, mirroring pkg/storage/memory.go's deep-copy-on-read
// discipline for user-supplied property maps.
type Graph struct {
	store    *Store
	registry *registry

	nodeAttrs map[string]map[string]interface{}
	edgeAttrs map[edgeKey]map[string]interface{}
}

// NodeHandle is a read-only view of a node returned by GetNode,
// carrying its name and a copy of its attributes.
type NodeHandle struct {
	Name  string
	Attrs map[string]interface{}
}

// EdgeHandle is a read-only view of an edge returned by GetEdge,
// carrying both endpoint names, the cached weight, and a copy of its
// attributes.
type EdgeHandle struct {
	Src, Dst string
	Weight   float64
	Attrs    map[string]interface{}
}

// EdgeSpec describes an edge to add or update: endpoints by name plus an
// optional attribute map. Weight defaults to 0.0 when the "weight" key
// is absent from Attrs; non-float values under "weight" are coerced to
// float64.
type EdgeSpec struct {
	Src, Dst string
	Attrs    map[string]interface{}
}

// NewGraph creates an empty Graph. capacityHint is forwarded to the
// adjacency store as a preallocation hint; it does not bound how many
// nodes may be added.
func NewGraph(capacityHint int) *Graph {
	return &Graph{
		store:     NewStore(capacityHint),
		registry:  newRegistry(),
		nodeAttrs: make(map[string]map[string]interface{}),
		edgeAttrs: make(map[edgeKey]map[string]interface{}),
	}
}

// AddNode registers name with the given attributes. Fails with
// ErrNodeExists if name is already registered.
func (g *Graph) AddNode(name string, attrs map[string]interface{}) error {
	if g.registry.hasNode(name) {
		return ErrNodeExists
	}
	idx := g.store.AddNode()
	g.registry.bind(name, idx)
	g.nodeAttrs[name] = cloneAttrs(attrs)
	return nil
}

// AddNodesFrom adds each named node in order, collecting one error per
// input (nil on success). A failure on one entry does not prevent the
// rest from being attempted.
func (g *Graph) AddNodesFrom(names []string) []error {
	errs := make([]error, len(names))
	for i, name := range names {
		errs[i] = g.AddNode(name, nil)
	}
	return errs
}

// AddEdge adds an edge between spec.Src and spec.Dst, auto-creating
// either endpoint (with empty attributes) if it does not already exist.
// Fails with ErrEdgeExists if the ordered pair already has an edge.
func (g *Graph) AddEdge(spec EdgeSpec) error {
	if g.registry.hasEdge(spec.Src, spec.Dst) {
		return ErrEdgeExists
	}

	srcIdx, ok := g.registry.indexOf(spec.Src)
	if !ok {
		srcIdx = g.store.AddNode()
		g.registry.bind(spec.Src, srcIdx)
		g.nodeAttrs[spec.Src] = make(map[string]interface{})
	}
	dstIdx, ok := g.registry.indexOf(spec.Dst)
	if !ok {
		dstIdx = g.store.AddNode()
		g.registry.bind(spec.Dst, dstIdx)
		g.nodeAttrs[spec.Dst] = make(map[string]interface{})
	}

	weight := coerceWeight(spec.Attrs)
	if err := g.store.AddEdge(srcIdx, dstIdx, weight); err != nil {
		return err
	}
	g.registry.addEdge(spec.Src, spec.Dst)
	g.edgeAttrs[edgeKey{spec.Src, spec.Dst}] = cloneAttrs(spec.Attrs)
	return nil
}

// AddEdgesFrom adds each edge spec in order, collecting one error per
// input (nil on success).
func (g *Graph) AddEdgesFrom(specs []EdgeSpec) []error {
	errs := make([]error, len(specs))
	for i, spec := range specs {
		errs[i] = g.AddEdge(spec)
	}
	return errs
}

// UpdateNode replaces name's attribute map. Fails with ErrNodeMissing if
// name is not registered.
func (g *Graph) UpdateNode(name string, attrs map[string]interface{}) error {
	if !g.registry.hasNode(name) {
		return ErrNodeMissing
	}
	g.nodeAttrs[name] = cloneAttrs(attrs)
	return nil
}

// UpdateEdge replaces an edge's attribute map and updates its cached
// weight in the adjacency store. Fails with ErrEdgeMissing if the edge
// does not exist.
func (g *Graph) UpdateEdge(spec EdgeSpec) error {
	if !g.registry.hasEdge(spec.Src, spec.Dst) {
		return ErrEdgeMissing
	}
	srcIdx, _ := g.registry.indexOf(spec.Src)
	dstIdx, _ := g.registry.indexOf(spec.Dst)
	weight := coerceWeight(spec.Attrs)
	if err := g.store.SetWeight(srcIdx, dstIdx, weight); err != nil {
		return err
	}
	g.edgeAttrs[edgeKey{spec.Src, spec.Dst}] = cloneAttrs(spec.Attrs)
	return nil
}

// RemoveNode removes name and cascades to every edge incident to it.
// Fails with ErrNodeMissing if name is not registered.
func (g *Graph) RemoveNode(name string) error {
	idx, ok := g.registry.indexOf(name)
	if !ok {
		return ErrNodeMissing
	}
	if err := g.store.RemoveNode(idx); err != nil {
		return err
	}
	g.registry.unbind(name, idx)
	g.registry.removeEdgesOf(name)
	delete(g.nodeAttrs, name)
	for k := range g.edgeAttrs {
		if k.src == name || k.dst == name {
			delete(g.edgeAttrs, k)
		}
	}
	return nil
}

// RemoveEdge removes the edge from src to dst. Fails with
// ErrEdgeMissing if it does not exist.
func (g *Graph) RemoveEdge(src, dst string) error {
	srcIdx, ok1 := g.registry.indexOf(src)
	dstIdx, ok2 := g.registry.indexOf(dst)
	if !ok1 || !ok2 || !g.registry.hasEdge(src, dst) {
		return ErrEdgeMissing
	}
	if err := g.store.RemoveEdge(srcIdx, dstIdx); err != nil {
		return err
	}
	g.registry.removeEdge(src, dst)
	delete(g.edgeAttrs, edgeKey{src, dst})
	return nil
}

// GetNode returns a handle carrying name's attributes. Fails with
// ErrNodeMissing if name is not registered.
func (g *Graph) GetNode(name string) (NodeHandle, error) {
	if !g.registry.hasNode(name) {
		return NodeHandle{}, ErrNodeMissing
	}
	return NodeHandle{Name: name, Attrs: cloneAttrs(g.nodeAttrs[name])}, nil
}

// GetEdge returns a handle carrying the edge's cached weight and
// attributes. Fails with ErrEdgeMissing if the edge does not exist.
func (g *Graph) GetEdge(src, dst string) (EdgeHandle, error) {
	srcIdx, ok1 := g.registry.indexOf(src)
	dstIdx, ok2 := g.registry.indexOf(dst)
	if !ok1 || !ok2 {
		return EdgeHandle{}, ErrEdgeMissing
	}
	e, ok := g.store.GetEdge(srcIdx, dstIdx)
	if !ok {
		return EdgeHandle{}, ErrEdgeMissing
	}
	return EdgeHandle{
		Src: src, Dst: dst, Weight: e.Weight,
		Attrs: cloneAttrs(g.edgeAttrs[edgeKey{src, dst}]),
	}, nil
}

// GetNodeAttr reads a single attribute of name by key. Fails with
// ErrNodeMissing if name is not registered, or ErrAttributeMissing if
// key was never set on it.
func (g *Graph) GetNodeAttr(name, key string) (interface{}, error) {
	if !g.registry.hasNode(name) {
		return nil, ErrNodeMissing
	}
	v, ok := g.nodeAttrs[name][key]
	if !ok {
		return nil, ErrAttributeMissing
	}
	return v, nil
}

// GetEdgeAttr reads a single attribute of the edge (src, dst) by key.
// Fails with ErrEdgeMissing if the edge does not exist, or
// ErrAttributeMissing if key was never set on it.
func (g *Graph) GetEdgeAttr(src, dst, key string) (interface{}, error) {
	if !g.registry.hasEdge(src, dst) {
		return nil, ErrEdgeMissing
	}
	v, ok := g.edgeAttrs[edgeKey{src, dst}][key]
	if !ok {
		return nil, ErrAttributeMissing
	}
	return v, nil
}

// Contains reports whether name is a registered node.
func (g *Graph) Contains(name string) bool { return g.registry.hasNode(name) }

// ContainsEdge reports whether an edge from src to dst exists.
func (g *Graph) ContainsEdge(src, dst string) bool { return g.registry.hasEdge(src, dst) }

// NodeList returns every registered node name, in no particular order.
func (g *Graph) NodeList() []string { return g.registry.names() }

// EdgeList returns every edge as an (src, dst) pair, in no particular
// order.
func (g *Graph) EdgeList() []EdgeSpec {
	out := make([]EdgeSpec, 0, len(g.registry.edges))
	for k := range g.registry.edges {
		out = append(out, EdgeSpec{Src: k.src, Dst: k.dst})
	}
	return out
}

// CompactNodeArray compacts the underlying adjacency store's node table
// and rebuilds the name registry to match, per spec section 4.D.
func (g *Graph) CompactNodeArray() {
	g.store.CompactNodes()
	g.registry.reindex()
}

// Clear discards every node, edge, and attribute, returning the Graph to
// its state immediately after NewGraph.
func (g *Graph) Clear() {
	g.store = NewStore(0)
	g.registry = newRegistry()
	g.nodeAttrs = make(map[string]map[string]interface{})
	g.edgeAttrs = make(map[edgeKey]map[string]interface{})
}

// RunPageRankOptions configures RunPageRank, mirroring spec section
// 4.F's entry point.
type RunPageRankOptions struct {
	// InitScore is the initial score distribution, keyed by node name.
	// Nil defaults to uniform over the node slot count.
	InitScore map[string]float64
	// Personalization is the teleport distribution, keyed by node name.
	// Nil defaults to uniform.
	Personalization map[string]float64
	// DanglingWeight is the dangling-mass redistribution, keyed by node
	// name. Nil copies Personalization.
	DanglingWeight map[string]float64
	// Alpha is the damping factor, in (0, 1). Nil selects the default of
	// 0.85; an explicit 0 is honored as-is, per spec section 8's
	// property 8 (alpha=0 must return personalization exactly).
	Alpha *float64
	// MaxIter bounds the number of power-iteration steps. Nil selects
	// the default of 100.
	MaxIter *int
	// Tol is the L1 convergence threshold, scaled by node count. Nil
	// selects the default of 1e-6.
	Tol *float64
}

// RunPageRank compacts the graph if necessary, translates name-keyed
// input distributions into dense vectors sized to the node slot count,
// invokes the PageRank kernel, and maps the result back to
// {name: score}.
func (g *Graph) RunPageRank(opts RunPageRankOptions) (map[string]float64, error) {
	g.CompactNodeArray()

	n := g.store.Len()
	if n == 0 {
		return map[string]float64{}, nil
	}

	init, err := g.buildVector(opts.InitScore, n, true)
	if err != nil {
		return nil, fmt.Errorf("run_pagerank: init_score: %w", err)
	}
	personalization, err := g.buildVector(opts.Personalization, n, true)
	if err != nil {
		return nil, fmt.Errorf("run_pagerank: personalization: %w", err)
	}

	var dangling []float64
	if opts.DanglingWeight == nil {
		dangling = append([]float64(nil), personalization...)
	} else {
		dangling, err = g.buildVector(opts.DanglingWeight, n, true)
		if err != nil {
			return nil, fmt.Errorf("run_pagerank: dangling_weight: %w", err)
		}
	}

	alpha := 0.85
	if opts.Alpha != nil {
		alpha = *opts.Alpha
	}
	maxIter := 100
	if opts.MaxIter != nil {
		maxIter = *opts.MaxIter
	}
	tol := 1e-6
	if opts.Tol != nil {
		tol = *opts.Tol
	}

	result := pagerank.Run(g.store, init, personalization, dangling, alpha, maxIter, tol)

	out := make(map[string]float64, len(g.registry.name2idx))
	for idx, score := range result.Scores {
		if name, ok := g.registry.nameOf(idx); ok {
			out[name] = score
		}
	}
	return out, nil
}

// buildVector translates a name-keyed distribution into a dense vector
// of length n, normalizing by the sum of provided values. A nil input
// defaults to uniform. Names absent from the registry are ignored;
// registered names absent from the input default to zero, per spec
// section 9's open question on sparse init_score.
func (g *Graph) buildVector(dist map[string]float64, n int, allowUniform bool) ([]float64, error) {
	vec := make([]float64, n)
	if dist == nil {
		if allowUniform {
			u := 1.0 / float64(n)
			for i := range vec {
				vec[i] = u
			}
		}
		return vec, nil
	}

	sum := 0.0
	for name, v := range dist {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrInvalidInput
		}
		sum += v
		if idx, ok := g.registry.indexOf(name); ok {
			vec[idx] = v
		}
	}
	if sum <= 0 {
		return nil, ErrInvalidInput
	}
	for i := range vec {
		vec[i] /= sum
	}
	return vec, nil
}

func cloneAttrs(attrs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// coerceWeight extracts and coerces the "weight" attribute to float64,
// defaulting to 0.0 when absent or uncoercible.
func coerceWeight(attrs map[string]interface{}) float64 {
	raw, ok := attrs["weight"]
	if !ok {
		return 0.0
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0.0
		}
		return f
	default:
		return 0.0
	}
}
