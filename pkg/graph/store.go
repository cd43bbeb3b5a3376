// Package graph implements the named directed multigraph core: a dense
// adjacency store keyed by integer indices (store.go, node.go, edge.go),
// a bidirectional name registry layered over it (registry.go), and a
// name-keyed facade that ties the two together with the PageRank kernel
// (facade.go).
//
// The design follows spec section 4.C's "arena of indices" form: nodes
// and edges live in growable slices, and every edge belongs to two
// doubly linked sibling chains (by source, by destination) so that a
// single edge can be unsplit from both sides in O(1) given its index.
// This generalizes the teacher's map-of-maps adjacency index
// (pkg/storage/memory.go's outgoingEdges/incomingEdges) into an
// index-arena shape, because PageRank's per-iteration neighbor walk
// dominates the workload and benefits from chain locality over repeated
// map probes.
package graph

// Store is the adjacency store: component C of the system overview. It
// owns every node and edge record and exposes the low-level, dense-index
// operations that the name registry and facade build on. A Store never
// reuses a vacated node slot until CompactNodes is called, which is what
// keeps node indices stable across deletions for external callers (e.g.
// the PageRank kernel's dense score vectors).
type Store struct {
	nodes []node
	edges []edge

	freeEdges []int // indices into edges available for reuse

	numNodes int
	numEdges int
}

// NewStore preallocates the node table to capacityHint slots but reports
// NumNodes() == 0; callers may add nodes beyond the hint, which grows the
// underlying slice the same way append would.
func NewStore(capacityHint int) *Store {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Store{
		nodes: make([]node, 0, capacityHint),
		edges: make([]edge, 0, capacityHint),
	}
}

// NumNodes reports the count of live nodes.
func (s *Store) NumNodes() int { return s.numNodes }

// NumEdges reports the count of live edges.
func (s *Store) NumEdges() int { return s.numEdges }

// Len reports the size of the node slot table, which may exceed
// NumNodes() when vacant slots exist. PageRank vectors are sized to Len,
// not NumNodes, so dense index lookups never go out of range.
func (s *Store) Len() int { return len(s.nodes) }

// AddNode appends a new live node to the end of the node table and
// returns its index. It never reuses a vacated slot.
func (s *Store) AddNode() int {
	id := len(s.nodes)
	s.nodes = append(s.nodes, node{
		id:       id,
		live:     true,
		firstOut: noEdge,
		firstIn:  noEdge,
	})
	s.numNodes++
	return id
}

// GetNode returns the node at id, or false if id is out of range or
// vacant.
func (s *Store) GetNode(id int) (Node, bool) {
	if id < 0 || id >= len(s.nodes) || !s.nodes[id].live {
		return Node{}, false
	}
	n := s.nodes[id]
	return Node{ID: n.id, OutDegree: n.outDegree, InDegree: n.inDegree}, true
}

// isLive reports whether id names a live node.
func (s *Store) isLive(id int) bool {
	return id >= 0 && id < len(s.nodes) && s.nodes[id].live
}

// AddEdge validates that both endpoints are live and that no edge
// (src, dst) already exists, then splices a new edge at the head of both
// the src outgoing chain and the dst incoming chain.
//
// Complexity: O(min(out-degree of src, in-degree of dst)) for the
// duplicate check.
func (s *Store) AddEdge(src, dst int, weight float64) error {
	if !s.isLive(src) || !s.isLive(dst) {
		return ErrUnknownEndpoint
	}
	if _, ok := s.findEdge(src, dst); ok {
		return ErrEdgeExists
	}

	idx := s.allocEdge()
	e := &s.edges[idx]
	e.src, e.dst, e.weight = src, dst, weight

	e.prevSameSrc = noEdge
	e.nextSameSrc = s.nodes[src].firstOut
	if e.nextSameSrc != noEdge {
		s.edges[e.nextSameSrc].prevSameSrc = idx
	}
	s.nodes[src].firstOut = idx
	s.nodes[src].outDegree++

	e.prevSameDst = noEdge
	e.nextSameDst = s.nodes[dst].firstIn
	if e.nextSameDst != noEdge {
		s.edges[e.nextSameDst].prevSameDst = idx
	}
	s.nodes[dst].firstIn = idx
	s.nodes[dst].inDegree++

	s.numEdges++
	return nil
}

// GetEdge locates the edge from src to dst.
//
// Complexity: O(min(out-degree of src, in-degree of dst)).
func (s *Store) GetEdge(src, dst int) (Edge, bool) {
	idx, ok := s.findEdge(src, dst)
	if !ok {
		return Edge{}, false
	}
	e := s.edges[idx]
	return Edge{Src: e.src, Dst: e.dst, Weight: e.weight}, true
}

// SetWeight updates the cached weight of an existing edge.
func (s *Store) SetWeight(src, dst int, weight float64) error {
	idx, ok := s.findEdge(src, dst)
	if !ok {
		return ErrEdgeMissing
	}
	s.edges[idx].weight = weight
	return nil
}

// RemoveEdge locates the edge by walking the shorter of src's outgoing
// chain and dst's incoming chain, unsplices it from both chains, and
// frees the slot.
func (s *Store) RemoveEdge(src, dst int) error {
	if !s.isLive(src) || !s.isLive(dst) {
		return ErrEdgeMissing
	}
	idx, ok := s.findEdge(src, dst)
	if !ok {
		return ErrEdgeMissing
	}
	s.unspliceOutgoing(src, idx)
	s.unspliceIncoming(dst, idx)
	s.nodes[src].outDegree--
	s.nodes[dst].inDegree--
	s.freeEdge(idx)
	s.numEdges--
	return nil
}

// RemoveNode walks the node's outgoing chain, unsplicing each edge from
// its destination's incoming chain and freeing it, then does the
// symmetric walk over the incoming chain. Self-loops (src == dst == id)
// are freed exactly once, during the outgoing-chain pass.
func (s *Store) RemoveNode(id int) error {
	if !s.isLive(id) {
		return ErrNodeMissing
	}

	e := s.nodes[id].firstOut
	for e != noEdge {
		next := s.edges[e].nextSameSrc
		dst := s.edges[e].dst
		if dst != id {
			s.unspliceIncoming(dst, e)
			s.nodes[dst].inDegree--
		}
		s.freeEdge(e)
		s.numEdges--
		e = next
	}
	s.nodes[id].firstOut = noEdge
	s.nodes[id].outDegree = 0

	e = s.nodes[id].firstIn
	for e != noEdge {
		next := s.edges[e].nextSameDst
		src := s.edges[e].src
		if src != id {
			s.unspliceOutgoing(src, e)
			s.nodes[src].outDegree--
			s.freeEdge(e)
			s.numEdges--
		}
		e = next
	}
	s.nodes[id].firstIn = noEdge
	s.nodes[id].inDegree = 0

	s.nodes[id].live = false
	s.numNodes--
	return nil
}

// CompactNodes rewrites the node table so that live nodes occupy indices
// 0..NumNodes()-1, preserving their relative order, and rewrites every
// edge's src/dst fields to match. It is a no-op if no vacant slots exist.
//
// Compaction invalidates any index a caller holds from before the call;
// the name registry must be rebuilt afterward (see registry.reindex).
func (s *Store) CompactNodes() {
	if s.numNodes == len(s.nodes) {
		return
	}

	oldToNew := make([]int, len(s.nodes))
	newNodes := make([]node, 0, s.numNodes)
	for oldIdx := range s.nodes {
		if !s.nodes[oldIdx].live {
			oldToNew[oldIdx] = -1
			continue
		}
		newIdx := len(newNodes)
		oldToNew[oldIdx] = newIdx
		n := s.nodes[oldIdx]
		n.id = newIdx
		newNodes = append(newNodes, n)
	}

	// Every live edge appears in exactly one outgoing chain (invariant
	// 2), so walking each live node's outgoing chain visits every live
	// edge exactly once.
	for _, newIdx := range oldToNew {
		if newIdx == -1 {
			continue
		}
		e := newNodes[newIdx].firstOut
		for e != noEdge {
			ed := &s.edges[e]
			ed.dst = oldToNew[ed.dst]
			ed.src = newIdx
			e = ed.nextSameSrc
		}
	}

	s.nodes = newNodes
}

// findEdge locates the edge from src to dst, walking whichever of src's
// outgoing chain or dst's incoming chain is shorter.
//
// Complexity: O(min(out-degree of src, in-degree of dst)).
func (s *Store) findEdge(src, dst int) (int, bool) {
	if !s.isLive(src) || !s.isLive(dst) {
		return 0, false
	}
	if s.nodes[src].outDegree <= s.nodes[dst].inDegree {
		return s.findEdgeByOut(src, dst)
	}
	return s.findEdgeByIn(src, dst)
}

func (s *Store) findEdgeByOut(src, dst int) (int, bool) {
	for e := s.nodes[src].firstOut; e != noEdge; e = s.edges[e].nextSameSrc {
		if s.edges[e].dst == dst {
			return e, true
		}
	}
	return 0, false
}

func (s *Store) findEdgeByIn(src, dst int) (int, bool) {
	for e := s.nodes[dst].firstIn; e != noEdge; e = s.edges[e].nextSameDst {
		if s.edges[e].src == src {
			return e, true
		}
	}
	return 0, false
}

func (s *Store) allocEdge() int {
	if n := len(s.freeEdges); n > 0 {
		idx := s.freeEdges[n-1]
		s.freeEdges = s.freeEdges[:n-1]
		return idx
	}
	s.edges = append(s.edges, edge{})
	return len(s.edges) - 1
}

func (s *Store) freeEdge(idx int) {
	s.freeEdges = append(s.freeEdges, idx)
}

func (s *Store) unspliceOutgoing(u, idx int) {
	e := &s.edges[idx]
	if e.prevSameSrc == noEdge {
		s.nodes[u].firstOut = e.nextSameSrc
	} else {
		s.edges[e.prevSameSrc].nextSameSrc = e.nextSameSrc
	}
	if e.nextSameSrc != noEdge {
		s.edges[e.nextSameSrc].prevSameSrc = e.prevSameSrc
	}
}

func (s *Store) unspliceIncoming(v, idx int) {
	e := &s.edges[idx]
	if e.prevSameDst == noEdge {
		s.nodes[v].firstIn = e.nextSameDst
	} else {
		s.edges[e.prevSameDst].nextSameDst = e.nextSameDst
	}
	if e.nextSameDst != noEdge {
		s.edges[e.nextSameDst].prevSameDst = e.prevSameDst
	}
}

// OutEdges returns the destinations and weights of id's outgoing edges,
// in chain (most-recently-added-first) order.
func (s *Store) OutEdges(id int) []Edge {
	if !s.isLive(id) {
		return nil
	}
	out := make([]Edge, 0, s.nodes[id].outDegree)
	for e := s.nodes[id].firstOut; e != noEdge; e = s.edges[e].nextSameSrc {
		out = append(out, Edge{Src: s.edges[e].src, Dst: s.edges[e].dst, Weight: s.edges[e].weight})
	}
	return out
}

// InEdges returns the sources and weights of id's incoming edges, in
// chain (most-recently-added-first) order.
func (s *Store) InEdges(id int) []Edge {
	if !s.isLive(id) {
		return nil
	}
	in := make([]Edge, 0, s.nodes[id].inDegree)
	for e := s.nodes[id].firstIn; e != noEdge; e = s.edges[e].nextSameDst {
		in = append(in, Edge{Src: s.edges[e].src, Dst: s.edges[e].dst, Weight: s.edges[e].weight})
	}
	return in
}

// ForEachOut walks u's outgoing chain, invoking fn for each (dst,
// weight) pair. It is the low-level primitive the PageRank kernel
// iterates over; it takes only primitive arguments so that pkg/pagerank
// can declare a narrow consumer interface without importing this
// package.
func (s *Store) ForEachOut(u int, fn func(dst int, weight float64)) {
	if !s.isLive(u) {
		return
	}
	for e := s.nodes[u].firstOut; e != noEdge; e = s.edges[e].nextSameSrc {
		fn(s.edges[e].dst, s.edges[e].weight)
	}
}
