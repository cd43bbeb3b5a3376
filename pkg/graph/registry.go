package graph

import "sort"

// edgeKey identifies an edge by its endpoint names rather than by dense
// index, so the registry can answer existence queries without touching
// the adjacency store.
type edgeKey struct {
	src, dst string
}

// registry is the name registry: component D. It maintains name2idx and
// idx2name (a bidirectional name/index mapping) and edges (a mirror of
// edge existence keyed by endpoint name pairs), kept in sync with the
// adjacency store by rejecting duplicate adds and missing removes
// before any Store mutation happens — the same discipline
// pkg/storage/memory.go uses for its label and edge indexes.
type registry struct {
	name2idx map[string]int
	idx2name map[int]string
	edges    map[edgeKey]struct{}
}

func newRegistry() *registry {
	return &registry{
		name2idx: make(map[string]int),
		idx2name: make(map[int]string),
		edges:    make(map[edgeKey]struct{}),
	}
}

func (r *registry) hasNode(name string) bool {
	_, ok := r.name2idx[name]
	return ok
}

func (r *registry) indexOf(name string) (int, bool) {
	idx, ok := r.name2idx[name]
	return idx, ok
}

func (r *registry) nameOf(idx int) (string, bool) {
	name, ok := r.idx2name[idx]
	return name, ok
}

func (r *registry) bind(name string, idx int) {
	r.name2idx[name] = idx
	r.idx2name[idx] = name
}

func (r *registry) unbind(name string, idx int) {
	delete(r.name2idx, name)
	delete(r.idx2name, idx)
}

func (r *registry) hasEdge(src, dst string) bool {
	_, ok := r.edges[edgeKey{src, dst}]
	return ok
}

func (r *registry) addEdge(src, dst string) {
	r.edges[edgeKey{src, dst}] = struct{}{}
}

func (r *registry) removeEdge(src, dst string) {
	delete(r.edges, edgeKey{src, dst})
}

// removeEdgesOf drops every recorded edge touching name, in either
// direction, mirroring the cascade that Store.RemoveNode performs.
func (r *registry) removeEdgesOf(name string) {
	for k := range r.edges {
		if k.src == name || k.dst == name {
			delete(r.edges, k)
		}
	}
}

// names returns every registered node name.
func (r *registry) names() []string {
	out := make([]string, 0, len(r.name2idx))
	for name := range r.name2idx {
		out = append(out, name)
	}
	return out
}

// reindex rebuilds name2idx/idx2name after a Store.CompactNodes call, by
// sorting (name, oldIndex) pairs by oldIndex ascending and reassigning
// indices 0..n-1 in that order — the same order compaction itself uses,
// so names end up bound to their new indices without consulting the
// adjacency store again.
func (r *registry) reindex() {
	type pair struct {
		name string
		old  int
	}
	pairs := make([]pair, 0, len(r.name2idx))
	for name, idx := range r.name2idx {
		pairs = append(pairs, pair{name, idx})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].old < pairs[j].old })

	r.name2idx = make(map[string]int, len(pairs))
	r.idx2name = make(map[int]string, len(pairs))
	for newIdx, p := range pairs {
		r.name2idx[p.name] = newIdx
		r.idx2name[newIdx] = p.name
	}
}
