package graph

// edge is a slot in the adjacency store's edge arena. Every live edge
// belongs to exactly two doubly linked chains: one over all edges
// sharing Src (threaded by prevSameSrc/nextSameSrc), one over all edges
// sharing Dst (threaded by prevSameDst/nextSameDst).
//
// Removed edges are not zeroed; their slot is pushed onto the store's
// free list and its fields are overwritten the next time the slot is
// reused. A freed slot is never read after reuse; RemoveNode's
// incoming-chain pass does step over a self-loop freed earlier in the
// same call, before any slot can be reallocated.
type edge struct {
	src, dst int
	weight   float64

	prevSameSrc, nextSameSrc int
	prevSameDst, nextSameDst int
}

// Edge is the read-only view of an edge returned to callers of Store.
type Edge struct {
	Src    int
	Dst    int
	Weight float64
}
