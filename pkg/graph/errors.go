package graph

import "errors"

// Sentinel errors for the adjacency store and facade layers.
//
// These map to spec section 7's error kinds: NodeExists, NodeMissing,
// EdgeExists, EdgeMissing, UnknownEndpoint, AllocationFailed,
// AttributeMissing, and InvalidInput.
var (
	// ErrNodeExists is returned when adding a node whose name is already
	// registered.
	ErrNodeExists = errors.New("graph: node already exists")

	// ErrNodeMissing is returned when an operation references a node
	// name that is not registered.
	ErrNodeMissing = errors.New("graph: node not found")

	// ErrEdgeExists is returned when adding an edge that already exists
	// between the same ordered endpoint pair.
	ErrEdgeExists = errors.New("graph: edge already exists")

	// ErrEdgeMissing is returned when an operation references an edge
	// that does not exist.
	ErrEdgeMissing = errors.New("graph: edge not found")

	// ErrUnknownEndpoint indicates an internal inconsistency between the
	// name registry and the adjacency store: a name resolved to an index
	// that the adjacency store does not consider live. This should never
	// occur if invariants hold.
	ErrUnknownEndpoint = errors.New("graph: unknown endpoint index")

	// ErrAllocationFailed is returned when the adjacency store cannot
	// grow to accommodate a new node or edge.
	ErrAllocationFailed = errors.New("graph: allocation failed")

	// ErrAttributeMissing is returned when reading an attribute key that
	// was never set on a node or edge.
	ErrAttributeMissing = errors.New("graph: attribute not found")

	// ErrInvalidInput is returned when a caller-supplied distribution
	// (init_score, personalization, or dangling_weight) sums to zero or
	// contains a negative or non-finite value, and therefore cannot be
	// normalized.
	ErrInvalidInput = errors.New("graph: invalid input distribution")
)
