package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_ReindexMatchesCompactionOrder(t *testing.T) {
	r := newRegistry()
	r.bind("a", 0)
	r.bind("b", 1)
	r.bind("c", 2)

	// Simulate "b" having been removed from the store, so its old index
	// 1 is vacant; compaction would renumber a:0->0, c:2->1.
	delete(r.name2idx, "b")
	delete(r.idx2name, 1)

	r.reindex()

	idx, ok := r.indexOf("a")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = r.indexOf("c")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	name, ok := r.nameOf(1)
	assert.True(t, ok)
	assert.Equal(t, "c", name)
}
