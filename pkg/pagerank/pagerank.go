// Package pagerank implements the personalization- and dangling-aware
// power iteration described in spec section 4.E: the PageRank kernel,
// component E of the system overview.
//
// The kernel operates on a dense index space (0..N-1, assumed compacted
// by the caller) and never imports pkg/graph; it depends only on the
// narrow Adjacency interface below, which *graph.Store satisfies
// structurally. This keeps the dependency arrow pointing one way
// (pkg/graph imports pkg/pagerank to run it, not the reverse).
//
// Grounded on apoc/algo/algo.go's PageRank (teleport-plus-dangling
// precomputed once per iteration, then a neighbor pass) and on
// other_examples' sixafter-graph PageRank implementation, which is the
// primary model for the dangling/personalization/L1-convergence
// mechanics the teacher's placeholder version does not implement.
package pagerank

import "math"

// Adjacency is the minimal view of a graph the kernel needs: its node
// count and, for any node, its outgoing (destination, weight) pairs.
type Adjacency interface {
	// Len reports the size of the dense index space, 0..Len()-1.
	Len() int
	// ForEachOut invokes fn once per outgoing edge of u.
	ForEachOut(u int, fn func(dst int, weight float64))
}

// Result is the outcome of a Run call. Scores is always populated, even
// when the iteration did not converge within MaxIter; spec section 9
// notes this is the intended behavior ("the source silently returns the
// last iterate"), with Converged/Iterations offered as an optional
// observability hook that does not change that behavior.
type Result struct {
	Scores     []float64
	Converged  bool
	Iterations int
}

// Run executes the power iteration described in spec section 4.E.
//
// init, personalization, and dangling must each be componentwise
// non-negative, sum-normalized to 1, and of length g.Len(). alpha is the
// damping factor in (0, 1). The iteration stops when the L1 distance
// between successive iterates, scaled by N, falls below tol, or after
// maxIter iterations — whichever comes first.
func Run(g Adjacency, init, personalization, dangling []float64, alpha float64, maxIter int, tol float64) Result {
	n := g.Len()
	if n == 0 {
		return Result{Scores: []float64{}, Converged: true}
	}

	outWeightSum := make([]float64, n)
	dangleIdx := make([]bool, n)
	for u := 0; u < n; u++ {
		sum := 0.0
		g.ForEachOut(u, func(_ int, w float64) { sum += w })
		outWeightSum[u] = sum
		dangleIdx[u] = sum == 0
	}

	r := make([]float64, n)
	copy(r, init)

	next := make([]float64, n)
	converged := false
	iterations := 0

	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1

		danglingMass := 0.0
		for u := 0; u < n; u++ {
			if dangleIdx[u] {
				danglingMass += r[u]
			}
		}

		for v := 0; v < n; v++ {
			next[v] = alpha*danglingMass*dangling[v] + (1-alpha)*personalization[v]
		}
		for u := 0; u < n; u++ {
			if dangleIdx[u] {
				continue
			}
			ru := r[u]
			su := outWeightSum[u]
			g.ForEachOut(u, func(v int, w float64) {
				next[v] += alpha * ru * w / su
			})
		}

		diff := 0.0
		for v := 0; v < n; v++ {
			diff += math.Abs(next[v] - r[v])
		}
		r, next = next, r

		if diff < tol*float64(n) {
			converged = true
			break
		}
	}

	return Result{Scores: r, Converged: converged, Iterations: iterations}
}
