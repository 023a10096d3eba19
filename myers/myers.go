// Package myers implements the greedy O(ND) shortest edit script algorithm
// from Eugene W. Myers, "An O(ND) Difference Algorithm and Its Variations"
// (1986).
package myers

import (
	"slices"

	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.Engine = (*Engine)(nil)

// Engine is the default codediff.Engine.
type Engine struct{}

// New creates a Myers engine.
func New() *Engine {
	return &Engine{}
}

// EditScript implements codediff.Engine.
func (e *Engine) EditScript(a, b []string) []codediff.EditOp {
	return Script(a, b)
}

// frontier holds the furthest-reaching x on each diagonal k in [-d, d] for a
// single edit distance d. Diagonals not reached at d hold -1.
type frontier struct {
	d int
	x []int
}

func newFrontier(d int) frontier {
	x := make([]int, 2*d+1)
	for i := range x {
		x[i] = -1
	}
	return frontier{d: d, x: x}
}

// at returns the x recorded for diagonal k, or -1 when none is recorded.
func (f frontier) at(k int) int {
	i := k + f.d
	if i < 0 || i >= len(f.x) {
		return -1
	}
	return f.x[i]
}

func (f frontier) set(k, x int) {
	f.x[k+f.d] = x
}

// insertStep reports whether the d-path ending on diagonal k arrives by an
// insertion (a move down from diagonal k+1) rather than a deletion (a move
// right from diagonal k-1), given the frontier of the previous distance. The
// forward search and the backtrack share this predicate so the recovered path
// is the one that was computed.
func insertStep(prev frontier, d, k int) bool {
	return k == -d || (k != d && prev.at(k-1) < prev.at(k+1))
}

// startX returns where the d-path on diagonal k begins before following its
// snake. Unrecorded neighbours count as x = 0.
func startX(prev frontier, insert bool, k int) int {
	if insert {
		return max(prev.at(k+1), 0)
	}
	return max(prev.at(k-1), 0) + 1
}

// Script returns a shortest edit script transforming a into b.
func Script[T comparable](a, b []T) []codediff.EditOp {
	n, m := len(a), len(b)
	switch {
	case n == 0 && m == 0:
		return nil
	case n == 0:
		script := make([]codediff.EditOp, m)
		for j := range m {
			script[j] = codediff.Insert(j)
		}
		return script
	case m == 0:
		script := make([]codediff.EditOp, n)
		for i := range n {
			script[i] = codediff.Delete(i)
		}
		return script
	}

	trace := forward(a, b)
	dMax := len(trace) - 1
	if dMax == 0 {
		script := make([]codediff.EditOp, n)
		for i := range n {
			script[i] = codediff.Equal(i, i)
		}
		return script
	}
	return backtrack(trace, n, m)
}

// forward runs the greedy search and returns the frontier recorded at every
// distance up to and including the first one that reaches (n, m).
func forward[T comparable](a, b []T) []frontier {
	n, m := len(a), len(b)
	// Seed frontier so that the d = 0 path starts at x = 0.
	prev := frontier{d: 0, x: []int{0}}
	var trace []frontier
	for d := 0; d <= n+m; d++ {
		cur := newFrontier(d)
		for k := -d; k <= d; k += 2 {
			x := startX(prev, insertStep(prev, d, k), k)
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			cur.set(k, x)
			if x >= n && y >= m {
				return append(trace, cur)
			}
		}
		trace = append(trace, cur)
		prev = cur
	}
	return trace
}

// backtrack walks the recorded frontiers from (n, m) back to (0, 0).
func backtrack(trace []frontier, n, m int) []codediff.EditOp {
	script := make([]codediff.EditOp, 0, n+m)
	x, y := n, m
	for d := len(trace) - 1; d > 0; d-- {
		prev := trace[d-1]
		k := x - y
		insert := insertStep(prev, d, k)

		prevK := k - 1
		if insert {
			prevK = k + 1
		}
		prevX := max(prev.at(prevK), 0)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			script = append(script, codediff.Equal(x, y))
		}
		if insert {
			script = append(script, codediff.Insert(y-1))
		} else {
			script = append(script, codediff.Delete(x-1))
		}
		x, y = prevX, prevY
	}
	for x > 0 && y > 0 {
		x--
		y--
		script = append(script, codediff.Equal(x, y))
	}
	slices.Reverse(script)
	return script
}
