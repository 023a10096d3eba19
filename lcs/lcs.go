// Package lcs implements an edit script engine over the full longest common
// subsequence table. It is slower than the myers engine, O(NM) in time and
// memory, and serves as a simple reference.
package lcs

import (
	"slices"

	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.Engine = (*Engine)(nil)

// Engine is a dynamic-programming codediff.Engine.
type Engine struct{}

// New creates an LCS engine.
func New() *Engine {
	return &Engine{}
}

// EditScript implements codediff.Engine.
func (e *Engine) EditScript(a, b []string) []codediff.EditOp {
	return Script(a, b)
}

// Script returns a shortest edit script transforming a into b. When both a
// deletion and an insertion keep the LCS length, the backtrack takes the
// insertion.
func Script[T comparable](a, b []T) []codediff.EditOp {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}

	// table[i*stride+j] is the LCS length of a[:i] and b[:j].
	stride := m + 1
	table := make([]int, (n+1)*stride)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				table[i*stride+j] = table[(i-1)*stride+j-1] + 1
			} else {
				table[i*stride+j] = max(table[(i-1)*stride+j], table[i*stride+j-1])
			}
		}
	}

	script := make([]codediff.EditOp, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			i--
			j--
			script = append(script, codediff.Equal(i, j))
		case i == 0 || (j > 0 && table[i*stride+j-1] >= table[(i-1)*stride+j]):
			j--
			script = append(script, codediff.Insert(j))
		default:
			i--
			script = append(script, codediff.Delete(i))
		}
	}
	slices.Reverse(script)
	return script
}
