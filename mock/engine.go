package mock

import "github.com/fwojciec/codediff"

// Compile-time interface verification.
var (
	_ codediff.Engine        = (*Engine)(nil)
	_ codediff.WordTokenizer = (*WordTokenizer)(nil)
)

// Engine is a mock implementation of codediff.Engine.
type Engine struct {
	EditScriptFn func(a, b []string) []codediff.EditOp
}

func (e *Engine) EditScript(a, b []string) []codediff.EditOp {
	return e.EditScriptFn(a, b)
}

// WordTokenizer is a mock implementation of codediff.WordTokenizer.
type WordTokenizer struct {
	TokenizeFn func(line string) []string
}

func (t *WordTokenizer) Tokenize(line string) []string {
	return t.TokenizeFn(line)
}
