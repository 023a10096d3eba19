// Package diffmatchpatch provides a codediff.Engine backed by
// sergi/go-diff's diff-match-patch implementation.
package diffmatchpatch

import (
	"unicode/utf8"

	dmplib "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/myers"
)

// Compile-time interface verification.
var _ codediff.Engine = (*Engine)(nil)

// maxTokens is the number of distinct tokens that fit in valid runes once the
// surrogate range is skipped.
const maxTokens = utf8.MaxRune + 1 - (0xE000 - 0xD800)

// Engine runs diff-match-patch's bisection over sequences encoded one rune per
// token. With the time limit disabled the result is a shortest edit script.
// Inputs with more distinct tokens than runes fall back to the Myers engine.
type Engine struct{}

// New creates a diff-match-patch engine.
func New() *Engine {
	return &Engine{}
}

// EditScript implements codediff.Engine.
func (e *Engine) EditScript(a, b []string) []codediff.EditOp {
	ra, rb, ok := encode(a, b)
	if !ok {
		return myers.Script(a, b)
	}

	dmp := dmplib.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(ra, rb, false)

	script := make([]codediff.EditOp, 0, max(len(a), len(b)))
	i, j := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		for range n {
			switch d.Type {
			case dmplib.DiffEqual:
				script = append(script, codediff.Equal(i, j))
				i++
				j++
			case dmplib.DiffDelete:
				script = append(script, codediff.Delete(i))
				i++
			case dmplib.DiffInsert:
				script = append(script, codediff.Insert(j))
				j++
			}
		}
	}
	return script
}

// encode maps every distinct token to its own rune, skipping surrogates.
func encode(a, b []string) (ra, rb []rune, ok bool) {
	ids := make(map[string]rune)
	conv := func(tokens []string) []rune {
		out := make([]rune, len(tokens))
		for i, tok := range tokens {
			r, seen := ids[tok]
			if !seen {
				r = tokenRune(len(ids))
				ids[tok] = r
			}
			out[i] = r
		}
		return out
	}
	ra = conv(a)
	rb = conv(b)
	return ra, rb, len(ids) <= maxTokens
}

func tokenRune(n int) rune {
	if n >= 0xD800 {
		n += 0xE000 - 0xD800
	}
	return rune(n)
}
