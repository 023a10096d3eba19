// Package worddiff splits lines into tokens and computes intra-line word spans
// between a deleted line and the inserted line it was paired with.
package worddiff

import (
	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/textutil"
)

// Compile-time interface verification.
var (
	_ codediff.WordTokenizer = (*Tokenizer)(nil)
	_ codediff.WordTokenizer = (*CodeTokenizer)(nil)
	_ codediff.WordTokenizer = (*UnicodeTokenizer)(nil)
)

// Tokenizer splits a line into maximal runs of whitespace and maximal runs of
// non-whitespace.
type Tokenizer struct{}

// NewTokenizer creates a whitespace-run Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize implements codediff.WordTokenizer. Empty input yields no tokens.
func (t *Tokenizer) Tokenize(line string) []string {
	if line == "" {
		return nil
	}
	tokens := make([]string, 0, 8)
	start := 0
	space := textutil.IsSpace(line[0])
	for i := 1; i < len(line); i++ {
		if s := textutil.IsSpace(line[i]); s != space {
			tokens = append(tokens, line[start:i])
			start, space = i, s
		}
	}
	return append(tokens, line[start:])
}

// Differ computes word spans for a pair of changed lines by running an edit
// script engine over their tokens.
type Differ struct {
	engine    codediff.Engine
	tokenizer codediff.WordTokenizer
}

// NewDiffer creates a Differ using engine over the tokens produced by tokenizer.
func NewDiffer(engine codediff.Engine, tokenizer codediff.WordTokenizer) *Differ {
	return &Differ{engine: engine, tokenizer: tokenizer}
}

// Spans returns one span per token of each line. Old-side spans are tagged
// equal or delete, new-side spans equal or insert. Concatenating a side's span
// texts reproduces that line.
func (d *Differ) Spans(oldLine, newLine string) (oldSpans, newSpans []codediff.WordSpan) {
	oldWords := d.tokenizer.Tokenize(oldLine)
	newWords := d.tokenizer.Tokenize(newLine)

	oldSpans = make([]codediff.WordSpan, 0, len(oldWords))
	newSpans = make([]codediff.WordSpan, 0, len(newWords))
	for _, op := range d.engine.EditScript(oldWords, newWords) {
		switch op.Op {
		case codediff.OpEqual:
			oldSpans = append(oldSpans, codediff.WordSpan{Op: codediff.OpEqual, Text: oldWords[op.OldIndex]})
			newSpans = append(newSpans, codediff.WordSpan{Op: codediff.OpEqual, Text: newWords[op.NewIndex]})
		case codediff.OpDelete:
			oldSpans = append(oldSpans, codediff.WordSpan{Op: codediff.OpDelete, Text: oldWords[op.OldIndex]})
		case codediff.OpInsert:
			newSpans = append(newSpans, codediff.WordSpan{Op: codediff.OpInsert, Text: newWords[op.NewIndex]})
		}
	}
	return oldSpans, newSpans
}
