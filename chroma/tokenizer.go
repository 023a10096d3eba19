// Package chroma provides syntax highlighting using the chroma library.
package chroma

import (
	"strings"

	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.Tokenizer = (*Tokenizer)(nil)

// DefaultStyle is the chroma style used when none is given.
const DefaultStyle = "monokai"

// Tokenizer extracts syntax tokens using chroma.
type Tokenizer struct {
	styleFunc StyleFunc
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithStyle selects a chroma style by name. Unknown names fall back to
// chroma's fallback style.
func WithStyle(name string) Option {
	return func(t *Tokenizer) {
		t.styleFunc = StyleFromChroma(Style(name))
	}
}

// WithStyleFunc sets the mapping from token types to styles.
func WithStyleFunc(fn StyleFunc) Option {
	return func(t *Tokenizer) {
		if fn != nil {
			t.styleFunc = fn
		}
	}
}

// NewTokenizer creates a chroma-based tokenizer using DefaultStyle.
func NewTokenizer(opts ...Option) *Tokenizer {
	t := &Tokenizer{styleFunc: StyleFromChroma(Style(DefaultStyle))}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize splits source code into syntax-highlighted tokens for the given language.
// Returns nil if the language is not supported or an error occurs.
// Returns an empty slice for empty source (valid input, no tokens).
func (t *Tokenizer) Tokenize(language, source string) []codediff.Token {
	if source == "" {
		return []codediff.Token{}
	}
	tokens, ok := t.tokenize(language, source)
	if !ok {
		return nil
	}
	return tokens
}

// TokenizeLines tokenizes source with full context, then splits the tokens by
// line, so constructs spanning lines such as block comments keep their style.
// Returns nil if the language is not supported.
func (t *Tokenizer) TokenizeLines(language, source string) [][]codediff.Token {
	if source == "" {
		return [][]codediff.Token{}
	}
	tokens, ok := t.tokenize(language, source)
	if !ok {
		return nil
	}
	return splitTokensByLine(tokens)
}

func (t *Tokenizer) tokenize(language, source string) ([]codediff.Token, bool) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, false
	}
	lexer = chromalib.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil, false
	}
	var tokens []codediff.Token
	for token := iterator(); token != chromalib.EOF; token = iterator() {
		tokens = append(tokens, codediff.Token{
			Text:  token.Value,
			Style: t.styleFunc(token.Type),
		})
	}
	return tokens, true
}

// splitTokensByLine splits tokens at newlines. Newlines themselves are
// dropped; a final newline does not start an empty line.
func splitTokensByLine(tokens []codediff.Token) [][]codediff.Token {
	var lines [][]codediff.Token
	var current []codediff.Token
	for _, tok := range tokens {
		parts := strings.Split(tok.Text, "\n")
		for i, part := range parts {
			if part != "" {
				current = append(current, codediff.Token{Text: part, Style: tok.Style})
			}
			if i < len(parts)-1 {
				lines = append(lines, current)
				current = nil
			}
		}
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	if lines == nil {
		return [][]codediff.Token{}
	}
	return lines
}
