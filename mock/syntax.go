package mock

import "github.com/fwojciec/codediff"

// Compile-time interface verification.
var (
	_ codediff.Tokenizer        = (*Tokenizer)(nil)
	_ codediff.LanguageDetector = (*LanguageDetector)(nil)
)

// Tokenizer is a mock implementation of codediff.Tokenizer.
type Tokenizer struct {
	TokenizeFn func(language, source string) []codediff.Token
}

func (t *Tokenizer) Tokenize(language, source string) []codediff.Token {
	return t.TokenizeFn(language, source)
}

// LanguageDetector is a mock implementation of codediff.LanguageDetector.
type LanguageDetector struct {
	DetectFromPathFn func(path string) string
}

func (d *LanguageDetector) DetectFromPath(path string) string {
	return d.DetectFromPathFn(path)
}
