package worddiff

import "github.com/clipperhouse/uax29/v2/words"

// UnicodeTokenizer splits a line at Unicode word boundaries (UAX #29), so
// punctuation separates from words and contractions or decimals stay whole.
type UnicodeTokenizer struct{}

// NewUnicodeTokenizer creates a UnicodeTokenizer.
func NewUnicodeTokenizer() *UnicodeTokenizer {
	return &UnicodeTokenizer{}
}

// Tokenize implements codediff.WordTokenizer.
func (t *UnicodeTokenizer) Tokenize(line string) []string {
	if line == "" {
		return nil
	}
	var tokens []string
	iter := words.FromString(line)
	for iter.Next() {
		tokens = append(tokens, iter.Value())
	}
	return tokens
}
