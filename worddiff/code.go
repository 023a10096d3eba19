package worddiff

import "unicode/utf8"

// CodeTokenizer splits source code into identifiers, numbers, string
// literals, operator runs, punctuation, and whitespace runs. Changing one
// identifier inside an expression then highlights only that identifier.
type CodeTokenizer struct{}

// NewCodeTokenizer creates a CodeTokenizer.
func NewCodeTokenizer() *CodeTokenizer {
	return &CodeTokenizer{}
}

// Tokenize implements codediff.WordTokenizer.
func (t *CodeTokenizer) Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, len(s)/3+1)
	i := 0
	for i < len(s) {
		start := i
		c := s[i]

		switch {
		case isIdentifierStart(c):
			i = scanWhile(s, i+1, isIdentifierChar)

		case isDigit(c):
			i = scanWhile(s, i+1, isDigit)
			if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
				i = scanWhile(s, i+1, isDigit)
			}

		case c == '"' || c == '\'' || c == '`':
			i = scanQuoted(s, i, c)

		case isOperatorChar(c):
			i = scanWhile(s, i+1, isOperatorChar)

		case isPunctuation(c):
			i++

		case isWhitespace(c):
			i = scanWhile(s, i+1, isWhitespace)

		default:
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
		}
		tokens = append(tokens, s[start:i])
	}
	return tokens
}

func scanWhile(s string, i int, pred func(byte) bool) int {
	for i < len(s) && pred(s[i]) {
		i++
	}
	return i
}

// scanQuoted returns the index just past the literal opened at s[i]. An
// unterminated literal runs to the end of the line. Raw backquoted strings
// have no escapes.
func scanQuoted(s string, i int, quote byte) int {
	i++
	for i < len(s) {
		if quote != '`' && s[i] == '\\' && i+1 < len(s) {
			i += 2
			continue
		}
		if s[i] == quote {
			return i + 1
		}
		i++
	}
	return i
}

func isIdentifierStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentifierChar(c byte) bool {
	return isIdentifierStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isOperatorChar(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '=', '<', '>', '!', '&', '|', '^', '%', ':':
		return true
	}
	return false
}

func isPunctuation(c byte) bool {
	switch c {
	case '(', ')', '{', '}', '[', ']', ';', ',', '.':
		return true
	}
	return false
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
