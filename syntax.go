package codediff

// Token is a syntax-highlighted segment of source text.
type Token struct {
	Text  string
	Style Style
}

// Style is the visual styling for a token.
type Style struct {
	Foreground string // "#RRGGBB" or empty for default
	Bold       bool
}

// Tokenizer splits source text into syntax tokens.
type Tokenizer interface {
	// Tokenize returns tokens for source in the given language, or nil if the
	// language is not supported. Token texts concatenate to source.
	Tokenize(language, source string) []Token
}

// LanguageDetector maps file paths to language names.
type LanguageDetector interface {
	// DetectFromPath returns the language for path, or "" if unknown.
	// Paths may carry "a/" or "b/" prefixes.
	DetectFromPath(path string) string
}
