package codediff

// ColorPair is a foreground/background combination in "#RRGGBB" form. An
// empty string leaves the terminal default in place.
type ColorPair struct {
	Foreground string
	Background string
}

// Styles holds the colours used by terminal renderers.
type Styles struct {
	Added            ColorPair // Inserted lines
	Deleted          ColorPair // Deleted lines
	Context          ColorPair // Unchanged lines
	HunkHeader       ColorPair
	FileHeader       ColorPair
	LineNumber       ColorPair
	Gutter           ColorPair // Column separator and change markers
	AddedHighlight   ColorPair // Inserted word spans
	DeletedHighlight ColorPair // Deleted word spans
}

// Theme provides styles for rendering diffs.
type Theme interface {
	Styles() Styles
}
