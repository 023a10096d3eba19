package chroma

import (
	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fwojciec/codediff"
)

// StyleFunc maps chroma token types to codediff styles.
type StyleFunc func(chromalib.TokenType) codediff.Style

// Style returns the registered chroma style called name, or chroma's
// fallback style.
func Style(name string) *chromalib.Style {
	return styles.Get(name)
}

// StyleFromChroma returns a StyleFunc that reads foreground colour and
// weight from a chroma style. Background colours are ignored; diff renderers
// supply their own.
func StyleFromChroma(s *chromalib.Style) StyleFunc {
	return func(tt chromalib.TokenType) codediff.Style {
		entry := s.Get(tt)
		var style codediff.Style
		if entry.Colour.IsSet() {
			style.Foreground = entry.Colour.String()
		}
		style.Bold = entry.Bold == chromalib.Yes
		return style
	}
}
