// Package lipgloss renders diffs for terminals using the Lipgloss styling
// library.
package lipgloss

import "github.com/fwojciec/codediff"

// Compile-time interface verification.
var _ codediff.Theme = (*Theme)(nil)

// Theme implements codediff.Theme with Lipgloss-compatible colors.
type Theme struct {
	styles codediff.Styles
}

// Styles returns the color styles for this theme.
func (t *Theme) Styles() codediff.Styles {
	return t.styles
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// ThemeByName returns the theme called name ("dark" or "light"), falling back
// to the default theme.
func ThemeByName(name string) *Theme {
	if name == "light" {
		return LightTheme()
	}
	return DefaultTheme()
}

// DarkTheme returns a theme for dark terminal backgrounds (Catppuccin Mocha).
func DarkTheme() *Theme {
	return &Theme{
		styles: codediff.Styles{
			Added:      codediff.ColorPair{Foreground: "#a6e3a1"},
			Deleted:    codediff.ColorPair{Foreground: "#f38ba8"},
			Context:    codediff.ColorPair{Foreground: "#6c7086"},
			HunkHeader: codediff.ColorPair{Foreground: "#89b4fa"},
			FileHeader: codediff.ColorPair{
				Foreground: "#f9e2af",
				Background: "#313244",
			},
			LineNumber: codediff.ColorPair{Foreground: "#585b70"},
			Gutter:     codediff.ColorPair{Foreground: "#89dceb"},
			// Dark text on bright background
			AddedHighlight: codediff.ColorPair{
				Foreground: "#1e1e2e",
				Background: "#a6e3a1",
			},
			DeletedHighlight: codediff.ColorPair{
				Foreground: "#1e1e2e",
				Background: "#f38ba8",
			},
		},
	}
}

// LightTheme returns a theme for light terminal backgrounds (Catppuccin Latte).
func LightTheme() *Theme {
	return &Theme{
		styles: codediff.Styles{
			Added:      codediff.ColorPair{Foreground: "#40a02b"},
			Deleted:    codediff.ColorPair{Foreground: "#d20f39"},
			Context:    codediff.ColorPair{Foreground: "#9ca0b0"},
			HunkHeader: codediff.ColorPair{Foreground: "#1e66f5"},
			FileHeader: codediff.ColorPair{
				Foreground: "#df8e1d",
				Background: "#e6e9ef",
			},
			LineNumber: codediff.ColorPair{Foreground: "#acb0be"},
			Gutter:     codediff.ColorPair{Foreground: "#04a5e5"},
			AddedHighlight: codediff.ColorPair{
				Foreground: "#ffffff",
				Background: "#40a02b",
			},
			DeletedHighlight: codediff.ColorPair{
				Foreground: "#ffffff",
				Background: "#d20f39",
			},
		},
	}
}
