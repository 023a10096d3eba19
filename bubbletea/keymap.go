package bubbletea

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = KeyMap{}

// KeyMap holds the pager bindings. Hunk movement jumps between lines that
// start with a "@@" hunk header.
type KeyMap struct {
	Up, Down         key.Binding
	PageUp, PageDown key.Binding
	HalfUp, HalfDown key.Binding
	Top, Bottom      key.Binding
	NextHunk         key.Binding
	PrevHunk         key.Binding
	Quit             key.Binding
}

// DefaultKeyMap returns less-like bindings with vim movement keys. Top is
// triggered by a double g.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("b", "pgup"), key.WithHelp("b", "page up")),
		PageDown: key.NewBinding(key.WithKeys("f", " ", "pgdown"), key.WithHelp("f", "page down")),
		HalfUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half up")),
		HalfDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("gg", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		NextHunk: key.NewBinding(key.WithKeys("n", "]"), key.WithHelp("n", "next hunk")),
		PrevHunk: key.NewBinding(key.WithKeys("N", "["), key.WithHelp("N", "prev hunk")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap; it is what the status bar shows.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextHunk, k.PrevHunk, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.HalfUp, k.HalfDown},
		{k.Top, k.Bottom, k.NextHunk, k.PrevHunk, k.Quit},
	}
}
