// Package bubbletea provides a terminal pager for rendered diffs using the
// Bubble Tea framework.
package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.Viewer = (*Viewer)(nil)

const statusBarHeight = 1

// Model is the Bubble Tea model for paging through rendered output.
type Model struct {
	title      string
	content    string
	viewport   viewport.Model
	ready      bool
	width      int
	hunks      []int // line offsets of "@@" headers
	keymap     KeyMap
	help       help.Model
	pendingKey string
	renderer   *lipgloss.Renderer
	styles     codediff.Styles
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRenderer sets the lipgloss renderer used for the status bar.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithTheme sets the status bar colours.
func WithTheme(t codediff.Theme) ModelOption {
	return func(m *Model) {
		m.styles = t.Styles()
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(km KeyMap) ModelOption {
	return func(m *Model) {
		m.keymap = km
	}
}

// NewModel creates a Model showing content under title.
func NewModel(title, content string, opts ...ModelOption) Model {
	m := Model{
		title:   title,
		content: strings.TrimSuffix(content, "\n"),
		keymap:  DefaultKeyMap(),
		help:    help.New(),
	}
	m.hunks = hunkOffsets(m.content)
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// g waits for a second g; home goes straight to the top
		if key.Matches(msg, m.keymap.Top) {
			if m.pendingKey == "g" || msg.String() != "g" {
				m.viewport.GotoTop()
				m.pendingKey = ""
				return m, nil
			}
			m.pendingKey = "g"
			return m, nil
		}
		m.pendingKey = ""

		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keymap.PageUp):
			m.viewport.PageUp()
			return m, nil
		case key.Matches(msg, m.keymap.PageDown):
			m.viewport.PageDown()
			return m, nil
		case key.Matches(msg, m.keymap.HalfUp):
			m.viewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keymap.HalfDown):
			m.viewport.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keymap.NextHunk):
			for _, off := range m.hunks {
				if off > m.viewport.YOffset {
					m.viewport.SetYOffset(off)
					break
				}
			}
			return m, nil
		case key.Matches(msg, m.keymap.PrevHunk):
			for i := len(m.hunks) - 1; i >= 0; i-- {
				if m.hunks[i] < m.viewport.YOffset {
					m.viewport.SetYOffset(m.hunks[i])
					break
				}
			}
			return m, nil
		case key.Matches(msg, m.keymap.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keymap.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-statusBarHeight, 0)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.statusBarView())
}

func (m Model) newStyle(cp codediff.ColorPair) lipgloss.Style {
	var style lipgloss.Style
	if m.renderer != nil {
		style = m.renderer.NewStyle()
	} else {
		style = lipgloss.NewStyle()
	}
	if cp.Foreground != "" {
		style = style.Foreground(lipgloss.Color(cp.Foreground))
	}
	if cp.Background != "" {
		style = style.Background(lipgloss.Color(cp.Background))
	}
	return style
}

// statusBarView renders the title, scroll position, and key help.
func (m Model) statusBarView() string {
	barStyle := m.newStyle(m.styles.FileHeader)
	dimStyle := m.newStyle(m.styles.LineNumber)
	sep := dimStyle.Render(" │ ")

	content := barStyle.Render(m.title) + sep +
		barStyle.Render(m.scrollPosition()) + sep
	h := m.help
	if m.width > 0 {
		h.Width = max(m.width-lipgloss.Width(content), 1)
	}
	content += dimStyle.Render(h.View(m.keymap))

	if w := lipgloss.Width(content); m.width > w {
		content += barStyle.Render(strings.Repeat(" ", m.width-w))
	}
	return content
}

// scrollPosition returns a string indicating the scroll position.
func (m Model) scrollPosition() string {
	if m.viewport.AtTop() {
		return "Top"
	}
	if m.viewport.AtBottom() {
		return "Bot"
	}
	return fmt.Sprintf("%2d%%", int(m.viewport.ScrollPercent()*100))
}

// hunkOffsets returns the indexes of lines starting with a hunk header,
// ignoring colour escapes.
func hunkOffsets(content string) []int {
	var offsets []int
	for i, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(ansi.Strip(line), "@@") {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// Viewer implements codediff.Viewer using a Bubble Tea program.
type Viewer struct {
	modelOpts   []ModelOption
	programOpts []tea.ProgramOption
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithModelOptions passes opts to every Model the Viewer creates.
func WithModelOptions(opts ...ModelOption) ViewerOption {
	return func(v *Viewer) {
		v.modelOpts = append(v.modelOpts, opts...)
	}
}

// WithProgramOptions replaces the default full-screen program options.
func WithProgramOptions(opts ...tea.ProgramOption) ViewerOption {
	return func(v *Viewer) {
		v.programOpts = opts
	}
}

// NewViewer creates a Viewer running in the alternate screen with mouse
// support.
func NewViewer(opts ...ViewerOption) *Viewer {
	v := &Viewer{
		programOpts: []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// View displays content and blocks until the user quits or ctx is done.
func (v *Viewer) View(ctx context.Context, title, content string) error {
	m := NewModel(title, content, v.modelOpts...)
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, v.programOpts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("running pager: %w", err)
	}
	return nil
}
