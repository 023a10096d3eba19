package lipgloss

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/codediff"
	"github.com/mattn/go-runewidth"
)

// Compile-time interface verification.
var _ codediff.Renderer = (*SideBySide)(nil)

// Layout constants for side-by-side output.
const (
	DefaultWidth   = 80
	lineNumWidth   = 4
	gutterWidth    = 3 // " | "
	tabWidth       = 8
	truncateMarker = "~"
)

// SideBySide renders diffs as two columns with ANSI colors: old text on the
// left, new text on the right, and a gutter marking each row as unchanged
// (" "), changed ("|"), deleted ("<") or inserted (">").
type SideBySide struct {
	renderer    *lipgloss.Renderer
	styles      codediff.Styles
	width       int
	lineNumbers bool
}

// Option configures a SideBySide renderer.
type Option func(*SideBySide)

// WithWidth sets the total output width in cells.
func WithWidth(width int) Option {
	return func(s *SideBySide) {
		s.width = width
	}
}

// WithLineNumbers toggles the line number columns.
func WithLineNumbers(on bool) Option {
	return func(s *SideBySide) {
		s.lineNumbers = on
	}
}

// WithTheme sets the color theme.
func WithTheme(theme codediff.Theme) Option {
	return func(s *SideBySide) {
		s.styles = theme.Styles()
	}
}

// WithRenderer sets the lipgloss renderer, which decides the color profile.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(s *SideBySide) {
		s.renderer = r
	}
}

// NewSideBySide creates a renderer that is 80 cells wide, shows line numbers,
// and uses the default theme and lipgloss renderer.
func NewSideBySide(opts ...Option) *SideBySide {
	s := &SideBySide{
		renderer:    lipgloss.DefaultRenderer(),
		styles:      DefaultTheme().Styles(),
		width:       DefaultWidth,
		lineNumbers: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render implements codediff.Renderer. An empty result writes nothing.
func (s *SideBySide) Render(w io.Writer, result *codediff.DiffResult) error {
	bw := bufio.NewWriter(w)
	s.writeResult(bw, newPalette(s.styles, s.renderer), result)
	return bw.Flush()
}

// RenderBundle implements codediff.Renderer. Each file is introduced by its
// paths between two rules.
func (s *SideBySide) RenderBundle(w io.Writer, bundle *codediff.DiffBundle) error {
	bw := bufio.NewWriter(w)
	p := newPalette(s.styles, s.renderer)
	rule := p.fileHeader.Render(strings.Repeat("=", max(s.width, 1)))
	for _, f := range bundle.Files {
		writeLine(bw, rule)
		writeLine(bw, p.fileHeader.Render(f.OldPath+" -> "+f.NewPath))
		writeLine(bw, rule)
		s.writeResult(bw, p, &f.Result)
	}
	return bw.Flush()
}

// palette holds the lipgloss styles derived from a codediff.Styles.
type palette struct {
	added, deleted, context lipgloss.Style
	addedWord, deletedWord  lipgloss.Style
	hunkHeader, fileHeader  lipgloss.Style
	lineNumber, gutter      lipgloss.Style
}

func newPalette(styles codediff.Styles, r *lipgloss.Renderer) palette {
	return palette{
		added:       styleFromColorPair(styles.Added, r),
		deleted:     styleFromColorPair(styles.Deleted, r),
		context:     styleFromColorPair(styles.Context, r),
		addedWord:   styleFromColorPair(styles.AddedHighlight, r),
		deletedWord: styleFromColorPair(styles.DeletedHighlight, r),
		hunkHeader:  styleFromColorPair(styles.HunkHeader, r),
		fileHeader:  styleFromColorPair(styles.FileHeader, r),
		lineNumber:  styleFromColorPair(styles.LineNumber, r),
		gutter:      styleFromColorPair(styles.Gutter, r),
	}
}

// styleFromColorPair creates a lipgloss style from a color pair. If renderer
// is nil, the default lipgloss renderer is used.
func styleFromColorPair(cp codediff.ColorPair, renderer *lipgloss.Renderer) lipgloss.Style {
	var style lipgloss.Style
	if renderer != nil {
		style = renderer.NewStyle()
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

// columnWidth returns the width of each text column.
func (s *SideBySide) columnWidth() int {
	fixed := gutterWidth
	if s.lineNumbers {
		fixed += 2 * (lineNumWidth + 1)
	}
	return max((s.width-fixed)/2, 0)
}

func (s *SideBySide) writeResult(bw *bufio.Writer, p palette, result *codediff.DiffResult) {
	colWidth := s.columnWidth()
	for _, h := range result.Hunks {
		writeLine(bw, p.hunkHeader.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLen, h.NewStart, h.NewLen)))
		for _, r := range rows(h) {
			writeLine(bw, s.formatRow(p, r, colWidth))
		}
	}
}

// cell is one side of a row.
type cell struct {
	num   int
	text  string
	spans []codediff.WordSpan
}

// row is one output line. A nil side is blank.
type row struct {
	old, new *cell
	equal    bool
}

// rows lays out a hunk. Unchanged lines fill both sides. Within a stretch of
// changes the n-th deleted line sits beside the n-th inserted line; surplus
// lines on either side get a blank partner.
func rows(h codediff.Hunk) []row {
	var out []row
	oldNum, newNum := h.OldStart, h.NewStart
	var deletes, inserts []*cell

	flush := func() {
		for i := range max(len(deletes), len(inserts)) {
			var r row
			if i < len(deletes) {
				r.old = deletes[i]
			}
			if i < len(inserts) {
				r.new = inserts[i]
			}
			out = append(out, r)
		}
		deletes, inserts = nil, nil
	}

	for _, e := range h.Edits {
		switch e.Op {
		case codediff.OpEqual:
			flush()
			out = append(out, row{
				old:   &cell{num: oldNum, text: e.Text},
				new:   &cell{num: newNum, text: e.Text},
				equal: true,
			})
			oldNum++
			newNum++
		case codediff.OpDelete:
			deletes = append(deletes, &cell{num: oldNum, text: e.Text, spans: e.WordSpans})
			oldNum++
		case codediff.OpInsert:
			inserts = append(inserts, &cell{num: newNum, text: e.Text, spans: e.WordSpans})
			newNum++
		}
	}
	flush()
	return out
}

func (s *SideBySide) formatRow(p palette, r row, colWidth int) string {
	changed := !r.equal
	gutter := "|"
	var gutterStyle lipgloss.Style
	switch {
	case !changed:
		gutter, gutterStyle = " ", p.lineNumber
	case r.new == nil:
		gutter, gutterStyle = "<", p.deleted
	case r.old == nil:
		gutter, gutterStyle = ">", p.added
	default:
		gutterStyle = p.gutter
	}

	var sb strings.Builder
	if s.lineNumbers {
		sb.WriteString(p.lineNumber.Render(lineNum(r.old)))
		sb.WriteByte(' ')
	}
	left, used := s.cellText(r.old, colWidth, changed, p.deleted, p.deletedWord, p.context)
	sb.WriteString(left)
	if used < colWidth {
		sb.WriteString(strings.Repeat(" ", colWidth-used))
	}
	sb.WriteByte(' ')
	sb.WriteString(gutterStyle.Render(gutter))
	sb.WriteByte(' ')
	if s.lineNumbers {
		sb.WriteString(p.lineNumber.Render(lineNum(r.new)))
		sb.WriteByte(' ')
	}
	right, _ := s.cellText(r.new, colWidth, changed, p.added, p.addedWord, p.context)
	sb.WriteString(right)
	return sb.String()
}

func lineNum(c *cell) string {
	if c == nil {
		return strings.Repeat(" ", lineNumWidth)
	}
	return fmt.Sprintf("%*d", lineNumWidth, c.num)
}

// cellText renders one side truncated to colWidth and returns it with its
// visible width.
func (s *SideBySide) cellText(c *cell, colWidth int, changed bool, base, highlight, context lipgloss.Style) (string, int) {
	if c == nil || colWidth <= 0 {
		return "", 0
	}
	if !changed {
		text := truncate(expandTabs(c.text, 0), colWidth)
		return context.Render(text), runewidth.StringWidth(text)
	}
	if len(c.spans) == 0 {
		text := truncate(expandTabs(c.text, 0), colWidth)
		return base.Render(text), runewidth.StringWidth(text)
	}
	return highlightSpans(c.spans, colWidth, base, highlight)
}

// highlightSpans renders word spans, highlighting changed ones, until
// maxWidth cells are used. The span that crosses the limit is cut and marked.
func highlightSpans(spans []codediff.WordSpan, maxWidth int, base, highlight lipgloss.Style) (string, int) {
	var sb strings.Builder
	used := 0
	for _, span := range spans {
		remaining := maxWidth - used
		if remaining <= 0 {
			break
		}
		text := expandTabs(span.Text, used)
		if runewidth.StringWidth(text) > remaining {
			if remaining == 1 {
				text = runewidth.Truncate(text, remaining, "")
			} else {
				text = runewidth.Truncate(text, remaining, truncateMarker)
			}
		}
		style := base
		if span.Op != codediff.OpEqual {
			style = highlight
		}
		sb.WriteString(style.Render(text))
		used += runewidth.StringWidth(text)
	}
	return sb.String(), used
}

func truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, truncateMarker)
}

// expandTabs converts tabs to spaces using 8-column tab stops, starting at
// column startCol.
func expandTabs(s string, startCol int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := startCol
	for _, r := range s {
		if r == '\t' {
			next := (col/tabWidth + 1) * tabWidth
			sb.WriteString(strings.Repeat(" ", next-col))
			col = next
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

func writeLine(bw *bufio.Writer, line string) {
	bw.WriteString(line)
	bw.WriteByte('\n')
}
