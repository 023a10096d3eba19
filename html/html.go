// Package html renders diffs as HTML tables.
package html

import (
	"bufio"
	"cmp"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.Renderer = (*Renderer)(nil)

// DefaultClassPrefix is prepended to every CSS class the renderer emits.
const DefaultClassPrefix = "diff-"

// Renderer writes one <table> per result. Rows carry the classes
// "<prefix>add", "<prefix>del" or "<prefix>ctx"; changed words are wrapped in
// "<prefix>word-add" and "<prefix>word-del" spans.
type Renderer struct {
	lineNumbers bool
	wrap        bool
	classPrefix string
	tokenizer   codediff.Tokenizer
	detector    codediff.LanguageDetector
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLineNumbers toggles the old and new line number columns.
func WithLineNumbers(on bool) Option {
	return func(r *Renderer) {
		r.lineNumbers = on
	}
}

// WithWrap adds the "<prefix>wrap" class to content cells.
func WithWrap(on bool) Option {
	return func(r *Renderer) {
		r.wrap = on
	}
}

// WithClassPrefix sets the CSS class prefix.
func WithClassPrefix(prefix string) Option {
	return func(r *Renderer) {
		r.classPrefix = prefix
	}
}

// WithSyntax enables syntax colouring of lines without word spans. The
// language is detected from the file path, or from the result labels for a
// single result.
func WithSyntax(tokenizer codediff.Tokenizer, detector codediff.LanguageDetector) Option {
	return func(r *Renderer) {
		r.tokenizer = tokenizer
		r.detector = detector
	}
}

// NewRenderer creates a Renderer with line numbers, no wrapping, the default
// class prefix, and no syntax colouring.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		lineNumbers: true,
		classPrefix: DefaultClassPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render implements codediff.Renderer. An empty result writes nothing.
func (r *Renderer) Render(w io.Writer, result *codediff.DiffResult) error {
	bw := bufio.NewWriter(w)
	r.writeResult(bw, result, r.language(cmp.Or(result.NewLabel, result.OldLabel)))
	return bw.Flush()
}

// RenderBundle implements codediff.Renderer. Each file becomes a
// "<prefix>file" div holding a header and the file's table.
func (r *Renderer) RenderBundle(w io.Writer, bundle *codediff.DiffBundle) error {
	bw := bufio.NewWriter(w)
	for _, f := range bundle.Files {
		fmt.Fprintf(bw, "<div class=\"%s\">\n", r.class("file"))
		fmt.Fprintf(bw, "<div class=\"%s\">%s &rarr; %s</div>\n", r.class("file-header"), esc(f.OldPath), esc(f.NewPath))
		r.writeResult(bw, &f.Result, r.language(f.DisplayPath()))
		bw.WriteString("</div>\n")
	}
	return bw.Flush()
}

func (r *Renderer) language(path string) string {
	if r.tokenizer == nil || r.detector == nil || path == "" {
		return ""
	}
	return r.detector.DetectFromPath(path)
}

func (r *Renderer) class(name string) string {
	return esc(r.classPrefix) + name
}

func (r *Renderer) writeResult(bw *bufio.Writer, result *codediff.DiffResult, language string) {
	if result.IsEmpty() {
		return
	}
	fmt.Fprintf(bw, "<table class=\"%s\">\n", r.class("table"))
	for _, h := range result.Hunks {
		r.writeHunkHeader(bw, h)
		oldLine, newLine := h.OldStart, h.NewStart
		for _, e := range h.Edits {
			r.writeEdit(bw, e, oldLine, newLine, language)
			switch e.Op {
			case codediff.OpEqual:
				oldLine++
				newLine++
			case codediff.OpDelete:
				oldLine++
			case codediff.OpInsert:
				newLine++
			}
		}
	}
	bw.WriteString("</table>\n")
}

func (r *Renderer) writeHunkHeader(bw *bufio.Writer, h codediff.Hunk) {
	colspan := 2
	if r.lineNumbers {
		colspan = 4
	}
	fmt.Fprintf(bw, "<tr class=\"%s\"><td colspan=\"%d\">@@ -%d,%d +%d,%d @@</td></tr>\n",
		r.class("hunk-header"), colspan, h.OldStart, h.OldLen, h.NewStart, h.NewLen)
}

func (r *Renderer) writeEdit(bw *bufio.Writer, e codediff.Edit, oldLine, newLine int, language string) {
	fmt.Fprintf(bw, "<tr class=\"%s\">", r.class(rowClass(e.Op)))
	if r.lineNumbers {
		oldNum, newNum := "", ""
		if e.Op != codediff.OpInsert {
			oldNum = fmt.Sprint(oldLine)
		}
		if e.Op != codediff.OpDelete {
			newNum = fmt.Sprint(newLine)
		}
		fmt.Fprintf(bw, "<td class=\"%s %s\">%s</td>", r.class("line-num"), r.class("old"), oldNum)
		fmt.Fprintf(bw, "<td class=\"%s %s\">%s</td>", r.class("line-num"), r.class("new"), newNum)
	}
	fmt.Fprintf(bw, "<td class=\"%s\">%s</td>", r.class("prefix"), esc(e.Op.Prefix()))

	contentClass := r.class("content")
	if r.wrap {
		contentClass += " " + r.class("wrap")
	}
	fmt.Fprintf(bw, "<td class=\"%s\">%s</td></tr>\n", contentClass, r.content(e, language))
}

func (r *Renderer) content(e codediff.Edit, language string) string {
	var sb strings.Builder
	if len(e.WordSpans) > 0 {
		for _, span := range e.WordSpans {
			if span.Op == codediff.OpEqual {
				sb.WriteString(esc(span.Text))
				continue
			}
			fmt.Fprintf(&sb, "<span class=\"%s\">%s</span>", r.class("word-"+rowClass(span.Op)), esc(span.Text))
		}
		return sb.String()
	}

	var tokens []codediff.Token
	if language != "" && e.Text != "" {
		tokens = r.tokenizer.Tokenize(language, e.Text)
	}
	if tokens == nil {
		return esc(e.Text)
	}
	for _, tok := range tokens {
		style := tokenStyle(tok.Style)
		if style == "" {
			sb.WriteString(esc(tok.Text))
			continue
		}
		fmt.Fprintf(&sb, "<span style=\"%s\">%s</span>", style, esc(tok.Text))
	}
	return sb.String()
}

func tokenStyle(s codediff.Style) string {
	var parts []string
	if s.Foreground != "" {
		parts = append(parts, "color:"+esc(s.Foreground))
	}
	if s.Bold {
		parts = append(parts, "font-weight:bold")
	}
	return strings.Join(parts, ";")
}

func rowClass(op codediff.Op) string {
	switch op {
	case codediff.OpInsert:
		return "add"
	case codediff.OpDelete:
		return "del"
	default:
		return "ctx"
	}
}

func esc(s string) string {
	return html.EscapeString(s)
}
