package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v3"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/chroma"
	"github.com/fwojciec/codediff/differ"
	"github.com/fwojciec/codediff/diffmatchpatch"
	"github.com/fwojciec/codediff/html"
	"github.com/fwojciec/codediff/jsonl"
	"github.com/fwojciec/codediff/lcs"
	cdlipgloss "github.com/fwojciec/codediff/lipgloss"
	"github.com/fwojciec/codediff/log"
	"github.com/fwojciec/codediff/myers"
	"github.com/fwojciec/codediff/unified"
	"github.com/fwojciec/codediff/worddiff"
)

// newDiffer builds a Differ from the compare flags.
func newDiffer(cmd *cli.Command) (*differ.Differ, error) {
	opts := codediff.DefaultOptions().
		WithContextLines(cmd.Int("context")).
		WithWordDiff(cmd.Bool("word-diff")).
		WithIgnoreWhitespace(cmd.Bool("ignore-whitespace")).
		WithMaxBytes(cmd.Int("max-bytes"))
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var engine codediff.Engine
	switch cmd.String("engine") {
	case "lcs":
		engine = lcs.New()
	case "dmp":
		engine = diffmatchpatch.New()
	default:
		engine = myers.New()
	}
	var tokenizer codediff.WordTokenizer
	switch cmd.String("tokenizer") {
	case "code":
		tokenizer = worddiff.NewCodeTokenizer()
	case "unicode":
		tokenizer = worddiff.NewUnicodeTokenizer()
	default:
		tokenizer = worddiff.NewTokenizer()
	}

	log.WithFields(log.Fields{
		"context":           opts.ContextLines,
		"word_diff":         opts.WordDiff,
		"ignore_whitespace": opts.IgnoreWhitespace,
		"max_bytes":         opts.MaxBytes,
		"engine":            cmd.String("engine"),
		"tokenizer":         cmd.String("tokenizer"),
	}).Debug("resolved options")

	return differ.New(
		differ.WithOptions(opts),
		differ.WithEngine(engine),
		differ.WithTokenizer(tokenizer),
	), nil
}

// newRenderer builds the renderer selected by the output flags.
func (a *App) newRenderer(cmd *cli.Command) codediff.Renderer {
	lineNumbers := cmd.Bool("line-numbers")
	switch cmd.String("format") {
	case "html":
		opts := []html.Option{
			html.WithLineNumbers(lineNumbers),
			html.WithClassPrefix(cmd.String("class-prefix")),
			html.WithWrap(cmd.Bool("wrap")),
		}
		if cmd.Bool("syntax") {
			opts = append(opts, html.WithSyntax(
				chroma.NewTokenizer(chroma.WithStyle(cmd.String("style"))),
				chroma.NewDetector(chroma.WithLanguage(cmd.String("language"))),
			))
		}
		return html.NewRenderer(opts...)
	case "json":
		return jsonl.NewRenderer(jsonl.WithPretty(cmd.Bool("pretty")))
	case "jsonl":
		return jsonl.NewLinesRenderer()
	case "ansi":
		return cdlipgloss.NewSideBySide(
			cdlipgloss.WithWidth(a.width(cmd.Int("width"))),
			cdlipgloss.WithLineNumbers(lineNumbers),
			cdlipgloss.WithTheme(cdlipgloss.ThemeByName(cmd.String("theme"))),
			cdlipgloss.WithRenderer(a.lipglossRenderer(cmd.String("color"))),
		)
	default:
		return unified.NewEmitter()
	}
}

// width returns flagWidth, or for 0 the terminal width, falling back to the
// renderer default when stdout is not a terminal.
func (a *App) width(flagWidth int) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if a.TermWidth != nil {
		if w := a.TermWidth(); w > 0 {
			return w
		}
	}
	return cdlipgloss.DefaultWidth
}

// lipglossRenderer returns a renderer for stdout whose colour profile follows
// the --color mode; auto detects it from the terminal.
func (a *App) lipglossRenderer(mode string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(a.Stdout)
	switch mode {
	case "always":
		r.SetColorProfile(termenv.TrueColor)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// emit renders through render and sends the output to the clipboard, the
// pager or stdout, as the flags ask.
func (a *App) emit(ctx context.Context, cmd *cli.Command, title string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	if cmd.Bool("copy") {
		if err := a.Clipboard.Copy(buf.String()); err != nil {
			return err
		}
	}
	if cmd.Bool("view") {
		return a.Viewer.View(ctx, title, buf.String())
	}
	_, err := a.Stdout.Write(buf.Bytes())
	return err
}
