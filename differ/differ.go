// Package differ compares two texts line by line and groups the changes into
// hunks with surrounding context.
package differ

import (
	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/log"
	"github.com/fwojciec/codediff/myers"
	"github.com/fwojciec/codediff/textutil"
	"github.com/fwojciec/codediff/worddiff"
)

// Differ computes DiffResults. A Differ is immutable after New and safe for
// concurrent use.
type Differ struct {
	opts      codediff.Options
	engine    codediff.Engine
	tokenizer codediff.WordTokenizer
}

// Option configures a Differ.
type Option func(*Differ)

// WithOptions replaces all diff options at once.
func WithOptions(opts codediff.Options) Option {
	return func(d *Differ) {
		d.opts = opts
	}
}

// WithEngine sets the edit script engine used for lines and words.
func WithEngine(e codediff.Engine) Option {
	return func(d *Differ) {
		d.engine = e
	}
}

// WithTokenizer sets the tokenizer used for word spans.
func WithTokenizer(t codediff.WordTokenizer) Option {
	return func(d *Differ) {
		d.tokenizer = t
	}
}

// WithContextLines sets the number of unchanged lines around each change.
func WithContextLines(n int) Option {
	return func(d *Differ) {
		d.opts = d.opts.WithContextLines(n)
	}
}

// WithWordDiff enables word spans on paired changed lines.
func WithWordDiff(on bool) Option {
	return func(d *Differ) {
		d.opts = d.opts.WithWordDiff(on)
	}
}

// WithIgnoreWhitespace makes lines that differ only in whitespace compare equal.
func WithIgnoreWhitespace(on bool) Option {
	return func(d *Differ) {
		d.opts = d.opts.WithIgnoreWhitespace(on)
	}
}

// WithMaxBytes sets the per-input size ceiling.
func WithMaxBytes(n int) Option {
	return func(d *Differ) {
		d.opts = d.opts.WithMaxBytes(n)
	}
}

// New creates a Differ with default options, the myers engine, and the
// whitespace-run tokenizer, then applies opts in order.
func New(opts ...Option) *Differ {
	d := &Differ{
		opts:      codediff.DefaultOptions(),
		engine:    myers.New(),
		tokenizer: worddiff.NewTokenizer(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Options returns the options the Differ was built with.
func (d *Differ) Options() codediff.Options {
	return d.opts
}

// Compare diffs oldText against newText. It fails with a *codediff.SizeLimitError
// or *codediff.BinaryInputError before doing any diff work, or with a plain
// error when the options are invalid.
func (d *Differ) Compare(oldText, newText string) (*codediff.DiffResult, error) {
	if err := d.opts.Validate(); err != nil {
		return nil, err
	}
	if err := d.checkInput("old input", oldText); err != nil {
		return nil, err
	}
	if err := d.checkInput("new input", newText); err != nil {
		return nil, err
	}

	if oldText == newText {
		lines, trailing := textutil.SplitLines(oldText)
		return &codediff.DiffResult{
			OldHasTrailingNewline: trailing,
			NewHasTrailingNewline: trailing,
			OldLineCount:          len(lines),
			NewLineCount:          len(lines),
		}, nil
	}

	oldLines, oldTrailing := textutil.SplitLines(oldText)
	newLines, newTrailing := textutil.SplitLines(newText)
	oldKeys := d.compareKeys(oldLines, oldTrailing)
	newKeys := d.compareKeys(newLines, newTrailing)

	b := &hunkBuilder{
		oldLines: oldLines,
		newLines: newLines,
		script:   d.engine.EditScript(oldKeys, newKeys),
		context:  d.opts.ContextLines,
	}
	if d.opts.WordDiff {
		b.words = worddiff.NewDiffer(d.engine, d.tokenizer)
	}
	result := &codediff.DiffResult{
		Hunks:                 b.build(),
		OldHasTrailingNewline: oldTrailing,
		NewHasTrailingNewline: newTrailing,
		OldLineCount:          len(oldLines),
		NewLineCount:          len(newLines),
	}

	log.WithFields(log.Fields{
		"old_lines": len(oldLines),
		"new_lines": len(newLines),
		"script":    len(b.script),
		"hunks":     len(result.Hunks),
	}).Debug("compared texts")
	return result, nil
}

func (d *Differ) checkInput(subject, s string) error {
	if len(s) > d.opts.MaxBytes {
		return &codediff.SizeLimitError{Subject: subject, Size: len(s), Limit: d.opts.MaxBytes}
	}
	return textutil.AssertText(s)
}

// compareKeys returns the strings the engine compares for lines. Keys are the
// lines themselves, or their collapsed form when whitespace is ignored. When
// the side has no final terminator its last key is marked, so it only matches
// an unterminated last line on the other side.
func (d *Differ) compareKeys(lines []string, trailing bool) []string {
	keys := lines
	if d.opts.IgnoreWhitespace {
		keys = make([]string, len(lines))
		for i, line := range lines {
			keys[i] = textutil.CollapseWhitespace(line)
		}
	}
	if !trailing && len(keys) > 0 {
		if !d.opts.IgnoreWhitespace {
			keys = append([]string(nil), keys...)
		}
		keys[len(keys)-1] += "\n"
	}
	return keys
}
