// Package patch applies diff results and unified patches to text, locating
// each hunk by its context with optional fuzz.
package patch

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/log"
	"github.com/fwojciec/codediff/textutil"
	"github.com/fwojciec/codediff/unified"
)

// Applier applies hunks to text. An Applier is immutable after NewApplier and
// safe for concurrent use.
type Applier struct {
	fuzz     int
	maxBytes int
	parser   codediff.Parser
}

// Option configures an Applier.
type Option func(*Applier)

// WithFuzz sets how many lines away from its recorded position a hunk's
// context may be found.
func WithFuzz(n int) Option {
	return func(a *Applier) {
		a.fuzz = n
	}
}

// WithMaxBytes sets the size ceiling for original content.
func WithMaxBytes(n int) Option {
	return func(a *Applier) {
		a.maxBytes = n
	}
}

// WithOptions takes Fuzz and MaxBytes from opts.
func WithOptions(opts codediff.Options) Option {
	return func(a *Applier) {
		a.fuzz = opts.Fuzz
		a.maxBytes = opts.MaxBytes
	}
}

// WithParser sets the parser used by ApplyPatch.
func WithParser(p codediff.Parser) Option {
	return func(a *Applier) {
		a.parser = p
	}
}

// NewApplier creates an Applier with no fuzz, the default size ceiling, and
// the unified parser.
func NewApplier(opts ...Option) *Applier {
	a := &Applier{
		maxBytes: codediff.DefaultMaxBytes,
		parser:   unified.NewParser(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply applies result's hunks to original in order. It fails with a
// *codediff.PatchApplyError naming the first hunk whose context cannot be
// found; no partial output is returned.
//
// The output uses LF terminators. Its final terminator follows
// result.NewHasTrailingNewline when a hunk reaches the last line and is kept
// from original otherwise. A result without hunks returns original as is,
// with no terminator normalization.
func (a *Applier) Apply(original string, result *codediff.DiffResult) (string, error) {
	if err := a.check(original); err != nil {
		return "", err
	}
	return a.apply(original, result)
}

// ApplyPatch parses patchText and applies it to original. A patch without
// files returns original unchanged; a patch with more than one file fails.
func (a *Applier) ApplyPatch(original, patchText string) (string, error) {
	if err := a.check(original); err != nil {
		return "", err
	}
	bundle, err := a.parser.Parse(strings.NewReader(patchText))
	if err != nil {
		return "", err
	}
	switch len(bundle.Files) {
	case 0:
		return original, nil
	case 1:
		return a.apply(original, &bundle.Files[0].Result)
	default:
		return "", &codediff.PatchApplyError{
			Reason: fmt.Sprintf("patch contains %d files, apply it as a bundle", len(bundle.Files)),
		}
	}
}

// ApplyBundle applies every file of bundle to files, a map from path to
// content, and returns the updated map. The input map is not modified.
//
// A file whose old path is codediff.DevNull starts from empty content. A file
// whose old path is absent is skipped when it has no hunks and fails
// otherwise. Patched content is stored under the new path unless the file is
// deleted; the old path is removed for deletions and renames.
func (a *Applier) ApplyBundle(files map[string]string, bundle *codediff.DiffBundle) (map[string]string, error) {
	out := maps.Clone(files)
	if out == nil {
		out = make(map[string]string)
	}
	for _, f := range bundle.Files {
		var content string
		if !f.IsNew() {
			c, ok := out[f.OldPath]
			if !ok {
				if f.Result.IsEmpty() {
					continue
				}
				return nil, &codediff.PatchApplyError{Path: f.OldPath, Reason: "file not found"}
			}
			content = c
		}

		patched, err := a.Apply(content, &f.Result)
		if err != nil {
			return nil, withPath(err, f.OldPath)
		}

		if !f.IsNew() && (f.IsDelete() || f.IsRename()) {
			delete(out, f.OldPath)
		}
		if !f.IsDelete() {
			out[f.NewPath] = patched
		}
		log.WithFields(log.Fields{"old": f.OldPath, "new": f.NewPath, "hunks": len(f.Result.Hunks)}).Debug("applied file")
	}
	return out, nil
}

func (a *Applier) check(original string) error {
	if a.fuzz < 0 {
		return fmt.Errorf("fuzz must be >= 0, got %d", a.fuzz)
	}
	if a.maxBytes <= 0 {
		return fmt.Errorf("max bytes must be > 0, got %d", a.maxBytes)
	}
	if len(original) > a.maxBytes {
		return &codediff.SizeLimitError{Subject: "original content", Size: len(original), Limit: a.maxBytes}
	}
	return nil
}

func (a *Applier) apply(original string, result *codediff.DiffResult) (string, error) {
	if result.IsEmpty() {
		return original, nil
	}
	lines, trailing := textutil.SplitLines(original)
	offset := 0
	for i, h := range result.Hunks {
		oldLines, newLines := h.OldLines(), h.NewLines()
		target := targetLine(h.OldStart, len(oldLines), offset, len(lines))

		pos, ok := a.locate(lines, oldLines, target)
		if !ok {
			return "", &codediff.PatchApplyError{HunkIndex: i, OldStart: h.OldStart}
		}
		if pos != target {
			log.WithFields(log.Fields{"hunk": i + 1, "expected": target + 1, "found": pos + 1}).Debug("hunk applied with fuzz")
		}

		lines = slices.Replace(lines, pos, pos+len(oldLines), newLines...)
		offset += len(newLines) - len(oldLines)
		if pos+len(newLines) == len(lines) {
			trailing = result.NewHasTrailingNewline
		}
	}
	return textutil.JoinLines(lines, trailing), nil
}

// targetLine returns the 0-based position in the current n lines where a
// hunk's old lines are expected. A hunk with no old lines inserts after line
// oldStart.
func targetLine(oldStart, oldLen, offset, n int) int {
	if oldLen == 0 {
		return max(min(oldStart+offset, n), 0)
	}
	return max(oldStart-1, 0) + offset
}

// locate finds where context occurs, trying target first and then target+k
// and target-k for k up to the fuzz factor.
func (a *Applier) locate(lines, context []string, target int) (int, bool) {
	if matchesAt(lines, context, target) {
		return target, true
	}
	for k := 1; k <= a.fuzz; k++ {
		if matchesAt(lines, context, target+k) {
			return target + k, true
		}
		if matchesAt(lines, context, target-k) {
			return target - k, true
		}
	}
	return 0, false
}

func matchesAt(lines, context []string, pos int) bool {
	if pos < 0 || pos+len(context) > len(lines) {
		return false
	}
	return slices.Equal(lines[pos:pos+len(context)], context)
}

func withPath(err error, path string) error {
	var applyErr *codediff.PatchApplyError
	if errors.As(err, &applyErr) {
		e := *applyErr
		e.Path = path
		return &e
	}
	return fmt.Errorf("%s: %w", path, err)
}
