// Package unified reads and writes the unified diff format, including the
// extended header lines git adds to multi-file patches.
package unified

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.Parser = (*Parser)(nil)

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// metadataPrefixes maps extended header line prefixes to header keys.
var metadataPrefixes = []struct {
	prefix string
	key    string
}{
	{"index ", codediff.HeaderIndex},
	{"old mode ", codediff.HeaderOldMode},
	{"new mode ", codediff.HeaderNewMode},
	{"new file mode ", codediff.HeaderNewFileMode},
	{"deleted file mode ", codediff.HeaderDeletedFileMode},
	{"similarity index ", codediff.HeaderSimilarityIndex},
	{"rename from ", codediff.HeaderRenameFrom},
	{"rename to ", codediff.HeaderRenameTo},
	{"copy from ", codediff.HeaderCopyFrom},
	{"copy to ", codediff.HeaderCopyTo},
}

// Parser reads unified patch text.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements codediff.Parser. Text before the first file header is
// ignored. It fails with a *codediff.ParseError for an invalid hunk header or
// a hunk whose body does not match its header counts, and with a
// *codediff.BinaryInputError for "Binary files ... differ" sections.
func (p *Parser) Parse(r io.Reader) (*codediff.DiffBundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read patch: %w", err)
	}
	s := &parseState{lines: strings.Split(string(data), "\n")}
	s.resetFile()
	if err := s.run(); err != nil {
		return nil, err
	}
	return &codediff.DiffBundle{Files: s.files}, nil
}

// Parse reads a patch from a string.
func Parse(text string) (*codediff.DiffBundle, error) {
	return NewParser().Parse(strings.NewReader(text))
}

type section int

const (
	sectionPreamble section = iota
	sectionFileHeader
	sectionHunks
)

type fileState struct {
	oldPath, newPath string
	hasOld, hasNew   bool
	headers          []codediff.Header
	hunks            []codediff.Hunk
	oldTrailing      bool
	newTrailing      bool
}

type hunkState struct {
	line             int // 1-based line of the @@ header
	oldStart         int
	newStart         int
	wantOld, wantNew int
	seenOld, seenNew int
	edits            []codediff.Edit
}

func (h *hunkState) complete() bool {
	return h.seenOld >= h.wantOld && h.seenNew >= h.wantNew
}

type parseState struct {
	lines   []string
	section section
	file    fileState
	hunk    *hunkState
	files   []codediff.DiffFile
}

func (s *parseState) resetFile() {
	s.file = fileState{oldTrailing: true, newTrailing: true}
}

func (s *parseState) run() error {
	for i, line := range s.lines {
		last := i == len(s.lines)-1
		if err := s.step(i+1, line, last); err != nil {
			return err
		}
	}
	return s.finishFile()
}

func (s *parseState) step(n int, line string, last bool) error {
	if s.hunk != nil && !s.hunk.complete() {
		return s.bodyLine(n, line, last)
	}
	if s.hunk != nil && strings.HasPrefix(line, `\ `) {
		return s.noNewlineMarker(n)
	}

	switch {
	case strings.HasPrefix(line, "Binary files "):
		return &codediff.BinaryInputError{Reason: "patch contains binary files"}

	case strings.HasPrefix(line, "diff --git "):
		if err := s.finishFile(); err != nil {
			return err
		}
		s.file.headers = append(s.file.headers, codediff.Header{Key: codediff.HeaderDiff, Value: line})
		s.section = sectionFileHeader
		return nil

	case strings.HasPrefix(line, "--- "):
		if err := s.finishHunk(); err != nil {
			return err
		}
		if s.file.hasOld || s.file.hasNew || len(s.file.hunks) > 0 {
			if err := s.finishFile(); err != nil {
				return err
			}
		}
		s.file.oldPath, s.file.hasOld = extractPath(line[len("--- "):]), true
		s.section = sectionFileHeader
		return nil

	case strings.HasPrefix(line, "+++ "):
		if err := s.finishHunk(); err != nil {
			return err
		}
		s.file.newPath, s.file.hasNew = extractPath(line[len("+++ "):]), true
		s.section = sectionHunks
		return nil

	case strings.HasPrefix(line, "@@ "):
		if err := s.finishHunk(); err != nil {
			return err
		}
		return s.startHunk(n, line)
	}

	if s.section != sectionHunks {
		for _, m := range metadataPrefixes {
			if strings.HasPrefix(line, m.prefix) {
				s.file.headers = append(s.file.headers, codediff.Header{Key: m.key, Value: line})
				return nil
			}
		}
	}

	if s.hunk != nil {
		// The hunk has all the lines its header promised. Further body lines
		// make the counts mismatch; anything else ends the hunk.
		if line != "" && strings.ContainsRune(" -+", rune(line[0])) {
			return s.bodyLine(n, line, last)
		}
		return s.finishHunk()
	}
	return nil
}

func (s *parseState) startHunk(n int, line string) error {
	m := hunkHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return &codediff.ParseError{Line: n, Reason: "invalid hunk header: " + line}
	}
	s.hunk = &hunkState{
		line:     n,
		oldStart: atoi(m[1], 0),
		wantOld:  atoi(m[2], 1),
		newStart: atoi(m[3], 0),
		wantNew:  atoi(m[4], 1),
	}
	s.section = sectionHunks
	return nil
}

// atoi parses a header number, returning def for an omitted group.
func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func (s *parseState) bodyLine(n int, line string, last bool) error {
	h := s.hunk
	switch {
	case line == "" && last:
		return nil
	case strings.HasPrefix(line, `\ `):
		return s.noNewlineMarker(n)
	case line == "":
		h.edits = append(h.edits, codediff.Edit{Op: codediff.OpEqual})
		h.seenOld++
		h.seenNew++
	case line[0] == ' ':
		h.edits = append(h.edits, codediff.Edit{Op: codediff.OpEqual, Text: line[1:]})
		h.seenOld++
		h.seenNew++
	case line[0] == '-':
		h.edits = append(h.edits, codediff.Edit{Op: codediff.OpDelete, Text: line[1:]})
		h.seenOld++
	case line[0] == '+':
		h.edits = append(h.edits, codediff.Edit{Op: codediff.OpInsert, Text: line[1:]})
		h.seenNew++
	default:
		h.edits = append(h.edits, codediff.Edit{Op: codediff.OpEqual, Text: line})
		h.seenOld++
		h.seenNew++
	}
	return nil
}

// noNewlineMarker records that the side of the preceding edit has no final
// terminator. After an unchanged line both sides lack it.
func (s *parseState) noNewlineMarker(n int) error {
	edits := s.hunk.edits
	if len(edits) == 0 {
		return &codediff.ParseError{Line: n, Reason: "no edit available for newline marker"}
	}
	switch edits[len(edits)-1].Op {
	case codediff.OpDelete:
		s.file.oldTrailing = false
	case codediff.OpInsert:
		s.file.newTrailing = false
	default:
		s.file.oldTrailing = false
		s.file.newTrailing = false
	}
	return nil
}

func (s *parseState) finishHunk() error {
	h := s.hunk
	if h == nil {
		return nil
	}
	s.hunk = nil
	if h.seenOld != h.wantOld || h.seenNew != h.wantNew {
		return &codediff.ParseError{
			Line: h.line,
			Reason: fmt.Sprintf("hunk header counts do not match body (expected -%d,+%d, got -%d,+%d)",
				h.wantOld, h.wantNew, h.seenOld, h.seenNew),
		}
	}
	if len(h.edits) > 0 {
		s.file.hunks = append(s.file.hunks, codediff.Hunk{
			OldStart: h.oldStart,
			OldLen:   h.seenOld,
			NewStart: h.newStart,
			NewLen:   h.seenNew,
			Edits:    h.edits,
		})
	}
	return nil
}

func (s *parseState) finishFile() error {
	if err := s.finishHunk(); err != nil {
		return err
	}
	f := s.file
	defer s.resetFile()
	s.section = sectionPreamble

	_, hasDiffLine := headerValue(f.headers, codediff.HeaderDiff)
	if !f.hasOld && !f.hasNew && !hasDiffLine && len(f.hunks) == 0 {
		return nil
	}
	oldPath, newPath := resolvePaths(f)
	s.files = append(s.files, codediff.DiffFile{
		OldPath: oldPath,
		NewPath: newPath,
		Result: codediff.DiffResult{
			Hunks:                 f.hunks,
			OldHasTrailingNewline: f.oldTrailing,
			NewHasTrailingNewline: f.newTrailing,
		},
		Headers: f.headers,
	})
	return nil
}

// resolvePaths fills in paths missing from ---/+++ lines, as in git patches
// for renames, mode changes, and empty files, from the extended headers.
func resolvePaths(f fileState) (oldPath, newPath string) {
	oldPath, newPath = f.oldPath, f.newPath
	if f.hasOld && f.hasNew {
		return oldPath, newPath
	}

	gitOld, gitNew := pathsFromHeaders(f.headers)
	if !f.hasOld {
		oldPath = gitOld
	}
	if !f.hasNew {
		newPath = gitNew
	}
	if _, ok := headerValue(f.headers, codediff.HeaderNewFileMode); ok && !f.hasOld {
		oldPath = codediff.DevNull
	}
	if _, ok := headerValue(f.headers, codediff.HeaderDeletedFileMode); ok && !f.hasNew {
		newPath = codediff.DevNull
	}
	return oldPath, newPath
}

func pathsFromHeaders(headers []codediff.Header) (oldPath, newPath string) {
	from, okFrom := headerValue(headers, codediff.HeaderRenameFrom)
	to, okTo := headerValue(headers, codediff.HeaderRenameTo)
	if okFrom && okTo {
		return strings.TrimPrefix(from, "rename from "), strings.TrimPrefix(to, "rename to ")
	}
	from, okFrom = headerValue(headers, codediff.HeaderCopyFrom)
	to, okTo = headerValue(headers, codediff.HeaderCopyTo)
	if okFrom && okTo {
		return strings.TrimPrefix(from, "copy from "), strings.TrimPrefix(to, "copy to ")
	}
	line, ok := headerValue(headers, codediff.HeaderDiff)
	if !ok {
		return "", ""
	}
	return splitGitPaths(strings.TrimPrefix(line, "diff --git "))
}

// splitGitPaths splits "a/X b/Y". When X and Y are equal the split is exact
// even if the path contains " b/".
func splitGitPaths(s string) (oldPath, newPath string) {
	if len(s)%2 == 1 {
		half := len(s) / 2
		left, right := s[:half], s[half+1:]
		if strings.HasPrefix(left, "a/") && strings.HasPrefix(right, "b/") && left[2:] == right[2:] {
			return left[2:], right[2:]
		}
	}
	if i := strings.LastIndex(s, " b/"); i >= 0 {
		return strings.TrimPrefix(s[:i], "a/"), s[i+3:]
	}
	return s, s
}

func headerValue(headers []codediff.Header, key string) (string, bool) {
	for _, h := range headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}

// extractPath strips one "a/" or "b/" prefix and anything after a tab.
func extractPath(s string) string {
	if strings.HasPrefix(s, "a/") || strings.HasPrefix(s, "b/") {
		s = s[2:]
	}
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	return s
}
