package unified

import (
	"bufio"
	"cmp"
	"io"
	"strconv"
	"strings"

	"github.com/fwojciec/codediff"
)

// NoNewlineMarker follows the last line of a side that has no final
// terminator.
const NoNewlineMarker = `\ No newline at end of file`

// Compile-time interface verification.
var _ codediff.Renderer = (*Emitter)(nil)

// Emitter writes unified patch text that Parser reads back.
type Emitter struct{}

// NewEmitter creates an Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Render implements codediff.Renderer. Unset labels default to "a" and "b".
func (e *Emitter) Render(w io.Writer, result *codediff.DiffResult) error {
	bw := bufio.NewWriter(w)
	writeLine(bw, "--- "+cmp.Or(result.OldLabel, "a"))
	writeLine(bw, "+++ "+cmp.Or(result.NewLabel, "b"))
	writeHunks(bw, result)
	return bw.Flush()
}

// RenderBundle implements codediff.Renderer. Each file starts with its
// "diff --git" line and extended headers, reproduced verbatim when present.
// Files without hunks, such as pure renames, carry no ---/+++ lines.
func (e *Emitter) RenderBundle(w io.Writer, bundle *codediff.DiffBundle) error {
	bw := bufio.NewWriter(w)
	for _, f := range bundle.Files {
		for _, line := range FileHeaderLines(f) {
			writeLine(bw, line)
		}
		if f.Result.IsEmpty() {
			continue
		}
		writeLine(bw, "--- "+sidePath("a/", f.OldPath))
		writeLine(bw, "+++ "+sidePath("b/", f.NewPath))
		writeHunks(bw, &f.Result)
	}
	return bw.Flush()
}

// Emit returns result as patch text.
func Emit(result *codediff.DiffResult) string {
	var b strings.Builder
	_ = NewEmitter().Render(&b, result)
	return b.String()
}

// EmitBundle returns bundle as patch text.
func EmitBundle(bundle *codediff.DiffBundle) string {
	var b strings.Builder
	_ = NewEmitter().RenderBundle(&b, bundle)
	return b.String()
}

// FileHeaderLines returns the "diff --git" line and extended header lines for
// f. Recorded headers are kept verbatim in canonical order. A file without
// recorded metadata gets a mode line when it is created or deleted.
func FileHeaderLines(f codediff.DiffFile) []string {
	diffLine, ok := f.Header(codediff.HeaderDiff)
	if !ok {
		oldPath, newPath := f.OldPath, f.NewPath
		if f.IsNew() {
			oldPath = newPath
		}
		if f.IsDelete() {
			newPath = oldPath
		}
		diffLine = "diff --git a/" + oldPath + " b/" + newPath
	}
	lines := []string{diffLine}

	metadata := false
	for _, key := range codediff.MetadataHeaderKeys {
		if v, ok := f.Header(key); ok {
			lines = append(lines, v)
			metadata = true
		}
	}
	if !metadata {
		switch {
		case f.IsNew():
			lines = append(lines, "new file mode 100644")
		case f.IsDelete():
			lines = append(lines, "deleted file mode 100644")
		}
	}
	return lines
}

// HunkHeader formats "@@ -s[,l] +s[,l] @@", omitting a length of 1.
func HunkHeader(h codediff.Hunk) string {
	return "@@ -" + hunkRange(h.OldStart, h.OldLen) + " +" + hunkRange(h.NewStart, h.NewLen) + " @@"
}

func hunkRange(start, length int) string {
	if length == 1 {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(length)
}

func sidePath(prefix, path string) string {
	if path == codediff.DevNull {
		return path
	}
	return prefix + path
}

// writeHunks writes every hunk. In the last hunk the marker follows the last
// old-side line when the old text lacks a final terminator and the last
// new-side line when the new text does. With known line counts the marker is
// written only when that line is the last line of its text.
func writeHunks(bw *bufio.Writer, result *codediff.DiffResult) {
	for i, h := range result.Hunks {
		writeLine(bw, HunkHeader(h))

		lastOld, lastNew := -1, -1
		if i == len(result.Hunks)-1 {
			lastOld, lastNew = lastSideEdits(h.Edits)
			first := codediff.OpEqual
			if len(h.Edits) > 0 {
				first = h.Edits[0].Op
			}
			if result.OldHasTrailingNewline || !atEnd(h.OldStart, h.OldLen, first != codediff.OpInsert, result.OldLineCount) {
				lastOld = -1
			}
			if result.NewHasTrailingNewline || !atEnd(h.NewStart, h.NewLen, first != codediff.OpDelete, result.NewLineCount) {
				lastNew = -1
			}
		}
		for j, e := range h.Edits {
			writeLine(bw, e.Op.Prefix()+e.Text)
			if j == lastOld || j == lastNew {
				writeLine(bw, NoNewlineMarker)
			}
		}
	}
}

// atEnd reports whether a hunk range ends on the last of count lines. When
// the first edit does not touch the side, start names the line before the
// range. An unknown count of 0 always matches.
func atEnd(start, length int, leads bool, count int) bool {
	if !leads {
		start++
	}
	return count == 0 || start+length-1 == count
}

// lastSideEdits returns the indices of the last edits touching the old and
// new sides, or -1.
func lastSideEdits(edits []codediff.Edit) (lastOld, lastNew int) {
	lastOld, lastNew = -1, -1
	for i, e := range edits {
		if e.Op != codediff.OpInsert {
			lastOld = i
		}
		if e.Op != codediff.OpDelete {
			lastNew = i
		}
	}
	return lastOld, lastNew
}

func writeLine(bw *bufio.Writer, line string) {
	bw.WriteString(line)
	bw.WriteByte('\n')
}
