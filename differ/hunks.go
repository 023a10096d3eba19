package differ

import (
	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/worddiff"
)

// hunkBuilder turns an edit script over two line sequences into hunks.
type hunkBuilder struct {
	oldLines []string
	newLines []string
	script   []codediff.EditOp
	context  int
	words    *worddiff.Differ // nil disables word spans
}

// build returns the hunks for the script, or nil when it has no changes.
func (b *hunkBuilder) build() []codediff.Hunk {
	var hunks []codediff.Hunk
	for _, w := range changeWindows(b.script, b.context) {
		hunks = append(hunks, b.hunk(w))
	}
	return hunks
}

// window is a half-open range of script positions forming one hunk.
type window struct {
	start, end int
}

// changeWindows groups the non-equal operations of script: a change joins the
// previous group when it is at most 2*context+1 positions after the previous
// change. Each group is widened by context on both sides and clamped.
func changeWindows(script []codediff.EditOp, context int) []window {
	var changes []int
	for i, op := range script {
		if op.Op != codediff.OpEqual {
			changes = append(changes, i)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	var windows []window
	first := changes[0]
	for i := 1; i <= len(changes); i++ {
		if i < len(changes) && changes[i]-changes[i-1] <= 2*context+1 {
			continue
		}
		last := changes[i-1]
		windows = append(windows, window{
			start: max(first-context, 0),
			end:   min(last+context+1, len(script)),
		})
		if i < len(changes) {
			first = changes[i]
		}
	}
	return windows
}

func (b *hunkBuilder) hunk(w window) codediff.Hunk {
	edits := make([]codediff.Edit, 0, w.end-w.start)
	var r run
	for _, op := range b.script[w.start:w.end] {
		if op.Op != codediff.OpEqual {
			r = r.add(op)
			continue
		}
		edits = r.flush(edits, b)
		r = run{}
		edits = append(edits, codediff.Edit{Op: codediff.OpEqual, Text: b.oldLines[op.OldIndex]})
	}
	edits = r.flush(edits, b)

	oldStart, newStart := startLines(b.script, w.start)
	return codediff.NewHunk(oldStart, newStart, edits)
}

// run accumulates a contiguous stretch of deleted and inserted lines between
// two equal lines, as indices into the old and new sequences.
type run struct {
	deletes []int
	inserts []int
}

func (r run) add(op codediff.EditOp) run {
	if op.Op == codediff.OpDelete {
		r.deletes = append(r.deletes, op.OldIndex)
	} else {
		r.inserts = append(r.inserts, op.NewIndex)
	}
	return r
}

// flush appends the run's edits. With word diffing and both sides present,
// deletions and insertions are paired in order; each pair yields a Delete then
// an Insert carrying word spans. Unpaired lines follow without spans, deletes
// before inserts.
func (r run) flush(edits []codediff.Edit, b *hunkBuilder) []codediff.Edit {
	paired := 0
	if b.words != nil && len(r.deletes) > 0 && len(r.inserts) > 0 {
		paired = min(len(r.deletes), len(r.inserts))
	}
	for i := range paired {
		oldLine, newLine := b.oldLines[r.deletes[i]], b.newLines[r.inserts[i]]
		oldSpans, newSpans := b.words.Spans(oldLine, newLine)
		edits = append(edits,
			codediff.Edit{Op: codediff.OpDelete, Text: oldLine, WordSpans: oldSpans},
			codediff.Edit{Op: codediff.OpInsert, Text: newLine, WordSpans: newSpans},
		)
	}
	for _, idx := range r.deletes[paired:] {
		edits = append(edits, codediff.Edit{Op: codediff.OpDelete, Text: b.oldLines[idx]})
	}
	for _, idx := range r.inserts[paired:] {
		edits = append(edits, codediff.Edit{Op: codediff.OpInsert, Text: b.newLines[idx]})
	}
	return edits
}

// startLines returns the 1-based old and new start lines for a hunk whose
// window begins at script[start]. A side missing from the first operation
// takes the index+1 of the closest earlier operation that has it, searching
// the whole script before the window, or 0 when there is none.
func startLines(script []codediff.EditOp, start int) (oldStart, newStart int) {
	first := script[start]
	if first.HasOld() {
		oldStart = first.OldIndex + 1
	} else {
		oldStart = scanBack(script, start, func(op codediff.EditOp) int { return op.OldIndex })
	}
	if first.HasNew() {
		newStart = first.NewIndex + 1
	} else {
		newStart = scanBack(script, start, func(op codediff.EditOp) int { return op.NewIndex })
	}
	return oldStart, newStart
}

func scanBack(script []codediff.EditOp, start int, index func(codediff.EditOp) int) int {
	for i := start - 1; i >= 0; i-- {
		if idx := index(script[i]); idx >= 0 {
			return idx + 1
		}
	}
	return 0
}
