package codediff

// Op tags edits, word spans, and edit-script operations.
type Op int

// Operation types.
const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

// String returns the lowercase operation name.
func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Prefix returns the unified-diff body prefix for the operation.
func (o Op) Prefix() string {
	switch o {
	case OpDelete:
		return "-"
	case OpInsert:
		return "+"
	default:
		return " "
	}
}

// EditOp is one step of a raw edit script. OldIndex and NewIndex are 0-based
// positions in the compared sequences, -1 when the operation has no token on
// that side.
type EditOp struct {
	Op       Op
	OldIndex int
	NewIndex int
}

// Equal returns an OpEqual step pairing a[oldIndex] with b[newIndex].
func Equal(oldIndex, newIndex int) EditOp {
	return EditOp{Op: OpEqual, OldIndex: oldIndex, NewIndex: newIndex}
}

// Delete returns an OpDelete step removing a[oldIndex].
func Delete(oldIndex int) EditOp {
	return EditOp{Op: OpDelete, OldIndex: oldIndex, NewIndex: -1}
}

// Insert returns an OpInsert step adding b[newIndex].
func Insert(newIndex int) EditOp {
	return EditOp{Op: OpInsert, OldIndex: -1, NewIndex: newIndex}
}

// HasOld reports whether the step refers to a token of the old sequence.
func (e EditOp) HasOld() bool { return e.OldIndex >= 0 }

// HasNew reports whether the step refers to a token of the new sequence.
func (e EditOp) HasNew() bool { return e.NewIndex >= 0 }

// WordSpan is a token within a changed line, tagged with how it differs from
// the paired line.
type WordSpan struct {
	Op   Op
	Text string
}

// Edit is a single line of a hunk.
type Edit struct {
	Op        Op
	Text      string     // Line content without terminator
	WordSpans []WordSpan // Intra-line spans; empty unless word diffing paired this line
}

// Hunk is a contiguous block of changes plus surrounding context.
//
// Invariants:
//   - OldLen == count of edits with Op in {OpEqual, OpDelete}
//   - NewLen == count of edits with Op in {OpEqual, OpInsert}
type Hunk struct {
	OldStart int // 1-based; 0 when the old side is empty before this hunk
	OldLen   int
	NewStart int // 1-based; 0 when the new side is empty before this hunk
	NewLen   int
	Edits    []Edit
}

// NewHunk builds a hunk from edits, deriving OldLen and NewLen.
func NewHunk(oldStart, newStart int, edits []Edit) Hunk {
	h := Hunk{OldStart: oldStart, NewStart: newStart, Edits: edits}
	for _, e := range edits {
		switch e.Op {
		case OpEqual:
			h.OldLen++
			h.NewLen++
		case OpDelete:
			h.OldLen++
		case OpInsert:
			h.NewLen++
		}
	}
	return h
}

// OldLines returns the text the hunk expects to find in the original, in
// order: every OpEqual and OpDelete edit.
func (h Hunk) OldLines() []string {
	lines := make([]string, 0, h.OldLen)
	for _, e := range h.Edits {
		if e.Op != OpInsert {
			lines = append(lines, e.Text)
		}
	}
	return lines
}

// NewLines returns the text the hunk produces, in order: every OpEqual and
// OpInsert edit.
func (h Hunk) NewLines() []string {
	lines := make([]string, 0, h.NewLen)
	for _, e := range h.Edits {
		if e.Op != OpDelete {
			lines = append(lines, e.Text)
		}
	}
	return lines
}

// Stats returns the number of inserted and deleted lines in the hunk.
func (h Hunk) Stats() (added, deleted int) {
	for _, e := range h.Edits {
		switch e.Op {
		case OpInsert:
			added++
		case OpDelete:
			deleted++
		}
	}
	return added, deleted
}

// DiffResult is the outcome of comparing two texts. Hunks are ordered by
// ascending OldStart and never overlap; no hunks means the inputs compare
// equal.
type DiffResult struct {
	Hunks                 []Hunk
	OldLabel              string // Optional; empty when unset
	NewLabel              string // Optional; empty when unset
	OldHasTrailingNewline bool
	NewHasTrailingNewline bool

	// OldLineCount and NewLineCount are the line counts of the compared
	// texts, or 0 when unknown, as for a result parsed from a patch.
	OldLineCount int
	NewLineCount int
}

// IsEmpty reports whether the result has no hunks.
func (r *DiffResult) IsEmpty() bool {
	return len(r.Hunks) == 0
}

// Stats returns the number of inserted and deleted lines across all hunks.
func (r *DiffResult) Stats() (added, deleted int) {
	for _, h := range r.Hunks {
		a, d := h.Stats()
		added += a
		deleted += d
	}
	return added, deleted
}

// DevNull is the path used by unified patches for a missing side: the old
// path of a created file or the new path of a deleted one.
const DevNull = "/dev/null"

// Header keys for git extended header lines, in emission order.
const (
	HeaderDiff            = "diff"
	HeaderIndex           = "index"
	HeaderOldMode         = "old_mode"
	HeaderNewMode         = "new_mode"
	HeaderNewFileMode     = "new_file_mode"
	HeaderDeletedFileMode = "deleted_file_mode"
	HeaderSimilarityIndex = "similarity_index"
	HeaderRenameFrom      = "rename_from"
	HeaderRenameTo        = "rename_to"
	HeaderCopyFrom        = "copy_from"
	HeaderCopyTo          = "copy_to"
)

// MetadataHeaderKeys lists the extended header keys emitted after the
// "diff --git" line, in the order they are written.
var MetadataHeaderKeys = []string{
	HeaderIndex,
	HeaderOldMode,
	HeaderNewMode,
	HeaderNewFileMode,
	HeaderDeletedFileMode,
	HeaderSimilarityIndex,
	HeaderRenameFrom,
	HeaderRenameTo,
	HeaderCopyFrom,
	HeaderCopyTo,
}

// Header is one extended header line of a file in a multi-file patch.
type Header struct {
	Key   string // One of the Header* constants
	Value string // The full header line, verbatim
}

// DiffFile is one file of a multi-file patch.
type DiffFile struct {
	OldPath string // DevNull for created files
	NewPath string // DevNull for deleted files
	Result  DiffResult
	Headers []Header // In the order they were read
}

// Header returns the verbatim line for key, if present.
func (f DiffFile) Header(key string) (string, bool) {
	for _, h := range f.Headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}

// IsNew reports whether the file is created by the patch.
func (f DiffFile) IsNew() bool { return f.OldPath == DevNull }

// IsDelete reports whether the file is removed by the patch.
func (f DiffFile) IsDelete() bool { return f.NewPath == DevNull }

// IsRename reports whether the file moves to a different path.
func (f DiffFile) IsRename() bool {
	return !f.IsNew() && !f.IsDelete() && f.OldPath != f.NewPath
}

// DisplayPath returns the path best describing the file: the new path, or
// the old path for deletions.
func (f DiffFile) DisplayPath() string {
	if f.IsDelete() {
		return f.OldPath
	}
	return f.NewPath
}

// DiffBundle is an ordered list of files from a multi-file patch.
type DiffBundle struct {
	Files []DiffFile
}
