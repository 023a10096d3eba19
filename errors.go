package codediff

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

// Error classes for errors.Is. Each typed error below matches exactly one.
var (
	ErrSizeLimit   = errors.New("size limit exceeded")
	ErrBinaryInput = errors.New("binary input")
	ErrParse       = errors.New("malformed patch")
	ErrPatchApply  = errors.New("patch does not apply")
)

// SizeLimitError reports input larger than the configured byte ceiling.
type SizeLimitError struct {
	Subject string // What was too large, e.g. "old input"
	Size    int
	Limit   int
}

// Error implements the error interface.
func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("%s is %s, exceeds maximum size of %s",
		e.Subject, humanize.Bytes(uint64(e.Size)), humanize.Bytes(uint64(e.Limit)))
}

// Is reports whether target is ErrSizeLimit.
func (e *SizeLimitError) Is(target error) bool { return target == ErrSizeLimit }

// BinaryInputError reports content that failed the text heuristic.
type BinaryInputError struct {
	Reason string
}

// Error implements the error interface.
func (e *BinaryInputError) Error() string {
	return "input appears to be binary: " + e.Reason
}

// Is reports whether target is ErrBinaryInput.
func (e *BinaryInputError) Is(target error) bool { return target == ErrBinaryInput }

// ParseError reports malformed unified patch syntax.
type ParseError struct {
	Line   int // 1-based line of the patch text, 0 when unknown
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// PatchApplyError reports a hunk whose context could not be located, or a
// patch that cannot be applied as a whole.
type PatchApplyError struct {
	Path      string // File being patched, empty for single-text application
	HunkIndex int    // 0-based index of the failing hunk
	OldStart  int    // Where the hunk expected its context
	Reason    string // Overrides the default hunk message when set
}

// Error implements the error interface.
func (e *PatchApplyError) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = fmt.Sprintf("hunk #%d failed to apply at line %d", e.HunkIndex+1, e.OldStart)
	}
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

// Is reports whether target is ErrPatchApply.
func (e *PatchApplyError) Is(target error) bool { return target == ErrPatchApply }
