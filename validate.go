package codediff

import "fmt"

// ValidationReason identifies why a hunk violates the DiffResult invariants.
type ValidationReason string

// Validation error reasons.
const (
	ErrHunkLength  ValidationReason = "length_mismatch"
	ErrHunkOrder   ValidationReason = "out_of_order"
	ErrHunkOverlap ValidationReason = "overlap"
	ErrHunkEmpty   ValidationReason = "empty"
)

// ValidationError describes a single invariant violation in a DiffResult.
type ValidationError struct {
	Hunk   int // 0-based index of the offending hunk
	Reason ValidationReason
	Want   int // Expected value, for length_mismatch
	Got    int // Recorded value, for length_mismatch
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch e.Reason {
	case ErrHunkLength:
		return fmt.Sprintf("hunk %d: recorded length %d does not match %d edits", e.Hunk, e.Got, e.Want)
	case ErrHunkOrder:
		return fmt.Sprintf("hunk %d: starts before the previous hunk", e.Hunk)
	case ErrHunkOverlap:
		return fmt.Sprintf("hunk %d: overlaps the previous hunk", e.Hunk)
	case ErrHunkEmpty:
		return fmt.Sprintf("hunk %d: has no edits", e.Hunk)
	default:
		return fmt.Sprintf("hunk %d: invalid", e.Hunk)
	}
}

// Validate checks the structural invariants of r: recorded hunk lengths match
// their edits, and hunks are ordered by OldStart without overlapping. It
// returns nil when r is well formed.
func (r *DiffResult) Validate() []ValidationError {
	var errs []ValidationError
	prevEnd := -1
	for i, h := range r.Hunks {
		if len(h.Edits) == 0 {
			errs = append(errs, ValidationError{Hunk: i, Reason: ErrHunkEmpty})
			continue
		}
		derived := NewHunk(h.OldStart, h.NewStart, h.Edits)
		if derived.OldLen != h.OldLen {
			errs = append(errs, ValidationError{Hunk: i, Reason: ErrHunkLength, Want: derived.OldLen, Got: h.OldLen})
		}
		if derived.NewLen != h.NewLen {
			errs = append(errs, ValidationError{Hunk: i, Reason: ErrHunkLength, Want: derived.NewLen, Got: h.NewLen})
		}
		if i > 0 {
			switch {
			case h.OldStart < r.Hunks[i-1].OldStart:
				errs = append(errs, ValidationError{Hunk: i, Reason: ErrHunkOrder})
			case h.OldStart < prevEnd:
				errs = append(errs, ValidationError{Hunk: i, Reason: ErrHunkOverlap})
			}
		}
		prevEnd = h.OldStart + derived.OldLen
	}
	return errs
}
