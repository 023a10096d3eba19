package codediff

import (
	"errors"
	"fmt"
)

// Option defaults.
const (
	DefaultContextLines = 3
	DefaultMaxBytes     = 5_000_000
)

// Options configures diffing and patch application. Options is a value type:
// the With methods return modified copies and never change the receiver.
type Options struct {
	ContextLines     int  // Unchanged lines around each change, >= 0
	WordDiff         bool // Compute word spans for paired changed lines
	IgnoreWhitespace bool // Compare lines with whitespace runs collapsed and trimmed
	MaxBytes         int  // Per-input byte ceiling, > 0
	Fuzz             int  // Applier search radius in lines, >= 0
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		ContextLines: DefaultContextLines,
		MaxBytes:     DefaultMaxBytes,
	}
}

// WithContextLines returns a copy with ContextLines set to n.
func (o Options) WithContextLines(n int) Options {
	o.ContextLines = n
	return o
}

// WithWordDiff returns a copy with WordDiff set to on.
func (o Options) WithWordDiff(on bool) Options {
	o.WordDiff = on
	return o
}

// WithIgnoreWhitespace returns a copy with IgnoreWhitespace set to on.
func (o Options) WithIgnoreWhitespace(on bool) Options {
	o.IgnoreWhitespace = on
	return o
}

// WithMaxBytes returns a copy with MaxBytes set to n.
func (o Options) WithMaxBytes(n int) Options {
	o.MaxBytes = n
	return o
}

// WithFuzz returns a copy with Fuzz set to n.
func (o Options) WithFuzz(n int) Options {
	o.Fuzz = n
	return o
}

// Validate checks that every field is within its allowed range.
func (o Options) Validate() error {
	var errs []error
	if o.ContextLines < 0 {
		errs = append(errs, fmt.Errorf("context lines must be >= 0, got %d", o.ContextLines))
	}
	if o.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("max bytes must be > 0, got %d", o.MaxBytes))
	}
	if o.Fuzz < 0 {
		errs = append(errs, fmt.Errorf("fuzz must be >= 0, got %d", o.Fuzz))
	}
	return errors.Join(errs...)
}
