package mock

import "github.com/fwojciec/codediff"

// Compile-time interface verification.
var _ codediff.Clipboard = (*Clipboard)(nil)

// Clipboard is a mock implementation of codediff.Clipboard.
type Clipboard struct {
	CopyFn func(content string) error
}

func (c *Clipboard) Copy(content string) error {
	return c.CopyFn(content)
}
