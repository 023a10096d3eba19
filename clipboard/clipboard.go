// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/fwojciec/codediff"
)

// Ensure System implements the Clipboard interface.
var _ codediff.Clipboard = (*System)(nil)

// System implements Clipboard using the platform clipboard (pbcopy, xclip,
// xsel, wl-copy or the Windows API).
type System struct{}

// NewSystem returns a new System clipboard.
func NewSystem() *System {
	return &System{}
}

// Copy writes content to the system clipboard.
func (s *System) Copy(content string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not supported on this system")
	}
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}
