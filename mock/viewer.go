package mock

import (
	"context"

	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.Viewer = (*Viewer)(nil)

// Viewer is a mock implementation of codediff.Viewer.
type Viewer struct {
	ViewFn func(ctx context.Context, title, content string) error
}

func (v *Viewer) View(ctx context.Context, title, content string) error {
	return v.ViewFn(ctx, title, content)
}
