package mock

import (
	"context"

	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.GitRunner = (*GitRunner)(nil)

// GitRunner is a mock implementation of codediff.GitRunner.
type GitRunner struct {
	ShowFn func(ctx context.Context, repoPath, rev, path string) (string, error)
}

func (g *GitRunner) Show(ctx context.Context, repoPath, rev, path string) (string, error) {
	return g.ShowFn(ctx, repoPath, rev, path)
}
