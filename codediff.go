// Package codediff provides domain types for computing, rendering, and
// applying text diffs.
package codediff

import (
	"context"
	"io"
)

// Engine computes a shortest edit script between two token sequences.
// Implementations must be exact: every Engine returns a script with the same
// number of OpEqual entries (the LCS length) for the same input.
type Engine interface {
	// EditScript returns the operations that transform a into b, in order.
	EditScript(a, b []string) []EditOp
}

// WordTokenizer splits a single line into tokens for intra-line diffing.
// Concatenating the returned tokens must reproduce the input exactly.
type WordTokenizer interface {
	Tokenize(line string) []string
}

// Parser reads unified patch text into a DiffBundle.
type Parser interface {
	Parse(r io.Reader) (*DiffBundle, error)
}

// Renderer writes a textual presentation of a diff. Renderers never mutate
// their input.
type Renderer interface {
	// Render writes a single-file result.
	Render(w io.Writer, result *DiffResult) error
	// RenderBundle writes every file of a multi-file bundle.
	RenderBundle(w io.Writer, bundle *DiffBundle) error
}

// Viewer displays rendered diff output interactively.
type Viewer interface {
	// View shows content and blocks until the user exits or ctx is cancelled.
	View(ctx context.Context, title, content string) error
}

// GitRunner provides access to git for reading files at a revision.
type GitRunner interface {
	// Show returns the content of path as of rev in the repository at repoPath.
	Show(ctx context.Context, repoPath, rev, path string) (string, error)
}

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	Copy(content string) error
}
