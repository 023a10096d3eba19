// Package git reads file content at a revision by shelling out to git.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/log"
)

var _ codediff.GitRunner = (*Runner)(nil)

// Error is a failed git invocation. It matches fs.ErrNotExist when git
// reports that the requested path is absent from the revision.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s: %s", e.Args[0], e.Stderr)
	}
	return fmt.Sprintf("git %s: %v", e.Args[0], e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is fs.ErrNotExist and git said the path is
// missing.
func (e *Error) Is(target error) bool {
	if target != fs.ErrNotExist {
		return false
	}
	return strings.Contains(e.Stderr, "does not exist in") ||
		strings.Contains(e.Stderr, "exists on disk, but not in")
}

// Runner executes git in a subprocess.
type Runner struct {
	bin string
}

// NewRunner creates a Runner using the git found on PATH.
func NewRunner() *Runner {
	return &Runner{bin: "git"}
}

// Show returns the content of path as of rev. A path starting with "./" is
// resolved against repoPath rather than the repository root.
func (r *Runner) Show(ctx context.Context, repoPath, rev, path string) (string, error) {
	out, err := r.run(ctx, repoPath, "show", rev+":"+path)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *Runner) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	log.WithFields(log.Fields{"dir": dir, "args": strings.Join(args, " ")}).Debug("running git")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.bin, append([]string{"-C", dir}, args...)...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		gitErr := &Error{Args: args, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			gitErr.Stderr = strings.TrimSpace(stderr.String())
		}
		return nil, gitErr
	}
	return out, nil
}
