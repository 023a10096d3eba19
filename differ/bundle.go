package differ

import (
	"context"
	"fmt"
	"runtime"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/log"
	"golang.org/x/sync/errgroup"
)

// FilePair is one file to compare in CompareFiles. OldPath is
// codediff.DevNull for a created file and NewPath is codediff.DevNull for a
// deleted one; the content of a missing side is empty.
type FilePair struct {
	OldPath string
	NewPath string
	Old     string
	New     string
}

// CompareFiles diffs every pair concurrently and returns a bundle in the
// order of pairs. Pairs that compare equal are left out unless they create or
// delete a file. The first error cancels the remaining comparisons.
func (d *Differ) CompareFiles(ctx context.Context, pairs []FilePair) (*codediff.DiffBundle, error) {
	files := make([]codediff.DiffFile, len(pairs))
	keep := make([]bool, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := d.Compare(p.Old, p.New)
			if err != nil {
				return fmt.Errorf("compare %s: %w", pairPath(p), err)
			}
			f := codediff.DiffFile{OldPath: p.OldPath, NewPath: p.NewPath, Result: *result}
			files[i] = f
			keep[i] = !result.IsEmpty() || f.IsNew() || f.IsDelete()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bundle := &codediff.DiffBundle{}
	for i, f := range files {
		if keep[i] {
			bundle.Files = append(bundle.Files, f)
		}
	}
	log.WithFields(log.Fields{"pairs": len(pairs), "changed": len(bundle.Files)}).Debug("compared files")
	return bundle, nil
}

func pairPath(p FilePair) string {
	if p.NewPath == codediff.DevNull {
		return p.OldPath
	}
	return p.NewPath
}
