package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/fwojciec/codediff"
)

func (a *App) diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare two files",
		ArgsUsage: "OLD NEW",
		Description: "OLD or NEW may be - to read standard input. With --rev, OLD is read\n" +
			"from that git revision of the file instead of the working tree.",
		Flags: append(append(compareFlags("diff", a.ConfigPath), outputFlags("diff", a.ConfigPath)...),
			&cli.StringFlag{
				Name:  "rev",
				Usage: "read OLD from this git revision",
			},
		),
		Action: a.runDiff,
	}
}

func (a *App) runDiff(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		return fmt.Errorf("diff needs exactly two arguments, got %d", cmd.NArg())
	}
	oldPath, newPath := arg(cmd, 0), arg(cmd, 1)

	d, err := newDiffer(cmd)
	if err != nil {
		return err
	}

	oldLabel := oldPath
	var oldText string
	if rev := cmd.String("rev"); rev != "" {
		oldLabel = oldPath + "@" + rev
		oldText, err = a.Git.Show(ctx, filepath.Dir(oldPath), rev, "./"+filepath.Base(oldPath))
		if errors.Is(err, fs.ErrNotExist) {
			// added since rev
			oldLabel, oldText, err = codediff.DevNull, "", nil
		}
	} else {
		oldText, err = a.readInput(oldPath)
	}
	if err != nil {
		return err
	}
	newText, err := a.readInput(newPath)
	if err != nil {
		return err
	}

	result, err := d.Compare(oldText, newText)
	if err != nil {
		return err
	}
	if result.IsEmpty() {
		return ErrNoChanges
	}
	result.OldLabel = oldLabel
	result.NewLabel = newPath

	r := a.newRenderer(cmd)
	return a.emit(ctx, cmd, oldLabel+" -> "+newPath, func(buf *bytes.Buffer) error {
		return r.Render(buf, result)
	})
}

// readInput returns the content of path, or of stdin for "-".
func (a *App) readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(a.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
