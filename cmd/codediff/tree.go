package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/fwojciec/codediff/fs"
)

func (a *App) treeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "compare two directory trees",
		ArgsUsage: "OLDDIR NEWDIR",
		Flags:     append(compareFlags("tree", a.ConfigPath), outputFlags("tree", a.ConfigPath)...),
		Action:    a.runTree,
	}
}

func (a *App) runTree(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		return fmt.Errorf("tree needs exactly two arguments, got %d", cmd.NArg())
	}
	oldRoot, newRoot := arg(cmd, 0), arg(cmd, 1)

	d, err := newDiffer(cmd)
	if err != nil {
		return err
	}
	oldFiles, err := fs.ReadTree(oldRoot)
	if err != nil {
		return err
	}
	newFiles, err := fs.ReadTree(newRoot)
	if err != nil {
		return err
	}

	bundle, err := d.CompareFiles(ctx, fs.Pairs(oldFiles, newFiles))
	if err != nil {
		return err
	}
	if len(bundle.Files) == 0 {
		return ErrNoChanges
	}

	r := a.newRenderer(cmd)
	return a.emit(ctx, cmd, oldRoot+" -> "+newRoot, func(buf *bytes.Buffer) error {
		return r.RenderBundle(buf, bundle)
	})
}
