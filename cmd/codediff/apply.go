package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/fs"
	"github.com/fwojciec/codediff/gitdiff"
	"github.com/fwojciec/codediff/jsonl"
	"github.com/fwojciec/codediff/log"
	"github.com/fwojciec/codediff/patch"
	"github.com/fwojciec/codediff/unified"
)

func (a *App) applyCommand() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "apply a patch to a file or directory",
		ArgsUsage: "PATCH [FILE|DIR]",
		Description: "PATCH may be - to read standard input. Without a target, or with a\n" +
			"file target, the patch must hold one file and the result is written to\n" +
			"stdout unless --in-place is set. A directory target receives every file\n" +
			"of the patch. Patches ending in .jsonl are read as JSON Lines records.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:      "fuzz",
				Usage:     "lines a hunk may have drifted from its recorded position",
				Sources:   sources(envName("fuzz"), "apply", "fuzz", a.ConfigPath),
				Validator: nonNegative("fuzz"),
			},
			&cli.IntFlag{
				Name:    "max-bytes",
				Usage:   "maximum size of each patched file",
				Value:   codediff.DefaultMaxBytes,
				Sources: sources(envName("max-bytes"), "apply", "max-bytes", a.ConfigPath),
			},
			&cli.BoolFlag{
				Name:  "git",
				Usage: "parse the patch as git diff output",
			},
			&cli.BoolFlag{
				Name:    "in-place",
				Aliases: []string{"i"},
				Usage:   "overwrite FILE instead of writing to stdout",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "with a directory target, list the files that would change",
			},
		},
		Action: a.runApply,
	}
}

func (a *App) runApply(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 || cmd.NArg() > 2 {
		return fmt.Errorf("apply needs a patch and an optional target, got %d arguments", cmd.NArg())
	}
	patchPath, target := arg(cmd, 0), arg(cmd, 1)

	var parser codediff.Parser = unified.NewParser()
	switch {
	case cmd.Bool("git"):
		parser = gitdiff.NewParser()
	case strings.HasSuffix(patchPath, ".jsonl"):
		parser = jsonl.NewLoader()
	}
	applier := patch.NewApplier(
		patch.WithFuzz(cmd.Int("fuzz")),
		patch.WithMaxBytes(cmd.Int("max-bytes")),
		patch.WithParser(parser),
	)

	if target != "" {
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			return a.applyTree(cmd, applier, parser, patchPath, target)
		}
	}

	if target == "" && patchPath == "-" {
		return fmt.Errorf("apply reads the patch from stdin, so a target file is required")
	}
	patchText, err := a.readInput(patchPath)
	if err != nil {
		return err
	}
	original := ""
	if target != "" {
		if original, err = a.readInput(target); err != nil {
			return err
		}
	} else {
		if original, err = a.readInput("-"); err != nil {
			return err
		}
	}

	patched, err := applier.ApplyPatch(original, patchText)
	if err != nil {
		return err
	}
	if cmd.Bool("in-place") && target != "" && target != "-" {
		return os.WriteFile(target, []byte(patched), 0o644)
	}
	_, err = io.WriteString(a.Stdout, patched)
	return err
}

func (a *App) applyTree(cmd *cli.Command, applier *patch.Applier, parser codediff.Parser, patchPath, root string) error {
	patchText, err := a.readInput(patchPath)
	if err != nil {
		return err
	}
	bundle, err := parser.Parse(strings.NewReader(patchText))
	if err != nil {
		return err
	}
	before, err := fs.ReadTree(root)
	if err != nil {
		return err
	}
	after, err := applier.ApplyBundle(before, bundle)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"root": root, "files": len(bundle.Files)}).Debug("applied bundle")

	if cmd.Bool("dry-run") {
		for _, f := range bundle.Files {
			fmt.Fprintln(a.Stdout, f.DisplayPath())
		}
		return nil
	}
	return fs.WriteTree(filepath.Clean(root), before, after)
}
