// Command codediff compares texts and directory trees, renders the result as
// unified, HTML, JSON or side-by-side output, and applies unified patches.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/bubbletea"
	"github.com/fwojciec/codediff/clipboard"
	"github.com/fwojciec/codediff/fs"
	"github.com/fwojciec/codediff/git"
	"github.com/fwojciec/codediff/log"
)

// ErrNoChanges is returned when the compared inputs are equal.
var ErrNoChanges = errors.New("no changes to display")

// App holds the dependencies of the command line interface.
type App struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Viewer     codediff.Viewer
	Clipboard  codediff.Clipboard
	Git        codediff.GitRunner
	ConfigPath string     // YAML file consulted for flag defaults; empty to skip
	TermWidth  func() int // Width of the output terminal, 0 when unknown
}

// Command builds the root command with the diff, apply and tree
// subcommands.
func (a *App) Command() *cli.Command {
	return &cli.Command{
		Name:      "codediff",
		Usage:     "compare texts, render diffs and apply patches",
		Reader:    a.Stdin,
		Writer:    a.Stdout,
		ErrWriter: a.Stderr,
		Commands: []*cli.Command{
			a.diffCommand(),
			a.applyCommand(),
			a.treeCommand(),
		},
	}
}

// stdinArg stands in for a lone "-" argument while flags are parsed, since
// the parser drops it.
const stdinArg = "\x00stdin"

// Run executes the command line in args, where args[0] is the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	args = slices.Clone(args)
	for i := 1; i < len(args); i++ {
		if args[i] == "-" {
			args[i] = stdinArg
		}
	}
	return a.Command().Run(ctx, args)
}

// arg returns the nth positional argument of cmd with "-" restored.
func arg(cmd *cli.Command, n int) string {
	if s := cmd.Args().Get(n); s != stdinArg {
		return s
	}
	return "-"
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	log.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &App{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Viewer:     bubbletea.NewViewer(),
		Clipboard:  clipboard.NewSystem(),
		Git:        git.NewRunner(),
		ConfigPath: fs.DefaultConfigPath(),
		TermWidth:  stdoutWidth,
	}
	log.Debugf("config path: %s", app.ConfigPath)

	return exitCode(app.Run(ctx, os.Args), os.Stderr)
}

func stdoutWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// exitCode reports err on w and maps it to a process exit status. Equal
// inputs are not a failure.
func exitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNoChanges):
		fmt.Fprintln(w, err)
		return 0
	default:
		fmt.Fprintln(w, "codediff:", err)
		log.WithError(err).Debug("command failed")
		return 1
	}
}
