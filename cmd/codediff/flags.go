package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/fwojciec/codediff"
)

// Flag values accepted by oneOf validators.
var (
	formats    = []string{"unified", "html", "json", "jsonl", "ansi"}
	engines    = []string{"myers", "lcs", "dmp"}
	tokenizers = []string{"whitespace", "code", "unicode"}
	colorModes = []string{"auto", "always", "never"}
	themes     = []string{"dark", "light"}
)

// sources builds the value chain for a flag: the environment variable first,
// then the key namespaced to the command in the config file, then the global
// key.
func sources(env, ns, name, configPath string) cli.ValueSourceChain {
	chain := cli.NewValueSourceChain(cli.EnvVar(env))
	if configPath == "" {
		return chain
	}
	src := altsrc.StringSourcer(configPath)
	chain.Chain = append(chain.Chain,
		yaml.YAML(ns+"."+name, src),
		yaml.YAML(name, src),
	)
	return chain
}

func envName(name string) string {
	return "CODEDIFF_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func oneOf(allowed []string) func(string) error {
	return func(v string) error {
		if slices.Contains(allowed, v) {
			return nil
		}
		if matches := fuzzy.Find(v, allowed); len(matches) > 0 {
			return fmt.Errorf("must be one of %s, got %q (did you mean %q?)", strings.Join(allowed, ", "), v, matches[0].Str)
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(allowed, ", "), v)
	}
}

func nonNegative(name string) func(int) error {
	return func(v int) error {
		if v < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", name, v)
		}
		return nil
	}
}

// compareFlags are shared by the diff and tree commands.
func compareFlags(ns, configPath string) []cli.Flag {
	defaults := codediff.DefaultOptions()
	return []cli.Flag{
		&cli.IntFlag{
			Name:      "context",
			Aliases:   []string{"U"},
			Usage:     "number of context lines around each change",
			Value:     defaults.ContextLines,
			Sources:   sources(envName("context"), ns, "context", configPath),
			Validator: nonNegative("context"),
		},
		&cli.BoolFlag{
			Name:    "word-diff",
			Usage:   "compute word-level spans for changed lines",
			Value:   defaults.WordDiff,
			Sources: sources(envName("word-diff"), ns, "word-diff", configPath),
		},
		&cli.BoolFlag{
			Name:    "ignore-whitespace",
			Aliases: []string{"w"},
			Usage:   "compare lines with whitespace runs collapsed",
			Value:   defaults.IgnoreWhitespace,
			Sources: sources(envName("ignore-whitespace"), ns, "ignore-whitespace", configPath),
		},
		&cli.IntFlag{
			Name:    "max-bytes",
			Usage:   "maximum size of each input",
			Value:   defaults.MaxBytes,
			Sources: sources(envName("max-bytes"), ns, "max-bytes", configPath),
		},
		&cli.StringFlag{
			Name:      "engine",
			Usage:     "edit script engine (myers, lcs, dmp)",
			Value:     "myers",
			Sources:   sources(envName("engine"), ns, "engine", configPath),
			Validator: oneOf(engines),
		},
		&cli.StringFlag{
			Name:      "tokenizer",
			Usage:     "word tokenizer (whitespace, code, unicode)",
			Value:     "whitespace",
			Sources:   sources(envName("tokenizer"), ns, "tokenizer", configPath),
			Validator: oneOf(tokenizers),
		},
	}
}

// outputFlags select and tune the renderer.
func outputFlags(ns, configPath string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "format",
			Aliases:   []string{"f"},
			Usage:     "output format (unified, html, json, jsonl, ansi)",
			Value:     "unified",
			Sources:   sources(envName("format"), ns, "format", configPath),
			Validator: oneOf(formats),
		},
		&cli.BoolFlag{
			Name:    "line-numbers",
			Usage:   "show line numbers (html, ansi)",
			Value:   true,
			Sources: sources(envName("line-numbers"), ns, "line-numbers", configPath),
		},
		&cli.IntFlag{
			Name:      "width",
			Usage:     "total output width in cells, 0 for the terminal width (ansi)",
			Value:     0,
			Sources:   sources(envName("width"), ns, "width", configPath),
			Validator: nonNegative("width"),
		},
		&cli.StringFlag{
			Name:      "color",
			Usage:     "colour output (auto, always, never)",
			Value:     "auto",
			Sources:   sources(envName("color"), ns, "color", configPath),
			Validator: oneOf(colorModes),
		},
		&cli.StringFlag{
			Name:      "theme",
			Usage:     "terminal colour theme (dark, light)",
			Value:     "dark",
			Sources:   sources(envName("theme"), ns, "theme", configPath),
			Validator: oneOf(themes),
		},
		&cli.BoolFlag{
			Name:    "pretty",
			Usage:   "indent output (json)",
			Sources: sources(envName("pretty"), ns, "pretty", configPath),
		},
		&cli.StringFlag{
			Name:    "class-prefix",
			Usage:   "CSS class prefix (html)",
			Value:   "diff-",
			Sources: sources(envName("class-prefix"), ns, "class-prefix", configPath),
		},
		&cli.BoolFlag{
			Name:    "wrap",
			Usage:   "mark content cells as wrapping (html)",
			Sources: sources(envName("wrap"), ns, "wrap", configPath),
		},
		&cli.BoolFlag{
			Name:    "syntax",
			Usage:   "syntax highlight lines (html)",
			Sources: sources(envName("syntax"), ns, "syntax", configPath),
		},
		&cli.StringFlag{
			Name:    "style",
			Usage:   "chroma style used for syntax highlighting",
			Value:   "monokai",
			Sources: sources(envName("style"), ns, "style", configPath),
		},
		&cli.StringFlag{
			Name:  "language",
			Usage: "highlight as this language instead of detecting it from the path",
		},
		&cli.BoolFlag{
			Name:  "view",
			Usage: "show the output in an interactive pager",
		},
		&cli.BoolFlag{
			Name:  "copy",
			Usage: "copy the output to the clipboard",
		},
	}
}
