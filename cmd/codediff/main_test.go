package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/codediff"
	main "github.com/fwojciec/codediff/cmd/codediff"
	"github.com/fwojciec/codediff/git"
	"github.com/fwojciec/codediff/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type harness struct {
	app    *main.App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(stdin string) *harness {
	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.app = &main.App{
		Stdin:     strings.NewReader(stdin),
		Stdout:    h.stdout,
		Stderr:    h.stderr,
		Viewer:    &mock.Viewer{},
		Clipboard: &mock.Clipboard{},
		Git:       &mock.GitRunner{},
	}
	return h
}

func (h *harness) run(args ...string) error {
	return h.app.Run(context.Background(), append([]string{"codediff"}, args...))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestDiff_Unified(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "a\nb\nc\n")
	newPath := writeFile(t, dir, "new.txt", "a\nB\nc\n")

	h := newHarness("")
	require.NoError(t, h.run("diff", oldPath, newPath))

	want := "--- " + oldPath + "\n+++ " + newPath + "\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n"
	assert.Equal(t, want, h.stdout.String())
}

func TestDiff_Flags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.go", "package main\n\nfunc a() {}\n")
	newPath := writeFile(t, dir, "new.go", "package main\n\nfunc b() {}\n")

	t.Run("context", func(t *testing.T) {
		t.Parallel()

		h := newHarness("")
		require.NoError(t, h.run("diff", "-U", "0", oldPath, newPath))
		assert.Contains(t, h.stdout.String(), "@@ -3 +2 @@\n-func a() {}\n+func b() {}\n")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		h := newHarness("")
		require.NoError(t, h.run("diff", "--format", "json", "--word-diff", oldPath, newPath))
		out := h.stdout.String()
		assert.Equal(t, "result", gjson.Get(out, "type").String())
		assert.Equal(t, newPath, gjson.Get(out, "newLabel").String())
		assert.True(t, gjson.Get(out, "hunks.0.edits.#(op==\"delete\").wordSpans").IsArray())
	})

	t.Run("html with syntax", func(t *testing.T) {
		t.Parallel()

		h := newHarness("")
		require.NoError(t, h.run("diff", "--format", "html", "--syntax", "--class-prefix", "cd-", oldPath, newPath))
		out := h.stdout.String()
		assert.Contains(t, out, `<table class="cd-table">`)
		assert.Contains(t, out, `<span style="color:`)
	})

	t.Run("html syntax for stdin with language", func(t *testing.T) {
		t.Parallel()

		txtPath := writeFile(t, t.TempDir(), "snippet.txt", "package main\n\nfunc b() {}\n")
		h := newHarness("package main\n\nfunc a() {}\n")
		require.NoError(t, h.run("diff", "--format", "html", "--syntax", "--language", "go", "-", txtPath))
		assert.Contains(t, h.stdout.String(), `<span style="color:`)
	})

	t.Run("ansi without colour", func(t *testing.T) {
		t.Parallel()

		h := newHarness("")
		require.NoError(t, h.run("diff", "--format", "ansi", "--color", "never", "--width", "60", oldPath, newPath))
		out := h.stdout.String()
		assert.Contains(t, out, "func a() {}")
		assert.Contains(t, out, "|")
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("lcs engine and code tokenizer", func(t *testing.T) {
		t.Parallel()

		h := newHarness("")
		require.NoError(t, h.run("diff", "--engine", "lcs", "--tokenizer", "code", "--word-diff", oldPath, newPath))
		assert.Contains(t, h.stdout.String(), "-func a() {}\n+func b() {}\n")
	})

	t.Run("dmp engine and unicode tokenizer", func(t *testing.T) {
		t.Parallel()

		h := newHarness("")
		require.NoError(t, h.run("diff", "--engine", "dmp", "--tokenizer", "unicode", "--word-diff", oldPath, newPath))
		assert.Contains(t, h.stdout.String(), "-func a() {}\n+func b() {}\n")
	})

	t.Run("ansi width from terminal", func(t *testing.T) {
		t.Parallel()

		h := newHarness("")
		h.app.TermWidth = func() int { return 50 }
		require.NoError(t, h.run("diff", "--format", "ansi", "--color", "never", oldPath, newPath))
		for _, line := range strings.Split(strings.TrimSuffix(h.stdout.String(), "\n"), "\n") {
			assert.LessOrEqual(t, utf8.RuneCountInString(line), 50, line)
		}
	})
}

func TestDiff_Stdin(t *testing.T) {
	t.Parallel()

	newPath := writeFile(t, t.TempDir(), "new.txt", "two\n")

	h := newHarness("one\n")
	require.NoError(t, h.run("diff", "-", newPath))
	assert.Contains(t, h.stdout.String(), "--- -\n")
	assert.Contains(t, h.stdout.String(), "-one\n+two\n")
}

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "same\n")
	b := writeFile(t, dir, "b.txt", "same   \n")

	h := newHarness("")
	err := h.run("diff", "--ignore-whitespace", a, b)
	require.ErrorIs(t, err, main.ErrNoChanges)
	assert.Empty(t, h.stdout.String())
}

func TestDiff_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	text := writeFile(t, dir, "text.txt", "hello\n")
	binary := writeFile(t, dir, "data.bin", "\x00\x01\x02")

	tests := []struct {
		name string
		args []string
		is   error
		msg  string
	}{
		{name: "one argument", args: []string{"diff", text}, msg: "exactly two arguments"},
		{name: "missing file", args: []string{"diff", text, filepath.Join(dir, "nope")}, msg: "reading"},
		{name: "binary input", args: []string{"diff", text, binary}, is: codediff.ErrBinaryInput},
		{name: "size limit", args: []string{"diff", "--max-bytes", "3", text, text}, is: codediff.ErrSizeLimit},
		{name: "unknown format", args: []string{"diff", "--format", "xml", text, text}, msg: "must be one of"},
		{name: "negative context", args: []string{"diff", "--context=-1", text, text}, msg: "context must be >= 0"},
		{name: "engine typo", args: []string{"diff", "--engine", "lc", text, text}, msg: `did you mean "lcs"?`},
		{name: "tokenizer typo", args: []string{"diff", "--tokenizer", "uni", text, text}, msg: `did you mean "unicode"?`},
		{name: "negative width", args: []string{"diff", "--width=-5", text, text}, msg: "width must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := newHarness("").run(tt.args...)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDiff_ViewAndCopy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "x\n")
	newPath := writeFile(t, dir, "new.txt", "y\n")

	var viewedTitle, viewed, copied string
	h := newHarness("")
	h.app.Viewer = &mock.Viewer{
		ViewFn: func(ctx context.Context, title, content string) error {
			viewedTitle, viewed = title, content
			return nil
		},
	}
	h.app.Clipboard = &mock.Clipboard{
		CopyFn: func(content string) error {
			copied = content
			return nil
		},
	}

	require.NoError(t, h.run("diff", "--view", "--copy", oldPath, newPath))

	assert.Empty(t, h.stdout.String())
	assert.Equal(t, oldPath+" -> "+newPath, viewedTitle)
	assert.Contains(t, viewed, "-x\n+y\n")
	assert.Equal(t, viewed, copied)
}

func TestDiff_CopyError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "x\n")
	newPath := writeFile(t, dir, "new.txt", "y\n")

	copyErr := errors.New("no clipboard")
	h := newHarness("")
	h.app.Clipboard = &mock.Clipboard{
		CopyFn: func(string) error { return copyErr },
	}

	assert.ErrorIs(t, h.run("diff", "--copy", oldPath, newPath), copyErr)
}

func TestDiff_Rev(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "file.txt", "new\n")

	var gotRepo, gotRev, gotPath string
	h := newHarness("")
	h.app.Git = &mock.GitRunner{
		ShowFn: func(ctx context.Context, repoPath, rev, p string) (string, error) {
			gotRepo, gotRev, gotPath = repoPath, rev, p
			return "old\n", nil
		},
	}

	require.NoError(t, h.run("diff", "--rev", "HEAD~1", path, path))

	assert.Equal(t, dir, gotRepo)
	assert.Equal(t, "HEAD~1", gotRev)
	assert.Equal(t, "./file.txt", gotPath)
	assert.Contains(t, h.stdout.String(), "--- "+path+"@HEAD~1\n")
	assert.Contains(t, h.stdout.String(), "-old\n+new\n")
}

func TestDiff_RevFileAdded(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "file.txt", "new\n")

	h := newHarness("")
	h.app.Git = &mock.GitRunner{
		ShowFn: func(ctx context.Context, repoPath, rev, p string) (string, error) {
			return "", &git.Error{Args: []string{"show"}, Err: errors.New("exit status 128"),
				Stderr: "fatal: path 'file.txt' exists on disk, but not in 'HEAD~1'"}
		},
	}

	require.NoError(t, h.run("diff", "--rev", "HEAD~1", path, path))
	assert.Equal(t, "--- /dev/null\n+++ "+path+"\n@@ -0,0 +1 @@\n+new\n", h.stdout.String())
}

func TestDiff_ConfigSources(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "a\nb\nc\n")
	newPath := writeFile(t, dir, "new.txt", "a\nB\nc\n")

	t.Run("config file", func(t *testing.T) {
		config := writeFile(t, dir, "config.yaml", "diff:\n  context: 0\n")

		h := newHarness("")
		h.app.ConfigPath = config
		require.NoError(t, h.run("diff", oldPath, newPath))
		assert.Contains(t, h.stdout.String(), "@@ -2 +1 @@\n")
	})

	t.Run("global config key", func(t *testing.T) {
		config := writeFile(t, dir, "global.yaml", "format: jsonl\n")

		h := newHarness("")
		h.app.ConfigPath = config
		require.NoError(t, h.run("diff", oldPath, newPath))
		assert.Equal(t, "result", gjson.Get(h.stdout.String(), "type").String())
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("CODEDIFF_FORMAT", "json")

		h := newHarness("")
		require.NoError(t, h.run("diff", oldPath, newPath))
		assert.True(t, gjson.Valid(h.stdout.String()))
	})

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("CODEDIFF_CONTEXT", "0")

		h := newHarness("")
		require.NoError(t, h.run("diff", "--context", "1", oldPath, newPath))
		assert.Contains(t, h.stdout.String(), "@@ -1,3 +1,3 @@\n")
	})
}

func TestApply_File(t *testing.T) {
	t.Parallel()

	patchText := "--- a\n+++ b\n@@ -2 +2 @@\n-old line\n+new line\n"

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := writeFile(t, dir, "target.txt", "line1\nold line\n")
		patchPath := writeFile(t, dir, "fix.patch", patchText)

		h := newHarness("")
		require.NoError(t, h.run("apply", patchPath, target))
		assert.Equal(t, "line1\nnew line\n", h.stdout.String())
		assert.Equal(t, "line1\nold line\n", readFile(t, target))
	})

	t.Run("in place with fuzz", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := writeFile(t, dir, "target.txt", "line1\nline2\nold line\n")
		patchPath := writeFile(t, dir, "fix.patch", patchText)

		h := newHarness("")
		require.Error(t, h.run("apply", patchPath, target))

		h = newHarness("")
		require.NoError(t, h.run("apply", "--fuzz", "2", "-i", patchPath, target))
		assert.Empty(t, h.stdout.String())
		assert.Equal(t, "line1\nline2\nnew line\n", readFile(t, target))
	})

	t.Run("patch from stdin", func(t *testing.T) {
		t.Parallel()

		target := writeFile(t, t.TempDir(), "target.txt", "line1\nold line\n")

		h := newHarness(patchText)
		require.NoError(t, h.run("apply", "-", target))
		assert.Equal(t, "line1\nnew line\n", h.stdout.String())
	})

	t.Run("original from stdin", func(t *testing.T) {
		t.Parallel()

		patchPath := writeFile(t, t.TempDir(), "fix.patch", patchText)

		h := newHarness("line1\nold line\n")
		require.NoError(t, h.run("apply", patchPath))
		assert.Equal(t, "line1\nnew line\n", h.stdout.String())
	})

	t.Run("failing hunk", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := writeFile(t, dir, "target.txt", "something else\n")
		patchPath := writeFile(t, dir, "fix.patch", patchText)

		err := newHarness("").run("apply", patchPath, target)
		require.ErrorIs(t, err, codediff.ErrPatchApply)
		assert.Contains(t, err.Error(), "hunk #1 failed to apply")
	})
}

func TestApply_JSONLPatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "one\ntwo\nthree\n")
	newPath := writeFile(t, dir, "new.txt", "one\n2\nthree\nfour\n")

	h := newHarness("")
	require.NoError(t, h.run("diff", "--format", "jsonl", "--word-diff", oldPath, newPath))
	patchPath := writeFile(t, dir, "change.jsonl", h.stdout.String())

	h = newHarness("")
	require.NoError(t, h.run("apply", patchPath, oldPath))
	assert.Equal(t, "one\n2\nthree\nfour\n", h.stdout.String())
}

func TestTreeAndApplyDirectory(t *testing.T) {
	t.Parallel()

	oldDir, newDir := t.TempDir(), t.TempDir()
	writeFile(t, oldDir, "keep.txt", "same\n")
	writeFile(t, oldDir, "a.txt", "1\n2\n3\n")
	writeFile(t, oldDir, "gone.txt", "bye\n")
	writeFile(t, newDir, "keep.txt", "same\n")
	writeFile(t, newDir, "a.txt", "1\ntwo\n3\n")
	writeFile(t, newDir, "sub/new.txt", "hello\n")

	h := newHarness("")
	require.NoError(t, h.run("tree", oldDir, newDir))
	patchText := h.stdout.String()

	assert.Contains(t, patchText, "diff --git a/a.txt b/a.txt\n")
	assert.Contains(t, patchText, "deleted file mode 100644\n")
	assert.Contains(t, patchText, "--- /dev/null\n+++ b/sub/new.txt\n")
	assert.NotContains(t, patchText, "keep.txt")

	patchPath := writeFile(t, t.TempDir(), "tree.patch", patchText)

	h = newHarness("")
	require.NoError(t, h.run("apply", "--dry-run", patchPath, oldDir))
	assert.Equal(t, "a.txt\ngone.txt\nsub/new.txt\n", h.stdout.String())
	assert.Equal(t, "bye\n", readFile(t, filepath.Join(oldDir, "gone.txt")))

	for _, args := range [][]string{
		{"apply", patchPath, oldDir},
		{"apply", "--git", patchPath, oldDir},
	} {
		dir := t.TempDir()
		writeFile(t, dir, "keep.txt", "same\n")
		writeFile(t, dir, "a.txt", "1\n2\n3\n")
		writeFile(t, dir, "gone.txt", "bye\n")
		args[len(args)-1] = dir

		require.NoError(t, newHarness("").run(args...), "args %v", args)
		assert.Equal(t, "1\ntwo\n3\n", readFile(t, filepath.Join(dir, "a.txt")))
		assert.Equal(t, "hello\n", readFile(t, filepath.Join(dir, "sub", "new.txt")))
		assert.NoFileExists(t, filepath.Join(dir, "gone.txt"))
	}
}

func TestTree_NoChanges(t *testing.T) {
	t.Parallel()

	oldDir, newDir := t.TempDir(), t.TempDir()
	writeFile(t, oldDir, "same.txt", "x\n")
	writeFile(t, newDir, "same.txt", "x\n")

	assert.ErrorIs(t, newHarness("").run("tree", oldDir, newDir), main.ErrNoChanges)
}

func TestTree_JSONBundle(t *testing.T) {
	t.Parallel()

	oldDir, newDir := t.TempDir(), t.TempDir()
	writeFile(t, oldDir, "f.txt", "x\n")
	writeFile(t, newDir, "f.txt", "y\n")

	h := newHarness("")
	require.NoError(t, h.run("tree", "--format", "json", oldDir, newDir))
	out := h.stdout.String()
	assert.Equal(t, "bundle", gjson.Get(out, "type").String())
	assert.Equal(t, "f.txt", gjson.Get(out, "files.0.newPath").String())
}
