package worddiff_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/myers"
	"github.com/fwojciec/codediff/worddiff"
	"github.com/stretchr/testify/assert"
)

func TestTokenizer_Tokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single word", "hello", []string{"hello"}},
		{"words and spaces", "hello world", []string{"hello", " ", "world"}},
		{"leading and trailing whitespace", "  a\tb ", []string{"  ", "a", "\t", "b", " "}},
		{"whitespace only", " \t ", []string{" \t "}},
		{"punctuation stays in word", "foo(bar, baz)", []string{"foo(bar,", " ", "baz)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := worddiff.NewTokenizer().Tokenize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, strings.Join(got, ""))
		})
	}
}

func TestCodeTokenizer_Tokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"call expression", "foo(bar, 42)", []string{"foo", "(", "bar", ",", " ", "42", ")"}},
		{"operators", "x := a+=b", []string{"x", " ", ":=", " ", "a", "+=", "b"}},
		{"decimal number", "3.14", []string{"3.14"}},
		{"string literal with escape", `s = "a\"b"`, []string{"s", " ", "=", " ", `"a\"b"`}},
		{"raw string", "`a\\b`", []string{"`a\\b`"}},
		{"unicode", "héllo", []string{"h", "é", "llo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := worddiff.NewCodeTokenizer().Tokenize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, strings.Join(got, ""))
		})
	}
}

func TestDiffer_Spans(t *testing.T) {
	t.Parallel()

	d := worddiff.NewDiffer(myers.New(), worddiff.NewTokenizer())

	t.Run("single word change", func(t *testing.T) {
		t.Parallel()

		oldSpans, newSpans := d.Spans("hello world", "hello universe")

		assert.Equal(t, []codediff.WordSpan{
			{Op: codediff.OpEqual, Text: "hello"},
			{Op: codediff.OpEqual, Text: " "},
			{Op: codediff.OpDelete, Text: "world"},
		}, oldSpans)
		assert.Equal(t, []codediff.WordSpan{
			{Op: codediff.OpEqual, Text: "hello"},
			{Op: codediff.OpEqual, Text: " "},
			{Op: codediff.OpInsert, Text: "universe"},
		}, newSpans)
	})

	t.Run("removed trailing word", func(t *testing.T) {
		t.Parallel()

		oldSpans, newSpans := d.Spans("word1 word2", "word1")

		assert.Equal(t, []codediff.WordSpan{
			{Op: codediff.OpEqual, Text: "word1"},
			{Op: codediff.OpDelete, Text: " "},
			{Op: codediff.OpDelete, Text: "word2"},
		}, oldSpans)
		assert.Equal(t, []codediff.WordSpan{
			{Op: codediff.OpEqual, Text: "word1"},
		}, newSpans)
	})

	t.Run("empty new line", func(t *testing.T) {
		t.Parallel()

		oldSpans, newSpans := d.Spans("abc", "")

		assert.Equal(t, []codediff.WordSpan{{Op: codediff.OpDelete, Text: "abc"}}, oldSpans)
		assert.Empty(t, newSpans)
	})

	t.Run("spans reconstruct both lines", func(t *testing.T) {
		t.Parallel()

		oldLine := "func (s *Server) Start(ctx context.Context) error {"
		newLine := "func (s *Server) Run(ctx context.Context, addr string) error {"
		oldSpans, newSpans := worddiff.NewDiffer(myers.New(), worddiff.NewCodeTokenizer()).Spans(oldLine, newLine)

		assert.Equal(t, oldLine, join(oldSpans))
		assert.Equal(t, newLine, join(newSpans))
		for _, s := range oldSpans {
			assert.NotEqual(t, codediff.OpInsert, s.Op)
		}
		for _, s := range newSpans {
			assert.NotEqual(t, codediff.OpDelete, s.Op)
		}
	})
}

func join(spans []codediff.WordSpan) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestUnicodeTokenizer_Tokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"words and spaces", "hello world", []string{"hello", " ", "world"}},
		{"punctuation splits", "foo(bar, baz)", []string{"foo", "(", "bar", ",", " ", "baz", ")"}},
		{"accented letters", "naïve café", []string{"naïve", " ", "café"}},
		{"contraction stays whole", "don't stop", []string{"don't", " ", "stop"}},
		{"decimal stays whole", "pi is 3.14", []string{"pi", " ", "is", " ", "3.14"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := worddiff.NewUnicodeTokenizer().Tokenize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, strings.Join(got, ""))
		})
	}
}
