package chroma_test

import (
	"sync"
	"testing"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/chroma"
	"github.com/stretchr/testify/assert"
)

func TestDetector_DetectFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"src/main.go", "Go"},
		{"a/src/foo.go", "Go"},
		{"b/src/foo.go", "Go"},
		{`dir\win.py`, "Python"},
		{"lib.rs", "Rust"},
		{"style.css", "CSS"},
		{"file.unknownext", ""},
		{codediff.DevNull, ""},
		{"", ""},
	}
	detector := chroma.NewDetector()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, detector.DetectFromPath(tt.path))
		})
	}
}

func TestDetector_Options(t *testing.T) {
	t.Parallel()

	t.Run("forced language", func(t *testing.T) {
		t.Parallel()
		d := chroma.NewDetector(chroma.WithLanguage("python"))
		assert.Equal(t, "Python", d.DetectFromPath("-"))
		assert.Equal(t, "Python", d.DetectFromPath("main.go"))
	})

	t.Run("unknown forced language is ignored", func(t *testing.T) {
		t.Parallel()
		d := chroma.NewDetector(chroma.WithLanguage("no-such-language"))
		assert.Equal(t, "Go", d.DetectFromPath("main.go"))
	})

	t.Run("pattern wins over filename rules", func(t *testing.T) {
		t.Parallel()
		d := chroma.NewDetector(chroma.WithPattern("*.tmpl", "go"), chroma.WithPattern("*.go", "rust"))
		assert.Equal(t, "Go", d.DetectFromPath("a/views/page.tmpl"))
		assert.Equal(t, "Rust", d.DetectFromPath("main.go"))
		assert.Equal(t, "Python", d.DetectFromPath("x.py"))
	})
}

func TestDetector_Concurrent(t *testing.T) {
	t.Parallel()

	d := chroma.NewDetector()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.Equal(t, "Go", d.DetectFromPath("x/main.go"))
			}
		}()
	}
	wg.Wait()
}
