package chroma

import (
	"path"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/codediff"
)

var _ codediff.LanguageDetector = (*Detector)(nil)

// Detector resolves file paths to chroma lexer names. Results are cached per
// base name, so a Detector is cheap to share across the files of a bundle.
type Detector struct {
	forced   string
	patterns []pattern

	mu    sync.Mutex
	cache map[string]string
}

type pattern struct {
	glob, language string
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithLanguage makes every path resolve to language, for input that has no
// meaningful name such as stdin. Unknown names are ignored.
func WithLanguage(language string) DetectorOption {
	return func(d *Detector) {
		if l := lexers.Get(language); l != nil {
			d.forced = l.Config().Name
		}
	}
}

// WithPattern maps base names matching glob to language ahead of chroma's
// own filename rules.
func WithPattern(glob, language string) DetectorOption {
	return func(d *Detector) {
		if l := lexers.Get(language); l != nil {
			d.patterns = append(d.patterns, pattern{glob: glob, language: l.Config().Name})
		}
	}
}

// NewDetector creates a Detector.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{cache: make(map[string]string)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromPath returns the chroma lexer name for p, or "" when the
// language is unknown or p is codediff.DevNull.
func (d *Detector) DetectFromPath(p string) string {
	if d.forced != "" {
		return d.forced
	}
	if p == "" || p == codediff.DevNull {
		return ""
	}
	p = strings.TrimPrefix(strings.TrimPrefix(p, "a/"), "b/")
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))

	d.mu.Lock()
	defer d.mu.Unlock()
	if name, ok := d.cache[base]; ok {
		return name
	}
	name := d.match(base)
	d.cache[base] = name
	return name
}

func (d *Detector) match(base string) string {
	for _, pt := range d.patterns {
		if ok, _ := path.Match(pt.glob, base); ok {
			return pt.language
		}
	}
	if l := lexers.Match(base); l != nil {
		return l.Config().Name
	}
	return ""
}
