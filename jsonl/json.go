// Package jsonl renders diffs as JSON documents and JSON Lines records, and
// loads JSON Lines records back into bundles.
package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/codediff"
	"github.com/tidwall/pretty"
)

// Compile-time interface verification.
var _ codediff.Renderer = (*Renderer)(nil)

// Document type discriminators.
const (
	TypeResult = "result"
	TypeBundle = "bundle"
	TypeFile   = "file"
)

type resultDoc struct {
	Type                  string    `json:"type"`
	OldLabel              string    `json:"oldLabel"`
	NewLabel              string    `json:"newLabel"`
	OldHasTrailingNewline bool      `json:"oldHasTrailingNewline"`
	NewHasTrailingNewline bool      `json:"newHasTrailingNewline"`
	Hunks                 []hunkDoc `json:"hunks"`
}

type hunkDoc struct {
	OldStart int       `json:"oldStart"`
	OldLen   int       `json:"oldLen"`
	NewStart int       `json:"newStart"`
	NewLen   int       `json:"newLen"`
	Edits    []editDoc `json:"edits"`
}

type editDoc struct {
	Op        string    `json:"op"`
	Text      string    `json:"text"`
	WordSpans []spanDoc `json:"wordSpans"` // null when the edit has none
}

type spanDoc struct {
	Op   string `json:"op"`
	Text string `json:"text"`
}

type headerDoc struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type fileDoc struct {
	Type    string      `json:"type,omitempty"`
	OldPath string      `json:"oldPath"`
	NewPath string      `json:"newPath"`
	Headers []headerDoc `json:"headers"`
	Diff    resultDoc   `json:"diff"`
}

type bundleDoc struct {
	Type  string    `json:"type"`
	Files []fileDoc `json:"files"`
}

func newResultDoc(r *codediff.DiffResult) resultDoc {
	doc := resultDoc{
		Type:                  TypeResult,
		OldLabel:              r.OldLabel,
		NewLabel:              r.NewLabel,
		OldHasTrailingNewline: r.OldHasTrailingNewline,
		NewHasTrailingNewline: r.NewHasTrailingNewline,
		Hunks:                 make([]hunkDoc, 0, len(r.Hunks)),
	}
	for _, h := range r.Hunks {
		hd := hunkDoc{
			OldStart: h.OldStart,
			OldLen:   h.OldLen,
			NewStart: h.NewStart,
			NewLen:   h.NewLen,
			Edits:    make([]editDoc, 0, len(h.Edits)),
		}
		for _, e := range h.Edits {
			ed := editDoc{Op: e.Op.String(), Text: e.Text}
			for _, s := range e.WordSpans {
				ed.WordSpans = append(ed.WordSpans, spanDoc{Op: s.Op.String(), Text: s.Text})
			}
			hd.Edits = append(hd.Edits, ed)
		}
		doc.Hunks = append(doc.Hunks, hd)
	}
	return doc
}

func newFileDoc(f *codediff.DiffFile) fileDoc {
	doc := fileDoc{
		OldPath: f.OldPath,
		NewPath: f.NewPath,
		Headers: make([]headerDoc, 0, len(f.Headers)),
		Diff:    newResultDoc(&f.Result),
	}
	for _, h := range f.Headers {
		doc.Headers = append(doc.Headers, headerDoc{Key: h.Key, Value: h.Value})
	}
	return doc
}

// Renderer writes a single JSON document per call: a "result" document for
// Render and a "bundle" document for RenderBundle.
type Renderer struct {
	pretty bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPretty toggles indented output.
func WithPretty(on bool) Option {
	return func(r *Renderer) {
		r.pretty = on
	}
}

// NewRenderer creates a Renderer producing compact output.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render implements codediff.Renderer.
func (r *Renderer) Render(w io.Writer, result *codediff.DiffResult) error {
	return r.write(w, newResultDoc(result))
}

// RenderBundle implements codediff.Renderer.
func (r *Renderer) RenderBundle(w io.Writer, bundle *codediff.DiffBundle) error {
	doc := bundleDoc{Type: TypeBundle, Files: make([]fileDoc, 0, len(bundle.Files))}
	for i := range bundle.Files {
		doc.Files = append(doc.Files, newFileDoc(&bundle.Files[i]))
	}
	return r.write(w, doc)
}

var prettyOptions = &pretty.Options{Width: 80, Indent: "    "}

func (r *Renderer) write(w io.Writer, v any) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}
	if r.pretty {
		data = pretty.PrettyOptions(data, prettyOptions)
	}
	_, err = w.Write(data)
	return err
}

// marshal encodes v on one line without HTML escaping, terminated by a
// newline.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return buf.Bytes(), nil
}
