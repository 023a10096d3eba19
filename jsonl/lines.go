package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/codediff"
	"github.com/tidwall/gjson"
)

// Compile-time interface verification.
var (
	_ codediff.Renderer = (*LinesRenderer)(nil)
	_ codediff.Parser   = (*Loader)(nil)
)

// LinesRenderer writes JSON Lines: one "result" record for Render, and one
// "file" record per file for RenderBundle.
type LinesRenderer struct{}

// NewLinesRenderer creates a LinesRenderer.
func NewLinesRenderer() *LinesRenderer {
	return &LinesRenderer{}
}

// Render implements codediff.Renderer.
func (r *LinesRenderer) Render(w io.Writer, result *codediff.DiffResult) error {
	data, err := marshal(newResultDoc(result))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// RenderBundle implements codediff.Renderer. An empty bundle writes nothing.
func (r *LinesRenderer) RenderBundle(w io.Writer, bundle *codediff.DiffBundle) error {
	bw := bufio.NewWriter(w)
	for i := range bundle.Files {
		doc := newFileDoc(&bundle.Files[i])
		doc.Type = TypeFile
		data, err := marshal(doc)
		if err != nil {
			return err
		}
		bw.Write(data)
	}
	return bw.Flush()
}

// maxLineSize is the maximum size for a single JSONL line (16MB), enough for
// a record holding a file at the default size ceiling.
const maxLineSize = 16 * 1024 * 1024

// Loader reads JSON Lines written by LinesRenderer back into a bundle. A
// "result" record becomes a file whose paths are the result's labels.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Parse implements codediff.Parser. Blank lines are skipped; any other line
// that is not a result or file record fails with a *codediff.ParseError.
func (l *Loader) Parse(r io.Reader) (*codediff.DiffBundle, error) {
	bundle := &codediff.DiffBundle{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, &codediff.ParseError{Line: lineNum, Reason: "invalid json"}
		}

		var f codediff.DiffFile
		var err error
		switch typ := gjson.GetBytes(line, "type").String(); typ {
		case TypeFile:
			f, err = decodeFile(line)
		case TypeResult:
			f, err = decodeResultFile(line)
		default:
			err = fmt.Errorf("unexpected record type %q", typ)
		}
		if err != nil {
			return nil, &codediff.ParseError{Line: lineNum, Reason: err.Error()}
		}
		bundle.Files = append(bundle.Files, f)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func decodeFile(line []byte) (codediff.DiffFile, error) {
	var doc fileDoc
	if err := json.Unmarshal(line, &doc); err != nil {
		return codediff.DiffFile{}, err
	}
	result, err := decodeResult(doc.Diff)
	if err != nil {
		return codediff.DiffFile{}, err
	}
	f := codediff.DiffFile{OldPath: doc.OldPath, NewPath: doc.NewPath, Result: result}
	for _, h := range doc.Headers {
		f.Headers = append(f.Headers, codediff.Header{Key: h.Key, Value: h.Value})
	}
	return f, nil
}

func decodeResultFile(line []byte) (codediff.DiffFile, error) {
	var doc resultDoc
	if err := json.Unmarshal(line, &doc); err != nil {
		return codediff.DiffFile{}, err
	}
	result, err := decodeResult(doc)
	if err != nil {
		return codediff.DiffFile{}, err
	}
	return codediff.DiffFile{OldPath: doc.OldLabel, NewPath: doc.NewLabel, Result: result}, nil
}

func decodeResult(doc resultDoc) (codediff.DiffResult, error) {
	result := codediff.DiffResult{
		OldLabel:              doc.OldLabel,
		NewLabel:              doc.NewLabel,
		OldHasTrailingNewline: doc.OldHasTrailingNewline,
		NewHasTrailingNewline: doc.NewHasTrailingNewline,
	}
	for i, hd := range doc.Hunks {
		h := codediff.Hunk{
			OldStart: hd.OldStart,
			OldLen:   hd.OldLen,
			NewStart: hd.NewStart,
			NewLen:   hd.NewLen,
		}
		for _, ed := range hd.Edits {
			op, err := parseOp(ed.Op)
			if err != nil {
				return codediff.DiffResult{}, fmt.Errorf("hunk %d: %w", i+1, err)
			}
			e := codediff.Edit{Op: op, Text: ed.Text}
			for _, sd := range ed.WordSpans {
				sop, err := parseOp(sd.Op)
				if err != nil {
					return codediff.DiffResult{}, fmt.Errorf("hunk %d: %w", i+1, err)
				}
				e.WordSpans = append(e.WordSpans, codediff.WordSpan{Op: sop, Text: sd.Text})
			}
			h.Edits = append(h.Edits, e)
		}
		result.Hunks = append(result.Hunks, h)
	}
	if errs := result.Validate(); len(errs) > 0 {
		return codediff.DiffResult{}, errs[0]
	}
	return result, nil
}

func parseOp(s string) (codediff.Op, error) {
	for _, op := range []codediff.Op{codediff.OpEqual, codediff.OpDelete, codediff.OpInsert} {
		if op.String() == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown op %q", s)
}
