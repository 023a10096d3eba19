// Package gitdiff implements codediff.Parser using bluekeyes/go-gitdiff.
package gitdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.Parser = (*Parser)(nil)

// Parser parses git-generated patches. Compared to unified.Parser it is
// strict about git headers and rebuilds the extended header lines from the
// fields go-gitdiff extracts.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements codediff.Parser.
func (p *Parser) Parse(r io.Reader) (*codediff.DiffBundle, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, &codediff.ParseError{Reason: err.Error()}
	}

	bundle := &codediff.DiffBundle{
		Files: make([]codediff.DiffFile, 0, len(files)),
	}
	for _, f := range files {
		if f.IsBinary {
			return nil, &codediff.BinaryInputError{Reason: "patch contains binary files"}
		}
		bundle.Files = append(bundle.Files, convertFile(f))
	}
	return bundle, nil
}

func convertFile(f *gitdiff.File) codediff.DiffFile {
	df := codediff.DiffFile{
		OldPath: f.OldName,
		NewPath: f.NewName,
		Result: codediff.DiffResult{
			OldHasTrailingNewline: true,
			NewHasTrailingNewline: true,
		},
	}
	if f.IsNew {
		df.OldPath = codediff.DevNull
	}
	if f.IsDelete {
		df.NewPath = codediff.DevNull
	}
	df.Headers = headers(f)

	df.Result.Hunks = make([]codediff.Hunk, 0, len(f.TextFragments))
	for _, frag := range f.TextFragments {
		df.Result.Hunks = append(df.Result.Hunks, convertFragment(frag))
	}
	if n := len(f.TextFragments); n > 0 {
		df.Result.OldHasTrailingNewline, df.Result.NewHasTrailingNewline = trailing(f.TextFragments[n-1])
	}
	return df
}

func convertFragment(frag *gitdiff.TextFragment) codediff.Hunk {
	edits := make([]codediff.Edit, 0, len(frag.Lines))
	for _, l := range frag.Lines {
		e := codediff.Edit{Text: strings.TrimSuffix(l.Line, "\n")}
		switch l.Op {
		case gitdiff.OpContext:
			e.Op = codediff.OpEqual
		case gitdiff.OpAdd:
			e.Op = codediff.OpInsert
		case gitdiff.OpDelete:
			e.Op = codediff.OpDelete
		}
		edits = append(edits, e)
	}
	return codediff.Hunk{
		OldStart: int(frag.OldPosition),
		OldLen:   int(frag.OldLines),
		NewStart: int(frag.NewPosition),
		NewLen:   int(frag.NewLines),
		Edits:    edits,
	}
}

// trailing reports whether the last old-side and new-side lines of frag end
// with a newline.
func trailing(frag *gitdiff.TextFragment) (oldTrailing, newTrailing bool) {
	oldTrailing, newTrailing = true, true
	oldSeen, newSeen := false, false
	for i := len(frag.Lines) - 1; i >= 0 && !(oldSeen && newSeen); i-- {
		l := frag.Lines[i]
		if !oldSeen && l.Op != gitdiff.OpAdd {
			oldTrailing, oldSeen = !l.NoEOL(), true
		}
		if !newSeen && l.Op != gitdiff.OpDelete {
			newTrailing, newSeen = !l.NoEOL(), true
		}
	}
	return oldTrailing, newTrailing
}

// headers rebuilds the extended header lines go-gitdiff parsed into fields.
func headers(f *gitdiff.File) []codediff.Header {
	oldName, newName := f.OldName, f.NewName
	if f.IsNew {
		oldName = newName
	}
	if f.IsDelete {
		newName = oldName
	}
	hs := []codediff.Header{{
		Key:   codediff.HeaderDiff,
		Value: "diff --git a/" + oldName + " b/" + newName,
	}}
	add := func(key, format string, args ...any) {
		hs = append(hs, codediff.Header{Key: key, Value: fmt.Sprintf(format, args...)})
	}

	switch {
	case f.IsNew:
		add(codediff.HeaderNewFileMode, "new file mode %o", f.NewMode)
	case f.IsDelete:
		add(codediff.HeaderDeletedFileMode, "deleted file mode %o", f.OldMode)
	case f.OldMode != 0 && f.NewMode != 0 && f.OldMode != f.NewMode:
		add(codediff.HeaderOldMode, "old mode %o", f.OldMode)
		add(codediff.HeaderNewMode, "new mode %o", f.NewMode)
	}

	if f.OldOIDPrefix != "" || f.NewOIDPrefix != "" {
		// The index line's mode is parsed into OldMode only.
		if !f.IsNew && !f.IsDelete && f.OldMode != 0 && (f.NewMode == 0 || f.NewMode == f.OldMode) {
			add(codediff.HeaderIndex, "index %s..%s %o", f.OldOIDPrefix, f.NewOIDPrefix, f.OldMode)
		} else {
			add(codediff.HeaderIndex, "index %s..%s", f.OldOIDPrefix, f.NewOIDPrefix)
		}
	}

	if (f.IsRename || f.IsCopy) && f.Score > 0 {
		add(codediff.HeaderSimilarityIndex, "similarity index %d%%", f.Score)
	}
	switch {
	case f.IsRename:
		add(codediff.HeaderRenameFrom, "rename from %s", f.OldName)
		add(codediff.HeaderRenameTo, "rename to %s", f.NewName)
	case f.IsCopy:
		add(codediff.HeaderCopyFrom, "copy from %s", f.OldName)
		add(codediff.HeaderCopyTo, "copy to %s", f.NewName)
	}
	return hs
}
