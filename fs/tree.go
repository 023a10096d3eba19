package fs

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/differ"
	"github.com/fwojciec/codediff/log"
	"github.com/fwojciec/codediff/textutil"
)

// ReadTree returns the content of every regular text file under root, keyed
// by slash-separated path relative to root. Version control directories are
// skipped, as are binary files.
func ReadTree(root string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (d.Name() == ".git" || d.Name() == ".hg" || d.Name() == ".svn") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := textutil.AssertText(string(data)); err != nil {
			log.WithFields(log.Fields{"path": rel}).Debug("skipping binary file")
			return nil
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", root, err)
	}
	return files, nil
}

// Pairs matches two trees by path, in sorted path order. A path present only
// in oldFiles becomes a deletion, one present only in newFiles a creation.
func Pairs(oldFiles, newFiles map[string]string) []differ.FilePair {
	paths := slices.Sorted(maps.Keys(oldFiles))
	for p := range newFiles {
		if _, ok := oldFiles[p]; !ok {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)

	pairs := make([]differ.FilePair, 0, len(paths))
	for _, p := range paths {
		oldContent, inOld := oldFiles[p]
		newContent, inNew := newFiles[p]
		pair := differ.FilePair{OldPath: p, NewPath: p, Old: oldContent, New: newContent}
		if !inOld {
			pair.OldPath = codediff.DevNull
		}
		if !inNew {
			pair.NewPath = codediff.DevNull
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// WriteTree brings root from before to after: files whose content changed or
// that are new are written, and files missing from after are removed.
func WriteTree(root string, before, after map[string]string) error {
	for _, p := range slices.Sorted(maps.Keys(after)) {
		content := after[p]
		if old, ok := before[p]; ok && old == content {
			continue
		}
		path := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		log.WithFields(log.Fields{"path": p}).Debug("wrote file")
	}
	for _, p := range slices.Sorted(maps.Keys(before)) {
		if _, ok := after[p]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(root, filepath.FromSlash(p))); err != nil && !os.IsNotExist(err) {
			return err
		}
		log.WithFields(log.Fields{"path": p}).Debug("removed file")
	}
	return nil
}
