package codediff_test

import (
	"testing"

	"github.com/fwojciec/codediff"
	"github.com/stretchr/testify/assert"
)

func TestOp_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op     codediff.Op
		name   string
		prefix string
	}{
		{codediff.OpEqual, "equal", " "},
		{codediff.OpDelete, "delete", "-"},
		{codediff.OpInsert, "insert", "+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.name, tt.op.String())
			assert.Equal(t, tt.prefix, tt.op.Prefix())
		})
	}
}

func TestEditOp_Constructors(t *testing.T) {
	t.Parallel()

	eq := codediff.Equal(1, 2)
	assert.True(t, eq.HasOld())
	assert.True(t, eq.HasNew())

	del := codediff.Delete(4)
	assert.Equal(t, 4, del.OldIndex)
	assert.False(t, del.HasNew())

	ins := codediff.Insert(7)
	assert.Equal(t, 7, ins.NewIndex)
	assert.False(t, ins.HasOld())
}

func TestNewHunk(t *testing.T) {
	t.Parallel()

	h := codediff.NewHunk(3, 4, []codediff.Edit{
		{Op: codediff.OpEqual, Text: "a"},
		{Op: codediff.OpDelete, Text: "b"},
		{Op: codediff.OpInsert, Text: "B"},
		{Op: codediff.OpInsert, Text: "C"},
		{Op: codediff.OpEqual, Text: "d"},
	})

	assert.Equal(t, 3, h.OldStart)
	assert.Equal(t, 4, h.NewStart)
	assert.Equal(t, 3, h.OldLen)
	assert.Equal(t, 4, h.NewLen)
	assert.Equal(t, []string{"a", "b", "d"}, h.OldLines())
	assert.Equal(t, []string{"a", "B", "C", "d"}, h.NewLines())

	added, deleted := h.Stats()
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, deleted)
}

func TestDiffResult_IsEmpty(t *testing.T) {
	t.Parallel()

	r := &codediff.DiffResult{}
	assert.True(t, r.IsEmpty())

	r.Hunks = append(r.Hunks, codediff.NewHunk(1, 1, []codediff.Edit{{Op: codediff.OpInsert, Text: "x"}}))
	assert.False(t, r.IsEmpty())

	added, deleted := r.Stats()
	assert.Equal(t, 1, added)
	assert.Equal(t, 0, deleted)
}

func TestDiffFile(t *testing.T) {
	t.Parallel()

	t.Run("created file", func(t *testing.T) {
		t.Parallel()
		f := codediff.DiffFile{OldPath: codediff.DevNull, NewPath: "new.txt"}
		assert.True(t, f.IsNew())
		assert.False(t, f.IsDelete())
		assert.False(t, f.IsRename())
		assert.Equal(t, "new.txt", f.DisplayPath())
	})

	t.Run("deleted file", func(t *testing.T) {
		t.Parallel()
		f := codediff.DiffFile{OldPath: "gone.txt", NewPath: codediff.DevNull}
		assert.True(t, f.IsDelete())
		assert.Equal(t, "gone.txt", f.DisplayPath())
	})

	t.Run("renamed file", func(t *testing.T) {
		t.Parallel()
		f := codediff.DiffFile{OldPath: "a.txt", NewPath: "b.txt"}
		assert.True(t, f.IsRename())
	})

	t.Run("header lookup", func(t *testing.T) {
		t.Parallel()
		f := codediff.DiffFile{Headers: []codediff.Header{
			{Key: codediff.HeaderIndex, Value: "index 123..456 100644"},
		}}
		v, ok := f.Header(codediff.HeaderIndex)
		assert.True(t, ok)
		assert.Equal(t, "index 123..456 100644", v)

		_, ok = f.Header(codediff.HeaderRenameFrom)
		assert.False(t, ok)
	})
}
