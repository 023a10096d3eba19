package differ_test

import (
	"context"
	"testing"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/differ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffer_CompareFiles(t *testing.T) {
	t.Parallel()

	pairs := []differ.FilePair{
		{OldPath: "same.txt", NewPath: "same.txt", Old: "x\n", New: "x\n"},
		{OldPath: "changed.txt", NewPath: "changed.txt", Old: "a\n", New: "b\n"},
		{OldPath: codediff.DevNull, NewPath: "empty.txt"},
		{OldPath: "gone.txt", NewPath: codediff.DevNull, Old: "bye\n"},
	}

	bundle, err := differ.New().CompareFiles(context.Background(), pairs)
	require.NoError(t, err)

	require.Len(t, bundle.Files, 3)
	assert.Equal(t, "changed.txt", bundle.Files[0].NewPath)
	assert.Len(t, bundle.Files[0].Result.Hunks, 1)
	assert.True(t, bundle.Files[1].IsNew())
	assert.True(t, bundle.Files[1].Result.IsEmpty())
	assert.True(t, bundle.Files[2].IsDelete())
	assert.Equal(t, []codediff.Edit{{Op: codediff.OpDelete, Text: "bye"}}, bundle.Files[2].Result.Hunks[0].Edits)
}

func TestDiffer_CompareFiles_Error(t *testing.T) {
	t.Parallel()

	pairs := []differ.FilePair{
		{OldPath: "ok.txt", NewPath: "ok.txt", Old: "a\n", New: "b\n"},
		{OldPath: "bin", NewPath: "bin", Old: "\x00", New: "x"},
	}

	_, err := differ.New().CompareFiles(context.Background(), pairs)
	require.ErrorIs(t, err, codediff.ErrBinaryInput)
	assert.Contains(t, err.Error(), "compare bin")
}

func TestDiffer_CompareFiles_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := differ.New().CompareFiles(ctx, []differ.FilePair{{OldPath: "a", NewPath: "a", Old: "1", New: "2"}})
	assert.ErrorIs(t, err, context.Canceled)
}
