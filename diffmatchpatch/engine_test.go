package diffmatchpatch_test

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/diffmatchpatch"
	"github.com/fwojciec/codediff/lcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rebuild replays script over a, checking indices are consecutive.
func rebuild(t *testing.T, a, b []string, script []codediff.EditOp) []string {
	t.Helper()
	out := []string{}
	oldNext, newNext := 0, 0
	for _, op := range script {
		switch op.Op {
		case codediff.OpEqual:
			require.Equal(t, oldNext, op.OldIndex)
			require.Equal(t, newNext, op.NewIndex)
			require.Equal(t, a[op.OldIndex], b[op.NewIndex])
			out = append(out, a[op.OldIndex])
			oldNext++
			newNext++
		case codediff.OpDelete:
			require.Equal(t, oldNext, op.OldIndex)
			oldNext++
		case codediff.OpInsert:
			require.Equal(t, newNext, op.NewIndex)
			out = append(out, b[op.NewIndex])
			newNext++
		}
	}
	require.Equal(t, len(a), oldNext)
	require.Equal(t, len(b), newNext)
	return out
}

func equals(script []codediff.EditOp) int {
	n := 0
	for _, e := range script {
		if e.Op == codediff.OpEqual {
			n++
		}
	}
	return n
}

func TestEngine_EditScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []string
		want []codediff.EditOp
	}{
		{name: "both empty", want: []codediff.EditOp{}},
		{name: "insert only", b: []string{"x", "y"}, want: []codediff.EditOp{codediff.Insert(0), codediff.Insert(1)}},
		{name: "delete only", a: []string{"x"}, want: []codediff.EditOp{codediff.Delete(0)}},
		{
			name: "substitution",
			a:    []string{"line1", "line2", "line3"},
			b:    []string{"line1", "line2 modified", "line3"},
			want: []codediff.EditOp{
				codediff.Equal(0, 0),
				codediff.Delete(1),
				codediff.Insert(1),
				codediff.Equal(2, 2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, diffmatchpatch.New().EditScript(tt.a, tt.b))
		})
	}
}

func TestEngine_ClassicExample(t *testing.T) {
	t.Parallel()

	a := strings.Split("ABCABBA", "")
	b := strings.Split("CBABAC", "")
	script := diffmatchpatch.New().EditScript(a, b)

	assert.Equal(t, b, rebuild(t, a, b, script))
	assert.Equal(t, 4, equals(script))
}

func TestEngine_ManyDistinctTokens(t *testing.T) {
	t.Parallel()

	// Enough distinct tokens to need runes beyond the surrogate range.
	a := make([]string, 0xE000)
	for i := range a {
		a[i] = strconv.Itoa(i)
	}
	b := append([]string{"new"}, a[1:]...)

	script := diffmatchpatch.New().EditScript(a, b)
	assert.Equal(t, b, rebuild(t, a, b, script))
	assert.Equal(t, len(a)-1, equals(script))
}

func TestEngine_MatchesLCSEngine(t *testing.T) {
	t.Parallel()

	alphabet := []string{"a", "b", "c", "d"}
	random := func(r *rand.Rand, n int) []string {
		lines := make([]string, n)
		for i := range lines {
			lines[i] = alphabet[r.IntN(len(alphabet))]
		}
		return lines
	}

	r := rand.New(rand.NewPCG(7, 11))
	for i := range 300 {
		a := random(r, r.IntN(20))
		b := random(r, r.IntN(20))

		script := diffmatchpatch.New().EditScript(a, b)
		reference := lcs.Script(a, b)

		assert.Equal(t, b, rebuild(t, a, b, script), "case %d", i)
		assert.Equal(t, equals(reference), equals(script), "case %d: %v -> %v", i, a, b)
	}
}
