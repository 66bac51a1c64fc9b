// SPDX-License-Identifier: MIT

package linop_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kronlin/linop"
	"github.com/katalvlaran/kronlin/matrix"
)

func TestDenseOperator(t *testing.T) {
	m := mustFrom(t, [][]float64{{1, 2}, {3, 4}})
	op := mustDenseOp(t, m)
	require.NoError(t, m.Set(0, 0, 100))
	requireClose(t, mustFrom(t, [][]float64{{1, 2}, {3, 4}}), mustToDense(t, op))

	got, err := op.MatMul(mustFrom(t, [][]float64{{1}, {1}}))
	require.NoError(t, err)
	requireClose(t, mustFrom(t, [][]float64{{3}, {7}}), got)

	requireClose(t, mustFrom(t, [][]float64{{1, 3}, {2, 4}}), mustToDense(t, op.T()))

	d, err := op.DiagEntries()
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]float64{1, 4}, d))

	_, err = op.SymEig(false)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)
}

func TestDenseOperatorSymEig(t *testing.T) {
	op := mustDenseOp(t, spectral4(t))
	ed, err := op.SymEig(true)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]float64{1, 2, 3, 4}, ed.Values, approx))

	valuesOnly, err := op.SymEig(false)
	require.NoError(t, err)
	require.Nil(t, valuesOnly.Vectors)
	require.Empty(t, cmp.Diff(ed.Values, valuesOnly.Values))

	// Q·diag(Λ)·Qᵀ = K.
	rec := reconstruct(t, ed)
	requireClose(t, spectral4(t), rec)
}

func TestDenseOperatorErrors(t *testing.T) {
	_, err := linop.NewDenseOperator(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = linop.NewDenseOperator(randDense(t, rand.New(rand.NewSource(1)), 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// reconstruct returns Vectors·diag(Values)·Vectorsᵀ.
func reconstruct(t testing.TB, ed *linop.EigenDecomposition) *matrix.Dense {
	t.Helper()
	lam := mustDiag(t, ed.Values)
	qt := mustToDense(t, ed.Vectors.T())
	tmp, err := lam.MatMul(qt)
	require.NoError(t, err)
	out, err := ed.Vectors.MatMul(tmp)
	require.NoError(t, err)

	return out
}
