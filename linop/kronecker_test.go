// SPDX-License-Identifier: MIT

package linop_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kronlin/linop"
	"github.com/katalvlaran/kronlin/matrix"
)

func TestKroneckerMatMulMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, sizes := range [][]int{{3}, {2, 3}, {3, 2, 2}, {2, 1, 4}} {
		t.Run(fmt.Sprint(sizes), func(t *testing.T) {
			factors := make([]linop.Operator, len(sizes))
			dense := make([]matrix.Matrix, len(sizes))
			n := 1
			for i, s := range sizes {
				d := randDense(t, rng, s, s) // non-symmetric on purpose
				dense[i] = d
				factors[i] = mustDenseOp(t, d)
				n *= s
			}
			k, err := linop.NewKronecker(factors...)
			require.NoError(t, err)
			require.Equal(t, n, k.Size())

			want := dense[0]
			for _, d := range dense[1:] {
				want, err = matrix.Kron(want, d)
				require.NoError(t, err)
			}
			requireClose(t, want, mustToDense(t, k))

			x := randDense(t, rng, n, 3)
			got, err := k.MatMul(x)
			require.NoError(t, err)
			ref, err := matrix.Mul(want, x)
			require.NoError(t, err)
			requireClose(t, ref, got)

			wantT, err := matrix.Transpose(want)
			require.NoError(t, err)
			gotT, err := k.T().MatMul(x)
			require.NoError(t, err)
			refT, err := matrix.Mul(wantT, x)
			require.NoError(t, err)
			requireClose(t, refT, gotT)

			diag, err := k.DiagEntries()
			require.NoError(t, err)
			wantDiag, err := matrix.Diagonal(want)
			require.NoError(t, err)
			require.Empty(t, cmp.Diff(wantDiag, diag, approx))
		})
	}
}

func TestKroneckerSymEigReconstructs(t *testing.T) {
	k := randKronecker(t, rand.New(rand.NewSource(5)), 2, 3, 2)
	ed, err := k.SymEig(true)
	require.NoError(t, err)
	require.Len(t, ed.Values, 12)
	requireClose(t, mustToDense(t, k), reconstruct(t, ed))

	// Eigenvectors stay a lazy Kronecker product.
	q, ok := ed.Vectors.(*linop.Kronecker)
	require.True(t, ok)
	require.Len(t, q.Factors(), 3)

	valuesOnly, err := k.SymEig(false)
	require.NoError(t, err)
	require.Nil(t, valuesOnly.Vectors)
	require.Empty(t, cmp.Diff(ed.Values, valuesOnly.Values, approx))
}

func TestKroneckerWithDiagonalFactor(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	a := mustDenseOp(t, randSPD(t, rng, 3, 1))
	k, err := linop.NewKronecker(a, mustDiag(t, []float64{1, 2}))
	require.NoError(t, err)
	ed, err := k.SymEig(true)
	require.NoError(t, err)
	requireClose(t, mustToDense(t, k), reconstruct(t, ed))
}

// opaque hides every capability but Operator.
type opaque struct{ linop.Operator }

func TestKroneckerErrors(t *testing.T) {
	_, err := linop.NewKronecker()
	require.ErrorIs(t, err, linop.ErrNoFactors)

	var nilDense *linop.DenseOperator
	_, err = linop.NewKronecker(mustDiag(t, []float64{1}), nilDense)
	require.ErrorIs(t, err, linop.ErrNilOperator)

	k, err := linop.NewKronecker(opaque{mustDiag(t, []float64{1, 2})}, mustDiag(t, []float64{3}))
	require.NoError(t, err)
	_, err = k.SymEig(true)
	require.ErrorIs(t, err, linop.ErrNotEigendecomposable)

	_, err = k.MatMul(mustFrom(t, [][]float64{{1}}))
	require.ErrorIs(t, err, linop.ErrSizeMismatch)
}

func TestMatmul(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	a, b := randDense(t, rng, 3, 3), randDense(t, rng, 3, 3)
	p, err := linop.NewMatmul(mustDenseOp(t, a), mustDenseOp(t, b))
	require.NoError(t, err)

	ab, err := matrix.Mul(a, b)
	require.NoError(t, err)
	requireClose(t, ab, mustToDense(t, p))

	abt, err := matrix.Transpose(ab)
	require.NoError(t, err)
	requireClose(t, abt, mustToDense(t, p.T()))

	_, err = linop.NewMatmul(mustDenseOp(t, a), mustDiag(t, []float64{1}))
	require.ErrorIs(t, err, linop.ErrSizeMismatch)
	_, err = linop.NewMatmul(nil, mustDenseOp(t, a))
	require.ErrorIs(t, err, linop.ErrNilOperator)
}
