// SPDX-License-Identifier: MIT

package linop_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kronlin/linop"
	"github.com/katalvlaran/kronlin/matrix"
)

const tol = 1e-8

var approx = cmpopts.EquateApprox(0, tol)

// cmpApprox compares floats within an absolute margin.
func cmpApprox(margin float64) cmp.Option { return cmpopts.EquateApprox(0, margin) }

// mustFrom builds a Dense from rows of equal length.
func mustFrom(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	flat := make([]float64, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		flat = append(flat, r...)
	}
	m, err := matrix.NewDenseFrom(len(rows), len(rows[0]), flat)
	require.NoError(t, err)

	return m
}

// randDense returns an r×c matrix with entries uniform in [-1, 1).
func randDense(t testing.TB, rng *rand.Rand, r, c int) *matrix.Dense {
	t.Helper()
	data := make([]float64, r*c)
	for i := range data {
		data[i] = 2*rng.Float64() - 1
	}
	m, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(t, err)

	return m
}

// randSPD returns the symmetric positive-definite G·Gᵀ/n + shift·I.
func randSPD(t testing.TB, rng *rand.Rand, n int, shift float64) *matrix.Dense {
	t.Helper()
	G := randDense(t, rng, n, n)
	Gt, err := matrix.Transpose(G)
	require.NoError(t, err)
	GGt, err := matrix.Mul(G, Gt)
	require.NoError(t, err)
	GGt, err = matrix.Scale(GGt, 1/float64(n))
	require.NoError(t, err)
	I, err := matrix.NewIdentity(n)
	require.NoError(t, err)
	sI, err := matrix.Scale(I, shift)
	require.NoError(t, err)
	sum, err := matrix.Add(GGt, sI)
	require.NoError(t, err)
	sym, err := matrix.Symmetrize(sum)
	require.NoError(t, err)
	d, err := matrix.AsPrecision(sym, matrix.Float64)
	require.NoError(t, err)

	return d
}

func mustDenseOp(t testing.TB, m matrix.Matrix) *linop.DenseOperator {
	t.Helper()
	op, err := linop.NewDenseOperator(m)
	require.NoError(t, err)

	return op
}

func mustConstant(t testing.TB, c float64, n int) *linop.ConstantDiag {
	t.Helper()
	u, err := linop.NewConstantDiag(c, n)
	require.NoError(t, err)

	return u
}

func mustDiag(t testing.TB, d []float64) *linop.Diag {
	t.Helper()
	g, err := linop.NewDiag(d)
	require.NoError(t, err)

	return g
}

// randKronecker returns a Kronecker product of random SPD factors.
func randKronecker(t testing.TB, rng *rand.Rand, sizes ...int) *linop.Kronecker {
	t.Helper()
	factors := make([]linop.Operator, len(sizes))
	for i, n := range sizes {
		factors[i] = mustDenseOp(t, randSPD(t, rng, n, 0.5))
	}
	k, err := linop.NewKronecker(factors...)
	require.NoError(t, err)

	return k
}

func mustToDense(t testing.TB, op linop.Operator) *matrix.Dense {
	t.Helper()
	d, err := op.ToDense()
	require.NoError(t, err)

	return d
}

// requireClose asserts AllClose(got, want) within rtol = atol = tol.
func requireClose(t testing.TB, want, got matrix.Matrix) {
	t.Helper()
	ok, err := matrix.AllClose(got, want, tol, tol)
	require.NoError(t, err)
	require.Truef(t, ok, "want\n%v\ngot\n%v", want, got)
}

// rootProduct returns R·Rᵀ.
func rootProduct(t testing.TB, r linop.Operator) *matrix.Dense {
	t.Helper()
	rt := mustToDense(t, r.T())
	out, err := r.MatMul(rt)
	require.NoError(t, err)

	return out
}

// spectral4 returns K = Q·diag(1,2,3,4)·Q with Q = I − ½·11ᵀ.
func spectral4(t testing.TB) *matrix.Dense {
	t.Helper()
	q := mustFrom(t, [][]float64{
		{0.5, -0.5, -0.5, -0.5},
		{-0.5, 0.5, -0.5, -0.5},
		{-0.5, -0.5, 0.5, -0.5},
		{-0.5, -0.5, -0.5, 0.5},
	})
	d, err := matrix.NewDiagonal([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	qd, err := matrix.Mul(q, d)
	require.NoError(t, err)
	k, err := matrix.Mul(qd, q)
	require.NoError(t, err)

	return k.(*matrix.Dense)
}

// ones returns an n×1 column of ones.
func ones(t testing.TB, n int) *matrix.Dense {
	t.Helper()
	data := make([]float64, n)
	for i := range data {
		data[i] = 1
	}
	m, err := matrix.NewDenseFrom(n, 1, data)
	require.NoError(t, err)

	return m
}
