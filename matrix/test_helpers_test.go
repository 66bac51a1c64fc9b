// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures shared by the kernel tests.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kronlin/matrix"
)

// tol is the absolute tolerance of float comparisons in this package.
const tol = 1e-9

var (
	// approx compares float slices within tol.
	approx = cmpopts.EquateApprox(0, tol)
	// sortFloats compares float slices as multisets.
	sortFloats = cmpopts.SortSlices(func(a, b float64) bool { return a < b })
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the At-based fallback path of the kernels.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustFrom builds a Dense from rows of equal length.
func MustFrom(t testing.TB, rows [][]float64, opts ...matrix.Option) *matrix.Dense {
	t.Helper()
	flat := make([]float64, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		flat = append(flat, r...)
	}
	m, err := matrix.NewDenseFrom(len(rows), len(rows[0]), flat, opts...)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// requireClose asserts AllClose(got, want) within tol.
func requireClose(t testing.TB, want, got matrix.Matrix) {
	t.Helper()
	ok, err := matrix.AllClose(got, want, 0, tol)
	require.NoError(t, err)
	require.Truef(t, ok, "want\n%v\ngot\n%v", want, got)
}

// householder4 returns Q = I − ½·11ᵀ, a symmetric orthogonal 4×4 matrix.
func householder4(t testing.TB) *matrix.Dense {
	t.Helper()
	q := MustDense(t, 4, 4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			v := -0.5
			if i == j {
				v = 0.5
			}
			require.NoError(t, q.Set(i, j, v))
		}
	}

	return q
}

// spectral4 returns Q·diag(1,2,3,4)·Qᵀ for the Householder Q above.
func spectral4(t testing.TB) matrix.Matrix {
	t.Helper()
	q := householder4(t)
	d, err := matrix.NewDiagonal([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	qd, err := matrix.Mul(q, d)
	require.NoError(t, err)
	k, err := matrix.Mul(qd, q)
	require.NoError(t, err)

	return k
}
