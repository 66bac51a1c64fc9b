// SPDX-License-Identifier: MIT

// Package matrix - Cholesky factorization backed by gonum.
//
// Purpose:
//   - Dense root decomposition A = L·Lᵀ used by the generic operator fallback
//     (root / root-inverse decompositions) and by dense reference checks.
//
// Determinism & Policy:
//   - Input is validated symmetric within Options.Epsilon and then exactly
//     symmetrized ((A+Aᵀ)/2) before factorization, as in EigenSym.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const opCholesky = "Cholesky"

// Cholesky returns the lower-triangular L with A = L·Lᵀ.
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, eps) (eps from opts).
//   - Stage 2: copy the symmetric part into a gonum SymDense and factorize
//     with mat.Cholesky; a failed factorization means A is not SPD.
//   - Stage 3: copy L back into a Float64 Dense.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry, ErrNotPositiveDefinite.
//
// Complexity:
//   - Time O(n^3/3), Space O(n^2).
func Cholesky(m Matrix, opts ...Option) (*Dense, error) {
	ch, n, err := factorizeSPD(m, opts...)
	if err != nil {
		return nil, err
	}
	var lt mat.TriDense
	ch.LTo(&lt)

	L, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j <= i; j++ {
			L.data[i*n+j] = lt.At(i, j)
		}
	}

	return L, nil
}

// LogDetSPD returns log det(A) = 2·Σ log L[i,i] via Cholesky.
// Errors: as Cholesky. Complexity: O(n^3/3).
func LogDetSPD(m Matrix, opts ...Option) (float64, error) {
	ch, _, err := factorizeSPD(m, opts...)
	if err != nil {
		return 0, err
	}

	return ch.LogDet(), nil
}

// factorizeSPD validates m and returns its gonum Cholesky factorization.
func factorizeSPD(m Matrix, opts ...Option) (*mat.Cholesky, int, error) {
	o := gatherOptions(opts...)
	if err := ValidateSymmetric(m, o.eps); err != nil {
		return nil, 0, matrixErrorf(opCholesky, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, 0, matrixErrorf(opCholesky, err)
	}
	n := d.r

	sym := mat.NewSymDense(n, nil)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(d.data[i*n+j]+d.data[j*n+i]))
		}
	}

	var ch mat.Cholesky
	if ok := ch.Factorize(sym); !ok {
		return nil, 0, matrixErrorf(opCholesky, fmt.Errorf("n=%d: %w", n, ErrNotPositiveDefinite))
	}

	return &ch, n, nil
}
