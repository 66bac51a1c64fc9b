// SPDX-License-Identifier: MIT

// Package matrix - symmetric eigen-decomposition backed by gonum.
//
// Purpose:
//   - Provide a LAPACK-quality symmetric eigensolver (gonum mat.EigenSym) for
//     general dense inputs; the Jacobi kernel (Eigen) stays for small
//     tridiagonal problems where its determinism is preferred.
//
// Determinism & Policy:
//   - Input is validated symmetric within Options.Epsilon and then exactly
//     symmetrized ((A+Aᵀ)/2) before factorization.
//   - Eigenvalues are returned in ascending order; column k of Q pairs with value k.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const opEigenSym = "EigenSym"

// EigenSym computes A = Q·diag(values)·Qᵀ for a symmetric A.
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, eps) with eps from opts (DefaultEpsilon otherwise).
//   - Stage 2: copy the symmetric part into a gonum SymDense.
//   - Stage 3: factorize with eigenvectors; copy Q back into a Float64 Dense.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry, ErrMatrixEigenFailed.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func EigenSym(m Matrix, opts ...Option) ([]float64, *Dense, error) {
	o := gatherOptions(opts...)
	if err := ValidateSymmetric(m, o.eps); err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	n := d.r

	sym := mat.NewSymDense(n, nil)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(d.data[i*n+j]+d.data[j*n+i]))
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, nil, matrixErrorf(opEigenSym, fmt.Errorf("n=%d: %w", n, ErrMatrixEigenFailed))
	}
	values := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	Q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			Q.data[i*n+j] = ev.At(i, j)
		}
	}

	return values, Q, nil
}
