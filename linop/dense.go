// SPDX-License-Identifier: MIT

// Package linop - dense operator.
//
// Purpose:
//   - Wrap a square matrix.Matrix as an Operator; typical Kronecker factor.
//   - SymEig delegates to matrix.EigenSym (gonum), ascending eigenvalues.

package linop

import (
	"github.com/katalvlaran/kronlin/matrix"
)

const opDense = "DenseOperator"

// DenseOperator is a square operator backed by a Float64 Dense copy.
type DenseOperator struct {
	m       *matrix.Dense
	eigOpts []matrix.Option
}

var (
	_ Operator    = (*DenseOperator)(nil)
	_ SymEigener  = (*DenseOperator)(nil)
	_ DiagEntrier = (*DenseOperator)(nil)
)

// NewDenseOperator copies the square matrix m (converted to Float64).
// eigOpts are forwarded to matrix.EigenSym (e.g. matrix.WithEpsilon for the
// symmetry check).
// Errors: matrix.ErrNilMatrix, matrix.ErrDimensionMismatch (non-square).
func NewDenseOperator(m matrix.Matrix, eigOpts ...matrix.Option) (*DenseOperator, error) {
	if err := matrix.ValidateSquareNonNil(m); err != nil {
		return nil, opErrorf(opDense, err)
	}
	cp, err := matrix.AsPrecision(m, matrix.Float64)
	if err != nil {
		return nil, opErrorf(opDense, err)
	}

	return &DenseOperator{m: cp, eigOpts: eigOpts}, nil
}

// Size returns the matrix dimension.
func (o *DenseOperator) Size() int { return o.m.Rows() }

// MatMul returns M·rhs.
func (o *DenseOperator) MatMul(rhs matrix.Matrix) (*matrix.Dense, error) {
	if err := checkRHS(opDense, o.Size(), rhs); err != nil {
		return nil, err
	}
	out, err := matrix.Mul(o.m, rhs)
	if err != nil {
		return nil, opErrorf(opDense, err)
	}

	return out.(*matrix.Dense), nil
}

// T returns the operator of Mᵀ.
func (o *DenseOperator) T() Operator {
	mt, err := matrix.Transpose(o.m)
	if err != nil {
		// o.m is a validated non-nil Dense; Transpose cannot fail.
		panic(err)
	}

	return &DenseOperator{m: mt.(*matrix.Dense), eigOpts: o.eigOpts}
}

// ToDense returns a copy of M.
func (o *DenseOperator) ToDense() (*matrix.Dense, error) {
	return o.m.Clone().(*matrix.Dense), nil
}

// DiagEntries returns the main diagonal of M.
func (o *DenseOperator) DiagEntries() ([]float64, error) { return matrix.Diagonal(o.m) }

// SymEig factorizes M (which must be symmetric) with matrix.EigenSym.
// Values-only requests still factorize fully; Vectors is then left nil.
// Errors: matrix.ErrAsymmetry, matrix.ErrMatrixEigenFailed.
func (o *DenseOperator) SymEig(eigenvectors bool) (*EigenDecomposition, error) {
	vals, q, err := matrix.EigenSym(o.m, o.eigOpts...)
	if err != nil {
		return nil, opErrorf(opDense, err)
	}
	out := &EigenDecomposition{Values: vals}
	if eigenvectors {
		out.Vectors = &DenseOperator{m: q, eigOpts: o.eigOpts}
	}

	return out, nil
}
