// SPDX-License-Identifier: MIT

// Package linop - operator contracts.
//
// Purpose:
//   - Define the minimal square linear-operator surface (Operator) and the
//     optional capabilities the solvers dispatch on: Diagonal, Uniform,
//     SymEigener, DiagEntrier.
//
// AI-Hints:
//   - Capabilities are discovered with type assertions; an operator advertises
//     only what it can compute exactly.

package linop

import (
	"fmt"

	"github.com/katalvlaran/kronlin/matrix"
)

// Operator is a square linear map of dimension Size().
type Operator interface {
	// Size returns n for an n×n operator.
	Size() int

	// MatMul returns op·rhs for an n×k right-hand side as a fresh Float64 Dense.
	MatMul(rhs matrix.Matrix) (*matrix.Dense, error)

	// T returns the transposed operator. It never copies dense storage
	// unless the implementation is itself dense.
	T() Operator

	// ToDense materializes the operator (O(n²) memory).
	ToDense() (*matrix.Dense, error)
}

// Diagonal is an operator represented solely by its diagonal entries.
type Diagonal interface {
	Operator

	// Diag returns a copy of the diagonal entries.
	Diag() []float64
}

// Uniform is a diagonal operator whose entries are all equal (c·I).
type Uniform interface {
	Diagonal

	// Value returns c.
	Value() float64
}

// SymEigener exposes a symmetric eigendecomposition op = Q·diag(Λ)·Qᵀ.
//
// eigenvectors selects whether Q is computed. Callers that only need Λ
// algebraically may still have to request Q: when the operator is driven by
// an automatic-differentiation backend, the backward pass through Λ is
// defined by the eigenvector path, so a values-only decomposition is not
// differentiable.
type SymEigener interface {
	SymEig(eigenvectors bool) (*EigenDecomposition, error)
}

// DiagEntrier returns the main diagonal without materializing the operator.
type DiagEntrier interface {
	DiagEntries() ([]float64, error)
}

// EigenDecomposition holds op = Vectors·diag(Values)·Vectorsᵀ.
// Vectors is nil when eigenvectors were not requested.
type EigenDecomposition struct {
	Values  []float64
	Vectors Operator
}

// diagEntries returns the diagonal of op, avoiding densification when the
// operator implements DiagEntrier.
func diagEntries(op Operator) ([]float64, error) {
	if de, ok := op.(DiagEntrier); ok {
		return de.DiagEntries()
	}
	if d, ok := op.(Diagonal); ok {
		return d.Diag(), nil
	}
	dense, err := op.ToDense()
	if err != nil {
		return nil, err
	}

	return matrix.Diagonal(dense)
}

// checkRHS validates that rhs is non-nil and has exactly n rows.
func checkRHS(tag string, n int, rhs matrix.Matrix) error {
	if err := matrix.ValidateNotNil(rhs); err != nil {
		return opErrorf(tag, fmt.Errorf("rhs: %w", ErrNilOperator))
	}
	if rhs.Rows() != n {
		return opErrorf(tag, fmt.Errorf("rhs has %d rows, operator size %d: %w", rhs.Rows(), n, ErrSizeMismatch))
	}

	return nil
}

// toFloat64 returns rhs as a Float64 *Dense, copying only when needed.
// The result must be treated as read-only when it aliases rhs.
func toFloat64(rhs matrix.Matrix) (*matrix.Dense, error) {
	if d, ok := rhs.(*matrix.Dense); ok && d.Precision() == matrix.Float64 {
		return d, nil
	}

	return matrix.AsPrecision(rhs, matrix.Float64)
}

// isNilOperator reports whether op is nil, including typed nil pointers of
// the operator types in this package.
func isNilOperator(op Operator) bool {
	switch v := op.(type) {
	case nil:
		return true
	case *DenseOperator:
		return v == nil
	case *Diag:
		return v == nil
	case *ConstantDiag:
		return v == nil
	case *Kronecker:
		return v == nil
	case *Matmul:
		return v == nil
	case *AddedDiag:
		return v == nil
	case *KroneckerAddedDiag:
		return v == nil
	case *MemoEigen:
		return v == nil
	default:
		return false
	}
}
