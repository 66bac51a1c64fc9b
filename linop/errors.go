// SPDX-License-Identifier: MIT
// Package linop: sentinel error set.
// Constructors and operations return these sentinels (possibly wrapped with
// an operation tag); callers match them with errors.Is. Numerical failures of
// the matrix kernels (eigen non-convergence, singular or indefinite input)
// surface as the matrix package sentinels, wrapped but never replaced.

package linop

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyComponents is returned when an added-diagonal operator is
	// built from more than two operands.
	ErrTooManyComponents = errors.New("linop: too many components")

	// ErrTooFewComponents is returned when fewer than two operands are given.
	ErrTooFewComponents = errors.New("linop: too few components")

	// ErrNoDiagonalComponent is returned when neither operand is diagonal.
	ErrNoDiagonalComponent = errors.New("linop: no diagonal component found")

	// ErrNilOperator marks a nil operand or right-hand side.
	ErrNilOperator = errors.New("linop: nil operator")

	// ErrSizeMismatch marks operands (or a right-hand side) of incompatible size.
	ErrSizeMismatch = errors.New("linop: size mismatch")

	// ErrNoFactors is returned by NewKronecker without factors.
	ErrNoFactors = errors.New("linop: kronecker product needs at least one factor")

	// ErrEmptyOperator is returned for zero-sized operators.
	ErrEmptyOperator = errors.New("linop: operator size must be > 0")

	// ErrNotEigendecomposable is returned when a symmetric eigendecomposition
	// is requested from an operator that cannot provide one.
	ErrNotEigendecomposable = errors.New("linop: operator has no symmetric eigendecomposition")
)

// opErrorf wraps err with an operation tag; err must be non-nil.
func opErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
