// SPDX-License-Identifier: MIT

// Package linop - operand classification shared by the added-diagonal types.

package linop

import (
	"fmt"
)

// classifyOperands splits exactly two operands into (structured, diagonal).
// The first operand is checked first, so two diagonal operands yield
// diag = ops[0].
//
// Errors: ErrTooManyComponents, ErrTooFewComponents, ErrNilOperator,
// ErrSizeMismatch, ErrNoDiagonalComponent.
func classifyOperands(tag string, ops []Operator) (Operator, Diagonal, error) {
	switch {
	case len(ops) > 2:
		return nil, nil, opErrorf(tag, fmt.Errorf("got %d: %w", len(ops), ErrTooManyComponents))
	case len(ops) < 2:
		return nil, nil, opErrorf(tag, fmt.Errorf("got %d: %w", len(ops), ErrTooFewComponents))
	}
	for i, op := range ops {
		if isNilOperator(op) {
			return nil, nil, opErrorf(tag, fmt.Errorf("operand %d: %w", i, ErrNilOperator))
		}
	}
	if ops[0].Size() != ops[1].Size() {
		return nil, nil, opErrorf(tag, fmt.Errorf("%d vs %d: %w", ops[0].Size(), ops[1].Size(), ErrSizeMismatch))
	}

	if d, ok := ops[0].(Diagonal); ok {
		return ops[1], d, nil
	}
	if d, ok := ops[1].(Diagonal); ok {
		return ops[0], d, nil
	}

	return nil, nil, opErrorf(tag, ErrNoDiagonalComponent)
}
