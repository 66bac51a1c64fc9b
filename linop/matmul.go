// SPDX-License-Identifier: MIT

// Package linop - lazy operator product.
//
// Purpose:
//   - Represent L·R without forming it; used for root decompositions
//     Q·diag(s) where both sides stay structured.

package linop

import (
	"fmt"

	"github.com/katalvlaran/kronlin/matrix"
)

const opMatmul = "Matmul"

// Matmul is the lazy product Left·Right.
type Matmul struct {
	left, right Operator
}

var _ Operator = (*Matmul)(nil)

// NewMatmul builds left·right.
// Errors: ErrNilOperator, ErrSizeMismatch.
func NewMatmul(left, right Operator) (*Matmul, error) {
	if isNilOperator(left) || isNilOperator(right) {
		return nil, opErrorf(opMatmul, ErrNilOperator)
	}
	if left.Size() != right.Size() {
		return nil, opErrorf(opMatmul, fmt.Errorf("%d vs %d: %w", left.Size(), right.Size(), ErrSizeMismatch))
	}

	return &Matmul{left: left, right: right}, nil
}

// Size returns the common dimension.
func (p *Matmul) Size() int { return p.left.Size() }

// Left returns the left operand.
func (p *Matmul) Left() Operator { return p.left }

// Right returns the right operand.
func (p *Matmul) Right() Operator { return p.right }

// MatMul returns Left·(Right·rhs).
func (p *Matmul) MatMul(rhs matrix.Matrix) (*matrix.Dense, error) {
	if err := checkRHS(opMatmul, p.Size(), rhs); err != nil {
		return nil, err
	}
	tmp, err := p.right.MatMul(rhs)
	if err != nil {
		return nil, opErrorf(opMatmul, err)
	}
	out, err := p.left.MatMul(tmp)
	if err != nil {
		return nil, opErrorf(opMatmul, err)
	}

	return out, nil
}

// T returns Rightᵀ·Leftᵀ.
func (p *Matmul) T() Operator {
	return &Matmul{left: p.right.T(), right: p.left.T()}
}

// ToDense returns Left·dense(Right).
func (p *Matmul) ToDense() (*matrix.Dense, error) {
	rd, err := p.right.ToDense()
	if err != nil {
		return nil, opErrorf(opMatmul, err)
	}
	out, err := p.left.MatMul(rd)
	if err != nil {
		return nil, opErrorf(opMatmul, err)
	}

	return out, nil
}
