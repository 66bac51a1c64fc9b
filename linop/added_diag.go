// SPDX-License-Identifier: MIT

// Package linop - generic "operator + diagonal" A = K + D.
//
// Purpose:
//   - Solve with preconditioned conjugate gradients (cg.go).
//   - Log-determinant by stochastic Lanczos quadrature (lanczos.go).
//   - Root / root-inverse decompositions through a dense Cholesky factor.
//
// Contract:
//   - K is assumed symmetric and A positive definite; T() returns A itself.
//   - Every method is deterministic for a fixed configuration (probe seed).
//
// AI-Hints:
//   - Prefer KroneckerAddedDiag when K is a Kronecker product and D = c·I;
//     this type is what it falls back to otherwise.

package linop

import (
	"fmt"
	"math"

	"github.com/katalvlaran/kronlin/matrix"
)

const (
	opAddedDiag      = "AddedDiag"
	opSolve          = "Solve"
	opLogDet         = "LogDet"
	opInvQuadLogDet  = "InvQuadLogDet"
	opRoot           = "RootDecomposition"
	opRootInv        = "RootInvDecomposition"
	opPreconditioner = "Preconditioner"
)

// Preconditioner is the triple (M, v ↦ M⁻¹v, log det M).
// A nil Apply acts as the identity. Only a Diagonal M is used by the
// log-determinant estimator; other operators are ignored there.
type Preconditioner struct {
	Operator Operator
	Apply    func(v []float64) []float64
	LogDet   float64
}

// PreconditionerFunc builds a preconditioner for K + D.
type PreconditionerFunc func(op Operator, diag Diagonal) (*Preconditioner, error)

// InvQuadLogDet is the combined result of rhsᵀ A⁻¹ rhs and log det A.
// InvQuad has one entry per rhs column, or a single sum when reduced;
// it is nil when no rhs was given. LogDet is meaningful only if HasLogDet.
type InvQuadLogDet struct {
	InvQuad   []float64
	LogDet    float64
	HasLogDet bool
}

// AddedDiag is A = K + D for a square operator K and a diagonal D.
type AddedDiag struct {
	op   Operator
	diag Diagonal
	cfg  config
}

var (
	_ Operator    = (*AddedDiag)(nil)
	_ DiagEntrier = (*AddedDiag)(nil)
)

// NewAddedDiag builds K + D from exactly two operands, one of them Diagonal.
// Errors: see classifyOperands.
func NewAddedDiag(ops []Operator, opts ...Option) (*AddedDiag, error) {
	op, diag, err := classifyOperands(opAddedDiag, ops)
	if err != nil {
		return nil, err
	}

	return &AddedDiag{op: op, diag: diag, cfg: gatherConfig(opts...)}, nil
}

// Size returns n.
func (a *AddedDiag) Size() int { return a.op.Size() }

// Operands returns (K, D).
func (a *AddedDiag) Operands() (Operator, Diagonal) { return a.op, a.diag }

// MatMul returns K·rhs + D·rhs.
func (a *AddedDiag) MatMul(rhs matrix.Matrix) (*matrix.Dense, error) {
	if err := checkRHS(opAddedDiag, a.Size(), rhs); err != nil {
		return nil, err
	}
	kx, err := a.op.MatMul(rhs)
	if err != nil {
		return nil, opErrorf(opAddedDiag, err)
	}
	dx, err := a.diag.MatMul(rhs)
	if err != nil {
		return nil, opErrorf(opAddedDiag, err)
	}
	sum, err := matrix.Add(kx, dx)
	if err != nil {
		return nil, opErrorf(opAddedDiag, err)
	}

	return sum.(*matrix.Dense), nil
}

// T returns a (A is symmetric).
func (a *AddedDiag) T() Operator { return a }

// ToDense materializes K + D.
func (a *AddedDiag) ToDense() (*matrix.Dense, error) {
	kd, err := a.op.ToDense()
	if err != nil {
		return nil, opErrorf(opAddedDiag, err)
	}
	dd, err := a.diag.ToDense()
	if err != nil {
		return nil, opErrorf(opAddedDiag, err)
	}
	sum, err := matrix.Add(kd, dd)
	if err != nil {
		return nil, opErrorf(opAddedDiag, err)
	}

	return sum.(*matrix.Dense), nil
}

// DiagEntries returns diag(K) + d.
func (a *AddedDiag) DiagEntries() ([]float64, error) {
	kd, err := diagEntries(a.op)
	if err != nil {
		return nil, opErrorf(opAddedDiag, err)
	}
	d := a.diag.Diag()
	for i := range kd {
		kd[i] += d[i]
	}

	return kd, nil
}

// Preconditioner returns the configured preconditioner (Jacobi by default).
func (a *AddedDiag) Preconditioner() (*Preconditioner, error) {
	build := a.cfg.precond
	if build == nil {
		build = JacobiPreconditioner
	}
	p, err := build(a.op, a.diag)
	if err != nil {
		return nil, opErrorf(opPreconditioner, err)
	}
	if p == nil {
		return &Preconditioner{}, nil // identity
	}

	return p, nil
}

// JacobiPreconditioner returns M = diag(K) + d.
// Errors: matrix.ErrNotPositiveDefinite when an entry of M is not > 0.
func JacobiPreconditioner(op Operator, diag Diagonal) (*Preconditioner, error) {
	m, err := diagEntries(op)
	if err != nil {
		return nil, err
	}
	d := diag.Diag()
	var logDet float64
	for i := range m {
		m[i] += d[i]
		if !(m[i] > 0) {
			return nil, fmt.Errorf("jacobi entry %d = %g: %w", i, m[i], matrix.ErrNotPositiveDefinite)
		}
		logDet += math.Log(m[i])
	}
	mOp, err := NewDiag(m)
	if err != nil {
		return nil, err
	}

	return &Preconditioner{
		Operator: mOp,
		Apply: func(v []float64) []float64 {
			out := make([]float64, len(v))
			for i := range v {
				out[i] = v[i] / m[i]
			}
			return out
		},
		LogDet: logDet,
	}, nil
}

// Solve returns A⁻¹·rhs by preconditioned conjugate gradients, column by column.
// The result carries the precision of rhs. Columns that do not reach the
// tolerance within the iteration cap are logged at Warn and returned as is.
func (a *AddedDiag) Solve(rhs matrix.Matrix) (*matrix.Dense, error) {
	if err := checkRHS(opSolve, a.Size(), rhs); err != nil {
		return nil, err
	}
	prec := matrix.PrecisionOf(rhs)
	b, err := toFloat64(rhs)
	if err != nil {
		return nil, opErrorf(opSolve, err)
	}
	p, err := a.Preconditioner()
	if err != nil {
		return nil, opErrorf(opSolve, err)
	}

	out, err := matrix.NewDense(b.Rows(), b.Cols())
	if err != nil {
		return nil, opErrorf(opSolve, err)
	}
	for j := 0; j < b.Cols(); j++ {
		col, _ := b.Col(j) // j in range
		res, err := a.cg(col, p.Apply)
		if err != nil {
			return nil, opErrorf(opSolve, fmt.Errorf("column %d: %w", j, err))
		}
		if !res.converged {
			a.cfg.logger.Warn("conjugate gradients did not converge",
				"column", j, "iterations", res.iterations, "residual", res.residual, "tolerance", a.cfg.cgTol)
		}
		if err = out.SetCol(j, res.x); err != nil {
			return nil, opErrorf(opSolve, err)
		}
	}
	if prec == matrix.Float64 {
		return out, nil
	}

	return matrix.AsPrecision(out, prec)
}

// LogDet estimates log det A with stochastic Lanczos quadrature.
func (a *AddedDiag) LogDet() (float64, error) {
	p, err := a.Preconditioner()
	if err != nil {
		return 0, opErrorf(opLogDet, err)
	}
	ld, err := a.slqLogDet(p)
	if err != nil {
		return 0, opErrorf(opLogDet, err)
	}

	return ld, nil
}

// InvQuadLogDet returns rhsᵀA⁻¹rhs per column (summed when reduce) and,
// when logdet is set, log det A. rhs may be nil.
func (a *AddedDiag) InvQuadLogDet(rhs matrix.Matrix, logdet, reduce bool) (*InvQuadLogDet, error) {
	var ld func() (float64, error)
	if logdet {
		ld = a.LogDet
	}

	return invQuadLogDet(a.Size(), rhs, reduce, a.Solve, ld)
}

// RootDecomposition returns the Cholesky factor L with A = L·Lᵀ.
// Complexity: O(n³).
func (a *AddedDiag) RootDecomposition() (Operator, error) {
	L, err := a.cholesky()
	if err != nil {
		return nil, opErrorf(opRoot, err)
	}

	return &DenseOperator{m: L}, nil
}

// RootInvDecomposition returns R = L⁻ᵀ with R·Rᵀ = A⁻¹.
// Complexity: O(n³).
func (a *AddedDiag) RootInvDecomposition() (Operator, error) {
	L, err := a.cholesky()
	if err != nil {
		return nil, opErrorf(opRootInv, err)
	}
	inv, err := matrix.Inverse(L)
	if err != nil {
		return nil, opErrorf(opRootInv, err)
	}
	r, err := matrix.Transpose(inv)
	if err != nil {
		return nil, opErrorf(opRootInv, err)
	}

	return &DenseOperator{m: r.(*matrix.Dense)}, nil
}

func (a *AddedDiag) cholesky() (*matrix.Dense, error) {
	dense, err := a.ToDense()
	if err != nil {
		return nil, err
	}

	return matrix.Cholesky(dense)
}

// invQuadLogDet is the combined routine shared by both added-diagonal types.
// logDet == nil disables the log-determinant.
func invQuadLogDet(
	n int,
	rhs matrix.Matrix,
	reduce bool,
	solve func(matrix.Matrix) (*matrix.Dense, error),
	logDet func() (float64, error),
) (*InvQuadLogDet, error) {
	out := &InvQuadLogDet{}
	if rhs != nil && matrix.ValidateNotNil(rhs) == nil {
		if err := checkRHS(opInvQuadLogDet, n, rhs); err != nil {
			return nil, err
		}
		sol, err := solve(rhs)
		if err != nil {
			return nil, opErrorf(opInvQuadLogDet, err)
		}
		b, err := toFloat64(rhs)
		if err != nil {
			return nil, opErrorf(opInvQuadLogDet, err)
		}
		bv, sv, cols := b.RowMajor(), sol.RowMajor(), b.Cols()
		quad := make([]float64, cols)
		for idx := range bv {
			quad[idx%cols] += bv[idx] * sv[idx]
		}
		if reduce {
			var s float64
			for _, q := range quad {
				s += q
			}
			quad = []float64{s}
		}
		out.InvQuad = quad
	}
	if logDet != nil {
		ld, err := logDet()
		if err != nil {
			return nil, opErrorf(opInvQuadLogDet, err)
		}
		out.LogDet, out.HasLogDet = ld, true
	}

	return out, nil
}
