// SPDX-License-Identifier: MIT

// Package linop - diagonal operators.
//
// Purpose:
//   - Diag: general diagonal operator D = diag(d).
//   - ConstantDiag: uniform diagonal c·I; the only type implementing Uniform.
//
// AI-Hints:
//   - Build a ConstantDiag (not a Diag with equal entries) when the shift is a
//     scalar; the Kronecker solver keys its closed-form path on the Uniform type.

package linop

import (
	"fmt"
	"math"

	"github.com/katalvlaran/kronlin/matrix"
)

const (
	opDiag         = "Diag"
	opConstantDiag = "ConstantDiag"
)

// Diag is the diagonal operator diag(d).
type Diag struct {
	d []float64
}

var (
	_ Diagonal    = (*Diag)(nil)
	_ SymEigener  = (*Diag)(nil)
	_ DiagEntrier = (*Diag)(nil)
)

// NewDiag copies d into a new diagonal operator.
// Errors: ErrEmptyOperator, matrix.ErrNaNInf.
func NewDiag(d []float64) (*Diag, error) {
	if len(d) == 0 {
		return nil, opErrorf(opDiag, ErrEmptyOperator)
	}
	for i, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, opErrorf(opDiag, fmt.Errorf("entry %d: %w", i, matrix.ErrNaNInf))
		}
	}
	cp := make([]float64, len(d))
	copy(cp, d)

	return &Diag{d: cp}, nil
}

// Size returns len(d).
func (g *Diag) Size() int { return len(g.d) }

// Diag returns a copy of the entries.
func (g *Diag) Diag() []float64 {
	cp := make([]float64, len(g.d))
	copy(cp, g.d)

	return cp
}

// DiagEntries returns a copy of the entries.
func (g *Diag) DiagEntries() ([]float64, error) { return g.Diag(), nil }

// MatMul scales row i of rhs by d[i].
// Complexity: O(n·k).
func (g *Diag) MatMul(rhs matrix.Matrix) (*matrix.Dense, error) {
	return scaleRows(opDiag, g.d, rhs)
}

// T returns g (diagonal operators are symmetric).
func (g *Diag) T() Operator { return g }

// ToDense materializes diag(d).
func (g *Diag) ToDense() (*matrix.Dense, error) { return matrix.NewDiagonal(g.d) }

// SymEig returns the entries as eigenvalues and the identity as eigenvectors.
func (g *Diag) SymEig(eigenvectors bool) (*EigenDecomposition, error) {
	out := &EigenDecomposition{Values: g.Diag()}
	if eigenvectors {
		out.Vectors = &ConstantDiag{n: len(g.d), v: 1}
	}

	return out, nil
}

// ConstantDiag is the uniform diagonal operator c·I of size n.
type ConstantDiag struct {
	n int
	v float64
}

var (
	_ Uniform     = (*ConstantDiag)(nil)
	_ SymEigener  = (*ConstantDiag)(nil)
	_ DiagEntrier = (*ConstantDiag)(nil)
)

// NewConstantDiag returns c·I of size n.
// Errors: ErrEmptyOperator (n <= 0), matrix.ErrNaNInf.
func NewConstantDiag(c float64, n int) (*ConstantDiag, error) {
	if n <= 0 {
		return nil, opErrorf(opConstantDiag, ErrEmptyOperator)
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return nil, opErrorf(opConstantDiag, matrix.ErrNaNInf)
	}

	return &ConstantDiag{n: n, v: c}, nil
}

// Size returns n.
func (u *ConstantDiag) Size() int { return u.n }

// Value returns c.
func (u *ConstantDiag) Value() float64 { return u.v }

// Diag returns n copies of c.
func (u *ConstantDiag) Diag() []float64 {
	out := make([]float64, u.n)
	for i := range out {
		out[i] = u.v
	}

	return out
}

// DiagEntries returns n copies of c.
func (u *ConstantDiag) DiagEntries() ([]float64, error) { return u.Diag(), nil }

// MatMul returns c·rhs.
func (u *ConstantDiag) MatMul(rhs matrix.Matrix) (*matrix.Dense, error) {
	if err := checkRHS(opConstantDiag, u.n, rhs); err != nil {
		return nil, err
	}
	out, err := matrix.Scale(rhs, u.v)
	if err != nil {
		return nil, opErrorf(opConstantDiag, err)
	}

	return out.(*matrix.Dense), nil
}

// T returns u.
func (u *ConstantDiag) T() Operator { return u }

// ToDense materializes c·I.
func (u *ConstantDiag) ToDense() (*matrix.Dense, error) { return matrix.NewDiagonal(u.Diag()) }

// SymEig returns n copies of c and the identity.
func (u *ConstantDiag) SymEig(eigenvectors bool) (*EigenDecomposition, error) {
	out := &EigenDecomposition{Values: u.Diag()}
	if eigenvectors {
		out.Vectors = &ConstantDiag{n: u.n, v: 1}
	}

	return out, nil
}

// scaleRows returns diag(d)·rhs.
func scaleRows(tag string, d []float64, rhs matrix.Matrix) (*matrix.Dense, error) {
	if err := checkRHS(tag, len(d), rhs); err != nil {
		return nil, err
	}
	out, err := matrix.AsPrecision(rhs, matrix.Float64)
	if err != nil {
		return nil, opErrorf(tag, err)
	}
	if err = out.Apply(func(i, _ int, v float64) float64 { return d[i] * v }); err != nil {
		return nil, opErrorf(tag, err)
	}

	return out, nil
}
