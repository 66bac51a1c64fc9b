// SPDX-License-Identifier: MIT

// Package linop - Kronecker product operator.
//
// Purpose:
//   - Represent K = F₀ ⊗ F₁ ⊗ … ⊗ F_{m-1} without materializing it.
//   - MatMul applies one factor per mode: O(n·Σ nᵢ·k) instead of O(n²·k).
//   - SymEig combines per-factor decompositions: values fold with KronVec,
//     eigenvectors stay a lazy Kronecker product of the factor eigenvectors.
//
// Index convention:
//   - Row index r = ((i₀·n₁ + i₁)·n₂ + i₂)… ; the first factor varies slowest,
//     matching matrix.Kron.

package linop

import (
	"fmt"

	"github.com/katalvlaran/kronlin/matrix"
)

const opKronecker = "Kronecker"

// Kronecker is the lazy product of square factors.
type Kronecker struct {
	factors []Operator
	sizes   []int
	n       int
}

var (
	_ Operator    = (*Kronecker)(nil)
	_ SymEigener  = (*Kronecker)(nil)
	_ DiagEntrier = (*Kronecker)(nil)
)

// NewKronecker builds F₀ ⊗ … ⊗ F_{m-1}.
// Errors: ErrNoFactors, ErrNilOperator.
func NewKronecker(factors ...Operator) (*Kronecker, error) {
	if len(factors) == 0 {
		return nil, opErrorf(opKronecker, ErrNoFactors)
	}
	k := &Kronecker{
		factors: make([]Operator, len(factors)),
		sizes:   make([]int, len(factors)),
		n:       1,
	}
	for i, f := range factors {
		if isNilOperator(f) {
			return nil, opErrorf(opKronecker, fmt.Errorf("factor %d: %w", i, ErrNilOperator))
		}
		k.factors[i] = f
		k.sizes[i] = f.Size()
		k.n *= k.sizes[i]
	}

	return k, nil
}

// Size returns Π nᵢ.
func (k *Kronecker) Size() int { return k.n }

// Factors returns the factor list (shared operators, fresh slice).
func (k *Kronecker) Factors() []Operator {
	out := make([]Operator, len(k.factors))
	copy(out, k.factors)

	return out
}

// MatMul returns K·rhs, applying the factors one mode at a time.
//
// For factor f with left = Π n_{<f}, m = n_f and right = Π n_{>f}·cols, the
// current buffer is gathered into an m×(left·right) matrix, multiplied by
// F_f through its own MatMul, and scattered back.
//
// Complexity: O(Σ_f cost(F_f.MatMul on n/n_f columns)).
func (k *Kronecker) MatMul(rhs matrix.Matrix) (*matrix.Dense, error) {
	if err := checkRHS(opKronecker, k.n, rhs); err != nil {
		return nil, err
	}
	src, err := toFloat64(rhs)
	if err != nil {
		return nil, opErrorf(opKronecker, err)
	}
	cols := src.Cols()
	buf := src.RowMajor()

	left := 1
	right := k.n * cols
	for f, factor := range k.factors {
		m := k.sizes[f]
		right /= m
		if buf, err = applyMode(factor, buf, left, m, right); err != nil {
			return nil, opErrorf(opKronecker, fmt.Errorf("factor %d: %w", f, err))
		}
		left *= m
	}

	out, err := matrix.NewDenseFrom(k.n, cols, buf)
	if err != nil {
		return nil, opErrorf(opKronecker, err)
	}

	return out, nil
}

// applyMode computes y[(l·m+a)·right+r] = Σ_b F[a,b]·x[(l·m+b)·right+r].
func applyMode(factor Operator, x []float64, left, m, right int) ([]float64, error) {
	width := left * right
	gathered := make([]float64, m*width)
	var l, b, r int
	for l = 0; l < left; l++ {
		for b = 0; b < m; b++ {
			for r = 0; r < right; r++ {
				gathered[b*width+l*right+r] = x[(l*m+b)*right+r]
			}
		}
	}
	z, err := matrix.NewDenseFrom(m, width, gathered)
	if err != nil {
		return nil, err
	}
	w, err := factor.MatMul(z)
	if err != nil {
		return nil, err
	}
	wd := w.RowMajor()

	y := make([]float64, len(x))
	for l = 0; l < left; l++ {
		for b = 0; b < m; b++ {
			for r = 0; r < right; r++ {
				y[(l*m+b)*right+r] = wd[b*width+l*right+r]
			}
		}
	}

	return y, nil
}

// T returns F₀ᵀ ⊗ … ⊗ F_{m-1}ᵀ.
func (k *Kronecker) T() Operator {
	ts := make([]Operator, len(k.factors))
	for i, f := range k.factors {
		ts[i] = f.T()
	}

	return &Kronecker{factors: ts, sizes: append([]int(nil), k.sizes...), n: k.n}
}

// ToDense folds matrix.Kron over the dense factors.
// Complexity: O(n²).
func (k *Kronecker) ToDense() (*matrix.Dense, error) {
	acc, err := k.factors[0].ToDense()
	if err != nil {
		return nil, opErrorf(opKronecker, err)
	}
	for i := 1; i < len(k.factors); i++ {
		fd, err := k.factors[i].ToDense()
		if err != nil {
			return nil, opErrorf(opKronecker, err)
		}
		if acc, err = matrix.Kron(acc, fd); err != nil {
			return nil, opErrorf(opKronecker, err)
		}
	}

	return acc, nil
}

// DiagEntries folds KronVec over the factor diagonals. Complexity: O(n).
func (k *Kronecker) DiagEntries() ([]float64, error) {
	acc := []float64{1}
	for i, f := range k.factors {
		d, err := diagEntries(f)
		if err != nil {
			return nil, opErrorf(opKronecker, fmt.Errorf("factor %d: %w", i, err))
		}
		acc = matrix.KronVec(acc, d)
	}

	return acc, nil
}

// SymEig decomposes every factor and combines the results.
// Values are in Kronecker order, not sorted.
// Errors: ErrNotEigendecomposable when a factor does not implement SymEigener;
// factor errors are wrapped.
func (k *Kronecker) SymEig(eigenvectors bool) (*EigenDecomposition, error) {
	values := []float64{1}
	var vectors []Operator
	if eigenvectors {
		vectors = make([]Operator, 0, len(k.factors))
	}
	for i, f := range k.factors {
		se, ok := f.(SymEigener)
		if !ok {
			return nil, opErrorf(opKronecker, fmt.Errorf("factor %d (%T): %w", i, f, ErrNotEigendecomposable))
		}
		ed, err := se.SymEig(eigenvectors)
		if err != nil {
			return nil, opErrorf(opKronecker, fmt.Errorf("factor %d: %w", i, err))
		}
		values = matrix.KronVec(values, ed.Values)
		if eigenvectors {
			vectors = append(vectors, ed.Vectors)
		}
	}

	out := &EigenDecomposition{Values: values}
	if eigenvectors {
		q, err := NewKronecker(vectors...)
		if err != nil {
			return nil, opErrorf(opKronecker, err)
		}
		out.Vectors = q
	}

	return out, nil
}
