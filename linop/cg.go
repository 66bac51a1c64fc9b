// SPDX-License-Identifier: MIT

// Package linop - preconditioned conjugate gradients.
//
// Determinism:
//   - Fixed loop order; no randomness. Stops on ‖r‖ ≤ tol·‖b‖ or after
//     maxCG iterations.

package linop

import (
	"math"

	"github.com/katalvlaran/kronlin/matrix"
)

// cgResult is the outcome of one CG run.
type cgResult struct {
	x          []float64
	iterations int
	residual   float64 // relative residual ‖r‖/‖b‖
	converged  bool
}

// cg solves A·x = b for one column. pre == nil means no preconditioning.
// Complexity: O(iterations · cost(A·v)).
func (a *AddedDiag) cg(b []float64, pre func([]float64) []float64) (cgResult, error) {
	n := len(b)
	x := make([]float64, n)
	bNorm := norm2(b)
	if bNorm == 0 {
		return cgResult{x: x, converged: true}, nil
	}
	if pre == nil {
		pre = func(v []float64) []float64 { return append([]float64(nil), v...) }
	}

	r := append([]float64(nil), b...)
	z := pre(r)
	p := append([]float64(nil), z...)
	rz := dot(r, z)

	var (
		it       int
		alpha    float64
		beta     float64
		rzNext   float64
		relResid = 1.0
	)
	for it = 0; it < a.cfg.maxCG; it++ {
		ap, err := a.matVec(p)
		if err != nil {
			return cgResult{}, err
		}
		pAp := dot(p, ap)
		if pAp <= 0 || math.IsNaN(pAp) {
			// A is not positive definite along p; stop with the current iterate.
			break
		}
		alpha = rz / pAp
		axpy(alpha, p, x)
		axpy(-alpha, ap, r)

		relResid = norm2(r) / bNorm
		if relResid <= a.cfg.cgTol {
			return cgResult{x: x, iterations: it + 1, residual: relResid, converged: true}, nil
		}

		z = pre(r)
		rzNext = dot(r, z)
		beta = rzNext / rz
		rz = rzNext
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}

	return cgResult{x: x, iterations: it, residual: relResid, converged: false}, nil
}

// matVec returns A·v for a single vector.
func (a *AddedDiag) matVec(v []float64) ([]float64, error) {
	col, err := matrix.NewDenseFrom(len(v), 1, v)
	if err != nil {
		return nil, err
	}
	out, err := a.MatMul(col)
	if err != nil {
		return nil, err
	}

	return out.RowMajor(), nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}

	return s
}

func norm2(v []float64) float64 { return math.Sqrt(dot(v, v)) }

// axpy computes y += alpha·x in place.
func axpy(alpha float64, x, y []float64) {
	for i := range x {
		y[i] += alpha * x[i]
	}
}
