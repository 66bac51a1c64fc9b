// SPDX-License-Identifier: MIT

package bench

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/kronlin/linop"
	"github.com/katalvlaran/kronlin/matrix"
)

// Problem is a generated K + c·I operator with a right-hand side.
type Problem struct {
	Scenario Scenario
	Operator *linop.KroneckerAddedDiag
	RHS      *matrix.Dense
}

// BuildProblem generates random SPD factors Fᵢ = Gᵢ·Gᵢᵀ/nᵢ + I from the
// scenario seed and wraps K = ⊗Fᵢ with the uniform shift.
func BuildProblem(s Scenario, opts ...linop.Option) (*Problem, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(s.Seed))

	factors := make([]linop.Operator, len(s.Factors))
	for i, n := range s.Factors {
		f, err := randomSPD(rng, n)
		if err != nil {
			return nil, fmt.Errorf("bench: %s: factor %d: %w", s.Name, i, err)
		}
		if factors[i], err = linop.NewDenseOperator(f); err != nil {
			return nil, fmt.Errorf("bench: %s: factor %d: %w", s.Name, i, err)
		}
	}
	k, err := linop.NewKronecker(factors...)
	if err != nil {
		return nil, fmt.Errorf("bench: %s: %w", s.Name, err)
	}
	shift, err := linop.NewConstantDiag(s.Diag, k.Size())
	if err != nil {
		return nil, fmt.Errorf("bench: %s: %w", s.Name, err)
	}
	op, err := linop.NewKroneckerAddedDiag([]linop.Operator{k, shift}, opts...)
	if err != nil {
		return nil, fmt.Errorf("bench: %s: %w", s.Name, err)
	}

	rhs := make([]float64, k.Size())
	for i := range rhs {
		rhs[i] = rng.NormFloat64()
	}
	b, err := matrix.NewDenseFrom(k.Size(), 1, rhs)
	if err != nil {
		return nil, fmt.Errorf("bench: %s: %w", s.Name, err)
	}

	return &Problem{Scenario: s, Operator: op, RHS: b}, nil
}

// randomSPD returns the exactly symmetric G·Gᵀ/n + I.
func randomSPD(rng *rand.Rand, n int) (matrix.Matrix, error) {
	g := make([]float64, n*n)
	for i := range g {
		g[i] = 2*rng.Float64() - 1
	}
	G, err := matrix.NewDenseFrom(n, n, g)
	if err != nil {
		return nil, err
	}
	Gt, err := matrix.Transpose(G)
	if err != nil {
		return nil, err
	}
	GGt, err := matrix.Mul(G, Gt)
	if err != nil {
		return nil, err
	}
	if GGt, err = matrix.Scale(GGt, 1/float64(n)); err != nil {
		return nil, err
	}
	I, err := matrix.NewIdentity(n)
	if err != nil {
		return nil, err
	}
	sum, err := matrix.Add(GGt, I)
	if err != nil {
		return nil, err
	}

	return matrix.Symmetrize(sum)
}
