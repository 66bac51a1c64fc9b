// SPDX-License-Identifier: MIT

package linop_test

import (
	"bytes"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/kronlin/linop"
	"github.com/katalvlaran/kronlin/matrix"
)

// KroneckerAddedDiagSuite exercises the closed-form path and its fallback.
type KroneckerAddedDiagSuite struct {
	suite.Suite

	rng   *rand.Rand
	k     *linop.Kronecker
	c     float64
	op    *linop.KroneckerAddedDiag
	dense *matrix.Dense
}

func TestKroneckerAddedDiagSuite(t *testing.T) {
	suite.Run(t, new(KroneckerAddedDiagSuite))
}

func (s *KroneckerAddedDiagSuite) SetupTest() {
	s.rng = rand.New(rand.NewSource(2024))
	s.k = randKronecker(s.T(), s.rng, 2, 3, 2)
	s.c = 0.7
	op, err := linop.NewKroneckerAddedDiag([]linop.Operator{s.k, mustConstant(s.T(), s.c, s.k.Size())})
	require.NoError(s.T(), err)
	s.op = op
	s.dense = mustToDense(s.T(), op)
}

// TestKnownSpectrum checks the 4×4 example with eigenvalues 1..4 and c = 0.5.
func (s *KroneckerAddedDiagSuite) TestKnownSpectrum() {
	t := s.T()
	op, err := linop.NewKroneckerAddedDiag([]linop.Operator{
		mustDenseOp(t, spectral4(t)),
		mustConstant(t, 0.5, 4),
	})
	require.NoError(t, err)
	require.True(t, op.UniformDiagonal())
	require.True(t, op.ClosedForm())

	ld, err := op.LogDet()
	require.NoError(t, err)
	require.InDelta(t, math.Log(1.5)+math.Log(2.5)+math.Log(3.5)+math.Log(4.5), ld, 1e-12)

	b, err := op.MatMul(ones(t, 4))
	require.NoError(t, err)
	x, err := op.Solve(b)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]float64{1, 1, 1, 1}, x.RowMajor(), cmpApprox(1e-6)))
}

func (s *KroneckerAddedDiagSuite) TestSolveRecoversRandom() {
	t := s.T()
	x := randDense(t, s.rng, s.op.Size(), 3)
	b, err := s.op.MatMul(x)
	require.NoError(t, err)
	got, err := s.op.Solve(b)
	require.NoError(t, err)
	requireClose(t, x, got)
}

func (s *KroneckerAddedDiagSuite) TestLogDetMatchesDense() {
	want, err := matrix.LogDetSPD(s.dense)
	require.NoError(s.T(), err)
	got, err := s.op.LogDet()
	require.NoError(s.T(), err)
	require.InDelta(s.T(), want, got, 1e-9)
}

func (s *KroneckerAddedDiagSuite) TestRootDecompositions() {
	t := s.T()
	root, err := s.op.RootDecomposition()
	require.NoError(t, err)
	_, lazy := root.(*linop.Matmul)
	require.True(t, lazy, "closed-form root stays a lazy product")
	requireClose(t, s.dense, rootProduct(t, root))

	rootInv, err := s.op.RootInvDecomposition()
	require.NoError(t, err)
	inv, err := matrix.Inverse(s.dense)
	require.NoError(t, err)
	requireClose(t, inv, rootProduct(t, rootInv))
}

func (s *KroneckerAddedDiagSuite) TestInvQuadLogDet() {
	t := s.T()
	rhs := randDense(t, s.rng, s.op.Size(), 2)
	sol, err := s.op.Solve(rhs)
	require.NoError(t, err)
	want := make([]float64, 2)
	rv, sv := rhs.RowMajor(), sol.RowMajor()
	for idx := range rv {
		want[idx%2] += rv[idx] * sv[idx]
	}

	res, err := s.op.InvQuadLogDet(rhs, true, false)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(want, res.InvQuad, approx))
	require.True(t, res.HasLogDet)
	ld, err := s.op.LogDet()
	require.NoError(t, err)
	require.Equal(t, ld, res.LogDet)

	res, err = s.op.InvQuadLogDet(rhs, false, true)
	require.NoError(t, err)
	require.False(t, res.HasLogDet)
	require.InDelta(t, want[0]+want[1], res.InvQuad[0], tol)
}

func (s *KroneckerAddedDiagSuite) TestFloat32RHS() {
	t := s.T()
	x := randDense(t, s.rng, s.op.Size(), 1)
	b, err := s.op.MatMul(x)
	require.NoError(t, err)
	b32, err := matrix.AsPrecision(b, matrix.Float32)
	require.NoError(t, err)

	got, err := s.op.Solve(b32)
	require.NoError(t, err)
	require.Equal(t, matrix.Float32, got.Precision())
	for _, v := range got.RowMajor() {
		require.Equal(t, float64(float32(v)), v, "values are float32-representable")
	}
	requireCloseTol(t, x, got, 1e-5)
}

func (s *KroneckerAddedDiagSuite) TestPreconditionerAlwaysNil() {
	t := s.T()
	p, err := s.op.Preconditioner()
	require.NoError(t, err)
	require.Nil(t, p)

	nonUniform, err := linop.NewKroneckerAddedDiag([]linop.Operator{s.k, mustDiag(t, make12(1, 0.1))})
	require.NoError(t, err)
	p, err = nonUniform.Preconditioner()
	require.NoError(t, err)
	require.Nil(t, p)
}

func (s *KroneckerAddedDiagSuite) TestConstructionErrors() {
	t := s.T()
	u := mustConstant(t, 1, s.k.Size())

	_, err := linop.NewKroneckerAddedDiag([]linop.Operator{s.k, u, u})
	require.ErrorIs(t, err, linop.ErrTooManyComponents)
	require.EqualError(t, err, "KroneckerAddedDiag: got 3: linop: too many components")

	_, err = linop.NewKroneckerAddedDiag([]linop.Operator{s.k, s.k})
	require.ErrorIs(t, err, linop.ErrNoDiagonalComponent)

	_, err = linop.NewKroneckerAddedDiag([]linop.Operator{u})
	require.ErrorIs(t, err, linop.ErrTooFewComponents)

	_, err = linop.NewKroneckerAddedDiag([]linop.Operator{s.k, mustConstant(t, 1, 3)})
	require.ErrorIs(t, err, linop.ErrSizeMismatch)
}

func (s *KroneckerAddedDiagSuite) TestDiagonalFirstOperand() {
	t := s.T()
	op, err := linop.NewKroneckerAddedDiag([]linop.Operator{mustConstant(t, s.c, s.k.Size()), s.k})
	require.NoError(t, err)
	structured, diag := op.Operands()
	require.Same(t, s.k, structured)
	_, uniform := diag.(linop.Uniform)
	require.True(t, uniform)

	ld, err := op.LogDet()
	require.NoError(t, err)
	want, err := s.op.LogDet()
	require.NoError(t, err)
	require.Equal(t, want, ld)
}

// TestNonUniformDelegates checks that every operation returns exactly what the
// generic operator returns for the same operands and options.
func (s *KroneckerAddedDiagSuite) TestNonUniformDelegates() {
	t := s.T()
	ops := []linop.Operator{s.k, mustDiag(t, make12(0.5, 0.25))}
	opts := []linop.Option{linop.WithProbeVectors(4), linop.WithSeed(7)}

	op, err := linop.NewKroneckerAddedDiag(ops, opts...)
	require.NoError(t, err)
	require.False(t, op.UniformDiagonal())
	require.False(t, op.ClosedForm())
	generic, err := linop.NewAddedDiag(ops, opts...)
	require.NoError(t, err)

	rhs := randDense(t, s.rng, op.Size(), 2)

	got, err := op.Solve(rhs)
	require.NoError(t, err)
	want, err := generic.Solve(rhs)
	require.NoError(t, err)
	require.Equal(t, want.RowMajor(), got.RowMajor())

	gotLD, err := op.LogDet()
	require.NoError(t, err)
	wantLD, err := generic.LogDet()
	require.NoError(t, err)
	require.Equal(t, wantLD, gotLD)

	gotIQ, err := op.InvQuadLogDet(rhs, true, true)
	require.NoError(t, err)
	wantIQ, err := generic.InvQuadLogDet(rhs, true, true)
	require.NoError(t, err)
	require.Equal(t, wantIQ, gotIQ)

	gotRoot, err := op.RootDecomposition()
	require.NoError(t, err)
	wantRoot, err := generic.RootDecomposition()
	require.NoError(t, err)
	require.Equal(t, mustToDense(t, wantRoot).RowMajor(), mustToDense(t, gotRoot).RowMajor())

	gotInv, err := op.RootInvDecomposition()
	require.NoError(t, err)
	wantInv, err := generic.RootInvDecomposition()
	require.NoError(t, err)
	require.Equal(t, mustToDense(t, wantInv).RowMajor(), mustToDense(t, gotInv).RowMajor())
}

func (s *KroneckerAddedDiagSuite) TestStructuredWithoutEigenFallsBack() {
	t := s.T()
	op, err := linop.NewKroneckerAddedDiag([]linop.Operator{opaque{s.k}, mustConstant(t, s.c, s.k.Size())})
	require.NoError(t, err)
	require.True(t, op.UniformDiagonal())
	require.False(t, op.ClosedForm())

	x := randDense(t, s.rng, op.Size(), 1)
	b, err := op.MatMul(x)
	require.NoError(t, err)
	got, err := op.Solve(b)
	require.NoError(t, err)
	requireCloseTol(t, x, got, 1e-7)
}

func (s *KroneckerAddedDiagSuite) TestIndefiniteShift() {
	t := s.T()
	op, err := linop.NewKroneckerAddedDiag([]linop.Operator{s.k, mustConstant(t, -100, s.k.Size())})
	require.NoError(t, err)
	_, err = op.LogDet()
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
	_, err = op.Solve(ones(t, op.Size()))
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
}

func (s *KroneckerAddedDiagSuite) TestEigenFailurePropagates() {
	t := s.T()
	asym := mustDenseOp(t, mustFrom(t, [][]float64{{1, 2}, {0, 1}}))
	op, err := linop.NewKroneckerAddedDiag([]linop.Operator{asym, mustConstant(t, 1, 2)})
	require.NoError(t, err)
	_, err = op.LogDet()
	require.ErrorIs(t, err, matrix.ErrAsymmetry)
}

func (s *KroneckerAddedDiagSuite) TestDispatchIsLogged() {
	t := s.T()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	op, err := linop.NewKroneckerAddedDiag(
		[]linop.Operator{s.k, mustConstant(t, s.c, s.k.Size())},
		linop.WithLogger(logger),
	)
	require.NoError(t, err)
	_, err = op.LogDet()
	require.NoError(t, err)
	require.Contains(t, buf.String(), "path=closed-form")
	require.Contains(t, buf.String(), "op=LogDet")
}

func (s *KroneckerAddedDiagSuite) TestInvQuadLogDetDispatchesOnce() {
	t := s.T()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	op, err := linop.NewKroneckerAddedDiag(
		[]linop.Operator{s.k, mustConstant(t, s.c, s.k.Size())},
		linop.WithLogger(logger),
	)
	require.NoError(t, err)

	res, err := op.InvQuadLogDet(ones(t, s.k.Size()), true, true)
	require.NoError(t, err)
	require.True(t, res.HasLogDet)
	require.Equal(t, 1, strings.Count(buf.String(), "kronecker added diag dispatch"))
	require.Contains(t, buf.String(), "op=InvQuadLogDet")
	require.NotContains(t, buf.String(), "op=Solve")
	require.NotContains(t, buf.String(), "op=LogDet")
}

// make12 returns 12 entries start, start+step, ….
func make12(start, step float64) []float64 {
	out := make([]float64, 12)
	for i := range out {
		out[i] = start + step*float64(i)
	}

	return out
}
