// SPDX-License-Identifier: MIT

package bench_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kronlin/internal/bench"
	"github.com/katalvlaran/kronlin/linop"
)

var scenarios = []bench.Scenario{
	{Name: "pair", Factors: []int{3, 4}, Diag: 0.5, Seed: 1},
	{Name: "cube", Factors: []int{2, 2, 3}, Diag: 1, Seed: 2},
	{Name: "single", Factors: []int{5}, Diag: 2, Seed: 3},
}

func TestBuildProblem(t *testing.T) {
	p, err := bench.BuildProblem(scenarios[0])
	require.NoError(t, err)
	require.True(t, p.Operator.ClosedForm())
	require.Equal(t, 12, p.Operator.Size())
	require.Equal(t, 12, p.RHS.Rows())

	// Same seed, same problem.
	q, err := bench.BuildProblem(scenarios[0])
	require.NoError(t, err)
	require.Equal(t, p.RHS.RowMajor(), q.RHS.RowMajor())

	_, err = bench.BuildProblem(bench.Scenario{Name: "bad", Factors: []int{2}})
	require.ErrorIs(t, err, bench.ErrInvalidScenario)
}

func TestRunnerAgreesWithGeneric(t *testing.T) {
	var buf bytes.Buffer
	r := bench.NewRunner(
		bench.WithParallelism(2),
		bench.WithRunnerLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		bench.WithOperatorOptions(linop.WithProbeVectors(500)),
	)
	results, err := r.Run(context.Background(), scenarios)
	require.NoError(t, err)
	require.Len(t, results, len(scenarios))

	for i, res := range results {
		require.Equal(t, scenarios[i].Name, res.Name, "results keep input order")
		require.Equal(t, scenarios[i].Size(), res.Size)
		require.Less(t, res.SolveMaxAbsDiff, 1e-6)
		require.Less(t, res.SolveResidual, 1e-9)
		require.Less(t, res.LogDetRelErr(), 0.1)
	}
	require.Contains(t, buf.String(), "scenario done")

	var table bytes.Buffer
	require.NoError(t, bench.WriteTable(&table, results))
	require.Contains(t, table.String(), "pair")
	require.Contains(t, table.String(), "LOGDET(est)")
	require.Contains(t, table.String(), "RESID")
}

func TestRunnerHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bench.NewRunner().Run(ctx, scenarios)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunnerPropagatesScenarioErrors(t *testing.T) {
	_, err := bench.NewRunner(bench.WithParallelism(1)).Run(context.Background(), []bench.Scenario{
		scenarios[0],
		{Name: "broken", Factors: []int{2}, Diag: -1},
	})
	require.ErrorIs(t, err, bench.ErrInvalidScenario)
}
