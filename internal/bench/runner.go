// SPDX-License-Identifier: MIT

// Package bench - closed-form vs generic comparison runner.
//
// Each scenario builds a Problem, then times Solve and LogDet on the
// closed-form KroneckerAddedDiag path and on its generic AddedDiag fallback,
// recording timings and the disagreement between both paths.
//
// Concurrency:
//   - Scenarios run on an errgroup bounded by the configured parallelism.
//   - The first failing scenario cancels the rest; ctx cancellation is
//     checked before each scenario starts.

package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/kronlin/linop"
	"github.com/katalvlaran/kronlin/matrix"
)

// DefaultParallelism is the number of scenarios run at once.
const DefaultParallelism = 2

// Result holds the measurements of one scenario.
type Result struct {
	Name string
	Size int

	ClosedSolve  time.Duration
	GenericSolve time.Duration
	// SolveMaxAbsDiff is max |x_closed − x_generic|.
	SolveMaxAbsDiff float64
	// SolveResidual is max |A·x_closed − b|.
	SolveResidual float64

	ClosedLogDet  time.Duration
	GenericLogDet time.Duration
	LogDet        float64 // closed form
	LogDetEst     float64 // stochastic estimate
}

// LogDetRelErr returns |est − exact| / |exact|.
func (r Result) LogDetRelErr() float64 {
	if r.LogDet == 0 {
		return math.Abs(r.LogDetEst)
	}

	return math.Abs(r.LogDetEst-r.LogDet) / math.Abs(r.LogDet)
}

// Runner executes scenarios.
type Runner struct {
	parallel int
	logger   *slog.Logger
	opOpts   []linop.Option
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithParallelism bounds concurrent scenarios. Values < 1 are ignored.
func WithParallelism(n int) RunnerOption {
	return func(r *Runner) {
		if n >= 1 {
			r.parallel = n
		}
	}
}

// WithRunnerLogger sets the logger used for progress and passed to linop.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithOperatorOptions forwards options to every generated operator.
func WithOperatorOptions(opts ...linop.Option) RunnerOption {
	return func(r *Runner) { r.opOpts = append(r.opOpts, opts...) }
}

// NewRunner returns a Runner with DefaultParallelism and a discarding logger.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		parallel: DefaultParallelism,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, fn := range opts {
		if fn != nil {
			fn(r)
		}
	}

	return r
}

// Run executes every scenario and returns results in input order.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)

	for i, s := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.runOne(s)
			if err != nil {
				return err
			}
			results[i] = res
			r.logger.Info("scenario done",
				"name", s.Name, "size", res.Size,
				"closed_solve", res.ClosedSolve, "generic_solve", res.GenericSolve,
				"logdet_rel_err", res.LogDetRelErr())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *Runner) runOne(s Scenario) (Result, error) {
	opts := append([]linop.Option{linop.WithLogger(r.logger)}, r.opOpts...)
	p, err := BuildProblem(s, opts...)
	if err != nil {
		return Result{}, err
	}
	op, generic := p.Operator, p.Operator.Generic()
	res := Result{Name: s.Name, Size: op.Size()}

	start := time.Now()
	closedX, err := op.Solve(p.RHS)
	if err != nil {
		return Result{}, fmt.Errorf("bench: %s: closed-form solve: %w", s.Name, err)
	}
	res.ClosedSolve = time.Since(start)

	start = time.Now()
	genericX, err := generic.Solve(p.RHS)
	if err != nil {
		return Result{}, fmt.Errorf("bench: %s: generic solve: %w", s.Name, err)
	}
	res.GenericSolve = time.Since(start)

	a, b := closedX.RowMajor(), genericX.RowMajor()
	for i := range a {
		res.SolveMaxAbsDiff = math.Max(res.SolveMaxAbsDiff, math.Abs(a[i]-b[i]))
	}
	if res.SolveResidual, err = residual(op, closedX, p.RHS); err != nil {
		return Result{}, fmt.Errorf("bench: %s: residual: %w", s.Name, err)
	}

	start = time.Now()
	if res.LogDet, err = op.LogDet(); err != nil {
		return Result{}, fmt.Errorf("bench: %s: closed-form logdet: %w", s.Name, err)
	}
	res.ClosedLogDet = time.Since(start)

	start = time.Now()
	if res.LogDetEst, err = generic.LogDet(); err != nil {
		return Result{}, fmt.Errorf("bench: %s: generic logdet: %w", s.Name, err)
	}
	res.GenericLogDet = time.Since(start)

	return res, nil
}

// residual returns max |A·x − b|.
func residual(op linop.Operator, x, b *matrix.Dense) (float64, error) {
	ax, err := op.MatMul(x)
	if err != nil {
		return 0, err
	}
	r, err := matrix.Sub(ax, b)
	if err != nil {
		return 0, err
	}
	var m float64
	for _, v := range r.(*matrix.Dense).RowMajor() {
		m = math.Max(m, math.Abs(v))
	}

	return m, nil
}

// WriteTable renders results as an aligned text table.
func WriteTable(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tN\tSOLVE(closed)\tSOLVE(generic)\tMAX|Δx|\tRESID\tLOGDET\tLOGDET(est)\tREL.ERR")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%.2e\t%.2e\t%.6f\t%.6f\t%.2e\n",
			r.Name, r.Size, r.ClosedSolve, r.GenericSolve, r.SolveMaxAbsDiff, r.SolveResidual,
			r.LogDet, r.LogDetEst, r.LogDetRelErr())
	}

	return tw.Flush()
}
