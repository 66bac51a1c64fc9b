// SPDX-License-Identifier: MIT

// Package linop: functional configuration of the generic solvers.
// This file defines:
//   - Option (functional setter over an unexported config),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values).
//
// Design goals:
//   - Deterministic behavior: probe vectors come from a source seeded on every
//     call, so repeated calls return identical results.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//
// Notes:
//   - The closed-form path of KroneckerAddedDiag ignores the iterative knobs;
//     they only affect the generic AddedDiag path it falls back to.
package linop

import (
	"fmt"
	"io"
	"log/slog"
	"math"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultCGTolerance is the relative residual ‖r‖/‖b‖ at which CG stops.
	DefaultCGTolerance = 1e-10

	// DefaultMaxCGIterations caps CG iterations per right-hand-side column.
	DefaultMaxCGIterations = 1000

	// DefaultProbeVectors is the number of Rademacher probes used by the
	// stochastic log-determinant estimator.
	DefaultProbeVectors = 10

	// DefaultLanczosIterations caps the Lanczos steps per probe (also capped at n).
	DefaultLanczosIterations = 30

	// DefaultSeed seeds the probe-vector source.
	DefaultSeed int64 = 42
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicCGToleranceInvalid = "linop: WithCGTolerance: tol must be finite and > 0"
	panicPositiveCount      = "linop: %s: value must be > 0, got %d"
	panicNilLogger          = "linop: WithLogger: logger must not be nil"
	panicNilPreconditioner  = "linop: WithPreconditioner: fn must not be nil"
)

// Option configures AddedDiag and KroneckerAddedDiag.
type Option func(*config)

// config is the resolved configuration; fields are unexported on purpose.
type config struct {
	cgTol   float64
	maxCG   int
	probes  int
	lanczos int
	seed    int64
	logger  *slog.Logger
	precond PreconditionerFunc // nil ⇒ Jacobi
}

// WithCGTolerance sets the relative residual tolerance of conjugate gradients.
// Panics unless 0 < tol < +Inf.
func WithCGTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 1) {
		panic(panicCGToleranceInvalid)
	}

	return func(c *config) { c.cgTol = tol }
}

// WithMaxCGIterations caps CG iterations per column. Panics if n <= 0.
func WithMaxCGIterations(n int) Option {
	mustPositive("WithMaxCGIterations", n)

	return func(c *config) { c.maxCG = n }
}

// WithProbeVectors sets the number of probe vectors of the stochastic
// log-determinant estimator. Panics if n <= 0.
func WithProbeVectors(n int) Option {
	mustPositive("WithProbeVectors", n)

	return func(c *config) { c.probes = n }
}

// WithLanczosIterations caps Lanczos steps per probe. Panics if n <= 0.
func WithLanczosIterations(n int) Option {
	mustPositive("WithLanczosIterations", n)

	return func(c *config) { c.lanczos = n }
}

// WithSeed seeds the probe-vector source.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithLogger routes dispatch (Debug) and convergence (Warn) messages to l.
// Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(c *config) { c.logger = l }
}

// WithPreconditioner replaces the Jacobi preconditioner of the generic path.
// Panics on nil.
func WithPreconditioner(fn PreconditionerFunc) Option {
	if fn == nil {
		panic(panicNilPreconditioner)
	}

	return func(c *config) { c.precond = fn }
}

func mustPositive(name string, n int) {
	if n <= 0 {
		panic(fmt.Sprintf(panicPositiveCount, name, n))
	}
}

// defaultConfig returns the zero-configuration policy; the logger discards.
func defaultConfig() config {
	return config{
		cgTol:   DefaultCGTolerance,
		maxCG:   DefaultMaxCGIterations,
		probes:  DefaultProbeVectors,
		lanczos: DefaultLanczosIterations,
		seed:    DefaultSeed,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// gatherConfig applies user setters in order; nil setters are skipped.
func gatherConfig(opts ...Option) config {
	c := defaultConfig()
	for _, fn := range opts {
		if fn != nil {
			fn(&c)
		}
	}

	return c
}
