// SPDX-License-Identifier: MIT

// Package matrix: functional configuration of the numeric policy.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that resolves the effective policy.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//
// Notes:
//   - eps is the symmetry tolerance used by EigenSym and Cholesky.
//   - validateNaNInf controls whether Set rejects NaN/±Inf.
//   - precision selects the value set of freshly built Dense matrices
//     (NewDenseWith); kernels always compute in float64.
package matrix

import (
	"fmt"
	"math"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon defines the non-negative tolerance used by structural checks.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on Set.
	DefaultValidateNaNInf = true

	// DefaultPrecision is the precision of matrices built without WithPrecision.
	DefaultPrecision = Float64
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid   = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicPrecisionInvalid = "matrix: WithPrecision: unknown precision"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	eps            float64   // >= 0; DefaultEpsilon
	validateNaNInf bool      // DefaultValidateNaNInf
	precision      Precision // DefaultPrecision
}

// WithEpsilon sets the tolerance used by symmetry checks.
// Panics if eps is NaN, ±Inf or negative.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithValidateNaNInf enables rejection of NaN/±Inf on Set.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables rejection of NaN/±Inf on Set.
// Use only in controlled ingestion paths.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithPrecision selects the precision of matrices created by NewDenseWith.
// Panics on values other than Float64 / Float32.
func WithPrecision(p Precision) Option {
	if !p.valid() {
		panic(fmt.Sprintf("%s (%d)", panicPrecisionInvalid, p))
	}

	return func(o *Options) { o.precision = p }
}

// NewMatrixOptions resolves opts over the defaults and returns the result.
func NewMatrixOptions(opts ...Option) Options { return gatherOptions(opts...) }

// Epsilon returns the configured symmetry tolerance.
func (o Options) Epsilon() float64 { return o.eps }

// ValidateNaNInf reports whether Set rejects NaN/±Inf.
func (o Options) ValidateNaNInf() bool { return o.validateNaNInf }

// Precision returns the configured precision.
func (o Options) Precision() Precision { return o.precision }

// defaultOptions returns the zero-configuration policy.
func defaultOptions() Options {
	return Options{
		eps:            DefaultEpsilon,
		validateNaNInf: DefaultValidateNaNInf,
		precision:      DefaultPrecision,
	}
}

// gatherOptions applies user setters in order; nil setters are skipped.
// Last writer wins for every field.
func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
