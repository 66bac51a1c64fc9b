// SPDX-License-Identifier: MIT

// Package matrix: domain types used by kernels and operator layers.
// This file contains ONLY the public Matrix interface and the Precision tag.
// Errors and options live in dedicated files (errors.go, options.go).
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	// Complexity: O(1).
	Rows() int

	// Cols returns the number of columns in the matrix.
	// Complexity: O(1).
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	// Complexity: O(1).
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	// Complexity: O(1).
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	// The returned Matrix is independent of the receiver.
	// Complexity: O(rows*cols).
	Clone() Matrix
}

// Precision is the working precision a Dense stores its values in.
// Storage is always float64; a Float32 Dense rounds every written value
// through float32, so its contents are exactly representable in single precision.
type Precision uint8

const (
	// Float64 is the default (double) precision.
	Float64 Precision = iota
	// Float32 rounds stored values to single precision.
	Float32
)

// String returns "float64" or "float32".
func (p Precision) String() string {
	switch p {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	default:
		return "unknown"
	}
}

// valid reports whether p is one of the declared precisions.
func (p Precision) valid() bool { return p == Float64 || p == Float32 }

// round maps v into the value set of p.
func (p Precision) round(v float64) float64 {
	if p == Float32 {
		return float64(float32(v))
	}

	return v
}
