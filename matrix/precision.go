// SPDX-License-Identifier: MIT

// Package matrix - precision conversion.
//
// Purpose:
//   - Make precision switching an explicit, scoped operation: convert a copy,
//     compute, convert the result back. Nothing is mutated in place.
//
// AI-Hints:
//   - PrecisionOf treats every non-Dense Matrix as Float64.

package matrix

import "fmt"

const opAsPrecision = "AsPrecision"

// precisioned is implemented by matrices that carry a precision tag.
type precisioned interface {
	Precision() Precision
}

// PrecisionOf reports the working precision of m (Float64 for untagged implementations).
func PrecisionOf(m Matrix) Precision {
	if p, ok := m.(precisioned); ok {
		return p.Precision()
	}

	return Float64
}

// AsPrecision returns a fresh Dense copy of m whose values are rounded to p.
// The NaN/Inf policy of a *Dense source is preserved; other sources get the default.
//
// Errors: ErrNilMatrix, ErrUnknownPrecision. Complexity: O(r*c).
func AsPrecision(m Matrix, p Precision) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opAsPrecision, err)
	}
	if !p.valid() {
		return nil, matrixErrorf(opAsPrecision, fmt.Errorf("%d: %w", p, ErrUnknownPrecision))
	}
	src, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opAsPrecision, err)
	}
	out := &Dense{
		r:              src.r,
		c:              src.c,
		data:           make([]float64, len(src.data)),
		validateNaNInf: src.validateNaNInf,
		precision:      p,
	}
	for idx, v := range src.data {
		out.data[idx] = p.round(v)
	}

	return out, nil
}
