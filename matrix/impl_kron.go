// SPDX-License-Identifier: MIT

// Package matrix - dense Kronecker product.
//
// Purpose:
//   - Materialize A ⊗ B for reference checks and for ToDense of structured
//     Kronecker operators. Structured code paths never call this in hot loops.

package matrix

const opKron = "Kron"

// Kron returns the (ra·rb)×(ca·cb) Kronecker product A ⊗ B with
// (A⊗B)[i*rb+k, j*cb+l] = A[i,j]·B[k,l].
//
// Errors: ErrNilMatrix. Complexity: O(ra·ca·rb·cb).
func Kron(a, b Matrix) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opKron, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opKron, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opKron, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opKron, err)
	}
	rows, cols := da.r*db.r, da.c*db.c
	out, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opKron, err)
	}

	var i, j, k, l int
	var av float64
	for i = 0; i < da.r; i++ {
		for j = 0; j < da.c; j++ {
			av = da.data[i*da.c+j]
			if av == 0 {
				continue
			}
			for k = 0; k < db.r; k++ {
				for l = 0; l < db.c; l++ {
					out.data[(i*db.r+k)*cols+j*db.c+l] = av * db.data[k*db.c+l]
				}
			}
		}
	}

	return out, nil
}

// KronVec returns the Kronecker product of two vectors (a ⊗ b)[i*len(b)+k] = a[i]·b[k].
// Complexity: O(len(a)·len(b)).
func KronVec(a, b []float64) []float64 {
	out := make([]float64, len(a)*len(b))
	for i, av := range a {
		for k, bv := range b {
			out[i*len(b)+k] = av * bv
		}
	}

	return out
}
