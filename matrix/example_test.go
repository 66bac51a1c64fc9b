// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/kronlin/matrix"
)

// ExampleKron builds I₂ ⊗ B.
func ExampleKron() {
	I, _ := matrix.NewIdentity(2)
	B, _ := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	K, _ := matrix.Kron(I, B)
	fmt.Print(K)
	// Output:
	// [1, 2, 0, 0]
	// [3, 4, 0, 0]
	// [0, 0, 1, 2]
	// [0, 0, 3, 4]
}

// ExampleEigenSym decomposes a 2×2 symmetric matrix.
func ExampleEigenSym() {
	A, _ := matrix.NewDenseFrom(2, 2, []float64{2, 1, 1, 2})
	vals, _, _ := matrix.EigenSym(A)
	fmt.Printf("%.3f %.3f\n", vals[0], vals[1])
	// Output:
	// 1.000 3.000
}
