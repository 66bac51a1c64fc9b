// SPDX-License-Identifier: MIT

package linop

import "math/rand"

// rademacher returns a vector of independent ±1 entries.
func rademacher(rng *rand.Rand, n int) []float64 {
	z := make([]float64, n)
	for i := range z {
		if rng.Intn(2) == 0 {
			z[i] = -1
		} else {
			z[i] = 1
		}
	}

	return z
}
