// Package kronlin solves linear systems of the form K + D, where K is a
// Kronecker product of small symmetric matrices and D is diagonal.
//
// What is kronlin?
//
//	A pure-Go library for the structured covariance algebra of
//	grid-structured Gaussian processes and separable models:
//		• Dense matrices with explicit precision (matrix)
//		• Lazy operators: dense, diagonal, Kronecker, products (linop)
//		• Closed-form solve, log-determinant and root decompositions of
//		  K + c·I from the factor eigendecompositions
//		• A generic fallback for any other diagonal: preconditioned
//		  conjugate gradients and stochastic Lanczos quadrature
//
// Why the Kronecker path?
//
//   - K = F₁ ⊗ … ⊗ F_d has eigendecomposition (⊗Qᵢ)(⊗Λᵢ)(⊗Qᵢ)ᵀ, so a
//     solve with K + c·I costs d small eigendecompositions instead of an
//     O(n³) factorization of the full matrix.
//   - Closed-form results are exact; the fallback is iterative and stochastic.
//
// Layout:
//
//	matrix/         Dense storage, kernels (Mul, Kron, Cholesky, EigenSym…)
//	linop/          operators, AddedDiag, KroneckerAddedDiag, MemoEigen
//	internal/bench/ scenario files and the closed-form vs generic runner
//	cmd/kronbench/  CLI around internal/bench
//	examples/       GP regression on a 2-D grid
//
// Quick start:
//
//	K, _ := linop.NewKronecker(A, B)
//	shift, _ := linop.NewConstantDiag(0.1, K.Size())
//	op, _ := linop.NewKroneckerAddedDiag([]linop.Operator{K, shift})
//	x, _ := op.Solve(rhs)
//	ld, _ := op.LogDet()
//
//	go get github.com/katalvlaran/kronlin
package kronlin
