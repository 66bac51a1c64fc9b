// Package linop provides square linear operators and solvers for
// "structured operator plus diagonal" systems A = K + D.
//
// Operators:
//
//   - DenseOperator, Diag, ConstantDiag: leaf operators.
//   - Kronecker: lazy F₀ ⊗ … ⊗ F_{m-1}; mode-wise MatMul and a symmetric
//     eigendecomposition assembled from the factors.
//   - Matmul: lazy product, used for root decompositions.
//   - MemoEigen: caches SymEig of the wrapped operator.
//
// Solvers:
//
//   - AddedDiag: generic K + D. Preconditioned conjugate gradients for
//     Solve, stochastic Lanczos quadrature for LogDet, dense Cholesky for
//     root decompositions.
//   - KroneckerAddedDiag: K + c·I in closed form from K = Q·Λ·Qᵀ
//     (Solve, LogDet, InvQuadLogDet, RootDecomposition, RootInvDecomposition);
//     any other diagonal falls back to AddedDiag.
//
// All operations are synchronous and return errors wrapping the package
// sentinels (ErrTooManyComponents, ErrNoDiagonalComponent, …) or the matrix
// sentinels for numerical failures. Configuration uses functional options
// (WithCGTolerance, WithProbeVectors, WithSeed, WithLogger, …).
package linop
