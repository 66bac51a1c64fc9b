// Package matrix offers dense row-major matrices and the linear-algebra
// kernels the operator layer (package linop) is built on.
//
// The matrix package provides:
//
//   - Dense, a bounds-checked row-major float64 buffer carrying a numeric
//     policy (NaN/Inf rejection) and a working precision (Float64/Float32).
//   - Kernels: Add, Sub, Mul, Transpose, Scale, MatVec, Kron, LU, Inverse,
//     Cholesky, LogDetSPD, the Jacobi Eigen and the gonum-backed EigenSym.
//   - AsPrecision / PrecisionOf for explicit, scoped precision conversion.
//
// Every kernel returns a fresh Float64 Dense and never mutates its inputs.
// Errors are package sentinels wrapped with the operation name; match them
// with errors.Is.
package matrix
