// Package linalg provides a column-major dense matrix view and the small set
// of linear-algebra primitives the ICA engines are built on.
//
// A [Matrix] stores element (r, c) at Data[c*LD+r]. The leading dimension LD
// may exceed Rows and the allocated column count may exceed Cols, so a matrix
// can carry padding without changing its logical shape.
//
// # Operations
//
//   - [Multiply], [MultiplyTransA], [MultiplyTransB]: general products
//   - [MatVec]: matrix-vector product
//   - [Covariance], [CovarianceTransposed]: Z·Zᵀ/(n-1) for zero-mean data
//   - [EigenSym]: symmetric eigendecomposition, ascending eigenvalues
//   - [WriteCSV], [ReadCSV]: plain-text import and export, one column per line
//
// Products are delegated to gonum's BLAS and the eigensolver to gonum's
// LAPACK-backed mat.EigenSym. All operations validate shapes and return a
// sentinel error on mismatch; outputs must not share storage with inputs.
package linalg
