// Package ica implements Independent Component Analysis of multichannel
// observations.
//
// Observations are held in a [linalg.Matrix] with one variable (channel) per
// row and one observation (sample) per column. Two algorithms are provided:
//
//   - FastICA: symmetric fixed-point iteration with a selectable contrast
//     function (tanh, cube or gauss).
//   - JADE: joint approximate diagonalization of fourth-order cumulant
//     matrices by Jacobi rotations.
//
// Both share the same preprocessing (mean removal and whitening) and produce
// a [Result] with an unmixing matrix W, a mixing matrix A, zero-mean sources S
// and per-source means such that A·S + A·SourceMeans reconstructs the
// observations.
//
// A [Session] owns the workspace of one configuration. Sessions are not safe
// for concurrent use; give each goroutine its own Session.
package ica
