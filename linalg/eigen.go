package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// EigenSym overwrites the square symmetric matrix e with its orthonormal
// eigenvectors, one per column, and stores the matching eigenvalues in values
// in ascending order. Only the upper triangle of e is read.
//
// A factorization that fails to converge returns ErrEigenFailed and leaves e
// untouched.
func EigenSym(e *Matrix, values []float64) error {
	if err := e.Validate(); err != nil {
		return err
	}
	n := e.Rows
	if n == 0 {
		return ErrEmptyMatrix
	}
	if e.Cols != n {
		return fmt.Errorf("%w: %d×%d", ErrNonSquare, e.Rows, e.Cols)
	}
	if len(values) != n {
		return fmt.Errorf("%w: %d eigenvalues for %d×%d", ErrDimensionMismatch, len(values), n, n)
	}

	sym := mat.NewSymDense(n, nil)
	for c := 0; c < n; c++ {
		col := e.Col(c)
		for r := 0; r <= c; r++ {
			sym.SetSym(r, c, col[r])
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return ErrEigenFailed
	}
	es.Values(values)

	var vecs mat.Dense
	es.VectorsTo(&vecs)
	for c := 0; c < n; c++ {
		col := e.Col(c)
		for r := range col {
			col[r] = vecs.At(r, c)
		}
	}
	return nil
}
