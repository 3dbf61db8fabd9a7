package ica

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eeg/linalg"
)

// RemoveMean writes x minus its row means to z and the means to means.
// z must have the shape of x and len(means) must equal x.Rows.
func RemoveMean(z *linalg.Matrix, means []float64, x *linalg.Matrix) error {
	if err := checkMeanArgs(z, means, x, x.Rows, x.Cols); err != nil {
		return err
	}
	rowMeans(means, x)
	neg := make([]float64, len(means))
	vecmath.ScaleBlock(neg, means, -1)
	for c := 0; c < x.Cols; c++ {
		vecmath.AddBlock(z.Col(c), x.Col(c), neg)
	}
	return nil
}

// RemoveMeanTransposed is RemoveMean storing the result observation-major:
// zt has one row per observation and one column per variable.
func RemoveMeanTransposed(zt *linalg.Matrix, means []float64, x *linalg.Matrix) error {
	if err := checkMeanArgs(zt, means, x, x.Cols, x.Rows); err != nil {
		return err
	}
	rowMeans(means, x)
	for v := 0; v < x.Rows; v++ {
		col := zt.Col(v)
		for t := range col {
			col[t] = x.Data[t*x.LD+v] - means[v]
		}
	}
	return nil
}

func checkMeanArgs(z *linalg.Matrix, means []float64, x *linalg.Matrix, rows, cols int) error {
	if x == nil || z == nil {
		return linalg.ErrEmptyMatrix
	}
	if x.Rows == 0 || x.Cols == 0 {
		return linalg.ErrEmptyMatrix
	}
	if z.Rows != rows || z.Cols != cols || len(means) != x.Rows {
		return fmt.Errorf("%w: x %d×%d, z %d×%d, %d means", linalg.ErrDimensionMismatch,
			x.Rows, x.Cols, z.Rows, z.Cols, len(means))
	}
	return nil
}

func rowMeans(means []float64, x *linalg.Matrix) {
	clear(means)
	for c := 0; c < x.Cols; c++ {
		vecmath.AddBlockInPlace(means, x.Col(c))
	}
	vecmath.ScaleBlockInPlace(means, 1/float64(x.Cols))
}

// Whitening is the result of whitening zero-mean observations.
type Whitening struct {
	// W is the whitening matrix D^-1/2·Eᵀ.
	W *linalg.Matrix
	// Dewhitening is E·D^1/2, the inverse of W.
	Dewhitening *linalg.Matrix
	// Z holds the whitened observations, one variable per row.
	Z *linalg.Matrix
	// Eigenvalues of the covariance in ascending order, before clamping.
	Eigenvalues []float64
	// ClampedEigenvalues counts negative covariance eigenvalues that were
	// replaced by their absolute value.
	ClampedEigenvalues int
}

// Whiten decorrelates zero-mean observations to unit variance. With
// transposed false z holds one variable per row; with transposed true z is
// observation-major as produced by RemoveMeanTransposed. The whitened
// observations are always variable-major.
func Whiten(z *linalg.Matrix, transposed bool) (*Whitening, error) {
	if z == nil {
		return nil, linalg.ErrEmptyMatrix
	}
	n, t := z.Rows, z.Cols
	if transposed {
		n, t = t, n
	}
	w := newWhitener(n, t)
	if err := w.whiten(z, transposed); err != nil {
		return nil, err
	}
	return &Whitening{
		W:                  w.w,
		Dewhitening:        w.dw,
		Z:                  w.z,
		Eigenvalues:        w.vals,
		ClampedEigenvalues: w.clamped,
	}, nil
}

// whitener holds preallocated whitening buffers for n variables and t
// observations.
type whitener struct {
	w, dw, z *linalg.Matrix
	vals     []float64
	clamped  int
}

func newWhitener(n, t int) *whitener {
	return &whitener{
		w:    linalg.New(n, n),
		dw:   linalg.New(n, n),
		z:    linalg.New(n, t),
		vals: make([]float64, n),
	}
}

func (w *whitener) whiten(z *linalg.Matrix, transposed bool) error {
	var err error
	if transposed {
		err = linalg.CovarianceTransposed(w.dw, z)
	} else {
		err = linalg.Covariance(w.dw, z)
	}
	if err != nil {
		return fmt.Errorf("ica: covariance: %w", err)
	}
	if err := linalg.EigenSym(w.dw, w.vals); err != nil {
		return fmt.Errorf("ica: whitening: %w", err)
	}

	// |λ| guards against round-off pushing small eigenvalues negative.
	w.clamped = 0
	n := w.dw.Rows
	for j := 0; j < n; j++ {
		lambda := w.vals[j]
		if lambda < 0 {
			w.clamped++
			lambda = -lambda
		}
		sq := math.Sqrt(lambda)
		col := w.dw.Col(j)
		for i := range col {
			w.w.Set(j, i, col[i]/sq)
		}
		vecmath.ScaleBlockInPlace(col, sq)
	}

	if transposed {
		err = linalg.MultiplyTransB(w.z, w.w, z)
	} else {
		err = linalg.Multiply(w.z, w.w, z)
	}
	if err != nil {
		return fmt.Errorf("ica: whitening: %w", err)
	}
	return nil
}
