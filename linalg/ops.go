package linalg

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Multiply computes C = A·B.
func Multiply(c, a, b *Matrix) error {
	if err := checkProduct(c, a, b); err != nil {
		return err
	}
	if a.Cols != b.Rows || c.Rows != a.Rows || c.Cols != b.Cols {
		return fmt.Errorf("%w: (%d×%d)·(%d×%d) -> %d×%d", ErrDimensionMismatch,
			a.Rows, a.Cols, b.Rows, b.Cols, c.Rows, c.Cols)
	}
	gemm(blas.NoTrans, blas.NoTrans, 1, c, a, b)
	return nil
}

// MultiplyTransB computes C = A·Bᵀ.
func MultiplyTransB(c, a, b *Matrix) error {
	return multiplyTransBScaled(c, a, b, 1)
}

func multiplyTransBScaled(c, a, b *Matrix, alpha float64) error {
	if err := checkProduct(c, a, b); err != nil {
		return err
	}
	if a.Cols != b.Cols || c.Rows != a.Rows || c.Cols != b.Rows {
		return fmt.Errorf("%w: (%d×%d)·(%d×%d)ᵀ -> %d×%d", ErrDimensionMismatch,
			a.Rows, a.Cols, b.Rows, b.Cols, c.Rows, c.Cols)
	}
	gemm(blas.NoTrans, blas.Trans, alpha, c, a, b)
	return nil
}

// MultiplyTransA computes C = Aᵀ·B.
func MultiplyTransA(c, a, b *Matrix) error {
	return multiplyTransAScaled(c, a, b, 1)
}

func multiplyTransAScaled(c, a, b *Matrix, alpha float64) error {
	if err := checkProduct(c, a, b); err != nil {
		return err
	}
	if a.Rows != b.Rows || c.Rows != a.Cols || c.Cols != b.Cols {
		return fmt.Errorf("%w: (%d×%d)ᵀ·(%d×%d) -> %d×%d", ErrDimensionMismatch,
			a.Rows, a.Cols, b.Rows, b.Cols, c.Rows, c.Cols)
	}
	gemm(blas.Trans, blas.NoTrans, alpha, c, a, b)
	return nil
}

// MatVec computes y = A·x.
func MatVec(y []float64, a *Matrix, x []float64) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.Rows == 0 || a.Cols == 0 {
		return ErrEmptyMatrix
	}
	if len(x) != a.Cols || len(y) != a.Rows {
		return fmt.Errorf("%w: (%d×%d)·%d -> %d", ErrDimensionMismatch, a.Rows, a.Cols, len(x), len(y))
	}
	if overlaps(y, a.Data) || overlaps(y, x) {
		return ErrAliased
	}
	blas64.Gemv(blas.Trans, 1, rowMajor(a),
		blas64.Vector{N: len(x), Data: x, Inc: 1}, 0,
		blas64.Vector{N: len(y), Data: y, Inc: 1})
	return nil
}

// Covariance computes C = Z·Zᵀ/(n-1) where Z holds one variable per row and
// one observation per column. Z is expected to be zero-mean.
func Covariance(c, z *Matrix) error {
	if z == nil {
		return ErrEmptyMatrix
	}
	if z.Cols < 2 {
		return fmt.Errorf("%w: covariance needs at least 2 observations, got %d", ErrInvalidShape, z.Cols)
	}
	return multiplyTransBScaled(c, z, z, 1/float64(z.Cols-1))
}

// CovarianceTransposed computes the covariance of observation-major data:
// C = Ztᵀ·Zt/(n-1) where Zt holds one observation per row.
func CovarianceTransposed(c, zt *Matrix) error {
	if zt == nil {
		return ErrEmptyMatrix
	}
	if zt.Rows < 2 {
		return fmt.Errorf("%w: covariance needs at least 2 observations, got %d", ErrInvalidShape, zt.Rows)
	}
	return multiplyTransAScaled(c, zt, zt, 1/float64(zt.Rows-1))
}

// Scale multiplies every logical element of m by s.
func Scale(m *Matrix, s float64) {
	for c := 0; c < m.Cols; c++ {
		vecmath.ScaleBlockInPlace(m.Col(c), s)
	}
}

// gemm evaluates C = alpha·op(A)·op(B) for column-major operands. The
// row-major BLAS views of A, B and C are Aᵀ, Bᵀ and Cᵀ, so the product is
// computed as Cᵀ = op(B)ᵀ·op(A)ᵀ with the transpose flags passed through.
func gemm(tA, tB blas.Transpose, alpha float64, c, a, b *Matrix) {
	blas64.Gemm(tB, tA, alpha, rowMajor(b), rowMajor(a), 0, rowMajor(c))
}

func rowMajor(m *Matrix) blas64.General {
	return blas64.General{
		Rows:   m.Cols,
		Cols:   m.Rows,
		Stride: m.LD,
		Data:   m.Data,
	}
}

func checkProduct(c, a, b *Matrix) error {
	for _, m := range []*Matrix{c, a, b} {
		if err := m.Validate(); err != nil {
			return err
		}
		if m.Rows == 0 || m.Cols == 0 {
			return ErrEmptyMatrix
		}
	}
	if overlaps(c.Data, a.Data) || overlaps(c.Data, b.Data) {
		return ErrAliased
	}
	return nil
}

// overlaps reports whether two slices share a backing array.
func overlaps(a, b []float64) bool {
	if cap(a) == 0 || cap(b) == 0 {
		return false
	}
	return &a[:cap(a)][cap(a)-1] == &b[:cap(b)][cap(b)-1]
}
