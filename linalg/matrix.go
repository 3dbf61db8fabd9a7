package linalg

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by matrix constructors and operations.
var (
	ErrInvalidShape      = errors.New("linalg: invalid shape")
	ErrEmptyMatrix       = errors.New("linalg: empty matrix")
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")
	ErrNonSquare         = errors.New("linalg: matrix is not square")
	ErrAliased           = errors.New("linalg: output aliases an input")
	ErrEigenFailed       = errors.New("linalg: eigen decomposition failed")
	ErrRaggedCSV         = errors.New("linalg: ragged csv column")
)

// Matrix is a dense column-major matrix.
//
// Element (r, c) lives at Data[c*LD+r]. Rows <= LD and Cols <= AllocCols.
type Matrix struct {
	Rows      int
	Cols      int
	LD        int
	AllocCols int
	Data      []float64
}

// New allocates a zeroed rows×cols matrix without padding.
// It panics if either dimension is negative.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("linalg: negative dimension %d×%d", rows, cols))
	}
	return &Matrix{
		Rows:      rows,
		Cols:      cols,
		LD:        rows,
		AllocCols: cols,
		Data:      make([]float64, rows*cols),
	}
}

// NewPadded allocates a zeroed rows×cols matrix with leading dimension ld and
// room for allocCols columns.
func NewPadded(rows, cols, ld, allocCols int) (*Matrix, error) {
	if rows < 0 || cols < 0 || ld < rows || allocCols < cols {
		return nil, fmt.Errorf("%w: %d×%d with ld=%d alloc=%d", ErrInvalidShape, rows, cols, ld, allocCols)
	}
	return &Matrix{
		Rows:      rows,
		Cols:      cols,
		LD:        ld,
		AllocCols: allocCols,
		Data:      make([]float64, ld*allocCols),
	}, nil
}

// NewFromRows builds a matrix from row slices. All rows must share a length.
func NewFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyMatrix
	}
	m := New(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != m.Cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, r, len(row), m.Cols)
		}
		m.SetRow(r, row)
	}
	return m, nil
}

// NewFromColumns builds a matrix from column slices. All columns must share a length.
func NewFromColumns(cols [][]float64) (*Matrix, error) {
	if len(cols) == 0 {
		return nil, ErrEmptyMatrix
	}
	m := New(len(cols[0]), len(cols))
	for c, col := range cols {
		if len(col) != m.Rows {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d", ErrDimensionMismatch, c, len(col), m.Rows)
		}
		copy(m.Col(c), col)
	}
	return m, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.Data[i*m.LD+i] = 1
	}
	return m
}

// Validate checks the structural invariants of m.
func (m *Matrix) Validate() error {
	if m == nil {
		return ErrEmptyMatrix
	}
	if m.Rows < 0 || m.Cols < 0 || m.LD < m.Rows || m.AllocCols < m.Cols {
		return fmt.Errorf("%w: %d×%d with ld=%d alloc=%d", ErrInvalidShape, m.Rows, m.Cols, m.LD, m.AllocCols)
	}
	if len(m.Data) < m.LD*m.AllocCols {
		return fmt.Errorf("%w: data length %d < %d", ErrInvalidShape, len(m.Data), m.LD*m.AllocCols)
	}
	return nil
}

// Dims returns the logical shape of m.
func (m *Matrix) Dims() (rows, cols int) {
	return m.Rows, m.Cols
}

// At returns element (r, c). It panics if the index is outside the logical shape.
func (m *Matrix) At(r, c int) float64 {
	m.checkIndex(r, c)
	return m.Data[c*m.LD+r]
}

// Set stores v at element (r, c). It panics if the index is outside the logical shape.
func (m *Matrix) Set(r, c int, v float64) {
	m.checkIndex(r, c)
	m.Data[c*m.LD+r] = v
}

func (m *Matrix) checkIndex(r, c int) {
	if r < 0 || r >= m.Rows || c < 0 || c >= m.Cols {
		panic(fmt.Sprintf("linalg: index (%d,%d) out of range for %d×%d", r, c, m.Rows, m.Cols))
	}
}

// Col returns column c as a slice sharing storage with m.
func (m *Matrix) Col(c int) []float64 {
	off := c * m.LD
	return m.Data[off : off+m.Rows : off+m.Rows]
}

// Row copies row r into dst and returns it. A nil or short dst is reallocated.
func (m *Matrix) Row(r int, dst []float64) []float64 {
	if cap(dst) < m.Cols {
		dst = make([]float64, m.Cols)
	}
	dst = dst[:m.Cols]
	for c := range dst {
		dst[c] = m.Data[c*m.LD+r]
	}
	return dst
}

// SetRow copies src into row r. Only min(len(src), Cols) values are written.
func (m *Matrix) SetRow(r int, src []float64) {
	n := min(len(src), m.Cols)
	for c := 0; c < n; c++ {
		m.Data[c*m.LD+r] = src[c]
	}
}

// Clone returns a deep copy of m with identical padding.
func (m *Matrix) Clone() *Matrix {
	out := *m
	out.Data = append([]float64(nil), m.Data...)
	return &out
}

// CopyFrom copies the logical contents of src into m.
func (m *Matrix) CopyFrom(src *Matrix) error {
	if m.Rows != src.Rows || m.Cols != src.Cols {
		return fmt.Errorf("%w: %d×%d vs %d×%d", ErrDimensionMismatch, m.Rows, m.Cols, src.Rows, src.Cols)
	}
	for c := 0; c < m.Cols; c++ {
		copy(m.Col(c), src.Col(c))
	}
	return nil
}

// Zero clears the logical contents of m.
func (m *Matrix) Zero() {
	for c := 0; c < m.Cols; c++ {
		clear(m.Col(c))
	}
}

// IsFinite reports whether every logical element is neither NaN nor ±Inf.
func (m *Matrix) IsFinite() bool {
	for c := 0; c < m.Cols; c++ {
		for _, v := range m.Col(c) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// ToRows copies m into a freshly allocated row-major [][]float64.
func (m *Matrix) ToRows() [][]float64 {
	out := make([][]float64, m.Rows)
	for r := range out {
		out[r] = m.Row(r, nil)
	}
	return out
}
