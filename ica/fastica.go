package ica

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eeg/linalg"
)

// fastICA is the workspace of the symmetric fixed-point algorithm.
type fastICA struct {
	contrast ContrastFunc
	eps      float64
	maxIter  int

	w    [2]*linalg.Matrix // current and previous unmixing guess
	next *linalg.Matrix    // contrast update before orthogonalization
	e    *linalg.Matrix    // eigenvectors of next·nextᵀ
	a    *linalg.Matrix    // D^-1/2·Eᵀ
	tmp  *linalg.Matrix    // E·D^-1/2·Eᵀ
	y    *linalg.Matrix    // W·Z
	vals []float64
	dy   []float64
	dsum []float64
}

func newFastICA(p Params) *fastICA {
	n, t := p.NumVariables, p.NumObservations
	return &fastICA{
		contrast: p.Contrast.Func(),
		eps:      p.Epsilon,
		maxIter:  p.MaxIterations,
		w:        [2]*linalg.Matrix{linalg.New(n, n), linalg.New(n, n)},
		next:     linalg.New(n, n),
		e:        linalg.New(n, n),
		a:        linalg.New(n, n),
		tmp:      linalg.New(n, n),
		y:        linalg.New(n, t),
		vals:     make([]float64, n),
		dy:       make([]float64, n),
		dsum:     make([]float64, n),
	}
}

// run iterates on whitened observations z and returns the final orthogonal
// rotation, the iteration count and the number of clamped eigenvalues.
func (f *fastICA) run(z *linalg.Matrix) (*linalg.Matrix, int, int, error) {
	cur, prev := f.w[0], f.w[1]
	cur.Zero()
	for i := 0; i < cur.Rows; i++ {
		cur.Set(i, i, 1)
	}

	clamped := 0
	iter := 0
	for {
		cur, prev = prev, cur
		iter++

		if err := f.update(f.next, prev, z); err != nil {
			return nil, iter, clamped, err
		}
		c, err := f.orthogonalize(cur, f.next)
		if err != nil {
			return nil, iter, clamped, err
		}
		clamped += c

		if 1-minAbsRowDot(cur, prev) <= f.eps || iter >= f.maxIter {
			return cur, iter, clamped, nil
		}
	}
}

// update applies the contrast rule W⁺ = (g(WZ)·Zᵀ - diag(Σg'(WZ))·W) / T.
func (f *fastICA) update(next, w, z *linalg.Matrix) error {
	if err := linalg.Multiply(f.y, w, z); err != nil {
		return fmt.Errorf("ica: contrast: %w", err)
	}
	clear(f.dsum)
	for c := 0; c < f.y.Cols; c++ {
		f.contrast.Apply(f.y.Col(c), f.dy)
		vecmath.AddBlockInPlace(f.dsum, f.dy)
	}
	if err := linalg.MultiplyTransB(next, f.y, z); err != nil {
		return fmt.Errorf("ica: contrast: %w", err)
	}

	vecmath.ScaleBlockInPlace(f.dsum, -1)
	scale := 1 / float64(z.Cols)
	for c := 0; c < next.Cols; c++ {
		vecmath.MulBlock(f.dy, f.dsum, w.Col(c))
		col := next.Col(c)
		vecmath.AddMulBlock(col, col, f.dy, scale)
	}
	return nil
}

// orthogonalize writes (M·Mᵀ)^-1/2·M to dst.
func (f *fastICA) orthogonalize(dst, m *linalg.Matrix) (int, error) {
	if err := linalg.MultiplyTransB(f.e, m, m); err != nil {
		return 0, err
	}
	if err := linalg.EigenSym(f.e, f.vals); err != nil {
		return 0, fmt.Errorf("ica: orthogonalization: %w", err)
	}
	clamped := 0
	for i, v := range f.vals {
		if v < 0 {
			clamped++
		}
		f.vals[i] = 1 / math.Sqrt(math.Abs(v))
	}
	for c := 0; c < f.a.Cols; c++ {
		col := f.a.Col(c)
		for r := range col {
			col[r] = f.vals[r] * f.e.At(c, r)
		}
	}
	if err := linalg.Multiply(f.tmp, f.e, f.a); err != nil {
		return clamped, err
	}
	return clamped, linalg.Multiply(dst, f.tmp, m)
}

// minAbsRowDot returns min over rows of |⟨a_i, b_i⟩|.
func minAbsRowDot(a, b *linalg.Matrix) float64 {
	lo := 1.0
	for r := 0; r < a.Rows; r++ {
		var dot float64
		for c := 0; c < a.Cols; c++ {
			dot += a.At(r, c) * b.At(r, c)
		}
		lo = math.Min(lo, math.Abs(dot))
	}
	return lo
}
