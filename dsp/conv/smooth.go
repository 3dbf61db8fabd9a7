package conv

import "fmt"

// MovingAverage computes box-filter averages over a symmetrically extended
// signal. Output sample i is the mean of x̃[i-before .. i+after], where x̃
// reflects about the first and last samples (whole-point symmetry).
//
// Short windows are convolved directly, longer ones through an [OverlapAdd]
// convolver. A MovingAverage is not safe for concurrent use.
type MovingAverage struct {
	before int
	after  int
	kernel []float64
	oa     *OverlapAdd
}

// NewMovingAverage creates a moving average with the given window extents.
func NewMovingAverage(before, after int) (*MovingAverage, error) {
	if before < 0 || after < 0 {
		return nil, fmt.Errorf("%w: before=%d after=%d", ErrInvalidWindow, before, after)
	}

	width := before + after + 1
	kernel := make([]float64, width)
	for i := range kernel {
		kernel[i] = 1 / float64(width)
	}

	m := &MovingAverage{before: before, after: after, kernel: kernel}
	if width > directThreshold {
		oa, err := NewOverlapAdd(kernel, 0)
		if err != nil {
			return nil, err
		}
		m.oa = oa
	}
	return m, nil
}

// Width returns the number of samples averaged per output.
func (m *MovingAverage) Width() int {
	return m.before + m.after + 1
}

// Process returns the moving average of x.
func (m *MovingAverage) Process(x []float64) ([]float64, error) {
	out := make([]float64, len(x))
	if err := m.ProcessTo(out, x); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessTo writes the moving average of x into dst, which must have len(x).
func (m *MovingAverage) ProcessTo(dst, x []float64) error {
	n := len(x)
	if n == 0 {
		return ErrEmptyInput
	}
	if len(dst) != n {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, n, len(dst))
	}

	ext := make([]float64, n+m.before+m.after)
	for i := range ext {
		ext[i] = x[reflect(i-m.before, n)]
	}

	var full []float64
	if m.oa == nil {
		full = make([]float64, len(ext)+len(m.kernel)-1)
		DirectTo(full, ext, m.kernel)
	} else {
		var err error
		if full, err = m.oa.Process(ext); err != nil {
			return err
		}
	}
	copy(dst, full[m.Width()-1:m.Width()-1+n])
	return nil
}

// MovingAverageMirror is a one-shot [MovingAverage].
func MovingAverageMirror(x []float64, before, after int) ([]float64, error) {
	m, err := NewMovingAverage(before, after)
	if err != nil {
		return nil, err
	}
	return m.Process(x)
}

// reflect folds any index into [0, n) with repeated whole-point reflection.
func reflect(m, n int) int {
	if n == 1 {
		return 0
	}
	period := 2*n - 2
	m %= period
	if m < 0 {
		m += period
	}
	if m > n-1 {
		m = period - m
	}
	return m
}
