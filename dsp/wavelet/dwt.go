package wavelet

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eeg/dsp/conv"
)

// Band selects which branch of a decomposition a partial reconstruction
// keeps.
type Band int

const (
	// Approx keeps the approximation (low-pass) branch.
	Approx Band = iota
	// Detail keeps a single detail (high-pass) band.
	Detail
)

func (b Band) String() string {
	switch b {
	case Approx:
		return "approx"
	case Detail:
		return "detail"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// MaxLevel returns floor(log2(n/lf)), the deepest decomposition level that
// keeps every level's input at least twice the filter length. Signals shorter
// than the filter give 0.
func MaxLevel(n, lf int) int {
	if lf <= 0 || n < lf {
		return 0
	}
	level := 0
	for lf<<(level+1) <= n {
		level++
	}
	return level
}

// ResultLength returns the length of the coefficient vector produced by
// [Deconstruct] for a signal of n samples, a filter of lf taps and the given
// level. The level is clamped to MaxLevel(n, lf).
func ResultLength(n, lf, level int) int {
	level = min(level, MaxLevel(n, lf))
	if level < 1 {
		return n
	}
	g := conv.MirrorDownLen(n, lf)
	total := g
	for i := 1; i < level; i++ {
		g = conv.MirrorDownLen(g, lf)
		total += g
	}
	// The coarsest level contributes its approximation as well.
	return total + g
}

// InverseLength returns the length produced by [InverseSingleLevel] for
// coefficient vectors of lc samples and a filter of lf taps.
func InverseLength(lc, lf int) int {
	return 2*lc - lf + 2
}

// Coefficients is a multi-level wavelet decomposition.
//
// Data holds [cA_L, cD_L, cD_L-1, ..., cD_1]. Lengths[0] is len(cA_L) and
// Lengths[i] for i >= 1 is len(cD_{L-i+1}), so details follow in descending
// level order.
type Coefficients struct {
	Data      []float64
	Lengths   []int
	SignalLen int
	Wavelet   *Wavelet
}

// Level returns the number of decomposition levels L.
func (c *Coefficients) Level() int {
	return len(c.Lengths) - 1
}

// Approx returns the coarsest approximation cA_L, sharing storage with Data.
func (c *Coefficients) Approx() []float64 {
	return c.Data[:c.Lengths[0]]
}

// Detail returns the detail coefficients of the given level (1 is the finest),
// sharing storage with Data.
func (c *Coefficients) Detail(level int) ([]float64, error) {
	if level < 1 || level > c.Level() {
		return nil, fmt.Errorf("%w: detail level %d outside [1,%d]", ErrInvalidLevel, level, c.Level())
	}
	idx := c.Level() - level + 1
	off := 0
	for _, l := range c.Lengths[:idx] {
		off += l
	}
	return c.Data[off : off+c.Lengths[idx]], nil
}

func (c *Coefficients) validate() error {
	if c.Wavelet == nil || len(c.Lengths) < 2 {
		return ErrBadCoefficients
	}
	total := 0
	for _, l := range c.Lengths {
		if l <= 0 {
			return ErrBadCoefficients
		}
		total += l
	}
	if total != len(c.Data) {
		return fmt.Errorf("%w: lengths sum to %d, data has %d", ErrBadCoefficients, total, len(c.Data))
	}
	return nil
}

// Deconstruct computes a multi-level discrete wavelet decomposition of
// signal. Each level splits the running approximation with the
// decomposition filters through [conv.MirrorDownConvolve]. The level is
// clamped to MaxLevel(len(signal), w.Len()).
func Deconstruct(signal []float64, w *Wavelet, level int) (*Coefficients, error) {
	if w == nil {
		return nil, ErrUnknownWavelet
	}
	if level < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	n, lf := len(signal), w.Len()
	level = min(level, MaxLevel(n, lf))
	if level < 1 {
		return nil, fmt.Errorf("%w: %d samples, filter %d", ErrSignalTooShort, n, lf)
	}

	c := &Coefficients{
		Data:      make([]float64, ResultLength(n, lf, level)),
		Lengths:   make([]int, level+1),
		SignalLen: n,
		Wavelet:   w,
	}

	// Details fill the vector from the end, finest level last.
	pos := len(c.Data)
	approx := signal
	for i := 1; i <= level; i++ {
		g := conv.MirrorDownLen(len(approx), lf)
		detail := c.Data[pos-g : pos]
		if err := conv.MirrorDownConvolve(detail, approx, w.DecHi); err != nil {
			return nil, fmt.Errorf("wavelet: level %d detail: %w", i, err)
		}
		next := make([]float64, g)
		if err := conv.MirrorDownConvolve(next, approx, w.DecLo); err != nil {
			return nil, fmt.Errorf("wavelet: level %d approx: %w", i, err)
		}
		c.Lengths[level-i+1] = g
		pos -= g
		approx = next
	}
	c.Lengths[0] = len(approx)
	copy(c.Data[:pos], approx)
	return c, nil
}

// InverseSingleLevel reconstructs one level from an approximation and a
// detail vector of equal length lc. Both are up-convolved with the
// reconstruction filters and summed; the lf-1 leading samples of the sum are
// discarded and InverseLength(lc, lf) samples are written to dst.
func InverseSingleLevel(dst, approx, detail []float64, w *Wavelet) error {
	if w == nil {
		return ErrUnknownWavelet
	}
	lc, lf := len(approx), w.Len()
	if len(detail) != lc {
		return fmt.Errorf("%w: approx %d, detail %d", ErrLengthMismatch, lc, len(detail))
	}
	want := InverseLength(lc, lf)
	if want <= 0 {
		return fmt.Errorf("%w: %d coefficients, filter %d", ErrSignalTooShort, lc, lf)
	}
	if len(dst) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, want, len(dst))
	}

	ua := make([]float64, conv.MirrorUpLen(lc, lf))
	ud := make([]float64, len(ua))
	if err := conv.MirrorUpConvolve(ua, approx, w.RecLo); err != nil {
		return fmt.Errorf("wavelet: approx synthesis: %w", err)
	}
	if err := conv.MirrorUpConvolve(ud, detail, w.RecHi); err != nil {
		return fmt.Errorf("wavelet: detail synthesis: %w", err)
	}
	vecmath.AddBlock(dst, ua[lf-1:lf-1+want], ud[lf-1:lf-1+want])
	return nil
}

// ReconstructPartial rebuilds a single band of c at signal length.
//
// For Approx the approximation at the given level is synthesized: details
// deeper than level are kept and all details at level and below are zeroed.
// Approx at level 0 reconstructs the full signal. For Detail only the detail
// coefficients of the given level (1..L) contribute.
func ReconstructPartial(c *Coefficients, band Band, level int) ([]float64, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	top := c.Level()

	var cur []float64
	start := top
	switch band {
	case Approx:
		if level < 0 || level > top {
			return nil, fmt.Errorf("%w: approx level %d outside [0,%d]", ErrInvalidLevel, level, top)
		}
		cur = append([]float64(nil), c.Approx()...)
	case Detail:
		if level < 1 || level > top {
			return nil, fmt.Errorf("%w: detail level %d outside [1,%d]", ErrInvalidLevel, level, top)
		}
		d, _ := c.Detail(level)
		out, err := synthesize(make([]float64, len(d)), d, c.Wavelet)
		if err != nil {
			return nil, err
		}
		cur = out
		start = level - 1
	default:
		return nil, fmt.Errorf("%w: band %v", ErrInvalidLevel, band)
	}

	for j := start; j >= 1; j-- {
		d, _ := c.Detail(j)
		if band == Detail || j <= level {
			d = make([]float64, len(d))
		}
		if len(cur) > len(d) {
			cur = cur[:len(d)]
		}
		out, err := synthesize(cur, d, c.Wavelet)
		if err != nil {
			return nil, err
		}
		cur = out
	}

	if len(cur) > c.SignalLen {
		cur = cur[:c.SignalLen]
	}
	return cur, nil
}

func synthesize(approx, detail []float64, w *Wavelet) ([]float64, error) {
	if len(approx) != len(detail) {
		return nil, fmt.Errorf("%w: approx %d, detail %d", ErrBadCoefficients, len(approx), len(detail))
	}
	out := make([]float64, InverseLength(len(approx), w.Len()))
	if err := InverseSingleLevel(out, approx, detail, w); err != nil {
		return nil, err
	}
	return out, nil
}
