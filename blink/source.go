package blink

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-eeg/linalg"
)

// SelectSource returns the row of sources whose absolute Pearson correlation
// with a template train placed at blinks is largest. Ties and rows that never
// exceed zero correlation resolve to row 0.
func SelectSource(sources *linalg.Matrix, blinks []int, p Params) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := sources.Validate(); err != nil {
		return 0, err
	}
	if sources.Rows == 0 || sources.Cols < 2 {
		return 0, fmt.Errorf("%w: %d×%d sources", linalg.ErrInvalidShape, sources.Rows, sources.Cols)
	}
	if len(blinks) == 0 {
		return 0, ErrNoBlinks
	}

	ref := templateSignal(sources.Cols, blinks, p)
	row := make([]float64, sources.Cols)
	best, bestCorr := 0, 0.0
	for r := 0; r < sources.Rows; r++ {
		row = sources.Row(r, row)
		// NaN from a constant row never compares greater.
		if c := math.Abs(stat.Correlation(row, ref, nil)); c > bestCorr {
			best, bestCorr = r, c
		}
	}
	return best, nil
}

// FindInSource locates blinks in the blink source. The threshold is
// 10/len(blinks) on |source|; the maximum of |source| within every
// supra-threshold interval is a peak. Each blink is matched to the first
// unused peak within p.Window() samples, scanning peaks forward only. The
// matched peaks are returned in blink order. An interval needs a rising
// edge, so a source that starts above the threshold loses its first
// interval and a blink inside it is not found.
func FindInSource(source []float64, blinks []int, p Params) []int {
	if len(blinks) == 0 || len(source) < 2 {
		return nil
	}
	peaks := sourcePeaks(source, 10/float64(len(blinks)))

	window := p.Window()
	var out []int
	next := 0
	for _, b := range blinks {
		for j := next; j < len(peaks); j++ {
			if abs(peaks[j]-b) <= window {
				out = append(out, peaks[j])
				next = j + 1
				break
			}
		}
	}
	return out
}

// sourcePeaks returns the index of max |s| inside each interval where |s|
// rises above and falls back below threshold. A falling edge without a prior
// rising edge is ignored.
func sourcePeaks(s []float64, threshold float64) []int {
	var (
		out    []int
		above  bool
		maxVal float64
		maxIdx int
	)
	for i := 1; i < len(s); i++ {
		cur, prev := math.Abs(s[i]), math.Abs(s[i-1])
		switch {
		case !above && cur > threshold && prev <= threshold:
			above = true
			maxVal = 0
		case above && cur < threshold && prev >= threshold:
			above = false
			out = append(out, maxIdx)
		}
		if above && cur > maxVal {
			maxVal, maxIdx = cur, i
		}
	}
	return out
}

// Flatten removes blinks from source in place. Around each blink b the range
// [b-w, b+w) with w = p.FlattenWidth() is set to the mean of its two edge
// samples. A range clipped at one end takes the value of the opposite edge;
// a range clipped at both ends takes the mean of the whole source.
func Flatten(source []float64, blinks []int, p Params) {
	n := len(source)
	if n == 0 {
		return
	}
	w := p.FlattenWidth()
	for _, b := range blinks {
		lo, hi := b-w, b+w
		var val float64
		switch {
		case lo < 0 && hi >= n:
			lo, hi = 0, n
			val = vecmath.Sum(source) / float64(n)
		case lo < 0:
			lo = 0
			val = source[hi]
		case hi >= n:
			hi = n - 1
			val = source[lo]
		default:
			val = 0.5 * (source[lo] + source[hi])
		}
		if lo >= hi {
			continue
		}
		for i := lo; i < hi; i++ {
			source[i] = val
		}
	}
}
