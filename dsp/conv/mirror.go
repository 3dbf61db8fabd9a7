package conv

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// MirrorDownLen returns the output length of [MirrorDownConvolve] for an
// input of n samples and a filter of lf taps.
func MirrorDownLen(n, lf int) int {
	return (n + lf - 1) / 2
}

// MirrorUpLen returns the output length of [MirrorUpConvolve] for an input of
// n samples and a filter of lf taps.
func MirrorUpLen(n, lf int) int {
	return 2*n + lf - 1
}

// MirrorDownConvolve convolves input with filter under symmetric
// (whole-point) boundary extension and keeps every odd output tap, producing
// a half-rate result:
//
//	dst[o] = Σ_k filter[k] · x̃[2o+1-k]
//
// where x̃[-m] = x[m] and x̃[n-1+m] = x[n-1-m]. dst must have length
// MirrorDownLen(len(input), len(filter)) and input must be at least as long
// as filter.
func MirrorDownConvolve(dst, input, filter []float64) error {
	n, lf := len(input), len(filter)
	if err := checkMirrorArgs(n, lf); err != nil {
		return err
	}
	if n < lf {
		return fmt.Errorf("%w: input %d shorter than filter %d", ErrInputTooShort, n, lf)
	}
	if want := MirrorDownLen(n, lf); len(dst) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, want, len(dst))
	}

	rev := reversed(filter)
	for o := range dst {
		hi := 2*o + 1 // newest input index touched by this tap
		lo := hi - lf + 1
		if lo >= 0 && hi < n {
			dst[o] = vecmath.DotProduct(rev, input[lo:hi+1])
			continue
		}
		var sum float64
		for k, f := range filter {
			sum += f * input[wholePoint(hi-k, n)]
		}
		dst[o] = sum
	}
	return nil
}

// MirrorUpConvolve upsamples input by two (zeros between samples), extends it
// symmetrically (half-point at the start, whole-point at the end) and
// convolves with filter. dst must have length MirrorUpLen(len(input),
// len(filter)).
//
// Even output taps only meet odd filter coefficients and vice versa, so the
// filter is split into its two phases and each output sample is one dot
// product over the original-rate input.
func MirrorUpConvolve(dst, input, filter []float64) error {
	n, lf := len(input), len(filter)
	if err := checkMirrorArgs(n, lf); err != nil {
		return err
	}
	if n < (lf+1)/2 {
		return fmt.Errorf("%w: input %d too short for filter %d", ErrInputTooShort, n, lf)
	}
	if want := MirrorUpLen(n, lf); len(dst) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, want, len(dst))
	}

	// phase[q] holds filter[t] for t ≡ q (mod 2) in descending t, which is
	// ascending input order; top[q] is the largest such t.
	var (
		phase [2][]float64
		top   [2]int
	)
	for q := range phase {
		top[q] = -1
		for t := lf - 1; t >= 0; t-- {
			if t%2 != q {
				continue
			}
			if top[q] < 0 {
				top[q] = t
			}
			phase[q] = append(phase[q], filter[t])
		}
	}

	for p := range dst {
		// Taps t with p-t odd, i.e. t ≡ p+1 (mod 2).
		q := (p + 1) % 2
		taps := phase[q]
		if len(taps) == 0 {
			dst[p] = 0
			continue
		}
		mLo := (p - top[q] - 1) / 2 // exact: p-top[q]-1 is even
		mHi := mLo + len(taps) - 1
		if mLo >= 0 && mHi < n {
			dst[p] = vecmath.DotProduct(taps, input[mLo:mHi+1])
			continue
		}
		var sum float64
		for j, f := range taps {
			sum += f * input[halfWholePoint(mLo+j, n)]
		}
		dst[p] = sum
	}
	return nil
}

func checkMirrorArgs(n, lf int) error {
	if n == 0 {
		return ErrEmptyInput
	}
	if lf == 0 {
		return ErrEmptyKernel
	}
	return nil
}

func reversed(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[len(x)-1-i] = v
	}
	return out
}

// wholePoint maps an index into [0, n) reflecting about both end samples.
func wholePoint(m, n int) int {
	if m < 0 {
		return -m
	}
	if m > n-1 {
		return 2*n - 2 - m
	}
	return m
}

// halfWholePoint reflects about the boundary before the first sample and
// about the last sample.
func halfWholePoint(m, n int) int {
	if m < 0 {
		return -m - 1
	}
	if m > n-1 {
		return 2*n - 2 - m
	}
	return m
}
