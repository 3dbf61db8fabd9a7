package blink

import "fmt"

// Envelope writes the upper envelope of |x| to dst. The envelope linearly
// interpolates |x| between its turning points: index 0, every local maximum
// (a rise followed by a non-rise) and the final sample. Without any local
// maximum dst is |x|. dst may alias x.
func Envelope(dst, x []float64) error {
	if len(dst) != len(x) {
		return fmt.Errorf("%w: dst %d, x %d", ErrLengthMismatch, len(dst), len(x))
	}
	n := len(x)
	for i, v := range x {
		if v < 0 {
			v = -v
		}
		dst[i] = v
	}
	if n < 3 {
		return nil
	}

	prev := 0
	for i := 2; i < n; i++ {
		if dst[i-1]-dst[i-2] > 0 && dst[i]-dst[i-1] <= 0 {
			// Interpolation only rewrites indices before i-1, which the
			// turning-point test no longer reads.
			interpolate(dst, prev, i-1)
			prev = i - 1
		}
	}
	if prev > 0 {
		interpolate(dst, prev, n-1)
	}
	return nil
}

// interpolate replaces s[a+1 .. b-1] by the line through (a, s[a]) and
// (b, s[b]).
func interpolate(s []float64, a, b int) {
	slope := (s[b] - s[a]) / float64(b-a)
	for j := a + 1; j < b; j++ {
		s[j] = s[a] + slope*float64(j-a)
	}
}
