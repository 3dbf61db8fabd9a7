package stats

import (
	"math"

	"github.com/cwbudde/algo-eeg/linalg"
)

// Channel holds time-domain statistics of one channel.
type Channel struct {
	Length int
	Mean   float64
	RMS    float64
	Min    float64
	MinPos int
	Max    float64
	MaxPos int
	// Peak is max(|Min|, |Max|).
	Peak  float64
	Range float64
	// Variance is the population variance.
	Variance float64
	Skewness float64
	// Kurtosis is the excess kurtosis; blink-dominated channels and sources
	// score far above zero.
	Kurtosis float64
}

// Calculate returns the statistics of x.
func Calculate(x []float64) Channel {
	var a Accumulator
	a.Update(x)
	return a.Result()
}

// Rows returns the statistics of every row of m.
func Rows(m *linalg.Matrix) []Channel {
	out := make([]Channel, m.Rows)
	row := make([]float64, m.Cols)
	for r := range out {
		out[r] = Calculate(m.Row(r, row))
	}
	return out
}

// AttenuationDB returns 20·log10(before.RMS/after.RMS). Silence on both
// sides gives 0 and silence after a non-silent input gives +Inf.
func AttenuationDB(before, after Channel) float64 {
	switch {
	case before.RMS == 0 && after.RMS == 0:
		return 0
	case after.RMS == 0:
		return math.Inf(1)
	}
	return 20 * math.Log10(before.RMS/after.RMS)
}

// Accumulator gathers channel statistics block by block. The zero value is
// empty and ready to use.
type Accumulator struct {
	n              int
	mean           float64
	m2, m3, m4     float64
	sumSq          float64
	minVal, maxVal float64
	minPos, maxPos int
}

// Update adds samples to the running statistics.
func (a *Accumulator) Update(samples []float64) {
	for _, x := range samples {
		if a.n == 0 || x > a.maxVal {
			a.maxVal, a.maxPos = x, a.n
		}
		if a.n == 0 || x < a.minVal {
			a.minVal, a.minPos = x, a.n
		}

		a.n++
		ni := float64(a.n)
		delta := x - a.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(a.n-1)

		// M4 before M3 before M2.
		a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
		a.m3 += term1*deltaN*(ni-2) - 3*deltaN*a.m2
		a.m2 += term1
		a.mean += deltaN

		a.sumSq += x * x
	}
}

// Len returns the number of samples seen.
func (a *Accumulator) Len() int {
	return a.n
}

// Result returns the statistics of all samples seen so far.
func (a *Accumulator) Result() Channel {
	if a.n == 0 {
		return Channel{}
	}
	nf := float64(a.n)
	c := Channel{
		Length:   a.n,
		Mean:     a.mean,
		RMS:      math.Sqrt(a.sumSq / nf),
		Min:      a.minVal,
		MinPos:   a.minPos,
		Max:      a.maxVal,
		MaxPos:   a.maxPos,
		Peak:     math.Max(math.Abs(a.maxVal), math.Abs(a.minVal)),
		Range:    a.maxVal - a.minVal,
		Variance: a.m2 / nf,
	}
	if c.Variance > 0 {
		c.Skewness = (a.m3 / nf) / (c.Variance * math.Sqrt(c.Variance))
		c.Kurtosis = (a.m4/nf)/(c.Variance*c.Variance) - 3
	}
	return c
}

// Reset clears the accumulator.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
