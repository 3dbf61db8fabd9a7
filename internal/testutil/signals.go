package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude]
// with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// LaplaceNoise generates super-Gaussian noise with the given scale. Mixtures
// of such sources are what ICA separates well.
func LaplaceNoise(seed int64, scale float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = scale * rng.ExpFloat64()
		if rng.Intn(2) == 0 {
			out[i] = -out[i]
		}
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Spikes returns a zero signal with a triangular pulse of the given
// half-width and height centred on each position.
func Spikes(length, halfWidth int, height float64, positions ...int) []float64 {
	out := make([]float64, length)
	for _, p := range positions {
		for k := -halfWidth; k <= halfWidth; k++ {
			i := p + k
			if i < 0 || i >= length {
				continue
			}
			out[i] += height * (1 - math.Abs(float64(k))/float64(halfWidth+1))
		}
	}
	return out
}
