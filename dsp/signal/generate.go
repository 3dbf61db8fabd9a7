package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eeg/dsp/core"
)

// ErrMixShape is returned by Mix when the mixing matrix and the sources do
// not agree in size.
var ErrMixShape = errors.New("signal: mixing shape mismatch")

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the current noise seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// SetSeed replaces the noise seed.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Laplace generates deterministic Laplacian noise with the given scale.
// The heavy tails make it a convenient independent source for ICA tests.
func (g *Generator) Laplace(scale float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("laplace samples must be > 0: %d", samples)
	}
	if scale < 0 {
		return nil, fmt.Errorf("laplace scale must be >= 0: %f", scale)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		v := scale * rng.ExpFloat64()
		if rng.Int63()&1 == 0 {
			v = -v
		}
		out[i] = v
	}
	return out, nil
}

// BlinkTrain generates a train of eyeblink deflections with peak -amplitude
// at each position. A blink falls over 80 ms and recovers over 150 ms, both
// along half-cosine ramps. Pulses are clipped at the signal edges.
func (g *Generator) BlinkTrain(amplitude float64, samples int, positions ...int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("blink samples must be > 0: %d", samples)
	}
	fall := max(1, g.cfg.Samples(0.08))
	rise := max(1, g.cfg.Samples(0.15))
	out := make([]float64, samples)
	for _, p := range positions {
		for k := -fall; k <= rise; k++ {
			i := p + k
			if i < 0 || i >= samples {
				continue
			}
			var w float64
			if k <= 0 {
				w = 0.5 * (1 + math.Cos(math.Pi*float64(k)/float64(fall)))
			} else {
				w = 0.5 * (1 + math.Cos(math.Pi*float64(k)/float64(rise)))
			}
			out[i] -= amplitude * w
		}
	}
	return out, nil
}

// BlinkPositions returns evenly spaced blink positions every period seconds,
// starting at offset seconds, that fit inside samples.
func (g *Generator) BlinkPositions(offset, period float64, samples int) []int {
	if period <= 0 {
		return nil
	}
	var out []int
	for t := offset; ; t += period {
		p := g.cfg.Samples(t)
		if p >= samples {
			return out
		}
		if p >= 0 {
			out = append(out, p)
		}
	}
}

// Mix returns channels = mixing·sources, where mixing has one row per output
// channel and one column per source.
func Mix(mixing, sources [][]float64) ([][]float64, error) {
	if len(sources) == 0 || len(mixing) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMixShape)
	}
	n := len(sources[0])
	for i, s := range sources {
		if len(s) != n {
			return nil, fmt.Errorf("%w: source %d has %d samples, want %d", ErrMixShape, i, len(s), n)
		}
	}
	out := make([][]float64, len(mixing))
	scratch := make([]float64, n)
	for r, row := range mixing {
		if len(row) != len(sources) {
			return nil, fmt.Errorf("%w: row %d has %d weights for %d sources", ErrMixShape, r, len(row), len(sources))
		}
		out[r] = make([]float64, n)
		for s, w := range row {
			vecmath.ScaleBlock(scratch, sources[s], w)
			vecmath.AddBlockInPlace(out[r], scratch)
		}
	}
	return out, nil
}
