package blink

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-eeg/dsp/core"
)

// Errors returned by the blink pipeline.
var (
	ErrInvalidParams  = errors.New("blink: invalid parameters")
	ErrLengthMismatch = errors.New("blink: length mismatch")
	ErrNoBlinks       = errors.New("blink: no blinks")
	ErrNonFinite      = errors.New("blink: non-finite decomposition")
	ErrKeepOutOfRange = errors.New("blink: keep index out of range")
)

// Params configures blink detection.
type Params struct {
	// SampleRate of the EEG in Hz.
	SampleRate float64
	// ChannelThreshold is added to the moving average of the detail
	// activity to form the per-channel detection threshold.
	ChannelThreshold float64
	// CorrelationThreshold is the minimum Pearson correlation between a
	// candidate and the blink template.
	CorrelationThreshold float64
}

// Option mutates Params.
type Option func(*Params)

// DefaultParams returns a 256 Hz configuration with channel threshold 15 and
// correlation threshold 0.75.
func DefaultParams() Params {
	return Params{
		SampleRate:           256,
		ChannelThreshold:     15,
		CorrelationThreshold: 0.75,
	}
}

// WithSampleRate sets the sample rate. Non-positive values are ignored.
func WithSampleRate(fs float64) Option {
	return func(p *Params) {
		if fs > 0 {
			p.SampleRate = fs
		}
	}
}

// WithChannelThreshold sets the per-channel activity threshold.
func WithChannelThreshold(t float64) Option {
	return func(p *Params) {
		p.ChannelThreshold = t
	}
}

// WithCorrelationThreshold sets the template correlation threshold.
func WithCorrelationThreshold(t float64) Option {
	return func(p *Params) {
		p.CorrelationThreshold = t
	}
}

// NewParams applies opts to DefaultParams.
func NewParams(opts ...Option) Params {
	p := DefaultParams()
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

// Validate reports whether p can drive detection. The template needs at
// least two samples per segment, which requires a sample rate of 25 Hz or
// more.
func (p Params) Validate() error {
	if !(p.SampleRate > 0) {
		return fmt.Errorf("%w: sample rate %g", ErrInvalidParams, p.SampleRate)
	}
	if s1, s2 := p.Steps(); s1 < 2 || s2 < 2 {
		return fmt.Errorf("%w: sample rate %g too low for template", ErrInvalidParams, p.SampleRate)
	}
	if p.CorrelationThreshold > 1 {
		return fmt.Errorf("%w: correlation threshold %g", ErrInvalidParams, p.CorrelationThreshold)
	}
	return nil
}

func (p Params) config() core.ProcessorConfig {
	return core.ProcessorConfig{SampleRate: p.SampleRate}
}

// Steps returns the template segment lengths round(0.08·fs) and
// round(0.06·fs).
func (p Params) Steps() (s1, s2 int) {
	cfg := p.config()
	return cfg.Samples(0.08), cfg.Samples(0.06)
}

// Window returns the matching tolerance of 20 ms in samples, truncated.
func (p Params) Window() int {
	return int(0.02 * p.SampleRate)
}

// FlattenWidth returns the half-width of a flattened blink, 200 ms in
// samples, truncated.
func (p Params) FlattenWidth() int {
	return int(0.2 * p.SampleRate)
}
