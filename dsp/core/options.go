package core

import "math"

// ProcessorConfig defines common EEG processing settings.
type ProcessorConfig struct {
	// SampleRate is the acquisition rate in Hz.
	SampleRate float64
	// WindowSeconds is the length of the observation window that is
	// reprocessed as a whole.
	WindowSeconds float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns defaults matching a typical clinical EEG
// amplifier.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:    256,
		WindowSeconds: 20,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithWindowSeconds sets the observation window length.
func WithWindowSeconds(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 {
			cfg.WindowSeconds = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Samples converts a duration in seconds to a sample count at the configured
// rate, rounding to nearest.
func (c ProcessorConfig) Samples(seconds float64) int {
	return int(math.Round(seconds * c.SampleRate))
}

// WindowSamples returns the observation window length in samples.
func (c ProcessorConfig) WindowSamples() int {
	return c.Samples(c.WindowSeconds)
}
