// Package config loads ICA, blink detection and session settings from YAML.
//
// A document may set any subset of the fields; the rest keep their defaults.
// Unknown fields are rejected.
//
//	ica:
//	  implementation: jade
//	blink:
//	  channel_threshold: 20
//	  pairs: [FP1-F3, FP2-F4]
//	session:
//	  window_seconds: 30
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-eeg/blink"
	"github.com/cwbudde/algo-eeg/ica"
	"github.com/cwbudde/algo-eeg/recording"
)

// ErrInvalid is returned for configurations that fail validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete configuration document.
type Config struct {
	ICA     ICA     `yaml:"ica"`
	Blink   Blink   `yaml:"blink"`
	Session Session `yaml:"session"`
}

// ICA mirrors ica.Params without the workspace dimensions.
type ICA struct {
	Implementation ica.Implementation `yaml:"implementation"`
	Contrast       ica.Contrast       `yaml:"contrast"`
	Epsilon        float64            `yaml:"epsilon"`
	MaxIterations  int                `yaml:"max_iterations"`
	UseGPU         bool               `yaml:"use_gpu"`
	GPUDevice      int                `yaml:"gpu_device"`
}

// Blink holds detection thresholds and channel selection.
type Blink struct {
	// SampleRate overrides the rate of the input when positive.
	SampleRate           float64 `yaml:"sample_rate,omitempty"`
	ChannelThreshold     float64 `yaml:"channel_threshold"`
	CorrelationThreshold float64 `yaml:"correlation_threshold"`
	// Pairs are bipolar derivations written as "LEFT-RIGHT".
	Pairs []string `yaml:"pairs"`
	// Keep lists label prefixes of channels restored after cleaning.
	Keep []string `yaml:"keep"`
}

// Session configures continuous reprocessing.
type Session struct {
	WindowSeconds float64 `yaml:"window_seconds"`
	TailSeconds   float64 `yaml:"tail_seconds"`
	ChunkSeconds  float64 `yaml:"chunk_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	ip := ica.DefaultParams()
	bp := blink.DefaultParams()
	pairs := make([]string, len(recording.FrontalPairs))
	for i, p := range recording.FrontalPairs {
		pairs[i] = p.String()
	}
	return Config{
		ICA: ICA{
			Implementation: ip.Implementation,
			Contrast:       ip.Contrast,
			Epsilon:        ip.Epsilon,
			MaxIterations:  ip.MaxIterations,
			UseGPU:         ip.UseGPU,
			GPUDevice:      ip.GPUDevice,
		},
		Blink: Blink{
			ChannelThreshold:     bp.ChannelThreshold,
			CorrelationThreshold: bp.CorrelationThreshold,
			Pairs:                pairs,
			Keep:                 append([]string(nil), recording.EOGLabels...),
		},
		Session: Session{
			WindowSeconds: 20,
			TailSeconds:   2,
			ChunkSeconds:  1,
		},
	}
}

// Load decodes a YAML document from r on top of Default and validates it.
// An empty document yields the defaults.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads the configuration at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Write encodes c as YAML.
func Write(w io.Writer, c Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return enc.Close()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.ICAParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	bp := c.BlinkParams()
	if c.Blink.SampleRate <= 0 {
		// The rate comes from the input; check thresholds at the default rate.
		bp.SampleRate = blink.DefaultParams().SampleRate
	}
	if err := bp.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.DerivationPairs(); err != nil {
		return err
	}
	s := c.Session
	if !(s.WindowSeconds > 0) || s.TailSeconds < 0 || s.TailSeconds > s.WindowSeconds || !(s.ChunkSeconds > 0) {
		return fmt.Errorf("%w: session window %gs, tail %gs, chunk %gs", ErrInvalid,
			s.WindowSeconds, s.TailSeconds, s.ChunkSeconds)
	}
	return nil
}

// ICAParams returns the ICA section as ica.Params.
func (c Config) ICAParams() ica.Params {
	return ica.Params{
		Implementation: c.ICA.Implementation,
		Contrast:       c.ICA.Contrast,
		Epsilon:        c.ICA.Epsilon,
		MaxIterations:  c.ICA.MaxIterations,
		UseGPU:         c.ICA.UseGPU,
		GPUDevice:      c.ICA.GPUDevice,
	}
}

// BlinkParams returns the blink section as blink.Params. A zero sample rate
// is left for the caller to fill from the recording.
func (c Config) BlinkParams() blink.Params {
	return blink.Params{
		SampleRate:           c.Blink.SampleRate,
		ChannelThreshold:     c.Blink.ChannelThreshold,
		CorrelationThreshold: c.Blink.CorrelationThreshold,
	}
}

// DerivationPairs parses the blink pairs.
func (c Config) DerivationPairs() ([]recording.Pair, error) {
	if len(c.Blink.Pairs) == 0 {
		return nil, fmt.Errorf("%w: no derivation pairs", ErrInvalid)
	}
	out := make([]recording.Pair, len(c.Blink.Pairs))
	for i, s := range c.Blink.Pairs {
		left, right, ok := strings.Cut(s, "-")
		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		if !ok || left == "" || right == "" {
			return nil, fmt.Errorf("%w: pair %q is not LEFT-RIGHT", ErrInvalid, s)
		}
		out[i] = recording.Pair{Left: left, Right: right}
	}
	return out, nil
}
