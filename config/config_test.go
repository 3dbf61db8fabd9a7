package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-eeg/blink"
	"github.com/cwbudde/algo-eeg/ica"
	"github.com/cwbudde/algo-eeg/recording"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ica.DefaultParams(), cfg.ICAParams())

	bp := cfg.BlinkParams()
	require.Zero(t, bp.SampleRate)
	require.Equal(t, blink.DefaultParams().ChannelThreshold, bp.ChannelThreshold)

	pairs, err := cfg.DerivationPairs()
	require.NoError(t, err)
	require.Equal(t, recording.FrontalPairs, pairs)
}

func TestLoadOverrides(t *testing.T) {
	doc := `
ica:
  implementation: JADE
  contrast: gauss
  max_iterations: 50
blink:
  sample_rate: 500
  correlation_threshold: 0.8
  pairs: ["FP1 - F3", FP2-F4]
  keep: []
session:
  window_seconds: 30
`
	cfg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	ip := cfg.ICAParams()
	require.Equal(t, ica.JADE, ip.Implementation)
	require.Equal(t, ica.Gauss, ip.Contrast)
	require.Equal(t, 50, ip.MaxIterations)
	require.Equal(t, 1e-4, ip.Epsilon)

	bp := cfg.BlinkParams()
	require.Equal(t, 500.0, bp.SampleRate)
	require.Equal(t, 15.0, bp.ChannelThreshold)
	require.Equal(t, 0.8, bp.CorrelationThreshold)

	pairs, err := cfg.DerivationPairs()
	require.NoError(t, err)
	require.Equal(t, []recording.Pair{{Left: "FP1", Right: "F3"}, {Left: "FP2", Right: "F4"}}, pairs)
	require.Empty(t, cfg.Blink.Keep)

	require.Equal(t, 30.0, cfg.Session.WindowSeconds)
	require.Equal(t, 2.0, cfg.Session.TailSeconds)
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"unknown field", "ica:\n  iterations: 3\n", nil},
		{"unknown implementation", "ica:\n  implementation: pca\n", ica.ErrInvalidParams},
		{"bad epsilon", "ica:\n  epsilon: -1\n", ErrInvalid},
		{"bad threshold", "blink:\n  correlation_threshold: 2\n", ErrInvalid},
		{"bad pair", "blink:\n  pairs: [FP1]\n", ErrInvalid},
		{"no pairs", "blink:\n  pairs: []\n", ErrInvalid},
		{"tail longer than window", "session:\n  window_seconds: 1\n  tail_seconds: 2\n", ErrInvalid},
		{"low sample rate", "blink:\n  sample_rate: 10\n", blink.ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.ICA.Implementation = ica.JADE
	cfg.Blink.SampleRate = 512

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))
	require.Contains(t, buf.String(), "implementation: jade")

	path := filepath.Join(t.TempDir(), "eeg.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
