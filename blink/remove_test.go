package blink

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-eeg/dsp/core"
	"github.com/cwbudde/algo-eeg/dsp/signal"
	"github.com/cwbudde/algo-eeg/ica"
	"github.com/cwbudde/algo-eeg/internal/testutil"
	"github.com/cwbudde/algo-eeg/linalg"
)

var testMixing = [][]float64{
	{1.0, 0.3, 0.5, 0.2},
	{0.8, 0.5, 0.2, 0.6},
	{0.3, 1.0, 0.4, 0.3},
	{0.1, 0.4, 0.9, 1.0},
}

// mixedEEG returns four channels mixing a blink train, 10 Hz alpha and two
// Laplace sources, along with the blink source itself. Without blinks a third
// Laplace source takes the place of the blink train.
func mixedEEG(t *testing.T, blinkAmp float64) (*linalg.Matrix, []float64) {
	t.Helper()
	g := signal.NewGeneratorWithOptions([]core.ProcessorOption{core.WithSampleRate(testRate)}, signal.WithSeed(5))
	blink, err := g.BlinkTrain(blinkAmp, testSamples, testBlinks...)
	require.NoError(t, err)
	if blinkAmp == 0 {
		blink = testutil.LaplaceNoise(8, 2, testSamples)
	}
	sources := [][]float64{
		blink,
		testutil.DeterministicSine(10, testRate, 5, testSamples),
		testutil.LaplaceNoise(6, 2, testSamples),
		testutil.LaplaceNoise(7, 2, testSamples),
	}
	rows, err := signal.Mix(testMixing, sources)
	require.NoError(t, err)
	x, err := linalg.NewFromRows(rows)
	require.NoError(t, err)
	return x, blink
}

func TestRemove(t *testing.T) {
	x, blink := mixedEEG(t, 150)
	derived := [][]float64{x.Row(0, nil), x.Row(1, nil)}

	res, err := Remove(context.Background(), x, derived, []int{3}, ica.DefaultParams(), DefaultParams())
	require.NoError(t, err)
	require.Equal(t, 4, res.Count())
	requireNear(t, res.Blinks, testBlinks, 5)
	require.True(t, res.ICA.Finite())

	src := res.ICA.S.Row(res.Source, nil)
	require.Greater(t, math.Abs(stat.Correlation(src, blink, nil)), 0.95)
	require.Len(t, res.SourceBlinks, 4)

	rows, cols := res.R.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, testSamples, cols)
	require.Equal(t, x.Row(3, nil), res.R.Row(3, nil))

	// Away from blinks the decomposition reconstructs the input.
	got, want := res.R.Row(0, nil), x.Row(0, nil)
	testutil.RequireSliceNearlyEqual(t, got[100:900], want[100:900], 1e-6)

	for _, b := range testBlinks {
		require.Less(t, want[b], -120.0, "input at %d", b)
		require.Less(t, math.Abs(got[b]), 20.0, "cleaned at %d", b)
	}

	again, err := Remove(context.Background(), x, derived, []int{3}, ica.DefaultParams(), DefaultParams())
	require.NoError(t, err)
	require.Equal(t, res.R.Data, again.R.Data)
}

func TestRemoveJADE(t *testing.T) {
	x, _ := mixedEEG(t, 150)
	derived := [][]float64{x.Row(0, nil), x.Row(1, nil)}
	ip := ica.NewParams(ica.WithImplementation(ica.JADE))

	res, err := Remove(context.Background(), x, derived, nil, ip, DefaultParams())
	require.NoError(t, err)
	require.Equal(t, 4, res.Count())
	require.True(t, res.R.IsFinite())
}

func TestRemoveWithoutBlinks(t *testing.T) {
	x, _ := mixedEEG(t, 0)
	derived := [][]float64{eegChannel(t, 31, 0), eegChannel(t, 32, 0)}

	res, err := Remove(context.Background(), x, derived, nil, ica.DefaultParams(), DefaultParams())
	require.NoError(t, err)
	require.Zero(t, res.Count())
	require.Empty(t, res.SourceBlinks)
	require.NotNil(t, res.ICA)
	testutil.RequireMatrixNearlyEqual(t, res.R, x, 0)
}

func TestRemoveErrors(t *testing.T) {
	x, _ := mixedEEG(t, 150)
	derived := [][]float64{x.Row(0, nil)}
	ctx := context.Background()

	_, err := Remove(ctx, x, [][]float64{make([]float64, 10)}, nil, ica.DefaultParams(), DefaultParams())
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Remove(ctx, x, derived, []int{4}, ica.DefaultParams(), DefaultParams())
	require.ErrorIs(t, err, ErrKeepOutOfRange)

	_, err = Remove(ctx, x, derived, nil, ica.DefaultParams(), Params{})
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = Remove(ctx, x, derived, nil, ica.Params{}, DefaultParams())
	require.ErrorIs(t, err, ica.ErrInvalidParams)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Remove(canceled, x, derived, nil, ica.DefaultParams(), DefaultParams())
	require.ErrorIs(t, err, context.Canceled)
}
