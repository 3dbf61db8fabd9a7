package blink

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-eeg/internal/testutil"
	"github.com/cwbudde/algo-eeg/linalg"
)

func newMatrixFromRows(rows ...[]float64) (*linalg.Matrix, error) {
	return linalg.NewFromRows(rows)
}

func TestSelectSource(t *testing.T) {
	p := DefaultParams()
	blink := templateSignal(testSamples, testBlinks, p)
	noise := testutil.DeterministicNoise(3, 0.05, testSamples)
	for i := range blink {
		blink[i] = -4*blink[i] + noise[i]
	}
	s, err := newMatrixFromRows(
		testutil.DeterministicNoise(1, 1, testSamples),
		testutil.DeterministicSine(10, testRate, 1, testSamples),
		blink,
		testutil.LaplaceNoise(2, 1, testSamples),
	)
	require.NoError(t, err)

	got, err := SelectSource(s, testBlinks, p)
	require.NoError(t, err)
	require.Equal(t, 2, got)

	_, err = SelectSource(s, nil, p)
	require.ErrorIs(t, err, ErrNoBlinks)
	_, err = SelectSource(linalg.New(0, 10), testBlinks, p)
	require.ErrorIs(t, err, linalg.ErrInvalidShape)
}

func TestSelectSourceConstantRows(t *testing.T) {
	s, err := newMatrixFromRows(testutil.DC(1, 500), testutil.DC(2, 500))
	require.NoError(t, err)
	got, err := SelectSource(s, []int{100}, DefaultParams())
	require.NoError(t, err)
	require.Equal(t, 0, got)
}

func TestFindInSource(t *testing.T) {
	src := testutil.Spikes(1200, 3, 10, 200, 600, 1000)
	// Threshold 10/3; the blink at 2000 has no peak.
	got := FindInSource(src, []int{198, 603, 2000}, DefaultParams())
	require.Equal(t, []int{200, 600}, got)

	// Negative peaks count by magnitude.
	for i := range src {
		src[i] = -src[i]
	}
	require.Equal(t, []int{200, 600, 1000}, FindInSource(src, []int{200, 600, 1000}, DefaultParams()))

	require.Empty(t, FindInSource(src, nil, DefaultParams()))

	// The source starts above threshold 10/2: the blink at 1 has no peak.
	src = testutil.Spikes(1200, 3, 10, 600)
	src[0], src[1], src[2] = 10, 10, 10
	require.Equal(t, []int{600}, FindInSource(src, []int{1, 600}, DefaultParams()))
}

func TestSourcePeaksIgnoresLeadingFall(t *testing.T) {
	s := []float64{5, 5, 1, 0, 4, 6, 4, 0}
	require.Equal(t, []int{5}, sourcePeaks(s, 3))
}

func TestFlatten(t *testing.T) {
	p := NewParams(WithSampleRate(100))
	require.Equal(t, 20, p.FlattenWidth())

	ramp := func(n int) []float64 {
		s := make([]float64, n)
		for i := range s {
			s[i] = float64(i)
		}
		return s
	}

	s := ramp(200)
	Flatten(s, []int{5, 100, 190}, p)
	for i := 0; i < 25; i++ {
		require.Equal(t, 25.0, s[i], "sample %d", i)
	}
	require.Equal(t, 79.0, s[79])
	for i := 80; i < 120; i++ {
		require.Equal(t, 100.0, s[i], "sample %d", i)
	}
	require.Equal(t, 120.0, s[120])
	for i := 170; i < 199; i++ {
		require.Equal(t, 170.0, s[i], "sample %d", i)
	}
	require.Equal(t, 199.0, s[199])

	// Clipped on both sides: the whole signal takes its mean.
	s = ramp(31)
	Flatten(s, []int{15}, p)
	require.Equal(t, testutil.DC(15, 31), s)

	Flatten(nil, []int{1}, p)
}
