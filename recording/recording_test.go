package recording

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-eeg/internal/testutil"
	"github.com/cwbudde/algo-eeg/linalg"
)

func sampleRecording(n int, fs float64) *Recording {
	labels := []string{"FP1", "FP2", "F3", "F4", "F7", "F8", "EOG L"}
	rec := &Recording{
		PatientID:   "X F 01-JAN-1970 Test",
		RecordingID: "Startdate 01-JAN-2020 synthetic",
		Start:       time.Date(2020, 1, 1, 10, 30, 0, 0, time.UTC),
	}
	for i, l := range labels {
		data := testutil.DeterministicSine(float64(3+i), fs, 40+float64(i), n)
		noise := testutil.DeterministicNoise(int64(i), 5, n)
		for k := range data {
			data[k] += noise[k]
		}
		rec.Signals = append(rec.Signals, Signal{
			Label:      l,
			Transducer: "AgAgCl electrode",
			Unit:       "uV",
			SampleRate: fs,
			Data:       data,
		})
	}
	return rec
}

func TestSignalConversions(t *testing.T) {
	s := Signal{PhysicalMin: -500, PhysicalMax: 500, DigitalMin: -2048, DigitalMax: 2047}
	require.InDelta(t, -500, s.ToPhysical(-2048), 1e-12)
	require.InDelta(t, 500, s.ToPhysical(2047), 1e-12)
	require.Equal(t, int16(-2048), s.ToDigital(-500))
	require.Equal(t, int16(2047), s.ToDigital(500))
	require.Equal(t, int16(2047), s.ToDigital(1e6))
	require.Equal(t, int16(-2048), s.ToDigital(-1e6))

	step := 1000.0 / 4095
	for _, v := range []float64{-123.4, 0, 0.1, 250.25} {
		require.InDelta(t, v, s.ToPhysical(s.ToDigital(v)), step/2+1e-12)
	}

	var flat Signal
	require.Zero(t, flat.ToPhysical(10))
	require.Zero(t, flat.ToDigital(10))
}

func TestIndex(t *testing.T) {
	rec := &Recording{Signals: []Signal{{Label: "FP1-REF"}, {Label: " fp2 "}, {Label: "F3"}, {Label: "F3X"}}}

	i, err := rec.Index("FP1")
	require.NoError(t, err)
	require.Equal(t, 0, i)

	i, err = rec.Index("FP2")
	require.NoError(t, err)
	require.Equal(t, 1, i)

	i, err = rec.Index("f3")
	require.NoError(t, err)
	require.Equal(t, 2, i)

	_, err = rec.Index("O1")
	require.ErrorIs(t, err, ErrChannelNotFound)
	_, err = rec.Index(" ")
	require.ErrorIs(t, err, ErrChannelNotFound)

	require.Equal(t, []int{2, 0}, rec.Indices("F3", "O1", "FP1", "f3"))
	require.Equal(t, []string{"FP1-REF", " fp2 ", "F3", "F3X"}, rec.Labels())
}

func TestDifference(t *testing.T) {
	rec := &Recording{Signals: []Signal{
		{Label: "FP1", Data: []float64{1, 2, 3}},
		{Label: "F3", Data: []float64{0.5, 4, -1}},
		{Label: "F7", Data: []float64{1}},
	}}
	d, err := Difference(rec, "FP1", "F3")
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, -2, 4}, d)

	_, err = Difference(rec, "FP1", "F7")
	require.ErrorIs(t, err, ErrLengthMismatch)
	_, err = Difference(rec, "FP2", "F3")
	require.ErrorIs(t, err, ErrChannelNotFound)
}

func TestDerivedChannels(t *testing.T) {
	rec := sampleRecording(512, 256)
	derived, err := DerivedChannels(rec)
	require.NoError(t, err)
	require.Len(t, derived, 4)

	// FP2 - F8 is the last derivation.
	fp2, f8 := rec.Signals[1].Data, rec.Signals[5].Data
	for i := range fp2 {
		require.InDelta(t, fp2[i]-f8[i], derived[3][i], 1e-12)
	}

	rec.Signals = rec.Signals[:5] // drop F8
	_, err = DerivedChannels(rec)
	require.ErrorIs(t, err, ErrChannelNotFound)
	require.Contains(t, err.Error(), "FP2-F8")

	got, err := DerivedChannels(rec, Pair{"FP1", "F3"})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestMatrixRoundTrip(t *testing.T) {
	rec := sampleRecording(100, 256)
	m, err := rec.Matrix()
	require.NoError(t, err)
	require.Equal(t, len(rec.Signals), m.Rows)
	require.Equal(t, 100, m.Cols)
	require.Equal(t, rec.Signals[4].Data, m.Row(4, nil))

	linalg.Scale(m, 2)
	clone := rec.Clone()
	require.NoError(t, clone.SetMatrix(m))
	require.Equal(t, 2*rec.Signals[4].Data[7], clone.Signals[4].Data[7])
	require.NotEqual(t, rec.Signals[4].Data[7], clone.Signals[4].Data[7])

	require.ErrorIs(t, clone.SetMatrix(linalg.New(2, 100)), linalg.ErrDimensionMismatch)

	rec.Signals[2].Data = rec.Signals[2].Data[:50]
	_, err = rec.Matrix()
	require.ErrorIs(t, err, ErrLengthMismatch)
	_, err = (&Recording{}).Matrix()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestSampleRate(t *testing.T) {
	rec := sampleRecording(10, 256)
	fs, err := rec.SampleRate()
	require.NoError(t, err)
	require.Equal(t, 256.0, fs)

	rec.Signals[3].SampleRate = 512
	_, err = rec.SampleRate()
	require.ErrorIs(t, err, ErrMixedRates)
}

func TestEDFRoundTrip(t *testing.T) {
	rec := sampleRecording(3*256, 256)
	path := filepath.Join(t.TempDir(), "round.edf")
	require.NoError(t, WriteEDFFile(path, rec))

	got, err := ReadEDFFile(path)
	require.NoError(t, err)
	require.Equal(t, rec.PatientID, got.PatientID)
	require.Equal(t, rec.RecordingID, got.RecordingID)
	require.True(t, rec.Start.Equal(got.Start), "start %v", got.Start)
	require.Equal(t, rec.Labels(), got.Labels())

	for i, s := range got.Signals {
		want := rec.Signals[i]
		require.Equal(t, 256.0, s.SampleRate)
		require.Equal(t, "uV", s.Unit)
		require.Equal(t, "AgAgCl electrode", s.Transducer)
		require.Len(t, s.Data, len(want.Data))
		require.LessOrEqual(t, s.PhysicalMin, minOf(want.Data))
		require.GreaterOrEqual(t, s.PhysicalMax, maxOf(want.Data))

		step := (s.PhysicalMax - s.PhysicalMin) / float64(s.DigitalMax-s.DigitalMin)
		testutil.RequireSliceNearlyEqual(t, s.Data, want.Data, 1.01*step)
	}

	// Writing what was read keeps the calibration.
	again := filepath.Join(t.TempDir(), "again.edf")
	require.NoError(t, WriteEDFFile(again, got))
	reread, err := ReadEDFFile(again)
	require.NoError(t, err)
	for i := range reread.Signals {
		require.Equal(t, got.Signals[i].PhysicalMin, reread.Signals[i].PhysicalMin)
		require.Equal(t, got.Signals[i].PhysicalMax, reread.Signals[i].PhysicalMax)
	}
}

func TestEDFPadsLastRecord(t *testing.T) {
	rec := sampleRecording(300, 128)
	path := filepath.Join(t.TempDir(), "pad.edf")
	require.NoError(t, WriteEDFFile(path, rec))

	got, err := ReadEDFFile(path)
	require.NoError(t, err)
	for i, s := range got.Signals {
		require.Len(t, s.Data, 384)
		last := rec.Signals[i].Data[299]
		step := (s.PhysicalMax - s.PhysicalMin) / 65535
		for _, v := range s.Data[300:] {
			require.InDelta(t, last, v, 1.01*step)
		}
	}
}

func TestWriteEDFErrors(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "bad.edf"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, f.Close()) })

	rec := sampleRecording(100, 250.5)
	require.ErrorIs(t, WriteEDF(f, rec), ErrUnsupportedRate)

	rec = sampleRecording(100, 256)
	rec.Signals[0].Data[3] = math.NaN()
	require.Error(t, WriteEDF(f, rec))

	require.ErrorIs(t, WriteEDF(f, &Recording{}), ErrEmpty)
}

func TestReadEDFMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.edf")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 300)), 0o644))
	_, err := ReadEDFFile(path)
	require.ErrorIs(t, err, ErrBadHeader)

	_, err = ReadEDFFile(filepath.Join(t.TempDir(), "missing.edf"))
	require.Error(t, err)
}

func TestPhysicalRange(t *testing.T) {
	s := &Signal{Data: []float64{-151.2345, 20.001}}
	lo, hi, err := physicalRange(s)
	require.NoError(t, err)
	require.Equal(t, -151.24, lo)
	require.Equal(t, 20.01, hi)

	s = &Signal{Data: []float64{-123456.7, 5}}
	lo, hi, err = physicalRange(s)
	require.NoError(t, err)
	require.Equal(t, -123457.0, lo)
	require.Equal(t, 5.0, hi)

	s = &Signal{Data: []float64{3, 3}}
	lo, hi, err = physicalRange(s)
	require.NoError(t, err)
	require.Equal(t, 3.0, lo)
	require.Equal(t, 4.0, hi)

	s = &Signal{PhysicalMin: -500, PhysicalMax: 500, Data: []float64{-10, 10}}
	lo, hi, err = physicalRange(s)
	require.NoError(t, err)
	require.Equal(t, -500.0, lo)
	require.Equal(t, 500.0, hi)
}

func minOf(x []float64) float64 {
	m := math.Inf(1)
	for _, v := range x {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(x []float64) float64 {
	m := math.Inf(-1)
	for _, v := range x {
		m = math.Max(m, v)
	}
	return m
}
