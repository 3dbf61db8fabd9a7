package conv

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-eeg/internal/testutil"
)

func TestDirect(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected []float64
	}{
		{
			name:     "simple 3x3",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 1, 1},
			expected: []float64{1, 3, 6, 5, 3},
		},
		{
			name:     "impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{1},
			expected: []float64{1, 2, 3, 4, 5},
		},
		{
			name:     "delayed impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{0, 0, 1},
			expected: []float64{0, 0, 1, 2, 3, 4, 5},
		},
		{
			name:     "symmetric",
			a:        []float64{1, 2, 1},
			b:        []float64{1, 2, 1},
			expected: []float64{1, 4, 6, 4, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Direct(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, result, tt.expected, 1e-10)
		})
	}
}

func TestDirectErrors(t *testing.T) {
	_, err := Direct([]float64{}, []float64{1, 2})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}

	_, err = Direct([]float64{1, 2}, []float64{})
	if !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
}

func TestOverlapAddMatchesDirect(t *testing.T) {
	signal := testutil.DeterministicNoise(11, 1, 3000)
	for _, kernelLen := range []int{3, 65, 512} {
		kernel := testutil.DeterministicNoise(int64(kernelLen), 1, kernelLen)

		want, err := Direct(signal, kernel)
		if err != nil {
			t.Fatalf("direct convolution failed: %v", err)
		}
		got, err := OverlapAddConvolve(signal, kernel)
		if err != nil {
			t.Fatalf("overlap-add convolution failed: %v", err)
		}
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
	}
}

func TestMirrorDownConvolveFixture(t *testing.T) {
	input := []float64{0.2, 0.4, 3.2, 1.3, -4.2, 8.2, -12.1, 3.4, 0.0, 0.0, 2.3, 0.4}
	filter := []float64{1.3, 2.7, 0.3, 2.9, 3.1}
	want := []float64{14.49, 12.27, 10.23, -33.94, -8.65, 17.27, 13.0, 12.33}

	got := make([]float64, MirrorDownLen(len(input), len(filter)))
	if err := MirrorDownConvolve(got, input, filter); err != nil {
		t.Fatalf("MirrorDownConvolve() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-5)
}

func TestMirrorUpConvolveFixture(t *testing.T) {
	input := []float64{1, 2, 3, 4, 5}
	filter := []float64{1.2, 3.4, -2.0, 0.2}
	want := []float64{3.8, -0.8, 3.6, 0.4, 7.0, -0.4, 10.6, -1.2, 14.2, -2.0, 17.8, -5.2, 14.6}

	got := make([]float64, MirrorUpLen(len(input), len(filter)))
	if err := MirrorUpConvolve(got, input, filter); err != nil {
		t.Fatalf("MirrorUpConvolve() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-5)
}

// naiveMirrorDown and naiveMirrorUp evaluate the defining sums tap by tap.
func naiveMirrorDown(x, f []float64) []float64 {
	n := len(x)
	out := make([]float64, MirrorDownLen(n, len(f)))
	for o := range out {
		for k := range f {
			out[o] += f[k] * x[wholePoint(2*o+1-k, n)]
		}
	}
	return out
}

func naiveMirrorUp(x, f []float64) []float64 {
	n := len(x)
	out := make([]float64, MirrorUpLen(n, len(f)))
	for p := range out {
		for t := range f {
			if (p-t)%2 == 0 {
				continue
			}
			out[p] += f[t] * x[halfWholePoint((p-t-1)/2, n)]
		}
	}
	return out
}

func TestMirrorConvolveMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, tc := range []struct{ n, lf int }{
		{18, 18}, {19, 18}, {100, 18}, {101, 7}, {64, 2}, {9, 17}, {40, 40},
	} {
		x := make([]float64, tc.n)
		f := make([]float64, tc.lf)
		for i := range x {
			x[i] = rng.NormFloat64()
		}
		for i := range f {
			f[i] = rng.NormFloat64()
		}

		up := make([]float64, MirrorUpLen(tc.n, tc.lf))
		if err := MirrorUpConvolve(up, x, f); err != nil {
			t.Fatalf("n=%d lf=%d: MirrorUpConvolve() error = %v", tc.n, tc.lf, err)
		}
		testutil.RequireSliceNearlyEqual(t, up, naiveMirrorUp(x, f), 1e-12)

		if tc.n < tc.lf {
			continue
		}
		down := make([]float64, MirrorDownLen(tc.n, tc.lf))
		if err := MirrorDownConvolve(down, x, f); err != nil {
			t.Fatalf("n=%d lf=%d: MirrorDownConvolve() error = %v", tc.n, tc.lf, err)
		}
		testutil.RequireSliceNearlyEqual(t, down, naiveMirrorDown(x, f), 1e-12)
	}
}

func TestMirrorConvolveErrors(t *testing.T) {
	f := []float64{1, 2, 3, 4}

	if err := MirrorDownConvolve(nil, nil, f); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if err := MirrorDownConvolve(nil, []float64{1, 2, 3}, nil); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
	if err := MirrorDownConvolve(make([]float64, 2), []float64{1, 2, 3}, f); !errors.Is(err, ErrInputTooShort) {
		t.Errorf("expected ErrInputTooShort, got %v", err)
	}
	if err := MirrorDownConvolve(make([]float64, 3), []float64{1, 2, 3, 4, 5}, f); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	if err := MirrorUpConvolve(make([]float64, 5), []float64{1}, f); !errors.Is(err, ErrInputTooShort) {
		t.Errorf("expected ErrInputTooShort, got %v", err)
	}
	if err := MirrorUpConvolve(make([]float64, 5), []float64{1, 2, 3}, f); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestMovingAverageMirror(t *testing.T) {
	x := testutil.DeterministicNoise(3, 10, 1500)
	// Direct and overlap-add paths.
	for _, w := range []struct{ before, after int }{{2, 3}, {31, 32}, {32, 32}, {256, 255}} {
		got, err := MovingAverageMirror(x, w.before, w.after)
		if err != nil {
			t.Fatalf("MovingAverageMirror(%d, %d) error = %v", w.before, w.after, err)
		}

		want := make([]float64, len(x))
		for i := range want {
			var sum float64
			for j := i - w.before; j <= i+w.after; j++ {
				sum += x[reflect(j, len(x))]
			}
			want[i] = sum / float64(w.before+w.after+1)
		}
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
	}
}

func TestMovingAverageConstant(t *testing.T) {
	ma, err := NewMovingAverage(3, 2)
	if err != nil {
		t.Fatalf("NewMovingAverage() error = %v", err)
	}
	if ma.Width() != 6 {
		t.Fatalf("Width() = %d, want 6", ma.Width())
	}
	got, err := ma.Process(testutil.DC(2.5, 4))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, testutil.DC(2.5, 4), 1e-12)

	if _, err := NewMovingAverage(-1, 2); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
	if _, err := ma.Process(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestReflect(t *testing.T) {
	n := 4
	want := map[int]int{-7: 1, -3: 3, -1: 1, 0: 0, 3: 3, 4: 2, 6: 0, 7: 1, 9: 3}
	for m, w := range want {
		if got := reflect(m, n); got != w {
			t.Errorf("reflect(%d, %d) = %d, want %d", m, n, got, w)
		}
	}
	if got := reflect(5, 1); got != 0 {
		t.Errorf("reflect(5, 1) = %d, want 0", got)
	}
	if wholePoint(-2, 5) != 2 {
		t.Errorf("wholePoint(-2, 5) = %d, want 2", wholePoint(-2, 5))
	}
}
