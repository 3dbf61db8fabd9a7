package ica

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-eeg/internal/testutil"
	"github.com/cwbudde/algo-eeg/linalg"
)

// benchObservations returns n Laplacian sources of n·500 samples, each
// leaking a little into its neighbour so the data is actually mixed.
func benchObservations(b *testing.B, n int) *linalg.Matrix {
	b.Helper()
	t := n * 500
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = testutil.LaplaceNoise(int64(i+1), 1, t)
	}
	for i := 1; i < n; i++ {
		for k := range rows[i] {
			rows[i][k] += 0.3 * rows[i-1][k]
		}
	}
	x, err := linalg.NewFromRows(rows)
	if err != nil {
		b.Fatal(err)
	}
	return x
}

func BenchmarkRun(b *testing.B) {
	variants := []struct {
		impl     Implementation
		contrast Contrast
	}{
		{FastICA, Tanh},
		{FastICA, Cube},
		{FastICA, Gauss},
		{JADE, Tanh},
	}

	for _, n := range []int{2, 4, 8, 16, 32} {
		x := benchObservations(b, n)
		for _, v := range variants {
			name := fmt.Sprintf("%s_%s_n=%d", v.impl, v.contrast, n)
			if v.impl == JADE {
				name = fmt.Sprintf("%s_n=%d", v.impl, n)
			}
			b.Run(name, func(b *testing.B) {
				s := NewSession()
				defer s.Shutdown()
				p := NewParams(WithImplementation(v.impl), WithContrast(v.contrast), WithDimensions(n, x.Cols))
				if err := s.Init(p); err != nil {
					b.Fatal(err)
				}
				b.ReportAllocs()
				b.SetBytes(int64(8 * n * x.Cols))
				for i := 0; i < b.N; i++ {
					if _, err := s.Run(x); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkWhiten(b *testing.B) {
	for _, n := range []int{4, 16, 64} {
		x := benchObservations(b, n)
		z := linalg.New(n, x.Cols)
		means := make([]float64, n)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := RemoveMean(z, means, x); err != nil {
					b.Fatal(err)
				}
				if _, err := Whiten(z, false); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
