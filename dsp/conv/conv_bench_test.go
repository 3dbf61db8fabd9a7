package conv

import (
	"fmt"
	"math"
	"testing"
)

func BenchmarkDirect(b *testing.B) {
	for _, size := range []struct{ signal, kernel int }{
		{256, 8},
		{1024, 32},
		{4096, 64},
	} {
		signal := makeTestSignal(size.signal)
		kernel := makeTestKernel(size.kernel)
		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = Direct(signal, kernel)
			}
		})
	}
}

func BenchmarkOverlapAdd(b *testing.B) {
	for _, size := range []struct{ signal, kernel int }{
		{4096, 64},
		{16384, 512},
		{65536, 512},
	} {
		signal := makeTestSignal(size.signal)
		kernel := makeTestKernel(size.kernel)
		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = OverlapAddConvolve(signal, kernel)
			}
		})
	}
}

// Filter lengths of haar, db4 and coif3 over a typical EEG window.
func BenchmarkMirrorDownConvolve(b *testing.B) {
	signal := makeTestSignal(5120)
	for _, lf := range []int{2, 8, 18} {
		kernel := makeTestKernel(lf)
		dst := make([]float64, MirrorDownLen(len(signal), lf))
		b.Run(fmt.Sprintf("filter=%d", lf), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = MirrorDownConvolve(dst, signal, kernel)
			}
		})
	}
}

func BenchmarkMirrorUpConvolve(b *testing.B) {
	signal := makeTestSignal(2560)
	for _, lf := range []int{2, 8, 18} {
		kernel := makeTestKernel(lf)
		dst := make([]float64, MirrorUpLen(len(signal), lf))
		b.Run(fmt.Sprintf("filter=%d", lf), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = MirrorUpConvolve(dst, signal, kernel)
			}
		})
	}
}

func BenchmarkMovingAverageMirror(b *testing.B) {
	for _, n := range []int{2560, 5120, 76800} {
		signal := makeTestSignal(n)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = MovingAverageMirror(signal, 256, 255)
			}
		})
	}
}

func makeTestSignal(n int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2*math.Pi*float64(i)/100) + 0.5*math.Cos(2*math.Pi*float64(i)/30)
	}
	return signal
}

// makeTestKernel returns a Hann-windowed sinc.
func makeTestKernel(n int) []float64 {
	kernel := make([]float64, n)
	center := float64(n-1) / 2
	for i := range kernel {
		x := float64(i) - center
		if x == 0 {
			kernel[i] = 1
		} else {
			kernel[i] = math.Sin(math.Pi*x/4) / (math.Pi * x / 4)
		}
		if n > 1 {
			kernel[i] *= 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
	}
	return kernel
}
