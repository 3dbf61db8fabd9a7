package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-eeg/dsp/conv"
)

func ExampleDirect() {
	// A single negative spike spread by a 3-tap smoother.
	spike := []float64{0, 0, -4, 0, 0}

	out, err := conv.Direct(spike, []float64{0.25, 0.5, 0.25})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%d %.1f\n", len(out), out)

	// Output:
	// 7 [0.0 0.0 -1.0 -2.0 -1.0 0.0 0.0]
}

func ExampleMirrorDownConvolve() {
	input := []float64{0.2, 0.4, 3.2, 1.3, -4.2, 8.2, -12.1, 3.4, 0.0, 0.0, 2.3, 0.4}
	filter := []float64{1.3, 2.7, 0.3, 2.9, 3.1}

	out := make([]float64, conv.MirrorDownLen(len(input), len(filter)))
	if err := conv.MirrorDownConvolve(out, input, filter); err != nil {
		panic(err)
	}
	fmt.Printf("%.2f\n", out)

	// Output:
	// [14.49 12.27 10.23 -33.94 -8.65 17.27 13.00 12.33]
}

func ExampleMirrorUpConvolve() {
	input := []float64{1, 2, 3, 4, 5}
	filter := []float64{1.2, 3.4, -2.0, 0.2}

	out := make([]float64, conv.MirrorUpLen(len(input), len(filter)))
	if err := conv.MirrorUpConvolve(out, input, filter); err != nil {
		panic(err)
	}
	fmt.Printf("%.1f\n", out)

	// Output:
	// [3.8 -0.8 3.6 0.4 7.0 -0.4 10.6 -1.2 14.2 -2.0 17.8 -5.2 14.6]
}

func ExampleMovingAverageMirror() {
	x := []float64{1, 2, 3, 4, 5}

	avg, err := conv.MovingAverageMirror(x, 1, 1)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.3f\n", avg)

	// Output:
	// [1.667 2.000 3.000 4.000 4.333]
}
