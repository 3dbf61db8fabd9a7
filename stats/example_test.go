package stats_test

import (
	"fmt"

	"github.com/cwbudde/algo-eeg/stats"
)

func ExampleCalculate() {
	c := stats.Calculate([]float64{1, -2, 3, 0})
	fmt.Printf("mean=%.2f rms=%.2f peak=%g at %d range=%g\n", c.Mean, c.RMS, c.Peak, c.MaxPos, c.Range)

	// Output:
	// mean=0.50 rms=1.87 peak=3 at 2 range=5
}

func ExampleAccumulator() {
	var a stats.Accumulator
	a.Update([]float64{1, -1})
	a.Update([]float64{1, -1})
	c := a.Result()
	fmt.Printf("len=%d rms=%.1f kurtosis=%.1f\n", c.Length, c.RMS, c.Kurtosis)

	// Output:
	// len=4 rms=1.0 kurtosis=-2.0
}
