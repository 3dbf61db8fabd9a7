package recording_test

import (
	"fmt"

	"github.com/cwbudde/algo-eeg/recording"
)

func ExampleDifference() {
	rec := &recording.Recording{Signals: []recording.Signal{
		{Label: "EEG FP1-REF", Data: []float64{10, 12, 9}},
		{Label: "EEG F3-REF", Data: []float64{4, 5, 6}},
	}}
	// Labels match by prefix.
	d, err := recording.Difference(rec, "eeg fp1", "EEG F3")
	fmt.Println(d, err)
	// Output: [6 7 3] <nil>
}
