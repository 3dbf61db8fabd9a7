package testutil

import (
	"testing"

	"github.com/cwbudde/algo-eeg/linalg"
)

func TestRequireHelpersPass(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1 + 1e-12, 2}, 1e-9)

	a, err := linalg.NewFromRows([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := linalg.NewPadded(2, 2, 4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.CopyFrom(a); err != nil {
		t.Fatal(err)
	}
	RequireMatrixNearlyEqual(t, b, a, 0)
}
