package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-eeg/linalg"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps || math.IsNaN(diff) {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireMatrixNearlyEqual fails t if the matrices differ in shape or any
// element pair exceeds eps. Padding is ignored.
func RequireMatrixNearlyEqual(t *testing.T, got, want *linalg.Matrix, eps float64) {
	t.Helper()
	if got.Rows != want.Rows || got.Cols != want.Cols {
		t.Fatalf("shape mismatch: got %d×%d, want %d×%d", got.Rows, got.Cols, want.Rows, want.Cols)
	}
	for c := 0; c < got.Cols; c++ {
		g, w := got.Col(c), want.Col(c)
		for r := range g {
			if diff := math.Abs(g[r] - w[r]); diff > eps || math.IsNaN(diff) {
				t.Fatalf("element (%d,%d): got %v, want %v (diff %v > eps %v)", r, c, g[r], w[r], diff, eps)
			}
		}
	}
}
