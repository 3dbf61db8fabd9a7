package recording

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Pair names a bipolar derivation Left − Right.
type Pair struct {
	Left, Right string
}

func (p Pair) String() string {
	return p.Left + "-" + p.Right
}

// FrontalPairs are the derivations used for blink detection.
var FrontalPairs = []Pair{
	{"FP1", "F3"},
	{"FP1", "F7"},
	{"FP2", "F4"},
	{"FP2", "F8"},
}

// EOGLabels are label prefixes of electro-oculogram channels, which are
// usually kept out of blink removal.
var EOGLabels = []string{"EOG", "LOC", "ROC"}

// Difference returns the signal labelled a minus the signal labelled b.
func Difference(rec *Recording, a, b string) ([]float64, error) {
	ia, err := rec.Index(a)
	if err != nil {
		return nil, err
	}
	ib, err := rec.Index(b)
	if err != nil {
		return nil, err
	}
	left, right := rec.Signals[ia].Data, rec.Signals[ib].Data
	if len(left) != len(right) {
		return nil, fmt.Errorf("%w: %q has %d samples, %q has %d", ErrLengthMismatch, a, len(left), b, len(right))
	}
	out := make([]float64, len(left))
	vecmath.ScaleBlock(out, right, -1)
	vecmath.AddBlockInPlace(out, left)
	return out, nil
}

// DerivedChannels returns one difference signal per pair. Without pairs
// FrontalPairs is used.
func DerivedChannels(rec *Recording, pairs ...Pair) ([][]float64, error) {
	if len(pairs) == 0 {
		pairs = FrontalPairs
	}
	out := make([][]float64, len(pairs))
	for i, p := range pairs {
		d, err := Difference(rec, p.Left, p.Right)
		if err != nil {
			return nil, fmt.Errorf("derivation %s: %w", p, err)
		}
		out[i] = d
	}
	return out, nil
}
