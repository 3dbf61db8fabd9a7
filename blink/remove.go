package blink

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-eeg/ica"
	"github.com/cwbudde/algo-eeg/linalg"
)

// Removal is the outcome of [Remove].
type Removal struct {
	// R is the cleaned EEG, shaped like the input.
	R *linalg.Matrix
	// Blinks are the sample indices confirmed on the derived channels.
	Blinks []int
	// SourceBlinks are the peaks flattened in the blink source.
	SourceBlinks []int
	// Source is the row of ICA.S identified as the blink source. It is
	// meaningless when no blinks were found.
	Source int
	// ICA holds the unmodified decomposition.
	ICA *ica.Result
}

// Count returns the number of detected blinks.
func (r *Removal) Count() int {
	return len(r.Blinks)
}

// Remove cleans the EEG x (one channel per row) of eyeblinks. Blinks are
// detected on the derived channels while x is decomposed by ICA; both run
// concurrently. The blink source is flattened and the sources are mixed back
// with the source means restored. Rows listed in keep are copied unchanged
// from x. When no blinks are found R is a copy of x.
func Remove(ctx context.Context, x *linalg.Matrix, derived [][]float64, keep []int, ip ica.Params, bp Params) (*Removal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := x.Validate(); err != nil {
		return nil, err
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	for i, ch := range derived {
		if len(ch) != x.Cols {
			return nil, fmt.Errorf("%w: derived channel %d has %d samples, want %d", ErrLengthMismatch, i, len(ch), x.Cols)
		}
	}
	for _, k := range keep {
		if k < 0 || k >= x.Rows {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrKeepOutOfRange, k, x.Rows)
		}
	}

	var (
		res    *ica.Result
		blinks []int
		g      errgroup.Group
	)
	g.Go(func() error {
		s := ica.NewSession()
		defer s.Shutdown()
		if err := s.Init(ip); err != nil {
			return err
		}
		r, err := s.Run(x)
		if err != nil {
			return err
		}
		if !r.Finite() {
			return ErrNonFinite
		}
		res = r
		return nil
	})
	g.Go(func() error {
		b, err := Detect(derived, bp)
		blinks = b
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Removal{Blinks: blinks, ICA: res, R: linalg.New(x.Rows, x.Cols)}
	if len(blinks) == 0 {
		if err := out.R.CopyFrom(x); err != nil {
			return nil, err
		}
		return out, nil
	}

	source, err := SelectSource(res.S, blinks, bp)
	if err != nil {
		return nil, err
	}
	out.Source = source

	row := res.S.Row(source, nil)
	out.SourceBlinks = FindInSource(row, blinks, bp)
	Flatten(row, out.SourceBlinks, bp)

	flat := linalg.New(res.S.Rows, res.S.Cols)
	if err := flat.CopyFrom(res.S); err != nil {
		return nil, err
	}
	flat.SetRow(source, row)
	if err := mix(out.R, res, flat); err != nil {
		return nil, err
	}
	for _, k := range keep {
		out.R.SetRow(k, x.Row(k, row))
	}
	if !out.R.IsFinite() {
		return nil, ErrNonFinite
	}
	return out, nil
}

// mix computes dst = A·S + A·μS.
func mix(dst *linalg.Matrix, res *ica.Result, s *linalg.Matrix) error {
	if err := linalg.Multiply(dst, res.A, s); err != nil {
		return fmt.Errorf("blink: remix: %w", err)
	}
	offset := make([]float64, dst.Rows)
	if err := linalg.MatVec(offset, res.A, res.SourceMeans); err != nil {
		return fmt.Errorf("blink: remix offset: %w", err)
	}
	for c := 0; c < dst.Cols; c++ {
		vecmath.AddBlockInPlace(dst.Col(c), offset)
	}
	return nil
}
