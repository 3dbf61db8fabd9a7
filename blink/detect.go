package blink

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-eeg/dsp/conv"
	"github.com/cwbudde/algo-eeg/dsp/wavelet"
	"github.com/cwbudde/algo-eeg/linalg"
)

const (
	detectionLevel = 7
	approxLevel    = 3
	// Moving-average window of the activity threshold.
	thresholdBefore = 256
	thresholdAfter  = 255
)

var (
	detectionWavelet = wavelet.Coif3
	activityLevels   = [...]int{5, 6, 7}
)

// FindCandidates returns the sample indices of blink candidates in one
// derived frontal channel, in increasing order. Channels too short for a
// level-7 coif3 decomposition yield no candidates.
func FindCandidates(channel []float64, p Params) ([]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := len(channel)
	if wavelet.MaxLevel(n, detectionWavelet.Len()) < detectionLevel {
		return nil, nil
	}

	c, err := wavelet.Deconstruct(channel, detectionWavelet, detectionLevel)
	if err != nil {
		return nil, fmt.Errorf("blink: decompose channel: %w", err)
	}
	shape, err := wavelet.ReconstructPartial(c, wavelet.Approx, approxLevel)
	if err != nil {
		return nil, fmt.Errorf("blink: approximation: %w", err)
	}
	activity := make([]float64, n)
	for _, level := range activityLevels {
		band, err := wavelet.ReconstructPartial(c, wavelet.Detail, level)
		if err != nil {
			return nil, fmt.Errorf("blink: detail %d: %w", level, err)
		}
		if err := Envelope(band, band); err != nil {
			return nil, err
		}
		vecmath.AddBlockInPlace(activity, band)
	}

	threshold, err := conv.MovingAverageMirror(activity, thresholdBefore, thresholdAfter)
	if err != nil {
		return nil, fmt.Errorf("blink: activity threshold: %w", err)
	}
	for i := range threshold {
		threshold[i] += p.ChannelThreshold
	}

	return filterByTemplate(shape, crossingMinima(shape, activity, threshold), p), nil
}

// crossingMinima returns, for every interval in which activity is above
// threshold, the index of the minimum of shape inside it. An interval still
// open at the end of the signal is discarded.
func crossingMinima(shape, activity, threshold []float64) []int {
	var (
		out    []int
		above  bool
		minVal float64
		minIdx int
	)
	for i := 1; i < len(activity); i++ {
		switch {
		case !above && activity[i] > threshold[i] && activity[i-1] <= threshold[i-1]:
			above = true
			minVal, minIdx = shape[i], i
			continue
		case above && activity[i] < threshold[i] && activity[i-1] >= threshold[i-1]:
			above = false
			out = append(out, minIdx)
		}
		if above && shape[i] < minVal {
			minVal, minIdx = shape[i], i
		}
	}
	return out
}

// filterByTemplate keeps the candidates whose surrounding shape correlates
// with the template at least p.CorrelationThreshold. The template starts s1
// samples before the candidate and is clipped at the signal edges.
func filterByTemplate(shape []float64, candidates []int, p Params) []int {
	tmpl := Template(p)
	s1, _ := p.Steps()
	out := candidates[:0]
	for _, idx := range candidates {
		lo, off, length := templateWindow(idx-s1, len(tmpl), len(shape))
		if length < 2 {
			continue
		}
		r := stat.Correlation(shape[lo:lo+length], tmpl[off:off+length], nil)
		if r >= p.CorrelationThreshold {
			out = append(out, idx)
		}
	}
	return out
}

// Fuse confirms candidates of channel 0 that every other channel matches
// within window samples. Each channel is scanned with a cursor that only
// moves forward: a match at position j resumes the next search at j+1. The
// first channel without a match rejects the reference candidate and later
// channels are not scanned for it. If any channel has no candidates the
// result is empty.
func Fuse(candidates [][]int, window int) []int {
	if len(candidates) == 0 {
		return nil
	}
	for _, c := range candidates {
		if len(c) == 0 {
			return nil
		}
	}

	cursor := make([]int, len(candidates))
	var out []int
	for _, ref := range candidates[0] {
		confirmed := true
		for ch := 1; ch < len(candidates); ch++ {
			found := false
			for j := cursor[ch]; j < len(candidates[ch]); j++ {
				if abs(ref-candidates[ch][j]) <= window {
					cursor[ch] = j + 1
					found = true
					break
				}
			}
			if !found {
				confirmed = false
				break
			}
		}
		if confirmed {
			out = append(out, ref)
		}
	}
	return out
}

// Detect finds the blinks present in all channels. Candidates are computed
// concurrently per channel and fused with [Fuse] using p.Window().
func Detect(channels [][]float64, p Params) ([]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, nil
	}

	candidates := make([][]int, len(channels))
	var g errgroup.Group
	for i, ch := range channels {
		g.Go(func() error {
			c, err := FindCandidates(ch, p)
			if err != nil {
				return fmt.Errorf("channel %d: %w", i, err)
			}
			candidates[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Fuse(candidates, p.Window()), nil
}

// DetectMatrix runs [Detect] on the rows of m.
func DetectMatrix(m *linalg.Matrix, p Params) ([]int, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return Detect(m.ToRows(), p)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
