package recording

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cwbudde/algo-eeg/linalg"
)

// Errors returned by this package.
var (
	ErrChannelNotFound = errors.New("recording: channel not found")
	ErrMixedRates      = errors.New("recording: signals have different sample rates")
	ErrLengthMismatch  = errors.New("recording: signals have different lengths")
	ErrEmpty           = errors.New("recording: no signals")
	ErrBadHeader       = errors.New("recording: malformed EDF header")
	ErrUnsupportedRate = errors.New("recording: sample rate is not a whole number of samples per second")
)

// Signal is one channel of a recording with its calibration.
type Signal struct {
	Label        string
	Transducer   string
	Unit         string
	Prefiltering string
	SampleRate   float64
	PhysicalMin  float64
	PhysicalMax  float64
	DigitalMin   int
	DigitalMax   int
	// Data holds physical values.
	Data []float64
}

// ToPhysical converts a stored digital sample to physical units.
func (s *Signal) ToPhysical(d int16) float64 {
	if s.DigitalMax == s.DigitalMin {
		return 0
	}
	scale := (s.PhysicalMax - s.PhysicalMin) / float64(s.DigitalMax-s.DigitalMin)
	return s.PhysicalMin + (float64(d)-float64(s.DigitalMin))*scale
}

// ToDigital converts a physical value to the nearest digital sample, clamped
// to the digital range.
func (s *Signal) ToDigital(v float64) int16 {
	if s.PhysicalMax == s.PhysicalMin {
		return 0
	}
	scale := float64(s.DigitalMax-s.DigitalMin) / (s.PhysicalMax - s.PhysicalMin)
	d := math.Round((v-s.PhysicalMin)*scale) + float64(s.DigitalMin)
	d = math.Max(float64(s.DigitalMin), math.Min(float64(s.DigitalMax), d))
	return int16(max(math.MinInt16, min(math.MaxInt16, d)))
}

// Recording is a set of signals with the EDF identification fields.
type Recording struct {
	PatientID   string
	RecordingID string
	Start       time.Time
	Signals     []Signal
}

// Labels returns the signal labels in order.
func (r *Recording) Labels() []string {
	out := make([]string, len(r.Signals))
	for i := range r.Signals {
		out[i] = r.Signals[i].Label
	}
	return out
}

// Index returns the index of the first signal whose label starts with
// prefix, ignoring case and surrounding blanks. An exact match takes
// precedence over a prefix match.
func (r *Recording) Index(prefix string) (int, error) {
	want := strings.ToUpper(strings.TrimSpace(prefix))
	if want == "" {
		return -1, fmt.Errorf("%w: empty label", ErrChannelNotFound)
	}
	found := -1
	for i := range r.Signals {
		label := strings.ToUpper(strings.TrimSpace(r.Signals[i].Label))
		if label == want {
			return i, nil
		}
		if found < 0 && strings.HasPrefix(label, want) {
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q", ErrChannelNotFound, prefix)
	}
	return found, nil
}

// Indices returns the indices of every signal matching one of the prefixes.
// Prefixes without a match are skipped.
func (r *Recording) Indices(prefixes ...string) []int {
	var out []int
	seen := make(map[int]bool)
	for _, p := range prefixes {
		if i, err := r.Index(p); err == nil && !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}

// SampleRate returns the rate shared by all signals.
func (r *Recording) SampleRate() (float64, error) {
	if len(r.Signals) == 0 {
		return 0, ErrEmpty
	}
	fs := r.Signals[0].SampleRate
	for i := range r.Signals[1:] {
		if r.Signals[i+1].SampleRate != fs {
			return 0, fmt.Errorf("%w: %q at %g Hz, %q at %g Hz", ErrMixedRates,
				r.Signals[0].Label, fs, r.Signals[i+1].Label, r.Signals[i+1].SampleRate)
		}
	}
	return fs, nil
}

// Samples returns the common signal length.
func (r *Recording) Samples() (int, error) {
	if len(r.Signals) == 0 {
		return 0, ErrEmpty
	}
	n := len(r.Signals[0].Data)
	for i := range r.Signals {
		if len(r.Signals[i].Data) != n {
			return 0, fmt.Errorf("%w: %q has %d samples, want %d", ErrLengthMismatch,
				r.Signals[i].Label, len(r.Signals[i].Data), n)
		}
	}
	return n, nil
}

// Matrix returns the signals as a channels×samples matrix.
func (r *Recording) Matrix() (*linalg.Matrix, error) {
	if _, err := r.Samples(); err != nil {
		return nil, err
	}
	rows := make([][]float64, len(r.Signals))
	for i := range r.Signals {
		rows[i] = r.Signals[i].Data
	}
	return linalg.NewFromRows(rows)
}

// SetMatrix replaces the signal data with the rows of m.
func (r *Recording) SetMatrix(m *linalg.Matrix) error {
	if m.Rows != len(r.Signals) {
		return fmt.Errorf("%w: %d rows for %d signals", linalg.ErrDimensionMismatch, m.Rows, len(r.Signals))
	}
	for i := range r.Signals {
		r.Signals[i].Data = m.Row(i, r.Signals[i].Data)
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Recording) Clone() *Recording {
	out := *r
	out.Signals = make([]Signal, len(r.Signals))
	for i, s := range r.Signals {
		s.Data = append([]float64(nil), s.Data...)
		out.Signals[i] = s
	}
	return &out
}
