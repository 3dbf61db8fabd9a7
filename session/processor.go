package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eeg/blink"
	"github.com/cwbudde/algo-eeg/dsp/core"
	"github.com/cwbudde/algo-eeg/ica"
	"github.com/cwbudde/algo-eeg/linalg"
)

// Errors returned by the processor.
var (
	ErrInvalidConfig = errors.New("session: invalid configuration")
	ErrChannelCount  = errors.New("session: channel count mismatch")
	ErrNotEnoughData = errors.New("session: not enough buffered samples")
)

// Derivation is a bipolar channel Left − Right given as row indices.
type Derivation struct {
	Left, Right int
}

// Stats summarizes the last successful step.
type Stats struct {
	Samples      int
	Blinks       int
	SourceBlinks int
	Source       int
	Iterations   int
}

// Update is passed to the emit callback of [Processor.Run].
type Update struct {
	// Tail holds the most recent processed samples of every channel.
	Tail [][]float64
	// New is the number of trailing samples in Tail that arrived with the
	// chunk that triggered this update.
	New int
	// Processed is false while the window is still shorter than the
	// minimum and Tail carries raw samples.
	Processed bool
	Stats     Stats
}

// Processor cleans a sliding window of multichannel EEG. It is safe for
// concurrent use.
type Processor struct {
	channels    int
	derivations []Derivation
	keep        []int
	logger      *slog.Logger

	cfg         core.ProcessorConfig
	tailSeconds float64
	minSeconds  float64

	icaMu     sync.Mutex
	icaParams ica.Params

	blinkMu     sync.Mutex
	blinkParams blink.Params

	winMu sync.Mutex
	raw   [][]float64

	outMu     sync.Mutex
	processed [][]float64
	stats     Stats
}

// Option configures a Processor.
type Option func(*Processor)

// WithICAParams sets the initial ICA configuration.
func WithICAParams(p ica.Params) Option {
	return func(pr *Processor) { pr.icaParams = p }
}

// WithBlinkParams sets the initial blink configuration. Its sample rate
// also defines the window length in samples.
func WithBlinkParams(p blink.Params) Option {
	return func(pr *Processor) { pr.blinkParams = p }
}

// WithWindowSeconds sets the length of the reprocessed window.
func WithWindowSeconds(s float64) Option {
	return func(pr *Processor) { pr.cfg.WindowSeconds = s }
}

// WithTailSeconds sets how much processed output an update carries.
func WithTailSeconds(s float64) Option {
	return func(pr *Processor) { pr.tailSeconds = s }
}

// WithMinSeconds sets how much data must be buffered before processing.
func WithMinSeconds(s float64) Option {
	return func(pr *Processor) { pr.minSeconds = s }
}

// WithDerivations sets the detection channels.
func WithDerivations(d ...Derivation) Option {
	return func(pr *Processor) { pr.derivations = append([]Derivation(nil), d...) }
}

// WithKeep lists rows restored unchanged after cleaning.
func WithKeep(rows ...int) Option {
	return func(pr *Processor) { pr.keep = append([]int(nil), rows...) }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(pr *Processor) {
		if l != nil {
			pr.logger = l
		}
	}
}

// New returns a processor for the given number of channels.
func New(channels int, opts ...Option) (*Processor, error) {
	p := &Processor{
		channels:    channels,
		logger:      slog.New(slog.DiscardHandler),
		cfg:         core.DefaultProcessorConfig(),
		tailSeconds: 2,
		minSeconds:  2,
		icaParams:   ica.DefaultParams(),
		blinkParams: blink.DefaultParams(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.cfg.SampleRate = p.blinkParams.SampleRate

	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidConfig, channels)
	}
	if len(p.derivations) == 0 {
		return nil, fmt.Errorf("%w: no derivations", ErrInvalidConfig)
	}
	for _, d := range p.derivations {
		if d.Left < 0 || d.Left >= channels || d.Right < 0 || d.Right >= channels {
			return nil, fmt.Errorf("%w: derivation %d-%d outside %d channels", ErrInvalidConfig, d.Left, d.Right, channels)
		}
	}
	for _, k := range p.keep {
		if k < 0 || k >= channels {
			return nil, fmt.Errorf("%w: keep row %d outside %d channels", ErrInvalidConfig, k, channels)
		}
	}
	if !(p.cfg.WindowSeconds > 0) || !(p.tailSeconds > 0) || p.minSeconds < 0 {
		return nil, fmt.Errorf("%w: window %gs, tail %gs, minimum %gs", ErrInvalidConfig,
			p.cfg.WindowSeconds, p.tailSeconds, p.minSeconds)
	}
	if err := p.icaParams.Validate(); err != nil {
		return nil, err
	}
	if err := p.blinkParams.Validate(); err != nil {
		return nil, err
	}
	p.raw = make([][]float64, channels)
	return p, nil
}

// ICAParams returns the current ICA configuration.
func (p *Processor) ICAParams() ica.Params {
	p.icaMu.Lock()
	defer p.icaMu.Unlock()
	return p.icaParams
}

// SetICAParams replaces the ICA configuration used by subsequent steps.
func (p *Processor) SetICAParams(ip ica.Params) error {
	if err := ip.Validate(); err != nil {
		return err
	}
	p.icaMu.Lock()
	p.icaParams = ip
	p.icaMu.Unlock()
	return nil
}

// BlinkParams returns the current blink configuration.
func (p *Processor) BlinkParams() blink.Params {
	p.blinkMu.Lock()
	defer p.blinkMu.Unlock()
	return p.blinkParams
}

// SetBlinkParams replaces the detection thresholds used by subsequent
// steps. The sample rate is fixed at construction.
func (p *Processor) SetBlinkParams(bp blink.Params) error {
	if bp.SampleRate != p.cfg.SampleRate {
		return fmt.Errorf("%w: sample rate %g, processor runs at %g", ErrInvalidConfig, bp.SampleRate, p.cfg.SampleRate)
	}
	if err := bp.Validate(); err != nil {
		return err
	}
	p.blinkMu.Lock()
	p.blinkParams = bp
	p.blinkMu.Unlock()
	return nil
}

// Append adds one chunk, a slice of equally long sample runs per channel, and
// drops samples older than the window.
func (p *Processor) Append(chunk [][]float64) error {
	if len(chunk) != p.channels {
		return fmt.Errorf("%w: got %d, want %d", ErrChannelCount, len(chunk), p.channels)
	}
	for i := range chunk {
		if len(chunk[i]) != len(chunk[0]) {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				blink.ErrLengthMismatch, i, len(chunk[i]), len(chunk[0]))
		}
	}
	limit := p.cfg.WindowSamples()
	p.winMu.Lock()
	defer p.winMu.Unlock()
	for i := range chunk {
		p.raw[i] = core.AppendWindow(p.raw[i], chunk[i], limit)
	}
	return nil
}

// Buffered returns the number of samples per channel in the window.
func (p *Processor) Buffered() int {
	p.winMu.Lock()
	defer p.winMu.Unlock()
	return len(p.raw[0])
}

// Step cleans the current window. On failure the published output is left
// untouched.
func (p *Processor) Step(ctx context.Context) (*blink.Removal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ip := p.ICAParams()
	bp := p.BlinkParams()

	p.winMu.Lock()
	n := len(p.raw[0])
	if n < max(2, p.cfg.Samples(p.minSeconds)) {
		p.winMu.Unlock()
		return nil, fmt.Errorf("%w: %d samples", ErrNotEnoughData, n)
	}
	x, err := linalg.NewFromRows(p.raw)
	p.winMu.Unlock()
	if err != nil {
		return nil, err
	}

	derived := make([][]float64, len(p.derivations))
	left := make([]float64, n)
	for i, d := range p.derivations {
		derived[i] = x.Row(d.Right, nil)
		vecmath.ScaleBlockInPlace(derived[i], -1)
		vecmath.AddBlockInPlace(derived[i], x.Row(d.Left, left))
	}

	res, err := blink.Remove(ctx, x, derived, p.keep, ip, bp)
	if err != nil {
		p.logger.Warn("reprocessing failed", "samples", n, "error", err)
		return nil, err
	}

	stats := Stats{
		Samples:      n,
		Blinks:       res.Count(),
		SourceBlinks: len(res.SourceBlinks),
		Source:       res.Source,
		Iterations:   res.ICA.Iterations,
	}
	p.outMu.Lock()
	p.processed = res.R.ToRows()
	p.stats = stats
	p.outMu.Unlock()

	p.logger.Debug("window reprocessed",
		"samples", n, "blinks", stats.Blinks, "source", stats.Source,
		"source_blinks", stats.SourceBlinks, "iterations", stats.Iterations)
	return res, nil
}

// Processed returns a copy of the last cleaned window.
func (p *Processor) Processed() [][]float64 {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	return copyTail(p.processed, -1)
}

// Stats returns the summary of the last successful step.
func (p *Processor) Stats() Stats {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	return p.stats
}

// Run appends every chunk received from in, reprocesses the window and calls
// emit with the most recent output. Until the minimum amount of data is
// buffered the raw samples are emitted instead. Run returns nil when in is
// closed, the context error on cancellation, and the first error of a step
// or of emit otherwise.
func (p *Processor) Run(ctx context.Context, in <-chan [][]float64, emit func(Update) error) error {
	tail := p.cfg.Samples(p.tailSeconds)
	for {
		var (
			chunk [][]float64
			ok    bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok = <-in:
			if !ok {
				return nil
			}
		}

		if err := p.Append(chunk); err != nil {
			return err
		}
		fresh := len(chunk[0])
		keep := max(tail, fresh)

		u := Update{New: fresh}
		_, err := p.Step(ctx)
		switch {
		case errors.Is(err, ErrNotEnoughData):
			p.winMu.Lock()
			u.Tail = copyTail(p.raw, keep)
			p.winMu.Unlock()
		case err != nil:
			return err
		default:
			p.outMu.Lock()
			u.Tail = copyTail(p.processed, keep)
			u.Stats = p.stats
			p.outMu.Unlock()
			u.Processed = true
		}
		u.New = min(u.New, len(u.Tail[0]))
		if err := emit(u); err != nil {
			return err
		}
	}
}

// copyTail copies the last n samples of every row; n < 0 copies all.
func copyTail(rows [][]float64, n int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		if n >= 0 {
			r = core.Tail(r, n)
		}
		out[i] = append([]float64(nil), r...)
	}
	return out
}
