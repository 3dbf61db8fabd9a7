package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-eeg/blink"
	"github.com/cwbudde/algo-eeg/config"
	"github.com/cwbudde/algo-eeg/recording"
	"github.com/cwbudde/algo-eeg/session"
	"github.com/cwbudde/algo-eeg/stats"
)

type summary struct {
	mode         string
	channels     int
	samples      int
	sampleRate   float64
	blinks       int
	sourceBlinks int
	source       int
	iterations   int
	clamped      int
	skipped      string
	perChannel   []channelSummary
}

type channelSummary struct {
	label      string
	raw, clean stats.Channel
}

// channelSummaries pairs the statistics of every input signal with those of
// its cleaned counterpart.
func channelSummaries(rec *recording.Recording, clean []stats.Channel) []channelSummary {
	out := make([]channelSummary, len(rec.Signals))
	for i := range rec.Signals {
		out[i] = channelSummary{
			label: rec.Signals[i].Label,
			raw:   stats.Calculate(rec.Signals[i].Data),
			clean: clean[i],
		}
	}
	return out
}

// blinkParams takes the sample rate from rec unless the configuration
// overrides it.
func blinkParams(cfg config.Config, rec *recording.Recording) (blink.Params, error) {
	bp := cfg.BlinkParams()
	if bp.SampleRate <= 0 {
		fs, err := rec.SampleRate()
		if err != nil {
			return blink.Params{}, err
		}
		bp.SampleRate = fs
	}
	return bp, bp.Validate()
}

// passThrough returns an unchanged copy of rec when a channel needed for
// blink detection is absent. The recording then has no detectable blinks.
func passThrough(rec *recording.Recording, mode string, bp blink.Params, cause error, logger *slog.Logger) (*recording.Recording, summary, error) {
	n, err := rec.Samples()
	if err != nil {
		return nil, summary{}, err
	}
	logger.Warn("blink detection skipped", "error", cause)
	out := rec.Clone()
	cleanStats := make([]stats.Channel, len(out.Signals))
	for i := range out.Signals {
		cleanStats[i] = stats.Calculate(out.Signals[i].Data)
	}
	return out, summary{
		mode:       mode,
		channels:   len(rec.Signals),
		samples:    n,
		sampleRate: bp.SampleRate,
		skipped:    cause.Error(),
		perChannel: channelSummaries(rec, cleanStats),
	}, nil
}

// clean removes blinks from the whole recording in one pass.
func clean(ctx context.Context, rec *recording.Recording, cfg config.Config, logger *slog.Logger) (*recording.Recording, summary, error) {
	bp, err := blinkParams(cfg, rec)
	if err != nil {
		return nil, summary{}, err
	}
	pairs, err := cfg.DerivationPairs()
	if err != nil {
		return nil, summary{}, err
	}
	derived, err := recording.DerivedChannels(rec, pairs...)
	if errors.Is(err, recording.ErrChannelNotFound) {
		return passThrough(rec, "batch", bp, err, logger)
	}
	if err != nil {
		return nil, summary{}, err
	}
	x, err := rec.Matrix()
	if err != nil {
		return nil, summary{}, err
	}
	keep := rec.Indices(cfg.Blink.Keep...)

	logger.Debug("removing blinks", "implementation", cfg.ICA.Implementation,
		"contrast", cfg.ICA.Contrast, "pairs", len(pairs), "keep", keep)
	removal, err := blink.Remove(ctx, x, derived, keep, cfg.ICAParams(), bp)
	if err != nil {
		return nil, summary{}, err
	}
	out := rec.Clone()
	if err := out.SetMatrix(removal.R); err != nil {
		return nil, summary{}, err
	}
	logger.Info("blinks removed", "blinks", removal.Count(), "source", removal.Source,
		"iterations", removal.ICA.Iterations)

	cleanStats := make([]stats.Channel, len(out.Signals))
	for i := range out.Signals {
		cleanStats[i] = stats.Calculate(out.Signals[i].Data)
	}

	return out, summary{
		mode:         "batch",
		channels:     x.Rows,
		samples:      x.Cols,
		sampleRate:   bp.SampleRate,
		blinks:       removal.Count(),
		sourceBlinks: len(removal.SourceBlinks),
		source:       removal.Source,
		iterations:   removal.ICA.Iterations,
		clamped:      removal.ICA.ClampedEigenvalues,
		perChannel:   channelSummaries(rec, cleanStats),
	}, nil
}

// streamClean feeds rec to a session processor in chunks and assembles the
// output from the fresh samples of every update.
func streamClean(ctx context.Context, rec *recording.Recording, cfg config.Config, logger *slog.Logger) (*recording.Recording, summary, error) {
	bp, err := blinkParams(cfg, rec)
	if err != nil {
		return nil, summary{}, err
	}
	pairs, err := cfg.DerivationPairs()
	if err != nil {
		return nil, summary{}, err
	}
	derivations := make([]session.Derivation, len(pairs))
	for i, p := range pairs {
		l, err := rec.Index(p.Left)
		if err != nil {
			return passThrough(rec, "stream", bp, fmt.Errorf("derivation %s: %w", p, err), logger)
		}
		r, err := rec.Index(p.Right)
		if err != nil {
			return passThrough(rec, "stream", bp, fmt.Errorf("derivation %s: %w", p, err), logger)
		}
		derivations[i] = session.Derivation{Left: l, Right: r}
	}
	n, err := rec.Samples()
	if err != nil {
		return nil, summary{}, err
	}

	proc, err := session.New(len(rec.Signals),
		session.WithICAParams(cfg.ICAParams()),
		session.WithBlinkParams(bp),
		session.WithWindowSeconds(cfg.Session.WindowSeconds),
		session.WithTailSeconds(cfg.Session.TailSeconds),
		session.WithDerivations(derivations...),
		session.WithKeep(rec.Indices(cfg.Blink.Keep...)...),
		session.WithLogger(logger),
	)
	if err != nil {
		return nil, summary{}, err
	}

	chunk := max(1, int(math.Round(cfg.Session.ChunkSeconds*bp.SampleRate)))
	in := make(chan [][]float64)
	out := rec.Clone()
	written := 0
	acc := make([]stats.Accumulator, len(rec.Signals))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(in)
		for start := 0; start < n; start += chunk {
			end := min(n, start+chunk)
			c := make([][]float64, len(rec.Signals))
			for i := range rec.Signals {
				c[i] = rec.Signals[i].Data[start:end]
			}
			select {
			case in <- c:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		return proc.Run(gctx, in, func(u session.Update) error {
			for i := range out.Signals {
				fresh := u.Tail[i][len(u.Tail[i])-u.New:]
				copy(out.Signals[i].Data[written:], fresh)
				acc[i].Update(fresh)
			}
			written += u.New
			if u.Processed {
				logger.Debug("chunk cleaned", "samples", written, "blinks", u.Stats.Blinks)
			}
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return nil, summary{}, err
	}

	cleanStats := make([]stats.Channel, len(acc))
	for i := range acc {
		cleanStats[i] = acc[i].Result()
	}
	st := proc.Stats()
	logger.Info("stream finished", "samples", written, "window_blinks", st.Blinks)
	return out, summary{
		mode:         "stream",
		channels:     len(rec.Signals),
		samples:      written,
		sampleRate:   bp.SampleRate,
		blinks:       st.Blinks,
		sourceBlinks: st.SourceBlinks,
		source:       st.Source,
		iterations:   st.Iterations,
		perChannel:   channelSummaries(rec, cleanStats),
	}, nil
}

func printSummary(w io.Writer, s summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "mode\t%s\n", s.mode)
	fmt.Fprintf(tw, "channels\t%d\n", s.channels)
	fmt.Fprintf(tw, "samples\t%d\n", s.samples)
	fmt.Fprintf(tw, "sample rate\t%g Hz\n", s.sampleRate)
	fmt.Fprintf(tw, "blinks\t%d\n", s.blinks)
	fmt.Fprintf(tw, "source blinks\t%d\n", s.sourceBlinks)
	fmt.Fprintf(tw, "blink source\t%d\n", s.source)
	fmt.Fprintf(tw, "ica iterations\t%d\n", s.iterations)
	if s.clamped > 0 {
		fmt.Fprintf(tw, "clamped eigenvalues\t%d\n", s.clamped)
	}
	if s.skipped != "" {
		fmt.Fprintf(tw, "skipped\t%s\n", s.skipped)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(s.perChannel) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Channel\tRaw Peak\tClean Peak\tAttenuation [dB]\tRaw Kurtosis\tClean Kurtosis\n")
	fmt.Fprintf(tw, "-------\t--------\t----------\t----------------\t------------\t--------------\n")
	for _, c := range s.perChannel {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n", c.label,
			c.raw.Peak, c.clean.Peak, stats.AttenuationDB(c.raw, c.clean), c.raw.Kurtosis, c.clean.Kurtosis)
	}
	return tw.Flush()
}
