// Command blinkremove removes eye blink artifacts from EEG recordings.
//
// Usage:
//
//	blinkremove [flags] -out cleaned.edf
//
// The input is an EDF file, or a CSV file with one line per sample and one
// value per channel when its name ends in ".csv". The output format follows
// the same rule. With -simulate a synthetic frontal montage with regular
// blinks replaces the input. A recording without the channels of the
// detection derivations is written unchanged and reported with 0 blinks.
//
// Examples:
//
//	blinkremove -in night.edf -out night-clean.edf
//	blinkremove -config jade.yaml -in night.edf -out night-clean.edf
//	blinkremove -in eeg.csv -fs 256 -labels FP1,FP2,F3,F4,F7,F8 -out clean.csv
//	blinkremove -simulate -raw raw.edf -out clean.edf
//	blinkremove -stream -in night.edf -out night-clean.edf
//	blinkremove -dump-config > blinkremove.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cwbudde/algo-eeg/config"
	"github.com/cwbudde/algo-eeg/recording"
)

type options struct {
	in, out, raw string
	configPath   string
	sampleRate   float64
	labels       string
	simulate     bool
	duration     float64
	seed         int64
	stream       bool
	verbose      bool
	dumpConfig   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	switch {
	case errors.Is(err, flag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options
	fset := flag.NewFlagSet("blinkremove", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&opts.in, "in", "", "input recording (.edf or .csv)")
	fset.StringVar(&opts.out, "out", "", "output recording (.edf or .csv)")
	fset.StringVar(&opts.raw, "raw", "", "also write the simulated input to this file")
	fset.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fset.Float64Var(&opts.sampleRate, "fs", 0, "sample rate of CSV input in Hz")
	fset.StringVar(&opts.labels, "labels", "", "comma-separated channel labels of CSV input")
	fset.BoolVar(&opts.simulate, "simulate", false, "generate a synthetic recording instead of reading -in")
	fset.Float64Var(&opts.duration, "duration", 30, "length of the simulated recording in seconds")
	fset.Int64Var(&opts.seed, "seed", 1, "random seed of the simulated recording")
	fset.BoolVar(&opts.stream, "stream", false, "clean chunk by chunk over a sliding window")
	fset.BoolVar(&opts.verbose, "v", false, "log debug output")
	fset.BoolVar(&opts.dumpConfig, "dump-config", false, "print the effective configuration and exit")
	fset.Usage = func() {
		fmt.Fprintf(stderr, "Usage: blinkremove [flags] -out output\n\n")
		fmt.Fprintf(stderr, "Removes eye blink artifacts from EEG using ICA and wavelet blink detection.\n")
		fmt.Fprintf(stderr, "Files ending in .csv hold one sample per line; anything else is EDF.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fset.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  blinkremove -in night.edf -out night-clean.edf\n")
		fmt.Fprintf(stderr, "  blinkremove -in eeg.csv -fs 256 -labels FP1,FP2,F3,F4,F7,F8 -out clean.csv\n")
		fmt.Fprintf(stderr, "  blinkremove -simulate -raw raw.edf -out clean.edf\n")
		fmt.Fprintf(stderr, "  blinkremove -stream -in night.edf -out night-clean.edf\n")
	}
	if err := fset.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if opts.configPath != "" {
		c, err := config.LoadFile(opts.configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	if opts.dumpConfig {
		return config.Write(stdout, cfg)
	}

	if opts.out == "" {
		fset.Usage()
		return errors.New("missing -out")
	}

	var (
		rec *recording.Recording
		err error
	)
	switch {
	case opts.simulate:
		rec, err = simulate(opts.duration, opts.seed)
		if err == nil && opts.raw != "" {
			err = writeRecording(opts.raw, rec)
		}
	case opts.in == "":
		fset.Usage()
		return errors.New("missing -in (or -simulate)")
	default:
		rec, err = readRecording(opts.in, opts.labels, opts.sampleRate)
	}
	if err != nil {
		return err
	}
	logger.Debug("recording loaded", "channels", len(rec.Signals), "labels", rec.Labels())

	var (
		cleaned *recording.Recording
		sum     summary
	)
	if opts.stream {
		cleaned, sum, err = streamClean(ctx, rec, cfg, logger)
	} else {
		cleaned, sum, err = clean(ctx, rec, cfg, logger)
	}
	if err != nil {
		return err
	}
	if err := writeRecording(opts.out, cleaned); err != nil {
		return err
	}
	return printSummary(stdout, sum)
}
