// Command icarun separates the variables of a CSV matrix into independent
// components.
//
// The input holds one observation per line and one value per variable. The
// sources, the unmixing matrix and the mixing matrix are written next to the
// output prefix as <prefix>_S.csv, <prefix>_W.csv and <prefix>_A.csv, each
// in the same line-per-column layout.
//
// Usage:
//
//	icarun [flags] -in observations.csv -prefix out/run1
//
// Examples:
//
//	icarun -in x.csv -prefix x
//	icarun -impl jade -in x.csv -prefix x-jade
//	icarun -contrast cube -eps 1e-6 -max-iter 1000 -in x.csv -prefix x
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/algo-eeg/config"
	"github.com/cwbudde/algo-eeg/ica"
	"github.com/cwbudde/algo-eeg/linalg"
	"github.com/cwbudde/algo-eeg/stats"
)

func main() {
	err := run(os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fset := flag.NewFlagSet("icarun", flag.ContinueOnError)
	fset.SetOutput(stderr)
	in := fset.String("in", "", "observation matrix (CSV, one observation per line)")
	prefix := fset.String("prefix", "", "output file prefix")
	configPath := fset.String("config", "", "YAML configuration file; flags override its ica section")
	impl := fset.String("impl", "", "implementation: fastica or jade")
	contrast := fset.String("contrast", "", "FastICA contrast: tanh, cube or gauss")
	eps := fset.Float64("eps", 0, "FastICA convergence threshold")
	maxIter := fset.Int("max-iter", 0, "iteration limit")
	verbose := fset.Bool("v", false, "log debug output")
	fset.Usage = func() {
		fmt.Fprintf(stderr, "Usage: icarun [flags] -in observations.csv -prefix out\n\n")
		fmt.Fprintf(stderr, "Runs FastICA or JADE on a CSV matrix and writes S, W and A.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fset.PrintDefaults()
	}
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *in == "" || *prefix == "" {
		fset.Usage()
		return errors.New("missing -in or -prefix")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.LoadFile(*configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	p := cfg.ICAParams()
	if *impl != "" {
		v, err := ica.ParseImplementation(*impl)
		if err != nil {
			return err
		}
		p.Implementation = v
	}
	if *contrast != "" {
		v, err := ica.ParseContrast(*contrast)
		if err != nil {
			return err
		}
		p.Contrast = v
	}
	if *eps > 0 {
		p.Epsilon = *eps
	}
	if *maxIter > 0 {
		p.MaxIterations = *maxIter
	}

	x, err := readMatrix(*in)
	if err != nil {
		return err
	}
	logger.Debug("observations loaded", "variables", x.Rows, "observations", x.Cols)

	s := ica.NewSession()
	defer s.Shutdown()
	if err := s.Init(p); err != nil {
		return err
	}
	start := time.Now()
	res, err := s.Run(x)
	if err != nil {
		return err
	}
	logger.Info("ica finished",
		"implementation", p.Implementation,
		"iterations", res.Iterations,
		"clamped_eigenvalues", res.ClampedEigenvalues,
		"elapsed", time.Since(start))
	if !res.Finite() {
		logger.Warn("result contains non-finite values")
	}
	for i, c := range stats.Rows(res.S) {
		logger.Debug("source", "index", i, "kurtosis", c.Kurtosis, "skewness", c.Skewness)
	}

	for _, out := range []struct {
		suffix string
		m      *linalg.Matrix
	}{
		{"_S.csv", res.S},
		{"_W.csv", res.W},
		{"_A.csv", res.A},
	} {
		if err := writeMatrix(*prefix+out.suffix, out.m); err != nil {
			return err
		}
	}
	return nil
}

func readMatrix(path string) (*linalg.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := linalg.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func writeMatrix(path string, m *linalg.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := linalg.WriteCSV(f, m); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
