// Command waveletinfo prints properties of the predefined wavelets and the
// frequency bands of a multi-level decomposition.
//
// Usage:
//
//	waveletinfo [flags] [wavelet-name ...]
//
// Without arguments it prints info for all known wavelets.
//
// Examples:
//
//	waveletinfo coif3
//	waveletinfo -size 5120 db4 sym4
//	waveletinfo -bands -fs 256 -level 7
//	waveletinfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eeg/dsp/signal"
	"github.com/cwbudde/algo-eeg/dsp/wavelet"
)

func main() {
	size := flag.Int("size", 5120, "signal length in samples")
	level := flag.Int("level", 7, "decomposition level")
	fs := flag.Float64("fs", 256, "sample rate in Hz for -bands")
	bands := flag.Bool("bands", false, "print the frequency band of every level")
	list := flag.Bool("list", false, "list available wavelet names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: waveletinfo [flags] [wavelet-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints filter length, usable depth and reconstruction error of wavelets.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints info for all wavelets.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  waveletinfo coif3\n")
		fmt.Fprintf(os.Stderr, "  waveletinfo -size 5120 db4 sym4\n")
		fmt.Fprintf(os.Stderr, "  waveletinfo -bands -fs 256 -level 7\n")
	}
	flag.Parse()

	if *list {
		for _, n := range wavelet.Names() {
			fmt.Println(n)
		}
		return
	}
	if *bands {
		if err := printBands(os.Stdout, *fs, *level); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	names := flag.Args()
	if len(names) == 0 {
		names = wavelet.Names()
	}
	var ws []*wavelet.Wavelet
	for _, name := range names {
		w, err := wavelet.Lookup(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (use -list to see available)\n", err)
			continue
		}
		ws = append(ws, w)
	}
	if len(ws) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching wavelets\n")
		os.Exit(1)
	}
	if err := printAnalysis(os.Stdout, ws, *size, *level); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// analysis describes one wavelet decomposition of a test signal.
type analysis struct {
	taps      int
	maxLevel  int
	level     int
	coeffs    int
	reconErr  float64
	bandError float64
}

func analyze(w *wavelet.Wavelet, size, level int) (analysis, error) {
	a := analysis{
		taps:     w.Len(),
		maxLevel: wavelet.MaxLevel(size, w.Len()),
		coeffs:   wavelet.ResultLength(size, w.Len(), level),
	}
	x, err := signal.NewGenerator().WhiteNoise(1, size)
	if err != nil {
		return a, err
	}
	c, err := wavelet.Deconstruct(x, w, level)
	if err != nil {
		return a, err
	}
	a.level = c.Level()

	full, err := wavelet.ReconstructPartial(c, wavelet.Approx, 0)
	if err != nil {
		return a, err
	}
	a.reconErr = maxAbsDiff(full, x)

	// The bands of all levels sum to the signal.
	sum, err := wavelet.ReconstructPartial(c, wavelet.Approx, c.Level())
	if err != nil {
		return a, err
	}
	for l := 1; l <= c.Level(); l++ {
		band, err := wavelet.ReconstructPartial(c, wavelet.Detail, l)
		if err != nil {
			return a, err
		}
		for i := range sum {
			sum[i] += band[i]
		}
	}
	a.bandError = maxAbsDiff(sum, x)
	return a, nil
}

func printAnalysis(w io.Writer, ws []*wavelet.Wavelet, size, level int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Wavelet\tTaps\tMax Level\tLevel\tCoefficients\tRecon Err\tBand Sum Err\n")
	fmt.Fprintf(tw, "-------\t----\t---------\t-----\t------------\t---------\t------------\n")
	for _, wv := range ws {
		a, err := analyze(wv, size, level)
		if err != nil {
			fmt.Fprintf(tw, "%s\t%d\t%d\t-\t-\t%v\t\n", wv.Name, a.taps, a.maxLevel, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.2e\t%.2e\n",
			wv.Name, a.taps, a.maxLevel, a.level, a.coeffs, a.reconErr, a.bandError)
	}
	return tw.Flush()
}

// printBands lists the nominal pass band of every detail level and of the
// final approximation for a dyadic decomposition at sample rate fs.
func printBands(w io.Writer, fs float64, level int) error {
	if !(fs > 0) || level < 1 {
		return fmt.Errorf("need fs > 0 and level >= 1, got %g Hz and %d", fs, level)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Band\tLow [Hz]\tHigh [Hz]\n")
	fmt.Fprintf(tw, "----\t--------\t---------\n")
	for l := 1; l <= level; l++ {
		hi := fs / math.Pow(2, float64(l))
		fmt.Fprintf(tw, "D%d\t%.3f\t%.3f\n", l, hi/2, hi)
	}
	fmt.Fprintf(tw, "A%d\t%.3f\t%.3f\n", level, 0.0, fs/math.Pow(2, float64(level+1)))
	return tw.Flush()
}

func maxAbsDiff(a, b []float64) float64 {
	d := make([]float64, len(b))
	vecmath.ScaleBlock(d, b, -1)
	vecmath.AddBlockInPlace(d, a)
	return vecmath.MaxAbs(d)
}
