package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-eeg/linalg"
	"github.com/cwbudde/algo-eeg/recording"
)

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// readRecording loads an EDF file, or a CSV matrix labelled with labels and
// sampled at fs.
func readRecording(path, labels string, fs float64) (*recording.Recording, error) {
	if !isCSV(path) {
		return recording.ReadEDFFile(path)
	}
	if fs <= 0 {
		return nil, fmt.Errorf("CSV input %s needs -fs", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := linalg.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	names := channelLabels(labels, m.Rows)
	if len(names) != m.Rows {
		return nil, fmt.Errorf("%s: %d labels for %d channels", path, len(names), m.Rows)
	}
	rec := &recording.Recording{Signals: make([]recording.Signal, m.Rows)}
	for i := range rec.Signals {
		rec.Signals[i] = recording.Signal{
			Label:      names[i],
			Unit:       "uV",
			SampleRate: fs,
			Data:       m.Row(i, nil),
		}
	}
	return rec, nil
}

// channelLabels splits a comma-separated list, or numbers n channels CH1..CHn.
func channelLabels(list string, n int) []string {
	if strings.TrimSpace(list) == "" {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("CH%d", i+1)
		}
		return out
	}
	parts := strings.Split(list, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func writeRecording(path string, rec *recording.Recording) error {
	if !isCSV(path) {
		return recording.WriteEDFFile(path, rec)
	}
	m, err := rec.Matrix()
	if err != nil {
		return err
	}
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
