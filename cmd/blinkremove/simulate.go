package main

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-eeg/dsp/core"
	"github.com/cwbudde/algo-eeg/dsp/signal"
	"github.com/cwbudde/algo-eeg/recording"
)

const simulatedRate = 256

var simulatedLabels = []string{"FP1", "FP2", "F3", "F4", "F7", "F8"}

// simulatedMixing weights the sources blink, alpha and four Laplacian
// background sources onto the frontal electrodes. The blink is strongest on
// the fronto-polar channels.
var simulatedMixing = [][]float64{
	{1.0, 0.3, 0.5, 0.2, 0.1, 0.1},
	{0.9, 0.3, 0.1, 0.5, 0.2, 0.1},
	{0.3, 0.6, 0.4, 0.1, 0.6, 0.2},
	{0.3, 0.5, 0.1, 0.4, 0.2, 0.7},
	{0.4, 0.2, 0.7, 0.3, 0.3, 0.3},
	{0.4, 0.2, 0.2, 0.7, 0.1, 0.4},
}

// simulate builds a frontal montage with a blink every three seconds.
func simulate(seconds float64, seed int64) (*recording.Recording, error) {
	g := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(simulatedRate)},
		signal.WithSeed(seed),
	)
	n := g.Config().Samples(seconds)
	if n <= 0 {
		return nil, fmt.Errorf("simulated duration must be > 0: %g", seconds)
	}

	blinks, err := g.BlinkTrain(150, n, g.BlinkPositions(1.5, 3, n)...)
	if err != nil {
		return nil, err
	}
	alpha, err := g.Sine(10, 10, n)
	if err != nil {
		return nil, err
	}
	sources := [][]float64{blinks, alpha}
	for k := range 4 {
		g.SetSeed(seed + int64(k) + 1)
		bg, err := g.Laplace(3, n)
		if err != nil {
			return nil, err
		}
		sources = append(sources, bg)
	}

	channels, err := signal.Mix(simulatedMixing, sources)
	if err != nil {
		return nil, err
	}
	rec := &recording.Recording{
		PatientID:   "X X X simulated",
		RecordingID: fmt.Sprintf("Startdate X X X seed=%d", seed),
		Start:       time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Signals:     make([]recording.Signal, len(channels)),
	}
	for i, data := range channels {
		rec.Signals[i] = recording.Signal{
			Label:      simulatedLabels[i],
			Transducer: "AgAgCl electrode",
			Unit:       "uV",
			SampleRate: simulatedRate,
			Data:       data,
		}
	}
	return rec, nil
}
