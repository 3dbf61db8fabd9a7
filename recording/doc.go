// Package recording loads and stores multichannel EEG recordings in EDF and
// derives the bipolar frontal channels used for blink detection.
package recording
