// Package conv provides the convolution kernels behind the wavelet transform
// and the blink detector's adaptive threshold.
//
//   - [MirrorDownConvolve]: convolution with symmetric boundary extension and
//     simultaneous downsampling by two (one analysis step of a DWT)
//   - [MirrorUpConvolve]: upsampling by two followed by convolution with
//     symmetric boundary extension (one synthesis step of a DWT)
//   - [Direct] and [OverlapAdd]: plain linear convolution, time domain or FFT
//   - [MovingAverage]: box-filter smoothing over a mirrored signal
//
// # Boundary handling
//
// The mirror kernels reflect the input instead of padding it with zeros or
// wrapping it around. The down-sampling kernel reflects about the first and
// last samples (x[-1] = x[1]); the up-sampling kernel reflects about the
// boundary before the first sample (x[-1] = x[0]) and about the last sample.
// Wavelet coefficients depend on this exact policy.
//
// # Usage
//
//	out := make([]float64, conv.MirrorDownLen(len(x), len(f)))
//	err := conv.MirrorDownConvolve(out, x, f)
//
//	avg, err := conv.MovingAverageMirror(energy, 256, 255)
package conv
