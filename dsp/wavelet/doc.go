// Package wavelet implements the multi-level discrete wavelet transform used
// to isolate frequency bands of EEG channels.
//
// A decomposition repeatedly splits the running approximation into a
// half-rate approximation and a half-rate detail with
// [conv.MirrorDownConvolve]. [Deconstruct] returns all levels packed into one
// [Coefficients] vector, coarsest approximation first:
//
//	[cA_L | cD_L | cD_L-1 | ... | cD_1]
//
// [ReconstructPartial] synthesizes a single band back at signal length: the
// approximation at some level, or one detail level on its own. Summing the
// coarsest approximation and every detail band reproduces the signal.
//
// The bundled wavelets are orthogonal Daubechies, Symlet and Coiflet
// filters; coif3 (18 taps) is the wavelet the blink detector uses.
package wavelet
