// Package blink locates eyeblink artifacts in frontal EEG and removes them
// through an independent component decomposition.
//
// Detection works per derived frontal channel (for example FP1-F3). Each
// channel is decomposed with the coif3 wavelet to level 7. The level-3
// approximation carries the blink shape. The enveloped details of levels 5
// to 7 form an activity signal that is compared against its own moving
// average plus [Params.ChannelThreshold]. The minimum of the approximation
// inside each supra-threshold interval is a candidate. Candidates whose
// neighbourhood correlates with a triangular blink [Template] above
// [Params.CorrelationThreshold] survive. A blink is confirmed when every
// channel reports a candidate within [Params.Window] samples.
//
// [Remove] runs detection and ICA concurrently. It picks the source that best
// matches the blink template, locates the blinks in that source and flattens
// them. Then it mixes the sources back into cleaned EEG.
package blink
