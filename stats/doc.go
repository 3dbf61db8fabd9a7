// Package stats summarizes EEG channels in the time domain.
//
// Moments are accumulated with Welford's online update, so block-wise
// accumulation through [Accumulator] gives the same result as [Calculate]
// on the concatenated samples.
package stats
