// Package session reprocesses a sliding window of streaming EEG.
//
// A [Processor] buffers the most recent window of every channel. Each step
// copies the current configuration and window, cleans the window with
// [blink.Remove] and publishes the result. Configuration may change between
// steps from other goroutines; every resource is guarded by its own mutex so
// a long-running step never blocks configuration updates.
package session
