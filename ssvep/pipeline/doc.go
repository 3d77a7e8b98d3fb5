// Package pipeline runs the acquire, filter, classify and emit loop.
//
// A Pipeline pulls windows from a segment.Segmenter, runs them through a
// filter bank, classifies them and hands every decision to a Sink. It is
// single-threaded: one Run call processes one window at a time, and the only
// concurrency is between the acquisition goroutine appending to the source
// and the loop reading from it.
package pipeline
