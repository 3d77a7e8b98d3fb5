// Package stream defines the read side of a multichannel sample stream and
// two implementations: an in-memory buffer fed by an acquisition goroutine
// and a playback source backed by a recorded CSV session.
//
// Samples are addressed by absolute index from the start of the stream.
// Consumers read either the most recent n samples ([Source.Recent]) or
// everything after a cursor they own ([Source.Since]); neither call removes
// data, so several consumers can share one source.
package stream
