// Package buffer provides an append-only sample history addressed by
// absolute sample index, with optional bounded retention.
//
// Index 0 is the first sample ever appended. When a retention limit is set,
// the oldest samples are discarded as new ones arrive, but indices keep
// counting from the start of the stream so readers holding a cursor can tell
// how far behind they are.
package buffer
