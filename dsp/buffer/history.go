package buffer

import (
	"errors"
	"fmt"
)

// ErrEvicted is returned when a requested range starts before the oldest
// retained sample.
var ErrEvicted = errors.New("buffer: samples evicted")

// History is a single-channel append-only sample store. It is not safe for
// concurrent use; callers synchronize.
type History struct {
	samples []float64
	base    int64 // absolute index of samples[0]
	retain  int
}

// NewHistory returns an empty history. retain > 0 bounds the number of
// samples kept; retain <= 0 keeps everything.
func NewHistory(retain int) *History {
	return &History{retain: max(retain, 0)}
}

// Append adds samples at the end of the history.
func (h *History) Append(xs ...float64) {
	h.samples = append(h.samples, xs...)
	if h.retain > 0 && len(h.samples) > 2*h.retain {
		h.compact()
	}
}

// compact drops everything but the newest retain samples, reusing the
// backing array.
func (h *History) compact() {
	drop := len(h.samples) - h.retain
	n := copy(h.samples, h.samples[drop:])
	h.samples = h.samples[:n]
	h.base += int64(drop)
}

// Total returns the absolute index one past the newest sample, i.e. the
// number of samples ever appended.
func (h *History) Total() int64 {
	return h.base + int64(len(h.samples))
}

// Oldest returns the absolute index of the oldest readable sample.
func (h *History) Oldest() int64 {
	if h.retain > 0 && len(h.samples) > h.retain {
		return h.Total() - int64(h.retain)
	}
	return h.base
}

// Len returns the number of readable samples.
func (h *History) Len() int {
	return int(h.Total() - h.Oldest())
}

// Range returns a copy of the samples with absolute indices [from, to).
func (h *History) Range(from, to int64) ([]float64, error) {
	if from > to || to > h.Total() {
		return nil, fmt.Errorf("buffer: range [%d, %d) outside [0, %d)", from, to, h.Total())
	}
	if from < h.Oldest() {
		return nil, fmt.Errorf("%w: index %d, oldest %d", ErrEvicted, from, h.Oldest())
	}
	out := make([]float64, to-from)
	copy(out, h.samples[from-h.base:to-h.base])
	return out, nil
}

// Tail returns a copy of the newest min(n, Len()) samples.
func (h *History) Tail(n int) []float64 {
	n = min(max(n, 0), h.Len())
	out := make([]float64, n)
	copy(out, h.samples[len(h.samples)-n:])
	return out
}
