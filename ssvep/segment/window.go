package segment

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidWindow is returned for window sizes or durations that give no
// samples, and for ragged window data.
var ErrInvalidWindow = errors.New("segment: invalid window")

// Window is an immutable channel-major block of samples.
type Window struct {
	data       [][]float64
	start      int64
	sampleRate float64
}

// NewWindow wraps data without copying. data must be non-empty and
// rectangular; the caller must not modify it afterwards.
func NewWindow(data [][]float64, start int64, sampleRate float64) (*Window, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidWindow)
	}
	for ch := range data {
		if len(data[ch]) != len(data[0]) {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrInvalidWindow, ch, len(data[ch]), len(data[0]))
		}
	}
	return &Window{data: data, start: start, sampleRate: sampleRate}, nil
}

// Channels returns the channel count.
func (w *Window) Channels() int { return len(w.data) }

// Samples returns the number of samples per channel.
func (w *Window) Samples() int { return len(w.data[0]) }

// Start returns the absolute stream index of the first sample.
func (w *Window) Start() int64 { return w.start }

// SampleRate returns the sampling rate in Hz.
func (w *Window) SampleRate() float64 { return w.sampleRate }

// Duration returns the time span covered by the window.
func (w *Window) Duration() time.Duration {
	return time.Duration(float64(w.Samples()) / w.sampleRate * float64(time.Second))
}

// Channel returns channel ch. The slice is shared and must not be modified.
func (w *Window) Channel(ch int) []float64 { return w.data[ch] }

// Data returns the channel-major samples. The slices are shared and must
// not be modified.
func (w *Window) Data() [][]float64 { return w.data }

// WithData returns a window with the same position and sample rate carrying
// data, e.g. the filtered version of w.
func (w *Window) WithData(data [][]float64) (*Window, error) {
	return NewWindow(data, w.start, w.sampleRate)
}

// SamplesFor returns round(sampleRate * d), the window length for a segment
// duration d.
func SamplesFor(sampleRate float64, d time.Duration) (int, error) {
	n := int(math.Round(sampleRate * d.Seconds()))
	if n <= 0 {
		return 0, fmt.Errorf("%w: %v at %g Hz gives %d samples", ErrInvalidWindow, d, sampleRate, n)
	}
	return n, nil
}
