package segment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-ssvep/internal/timeutil"
	"github.com/cwbudde/algo-ssvep/ssvep/stream"
)

// DefaultPollInterval bounds each sleep of the wall-clock policy.
const DefaultPollInterval = 20 * time.Millisecond

// Segmenter produces analysis windows from a stream.
type Segmenter interface {
	// Next returns the next window. A nil window with a nil error means no
	// full window is available yet and the caller should retry.
	Next(ctx context.Context) (*Window, error)
	// WindowSize returns the number of samples per channel in every window.
	WindowSize() int
}

// WallClock issues one window per segment duration of wall-clock time.
type WallClock struct {
	src      stream.Source
	duration time.Duration
	n        int
	poll     time.Duration
	clock    timeutil.Clock
	last     time.Time
}

type wallClockConfig struct {
	poll  time.Duration
	clock timeutil.Clock
}

// Option configures a WallClock segmenter.
type Option func(*wallClockConfig)

// WithPollInterval sets the longest single sleep while waiting. Non-positive
// values are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *wallClockConfig) {
		if d > 0 {
			cfg.poll = d
		}
	}
}

// WithClock sets the clock used for pacing.
func WithClock(c timeutil.Clock) Option {
	return func(cfg *wallClockConfig) { cfg.clock = c }
}

// NewWallClock creates a wall-clock segmenter. The first window is due one
// duration after construction.
func NewWallClock(src stream.Source, duration time.Duration, opts ...Option) (*WallClock, error) {
	n, err := SamplesFor(src.SampleRate(), duration)
	if err != nil {
		return nil, err
	}

	cfg := wallClockConfig{poll: DefaultPollInterval, clock: timeutil.RealClock{}}
	for _, o := range opts {
		o(&cfg)
	}

	return &WallClock{
		src:      src,
		duration: duration,
		n:        n,
		poll:     cfg.poll,
		clock:    cfg.clock,
		last:     cfg.clock.Now(),
	}, nil
}

// WindowSize returns the number of samples per window.
func (s *WallClock) WindowSize() int { return s.n }

// Next blocks until the segment duration has elapsed since the previous
// window and n samples are available, then returns the newest n samples.
// It returns stream.ErrClosed once the source is closed and ctx.Err() when
// ctx ends first; it never returns (nil, nil).
func (s *WallClock) Next(ctx context.Context) (*Window, error) {
	for {
		wait := s.duration - s.clock.Since(s.last)
		if wait <= 0 {
			data, start, err := s.src.Recent(s.n)
			if err != nil {
				return nil, err
			}
			if len(data[0]) == s.n {
				s.last = s.clock.Now()
				return NewWindow(data, start, s.src.SampleRate())
			}
			wait = s.poll
		}

		if err := s.clock.Sleep(ctx, min(wait, s.poll)); err != nil {
			return nil, err
		}
	}
}

// Continuous tiles the stream into disjoint consecutive windows.
type Continuous struct {
	src     stream.Source
	n       int
	cursor  int64 // next stream index to read from the source
	start   int64 // stream index of pending[*][0]
	pending [][]float64
	skipped int64
}

// NewContinuous creates a continuous segmenter emitting n-sample windows,
// starting at stream index 0.
func NewContinuous(src stream.Source, n int) (*Continuous, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: window size %d", ErrInvalidWindow, n)
	}
	return &Continuous{
		src:     src,
		n:       n,
		pending: make([][]float64, src.Channels()),
	}, nil
}

// WindowSize returns the number of samples per window.
func (s *Continuous) WindowSize() int { return s.n }

// Backlog returns the number of read but not yet emitted samples.
func (s *Continuous) Backlog() int { return len(s.pending[0]) }

// Skipped returns the number of samples that never made it into a window
// because of source eviction: the evicted samples plus any backlog they cut
// off from the rest of the stream.
func (s *Continuous) Skipped() int64 { return s.skipped }

// Next returns the next disjoint window, or (nil, nil) if fewer than n
// unread samples exist. It never blocks. If the source evicted unread
// samples, tiling restarts at the oldest retained one and the loss is
// counted in Skipped. Once the source is closed and the remainder cannot
// fill a window it returns stream.ErrClosed.
func (s *Continuous) Next(ctx context.Context) (*Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.Backlog() < s.n {
		data, next, err := s.src.Since(s.cursor)
		switch {
		case errors.Is(err, stream.ErrClosed):
			return nil, err
		case err != nil:
			return nil, fmt.Errorf("segment: read from %d: %w", s.cursor, err)
		}
		if first := next - int64(len(data[0])); first > s.cursor {
			// The backlog no longer joins up with the stream; restart there.
			s.skipped += first - s.start
			for ch := range s.pending {
				s.pending[ch] = s.pending[ch][:0]
			}
			s.start = first
		}
		for ch := range s.pending {
			s.pending[ch] = append(s.pending[ch], data[ch]...)
		}
		s.cursor = next
	}

	if s.Backlog() < s.n {
		return nil, nil
	}

	out := make([][]float64, len(s.pending))
	for ch := range s.pending {
		out[ch] = append([]float64(nil), s.pending[ch][:s.n]...)
		s.pending[ch] = s.pending[ch][s.n:]
	}
	w, err := NewWindow(out, s.start, s.src.SampleRate())
	if err != nil {
		return nil, err
	}
	s.start += int64(s.n)
	return w, nil
}
