package segment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/algo-ssvep/internal/timeutil"
	"github.com/cwbudde/algo-ssvep/ssvep/stream"
)

func newSource(t *testing.T, fs float64, channels int) *stream.Memory {
	t.Helper()
	src, err := stream.NewMemory("test", fs, channels)
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	return src
}

// ramp appends n samples per channel whose values equal their stream index.
func ramp(t *testing.T, src *stream.Memory, n int) {
	t.Helper()
	first := float64(src.Total())
	block := make([][]float64, src.Channels())
	for ch := range block {
		block[ch] = make([]float64, n)
		for k := range block[ch] {
			block[ch][k] = first + float64(k)
		}
	}
	if err := src.Append(block); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
}

func TestContinuous_TilesStream(t *testing.T) {
	src := newSource(t, 100, 2)
	seg, err := NewContinuous(src, 10)
	if err != nil {
		t.Fatalf("NewContinuous() error = %v", err)
	}
	ctx := context.Background()

	ramp(t, src, 35)

	for i := range 3 {
		w, err := seg.Next(ctx)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if w == nil {
			t.Fatalf("window %d: nil", i)
		}
		if w.Start() != int64(10*i) || w.Samples() != 10 || w.Channels() != 2 {
			t.Fatalf("window %d: start %d, %d×%d", i, w.Start(), w.Channels(), w.Samples())
		}
		for ch := range 2 {
			for k, v := range w.Channel(ch) {
				if v != float64(10*i+k) {
					t.Fatalf("window %d ch %d sample %d = %v", i, ch, k, v)
				}
			}
		}
	}

	// 5 samples left: insufficient, returned immediately.
	w, err := seg.Next(ctx)
	if w != nil || err != nil {
		t.Fatalf("Next() = %v, %v, want nil, nil", w, err)
	}
	if seg.Backlog() != 5 {
		t.Fatalf("Backlog() = %d, want 5", seg.Backlog())
	}

	ramp(t, src, 5)
	w, err = seg.Next(ctx)
	if err != nil || w == nil || w.Start() != 30 || w.Channel(0)[9] != 39 {
		t.Fatalf("Next() after refill = %v, %v", w, err)
	}
}

func TestContinuous_ClosedSource(t *testing.T) {
	src := newSource(t, 100, 1)
	seg, err := NewContinuous(src, 4)
	if err != nil {
		t.Fatalf("NewContinuous() error = %v", err)
	}
	ramp(t, src, 6)
	_ = src.Close()

	ctx := context.Background()
	if w, err := seg.Next(ctx); err != nil || w == nil {
		t.Fatalf("first Next() = %v, %v", w, err)
	}
	// Two samples remain; they can never fill a window.
	if w, err := seg.Next(ctx); w != nil || !errors.Is(err, stream.ErrClosed) {
		t.Fatalf("second Next() = %v, %v, want nil, ErrClosed", w, err)
	}
	if seg.Backlog() != 2 {
		t.Fatalf("Backlog() = %d, want 2", seg.Backlog())
	}
}

func TestContinuous_ResumesAfterEviction(t *testing.T) {
	src, err := stream.NewMemory("test", 100, 1, stream.WithRetention(20))
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	seg, err := NewContinuous(src, 8)
	if err != nil {
		t.Fatalf("NewContinuous() error = %v", err)
	}
	ctx := context.Background()

	ramp(t, src, 12)
	w, err := seg.Next(ctx)
	if err != nil || w == nil || w.Start() != 0 {
		t.Fatalf("first Next() = %v, %v, want window at 0", w, err)
	}

	// Samples 8..31 fall out of the retained history before they are read.
	ramp(t, src, 40)
	w, err = seg.Next(ctx)
	if err != nil || w == nil {
		t.Fatalf("Next() after eviction = %v, %v", w, err)
	}
	if w.Start() != 32 || w.Channel(0)[0] != 32 {
		t.Fatalf("window start = %d, first sample = %v, want 32, 32", w.Start(), w.Channel(0)[0])
	}
	if seg.Skipped() != 24 {
		t.Fatalf("Skipped() = %d, want 24", seg.Skipped())
	}

	w, err = seg.Next(ctx)
	if err != nil || w == nil || w.Start() != 40 || w.Channel(0)[0] != 40 {
		t.Fatalf("next window = %v, %v, want start 40", w, err)
	}
	if seg.Skipped() != 24 {
		t.Fatalf("Skipped() = %d after contiguous read, want 24", seg.Skipped())
	}
}

func TestContinuous_Validation(t *testing.T) {
	src := newSource(t, 100, 1)
	if _, err := NewContinuous(src, 0); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("NewContinuous() error = %v, want ErrInvalidWindow", err)
	}

	seg, _ := NewContinuous(src, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := seg.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Next() error = %v, want context.Canceled", err)
	}
}

func TestWallClock_WaitsForDurationThenTailReads(t *testing.T) {
	const fs = 100.0
	src := newSource(t, fs, 1)
	clock := timeutil.NewMockClock(time.Unix(0, 0))

	seg, err := NewWallClock(src, time.Second, WithClock(clock), WithPollInterval(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWallClock() error = %v", err)
	}
	if seg.WindowSize() != 100 {
		t.Fatalf("WindowSize() = %d, want 100", seg.WindowSize())
	}

	// Acquisition delivers 5 samples per 50 ms of wall time.
	clock.OnSleep(func(time.Time) { ramp(t, src, 5) })

	w, err := seg.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got := clock.Since(time.Unix(0, 0)); got != time.Second {
		t.Fatalf("first window after %v, want 1s", got)
	}
	for _, d := range clock.Sleeps() {
		if d > 50*time.Millisecond {
			t.Fatalf("sleep %v exceeds poll interval", d)
		}
	}
	if w.Samples() != 100 || w.Start() != 0 || w.Channel(0)[99] != 99 {
		t.Fatalf("window start %d, last %v", w.Start(), w.Channel(0)[w.Samples()-1])
	}
}

func TestWallClock_KeepsPollingOnShortfall(t *testing.T) {
	src := newSource(t, 100, 1)
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	seg, err := NewWallClock(src, 500*time.Millisecond, WithClock(clock))
	if err != nil {
		t.Fatalf("NewWallClock() error = %v", err)
	}

	// Nothing arrives for the first 1.2 s, then a burst.
	clock.OnSleep(func(now time.Time) {
		if now.Sub(time.Unix(0, 0)) == 1200*time.Millisecond {
			ramp(t, src, 80)
		}
	})

	w, err := seg.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if w.Samples() != 50 || w.Start() != 30 {
		t.Fatalf("window %d samples from %d, want 50 from 30", w.Samples(), w.Start())
	}
	if got := clock.Since(time.Unix(0, 0)); got != 1200*time.Millisecond {
		t.Fatalf("issued after %v, want 1.2s", got)
	}
}

func TestWallClock_Cadence(t *testing.T) {
	const fs = 250.0
	src := newSource(t, fs, 2)
	ramp(t, src, 250) // one second of history up front
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	clock.OnSleep(func(time.Time) { ramp(t, src, 5) }) // 20 ms of data per 20 ms poll

	d := 300 * time.Millisecond
	seg, err := NewWallClock(src, d, WithClock(clock))
	if err != nil {
		t.Fatalf("NewWallClock() error = %v", err)
	}

	const total = 10 * time.Second
	var (
		issued []time.Time
		ctx    = context.Background()
	)
	for clock.Since(time.Unix(0, 0)) < total {
		if _, err := seg.Next(ctx); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if clock.Since(time.Unix(0, 0)) <= total {
			issued = append(issued, clock.Now())
		}
	}

	want := int(total / d)
	if len(issued) < want-1 || len(issued) > want+1 {
		t.Fatalf("issued %d windows in %v, want %d ± 1", len(issued), total, want)
	}
	for i := 1; i < len(issued); i++ {
		if gap := issued[i].Sub(issued[i-1]); gap < d {
			t.Fatalf("windows %d and %d only %v apart", i-1, i, gap)
		}
	}
}

func TestWallClock_ClosedAndDeadline(t *testing.T) {
	src := newSource(t, 100, 1)
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	seg, err := NewWallClock(src, 100*time.Millisecond, WithClock(clock))
	if err != nil {
		t.Fatalf("NewWallClock() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	polls := 0
	clock.OnSleep(func(time.Time) {
		polls++
		if polls == 20 {
			cancel()
		}
	})
	if _, err := seg.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Next() on stalled source error = %v, want context.Canceled", err)
	}

	_ = src.Close()
	if _, err := seg.Next(context.Background()); !errors.Is(err, stream.ErrClosed) {
		t.Fatalf("Next() on closed source error = %v, want ErrClosed", err)
	}
}

func TestNewWallClock_InvalidDuration(t *testing.T) {
	src := newSource(t, 100, 1)
	if _, err := NewWallClock(src, 0); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("NewWallClock() error = %v, want ErrInvalidWindow", err)
	}
}
