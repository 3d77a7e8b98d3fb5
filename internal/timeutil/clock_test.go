package timeutil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRealClock_Sleep(t *testing.T) {
	c := RealClock{}
	start := c.Now()
	if err := c.Sleep(context.Background(), 5*time.Millisecond); err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}
	if c.Since(start) < 5*time.Millisecond {
		t.Fatalf("slept %v, want >= 5ms", c.Since(start))
	}
}

func TestRealClock_SleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := RealClock{}.Sleep(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Sleep() error = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancelled sleep blocked")
	}
}

func TestRealClock_SleepDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := RealClock{}.Sleep(ctx, time.Hour)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Sleep() error = %v, want DeadlineExceeded", err)
	}
}

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	var seen []time.Time
	c.OnSleep(func(now time.Time) { seen = append(seen, now) })

	if err := c.Sleep(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}
	c.Advance(time.Second)
	if err := c.Sleep(context.Background(), 30*time.Millisecond); err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}

	if got := c.Since(start); got != 1050*time.Millisecond {
		t.Fatalf("Since(start) = %v, want 1.05s", got)
	}
	sleeps := c.Sleeps()
	if len(sleeps) != 2 || sleeps[0] != 20*time.Millisecond || sleeps[1] != 30*time.Millisecond {
		t.Fatalf("Sleeps() = %v", sleeps)
	}
	if len(seen) != 2 || !seen[1].Equal(start.Add(1050*time.Millisecond)) {
		t.Fatalf("OnSleep saw %v", seen)
	}

	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %v after Set", c.Now())
	}
}

func TestMockClock_SleepCancelled(t *testing.T) {
	c := NewMockClock(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Sleep(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("Sleep() error = %v, want context.Canceled", err)
	}
	if len(c.Sleeps()) != 0 {
		t.Fatal("cancelled sleep was recorded")
	}
}
