package stream

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newMemory(t *testing.T, channels int, opts ...MemoryOption) *Memory {
	t.Helper()
	m, err := NewMemory("test", 250, channels, opts...)
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	return m
}

func TestNewMemory_Validation(t *testing.T) {
	if _, err := NewMemory("x", 0, 2); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewMemory("x", 250, 0); err == nil {
		t.Fatal("expected error for zero channels")
	}
}

func TestMemory_AppendShape(t *testing.T) {
	m := newMemory(t, 2)

	if err := m.Append([][]float64{{1, 2}}); !errors.Is(err, ErrShape) {
		t.Fatalf("Append() error = %v, want ErrShape", err)
	}
	if err := m.Append([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrShape) {
		t.Fatalf("Append() error = %v, want ErrShape", err)
	}
	if m.Total() != 0 {
		t.Fatalf("Total() = %d after rejected appends", m.Total())
	}
}

func TestMemory_RecentAndSince(t *testing.T) {
	m := newMemory(t, 2)
	if err := m.Append([][]float64{{1, 2, 3}, {10, 20, 30}}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	recent, start, err := m.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if start != 1 {
		t.Fatalf("Recent() start = %d, want 1", start)
	}
	if diff := cmp.Diff([][]float64{{2, 3}, {20, 30}}, recent); diff != "" {
		t.Fatalf("Recent() mismatch (-want +got):\n%s", diff)
	}

	all, _, err := m.Recent(10)
	if err != nil || len(all[0]) != 3 {
		t.Fatalf("Recent(10) = %v, %v", all, err)
	}

	got, cursor, err := m.Since(1)
	if err != nil {
		t.Fatalf("Since() error = %v", err)
	}
	if cursor != 3 {
		t.Fatalf("Since() cursor = %d, want 3", cursor)
	}
	if diff := cmp.Diff([][]float64{{2, 3}, {20, 30}}, got); diff != "" {
		t.Fatalf("Since() mismatch (-want +got):\n%s", diff)
	}

	empty, cursor, err := m.Since(3)
	if err != nil || cursor != 3 || len(empty[0]) != 0 {
		t.Fatalf("Since(3) = %v, %d, %v", empty, cursor, err)
	}
	if _, _, err := m.Since(4); err == nil {
		t.Fatal("expected error for cursor past the end")
	}
}

func TestMemory_CloseDrainsThenErrClosed(t *testing.T) {
	m := newMemory(t, 1)
	if err := m.Append([][]float64{{1, 2}}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := m.Append([][]float64{{3}}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Append() after Close error = %v", err)
	}
	if _, _, err := m.Recent(1); !errors.Is(err, ErrClosed) {
		t.Fatalf("Recent() after Close error = %v", err)
	}

	data, cursor, err := m.Since(0)
	if err != nil || cursor != 2 || len(data[0]) != 2 {
		t.Fatalf("Since(0) after Close = %v, %d, %v", data, cursor, err)
	}
	if _, _, err := m.Since(cursor); !errors.Is(err, ErrClosed) {
		t.Fatalf("Since() at end after Close error = %v, want ErrClosed", err)
	}
}

func TestMemory_RetentionEvicts(t *testing.T) {
	m := newMemory(t, 1, WithRetention(4))
	for i := range 10 {
		if err := m.Append([][]float64{{float64(i)}}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	evicted, next, err := m.Since(0)
	if err != nil {
		t.Fatalf("Since(0) error = %v", err)
	}
	if diff := cmp.Diff([][]float64{{6, 7, 8, 9}}, evicted); diff != "" {
		t.Fatalf("Since(0) mismatch (-want +got):\n%s", diff)
	}
	if first := next - int64(len(evicted[0])); first != 6 {
		t.Fatalf("Since(0) first index = %d, want 6", first)
	}

	got, _, err := m.Since(7)
	if err != nil {
		t.Fatalf("Since(7) error = %v", err)
	}
	if diff := cmp.Diff([][]float64{{7, 8, 9}}, got); diff != "" {
		t.Fatalf("Since(7) mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory_ConcurrentReaders(t *testing.T) {
	m := newMemory(t, 3)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 200 {
			v := float64(i)
			if err := m.Append([][]float64{{v}, {v}, {v}}); err != nil {
				t.Errorf("Append() error = %v", err)
				return
			}
		}
	}()

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var cursor int64
			for cursor < 200 {
				data, next, err := m.Since(cursor)
				if err != nil {
					t.Errorf("Since() error = %v", err)
					return
				}
				for k, v := range data[2] {
					if v != float64(cursor)+float64(k) {
						t.Errorf("sample %d = %v", cursor+int64(k), v)
						return
					}
				}
				cursor = next
			}
		}()
	}
	wg.Wait()
}

func TestNewID_Unique(t *testing.T) {
	if NewID() == NewID() {
		t.Fatal("NewID() returned duplicate identifiers")
	}
}
