package stream

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-ssvep/dsp/buffer"
)

// Memory is an in-memory Source fed by Append. It is safe for one writer and
// any number of concurrent readers.
type Memory struct {
	id         string
	sampleRate float64

	mu       sync.RWMutex
	channels []*buffer.History
	closed   bool
}

type memoryConfig struct {
	retain int
}

// MemoryOption configures a Memory source.
type MemoryOption func(*memoryConfig)

// WithRetention bounds the per-channel history to n samples. Older samples
// are discarded; readers whose cursor falls behind resume at the oldest
// retained sample.
func WithRetention(n int) MemoryOption {
	return func(cfg *memoryConfig) { cfg.retain = n }
}

// NewMemory creates an empty source named id.
func NewMemory(id string, sampleRate float64, channels int, opts ...MemoryOption) (*Memory, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("stream: sample rate must be > 0: %v", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("stream: channels must be > 0: %d", channels)
	}

	var cfg memoryConfig
	for _, o := range opts {
		o(&cfg)
	}

	m := &Memory{
		id:         id,
		sampleRate: sampleRate,
		channels:   make([]*buffer.History, channels),
	}
	for ch := range m.channels {
		m.channels[ch] = buffer.NewHistory(cfg.retain)
	}
	return m, nil
}

// ID returns the identifier given at construction.
func (m *Memory) ID() string { return m.id }

// SampleRate returns the sampling rate in Hz.
func (m *Memory) SampleRate() float64 { return m.sampleRate }

// Channels returns the channel count.
func (m *Memory) Channels() int { return len(m.channels) }

// Append adds a channel-major block. All channels must carry the same number
// of samples.
func (m *Memory) Append(block [][]float64) error {
	if _, err := validateBlock(block, len(m.channels)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for ch, h := range m.channels {
		h.Append(block[ch]...)
	}
	return nil
}

// Total returns the number of samples appended per channel so far.
func (m *Memory) Total() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.channels[0].Total()
}

// Recent implements Source.
func (m *Memory) Recent(n int) ([][]float64, int64, error) {
	if n <= 0 {
		return nil, 0, fmt.Errorf("stream: recent sample count must be > 0: %d", n)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, 0, ErrClosed
	}

	out := make([][]float64, len(m.channels))
	for ch, h := range m.channels {
		out[ch] = h.Tail(n)
	}
	return out, m.channels[0].Total() - int64(len(out[0])), nil
}

// Since implements Source.
func (m *Memory) Since(cursor int64) ([][]float64, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.channels[0].Total()
	switch {
	case cursor < 0 || cursor > total:
		return nil, cursor, fmt.Errorf("stream: cursor %d outside [0, %d]", cursor, total)
	case cursor == total && m.closed:
		return nil, cursor, ErrClosed
	}

	from := max(cursor, m.channels[0].Oldest())
	out := make([][]float64, len(m.channels))
	for ch, h := range m.channels {
		data, err := h.Range(from, total)
		if err != nil {
			return nil, cursor, fmt.Errorf("stream %s: %w", m.id, err)
		}
		out[ch] = data
	}
	return out, total, nil
}

// Close marks the source closed. Buffered samples stay readable through
// Since. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
