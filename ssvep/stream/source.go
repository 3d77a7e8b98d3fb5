package stream

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrClosed is returned once a source has been closed and no unread
	// samples remain.
	ErrClosed = errors.New("stream: source closed")
	// ErrShape is returned for ragged blocks or a channel count that does
	// not match the source.
	ErrShape = errors.New("stream: block shape mismatch")
)

// Source is the read side of a multichannel sample stream with a uniform
// sample rate. Blocks are channel-major: block[ch][k].
type Source interface {
	// SampleRate returns the sampling rate in Hz.
	SampleRate() float64
	// Channels returns the channel count.
	Channels() int
	// Recent returns copies of the newest min(n, available) samples of every
	// channel and the absolute index of the first returned sample.
	Recent(n int) ([][]float64, int64, error)
	// Since returns copies of all samples with absolute index >= cursor and
	// the cursor to pass next time. A cursor older than the retained history
	// resumes at the oldest retained sample, so the first returned sample has
	// index next-len(data).
	Since(cursor int64) ([][]float64, int64, error)
	// Close releases the source. Further reads drain what is buffered and
	// then return ErrClosed.
	Close() error
}

// NewID returns a random identifier suitable for naming a source or session.
func NewID() string {
	return uuid.NewString()
}

func validateBlock(block [][]float64, channels int) (int, error) {
	if len(block) != channels {
		return 0, fmt.Errorf("%w: %d channels, want %d", ErrShape, len(block), channels)
	}
	n := len(block[0])
	for ch := range block {
		if len(block[ch]) != n {
			return 0, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrShape, ch, len(block[ch]), n)
		}
	}
	return n, nil
}
