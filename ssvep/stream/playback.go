package stream

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-ssvep/internal/timeutil"
)

// Playback replays a recorded session through the Source interface, either
// all at once (Release) or paced at the recording's real-time rate (Pump).
type Playback struct {
	*Memory

	labels    []string
	recording [][]float64
	next      int
	clock     timeutil.Clock
}

type playbackConfig struct {
	id     string
	clock  timeutil.Clock
	retain int
}

// PlaybackOption configures a Playback source.
type PlaybackOption func(*playbackConfig)

// WithID names the playback source. The default is a random identifier.
func WithID(id string) PlaybackOption {
	return func(cfg *playbackConfig) { cfg.id = id }
}

// WithClock sets the clock that paces Pump.
func WithClock(c timeutil.Clock) PlaybackOption {
	return func(cfg *playbackConfig) { cfg.clock = c }
}

// WithPlaybackRetention bounds the released history per channel, as
// WithRetention does for Memory.
func WithPlaybackRetention(n int) PlaybackOption {
	return func(cfg *playbackConfig) { cfg.retain = n }
}

// Open loads a CSV recording from path. The caller must Close the returned
// source.
func Open(path string, sampleRate float64, opts ...PlaybackOption) (*Playback, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stream: open recording: %w", err)
	}
	defer f.Close()

	return Load(f, sampleRate, opts...)
}

// Load reads a CSV recording with one row per sample and one column per
// channel. A first row that does not parse as numbers is taken as channel
// labels.
func Load(r io.Reader, sampleRate float64, opts ...PlaybackOption) (*Playback, error) {
	cfg := playbackConfig{clock: timeutil.RealClock{}}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.id == "" {
		cfg.id = NewID()
	}

	labels, recording, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	mem, err := NewMemory(cfg.id, sampleRate, len(recording), WithRetention(cfg.retain))
	if err != nil {
		return nil, err
	}

	return &Playback{
		Memory:    mem,
		labels:    labels,
		recording: recording,
		clock:     cfg.clock,
	}, nil
}

// Labels returns the channel labels from the header row, or generated
// "ch<N>" labels when the recording had none.
func (p *Playback) Labels() []string { return p.labels }

// Len returns the number of samples per channel in the recording.
func (p *Playback) Len() int { return len(p.recording[0]) }

// Remaining returns the number of samples not yet released.
func (p *Playback) Remaining() int { return p.Len() - p.next }

// Release makes the rest of the recording available immediately and closes
// the source for writing, so readers drain it and then see ErrClosed.
func (p *Playback) Release() error {
	if err := p.release(p.Remaining()); err != nil {
		return err
	}
	return p.Memory.Close()
}

// Pump releases blockSize samples per block period (blockSize/fs) until the
// recording is exhausted or ctx ends. The source is closed when the
// recording is exhausted.
func (p *Playback) Pump(ctx context.Context, blockSize int) error {
	if blockSize <= 0 {
		return fmt.Errorf("stream: pump block size must be > 0: %d", blockSize)
	}

	period := time.Duration(float64(blockSize) / p.SampleRate() * float64(time.Second))
	for p.Remaining() > 0 {
		if err := p.release(min(blockSize, p.Remaining())); err != nil {
			return err
		}
		if p.Remaining() == 0 {
			break
		}
		if err := p.clock.Sleep(ctx, period); err != nil {
			return err
		}
	}
	return p.Memory.Close()
}

func (p *Playback) release(n int) error {
	if n == 0 {
		return nil
	}
	block := make([][]float64, len(p.recording))
	for ch := range block {
		block[ch] = p.recording[ch][p.next : p.next+n]
	}
	if err := p.Append(block); err != nil {
		return err
	}
	p.next += n
	return nil
}

func readCSV(r io.Reader) ([]string, [][]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var (
		labels    []string
		recording [][]float64
		row       int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("stream: read recording: %w", err)
		}
		row++

		values, perr := parseRow(rec)
		if perr != nil {
			if row == 1 {
				labels = append([]string(nil), rec...)
				continue
			}
			return nil, nil, fmt.Errorf("stream: recording row %d: %w", row, perr)
		}

		if recording == nil {
			recording = make([][]float64, len(values))
		}
		for ch, v := range values {
			recording[ch] = append(recording[ch], v)
		}
	}

	if len(recording) == 0 {
		return nil, nil, fmt.Errorf("%w: recording has no samples", ErrShape)
	}
	if labels == nil {
		labels = make([]string, len(recording))
		for ch := range labels {
			labels[ch] = "ch" + strconv.Itoa(ch)
		}
	}
	if len(labels) != len(recording) {
		return nil, nil, fmt.Errorf("%w: %d labels for %d channels", ErrShape, len(labels), len(recording))
	}
	return labels, recording, nil
}

func parseRow(rec []string) ([]float64, error) {
	out := make([]float64, len(rec))
	for i, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
