package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-ssvep/ssvep/cca"
)

// Decision is one classified window.
type Decision struct {
	cca.Result

	// Session identifies the Run that produced the decision.
	Session string
	// Start is the absolute index of the window's first sample.
	Start   int64
	Samples int
	// SNR is the spectral SNR in dB at the detected frequency, NaN when
	// nothing was detected or SNR annotation is disabled.
	SNR  float64
	Time time.Time
}

func (d Decision) String() string {
	if !d.Detected {
		return fmt.Sprintf("@%d: none", d.Start)
	}
	if math.IsNaN(d.SNR) {
		return fmt.Sprintf("@%d: %v", d.Start, d.Result)
	}
	return fmt.Sprintf("@%d: %v, SNR %.1f dB", d.Start, d.Result, d.SNR)
}

// Sink receives decisions, typically to drive an actuator.
type Sink interface {
	Emit(ctx context.Context, d Decision) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, d Decision) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, d Decision) error { return f(ctx, d) }

// ChannelSink sends decisions on a channel, blocking until the receiver is
// ready or ctx is done.
type ChannelSink chan<- Decision

// Emit sends d.
func (c ChannelSink) Emit(ctx context.Context, d Decision) error {
	select {
	case c <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
