// Package stimulus maps desired flicker frequencies onto frequencies a
// display can actually produce.
//
// A monitor refreshing at R Hz can only flicker at R/k for a whole number of
// frames k per cycle. Quantize picks the nearest such k for every target.
package stimulus

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidFrequency reports a non-positive or non-finite refresh rate
	// or target, or a target above half the refresh rate.
	ErrInvalidFrequency = errors.New("stimulus: invalid frequency")

	// ErrDuplicateFrequency reports two targets that quantize to the same
	// displayable frequency.
	ErrDuplicateFrequency = errors.New("stimulus: duplicate frequency")
)

// MinFrames is the shortest flicker cycle: one frame on, one frame off.
const MinFrames = 2

// Target is one quantized stimulation frequency.
type Target struct {
	Desired float64
	Actual  float64
	Frames  int // frames per cycle
}

// Offset returns Actual - Desired in Hz.
func (t Target) Offset() float64 { return t.Actual - t.Desired }

func (t Target) String() string {
	return fmt.Sprintf("%g Hz -> %.4g Hz (%d frames)", t.Desired, t.Actual, t.Frames)
}

// Quantize returns the displayable frequency for every desired frequency,
// in input order.
func Quantize(desired []float64, refreshHz float64) ([]Target, error) {
	if !valid(refreshHz) {
		return nil, fmt.Errorf("%w: refresh rate %g Hz", ErrInvalidFrequency, refreshHz)
	}

	out := make([]Target, len(desired))
	seen := make(map[int]int, len(desired))
	for i, f := range desired {
		if !valid(f) || f > refreshHz/MinFrames {
			return nil, fmt.Errorf("%w: target %d is %g Hz, want (0, %g]", ErrInvalidFrequency, i, f, refreshHz/MinFrames)
		}
		k := max(int(math.Round(refreshHz/f)), MinFrames)
		if j, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %g Hz and %g Hz both map to %g Hz at %g Hz refresh",
				ErrDuplicateFrequency, desired[j], f, refreshHz/float64(k), refreshHz)
		}
		seen[k] = i
		out[i] = Target{Desired: f, Actual: refreshHz / float64(k), Frames: k}
	}
	return out, nil
}

// Frequencies returns the actual frequencies of targets.
func Frequencies(targets []Target) []float64 {
	out := make([]float64, len(targets))
	for i, t := range targets {
		out[i] = t.Actual
	}
	return out
}

func valid(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
