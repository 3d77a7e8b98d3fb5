package stimulus

import (
	"errors"
	"math"
	"testing"
)

func TestQuantize(t *testing.T) {
	got, err := Quantize([]float64{12, 8.5, 15, 30}, 60)
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	want := []Target{
		{Desired: 12, Actual: 12, Frames: 5},
		{Desired: 8.5, Actual: 60.0 / 7, Frames: 7},
		{Desired: 15, Actual: 15, Frames: 4},
		{Desired: 30, Actual: 30, Frames: 2},
	}
	for i := range want {
		if got[i].Frames != want[i].Frames || math.Abs(got[i].Actual-want[i].Actual) > 1e-12 {
			t.Fatalf("target %d = %v, want %v", i, got[i], want[i])
		}
	}
	if off := got[1].Offset(); math.Abs(off-(60.0/7-8.5)) > 1e-12 {
		t.Fatalf("Offset() = %g", off)
	}
}

func TestQuantize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		desired []float64
		refresh float64
		want    error
	}{
		{name: "collision", desired: []float64{12, 13}, refresh: 60, want: ErrDuplicateFrequency},
		{name: "zero refresh", desired: []float64{12}, refresh: 0, want: ErrInvalidFrequency},
		{name: "negative target", desired: []float64{-1}, refresh: 60, want: ErrInvalidFrequency},
		{name: "above half refresh", desired: []float64{31}, refresh: 60, want: ErrInvalidFrequency},
		{name: "NaN target", desired: []float64{math.NaN()}, refresh: 60, want: ErrInvalidFrequency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Quantize(tt.desired, tt.refresh); !errors.Is(err, tt.want) {
				t.Fatalf("Quantize() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFrequencies(t *testing.T) {
	targets, err := Quantize([]float64{9.25, 11.25}, 144)
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	got := Frequencies(targets)
	if got[0] != 144.0/16 || got[1] != 144.0/13 {
		t.Fatalf("Frequencies() = %v", got)
	}
}
