package frequency

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ssvep/dsp/spectrum"
	"github.com/cwbudde/algo-ssvep/dsp/window"
)

const tolerance = 1e-9

// grid returns a spectrum with Freqs[k] = k Hz.
func grid(power ...float64) spectrum.Spectrum {
	freqs := make([]float64, len(power))
	for k := range freqs {
		freqs[k] = float64(k)
	}
	return spectrum.Spectrum{
		Freqs:      freqs,
		Power:      power,
		FFTSize:    2 * (len(power) - 1),
		SampleRate: float64(2 * (len(power) - 1)),
	}
}

func TestBandSingleBin(t *testing.T) {
	s, err := Band(grid(0, 0, 0, 0, 1, 0, 0, 0, 0), 2, 6)
	if err != nil {
		t.Fatalf("Band() error = %v", err)
	}

	checks := []struct {
		name      string
		got, want float64
	}{
		{"Bins", float64(s.Bins), 5},
		{"Power", s.Power, 1},
		{"Fraction", s.Fraction, 1},
		{"PeakFreq", s.PeakFreq, 4},
		{"Centroid", s.Centroid, 4},
		{"Spread", s.Spread, 0},
		{"Flatness", s.Flatness, 0},
		{"Rolloff", s.Rolloff, 4},
		{"Bandwidth", s.Bandwidth, 1},
		{"PeakDB", s.PeakDB(), 0},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > tolerance {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestBandFlat(t *testing.T) {
	spec := grid(1, 1, 1, 1, 1, 1, 1, 1, 1)

	tests := []struct {
		name               string
		low, high          float64
		fraction, centroid float64
		rolloff, bandwidth float64
	}{
		{"whole", 1, 8, 1, 4.5, 7, 7},
		{"lower half", 1, 4, 0.5, 2.5, 4, 3},
		{"clipped", -10, 2.5, 0.375, 1, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Band(spec, tt.low, tt.high)
			if err != nil {
				t.Fatalf("Band() error = %v", err)
			}
			if math.Abs(s.Flatness-1) > tolerance {
				t.Errorf("Flatness = %v, want 1", s.Flatness)
			}
			if math.Abs(s.Fraction-tt.fraction) > tolerance {
				t.Errorf("Fraction = %v, want %v", s.Fraction, tt.fraction)
			}
			if math.Abs(s.Centroid-tt.centroid) > tolerance {
				t.Errorf("Centroid = %v, want %v", s.Centroid, tt.centroid)
			}
			if s.Rolloff != tt.rolloff {
				t.Errorf("Rolloff = %v, want %v", s.Rolloff, tt.rolloff)
			}
			if math.Abs(s.Bandwidth-tt.bandwidth) > tolerance {
				t.Errorf("Bandwidth = %v, want %v", s.Bandwidth, tt.bandwidth)
			}
		})
	}
}

func TestBandErrors(t *testing.T) {
	spec := grid(0, 1, 2, 1, 0)

	if _, err := Band(spec, 2.2, 2.8); !errors.Is(err, ErrEmptyBand) {
		t.Errorf("Band(2.2, 2.8) error = %v, want ErrEmptyBand", err)
	}
	if _, err := Band(spec, 3, 1); err == nil {
		t.Error("Band(3, 1) error = nil, want error")
	}
	if _, err := Band(spec, math.NaN(), 1); err == nil {
		t.Error("Band(NaN, 1) error = nil, want error")
	}
}

func TestBandSilent(t *testing.T) {
	s, err := Band(grid(0, 0, 0, 0, 0), 0, 4)
	if err != nil {
		t.Fatalf("Band() error = %v", err)
	}
	if s.Power != 0 || s.Fraction != 0 || s.Centroid != 0 || s.Bandwidth != 0 {
		t.Errorf("silent band = %+v, want zero descriptors", s)
	}
	if !math.IsInf(s.PeakDB(), -1) || !math.IsInf(s.FractionDB(), -1) {
		t.Errorf("PeakDB() = %v, FractionDB() = %v, want -Inf", s.PeakDB(), s.FractionDB())
	}
}

func TestBandSinusoid(t *testing.T) {
	const (
		fs = 250.0
		f  = 11.25
	)
	x := make([]float64, 500)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * f * float64(i) / fs)
	}
	spec, err := spectrum.PowerSpectrum(x, fs, window.TypeHann)
	if err != nil {
		t.Fatalf("PowerSpectrum() error = %v", err)
	}

	s, err := Band(spec, 5, 40)
	if err != nil {
		t.Fatalf("Band() error = %v", err)
	}
	binWidth := fs / float64(spec.FFTSize)
	if math.Abs(s.PeakFreq-f) > binWidth {
		t.Errorf("PeakFreq = %v, want %v ± %v", s.PeakFreq, f, binWidth)
	}
	if math.Abs(s.Centroid-f) > 1 {
		t.Errorf("Centroid = %v, want near %v", s.Centroid, f)
	}
	if s.Fraction < 0.99 {
		t.Errorf("Fraction = %v, want > 0.99", s.Fraction)
	}
	if s.Flatness > 0.1 {
		t.Errorf("Flatness = %v, want tonal (< 0.1)", s.Flatness)
	}
}

func TestFlatness(t *testing.T) {
	tests := []struct {
		name  string
		power []float64
		want  float64
	}{
		{"empty", nil, 0},
		{"flat", []float64{2, 2, 2}, 1},
		{"zero bin", []float64{1, 0, 1}, 0},
		{"two levels", []float64{1, 4}, 0.8},
	}
	for _, tt := range tests {
		if got := Flatness(tt.power); math.Abs(got-tt.want) > tolerance {
			t.Errorf("Flatness(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
