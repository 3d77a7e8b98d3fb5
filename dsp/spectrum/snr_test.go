package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ssvep/dsp/window"
	"github.com/cwbudde/algo-ssvep/internal/testutil"
)

func TestSNR_ToneStandsOut(t *testing.T) {
	const fs = 250.0
	tone := testutil.SSVEPChannels(4, 11.25, fs, 0.5, 500, 11)
	noise := testutil.SSVEPChannels(4, 0, fs, 0.5, 500, 11)

	withTone, err := SNR(tone, fs, 11.25, 4)
	if err != nil {
		t.Fatalf("SNR() error = %v", err)
	}
	without, err := SNR(noise, fs, 11.25, 4)
	if err != nil {
		t.Fatalf("SNR() error = %v", err)
	}

	if withTone < 10 {
		t.Fatalf("SNR with tone = %.1f dB, want > 10 dB", withTone)
	}
	if withTone-without < 10 {
		t.Fatalf("SNR with tone = %.1f dB, without = %.1f dB", withTone, without)
	}
}

func TestSNR_Errors(t *testing.T) {
	if _, err := SNR(nil, 250, 10, 4); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
	if _, err := SNR([][]float64{{1, 2, 3}}, 250, 10, 0); err == nil {
		t.Fatal("expected error for zero neighbors")
	}
	if _, err := SNR([][]float64{{1, 2, 3}}, 250, 200, 2); err == nil {
		t.Fatal("expected error for frequency above Nyquist")
	}
}

func TestSNR_TargetEvaluatedOffBin(t *testing.T) {
	const (
		fs        = 250.0
		freq      = 11.37 // between bins of the 512-point FFT
		neighbors = 4
	)
	x := testutil.SSVEPChannels(1, freq, fs, 0.2, 500, 3)[0]

	windowed := append([]float64(nil), x...)
	window.Apply(window.TypeHann, windowed)
	target, err := PowerAt(windowed, freq, fs)
	if err != nil {
		t.Fatalf("PowerAt() error = %v", err)
	}
	s, err := PowerSpectrum(x, fs, window.TypeHann)
	if err != nil {
		t.Fatalf("PowerSpectrum() error = %v", err)
	}
	if k := float64(s.FFTSize) * freq / fs; k == math.Trunc(k) {
		t.Fatalf("test frequency lands on bin %v", k)
	}

	guard := 3 // ceil(2*512/500)
	center := s.Bin(freq)
	var noise float64
	for d := guard + 1; d <= guard+neighbors; d++ {
		noise += s.Power[center-d] + s.Power[center+d]
	}
	noise /= 2 * neighbors
	want := 10 * math.Log10(target/noise)

	got, err := SNR([][]float64{x}, fs, freq, neighbors)
	if err != nil {
		t.Fatalf("SNR() error = %v", err)
	}
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("SNR() = %.12f dB, want %.12f dB", got, want)
	}
}
