package spectrum

import (
	"errors"
	"fmt"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ssvep/dsp/window"
)

// ErrEmptyInput is returned for zero-length signals.
var ErrEmptyInput = errors.New("spectrum: empty input")

// Spectrum is a one-sided power spectrum. Power[k] belongs to Freqs[k] =
// k*SampleRate/FFTSize for k = 0..FFTSize/2.
type Spectrum struct {
	Freqs      []float64
	Power      []float64
	FFTSize    int
	SampleRate float64
}

// Bin returns the index of the bin nearest freq, clamped to the spectrum.
func (s Spectrum) Bin(freq float64) int {
	k := int(freq*float64(s.FFTSize)/s.SampleRate + 0.5)
	return max(0, min(k, len(s.Power)-1))
}

// NextPow2 returns the smallest power of two >= n (1 for n <= 1).
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// PowerSpectrum windows x, zero-pads it to the next power of two and
// returns |X[k]|^2 for the non-negative frequencies.
func PowerSpectrum(x []float64, sampleRate float64, win window.Type) (Spectrum, error) {
	if len(x) == 0 {
		return Spectrum{}, ErrEmptyInput
	}
	if !(sampleRate > 0) {
		return Spectrum{}, fmt.Errorf("spectrum: sample rate must be > 0: %v", sampleRate)
	}

	fftSize := NextPow2(len(x))
	if fftSize < 2 {
		fftSize = 2
	}

	windowed := append([]float64(nil), x...)
	window.Apply(win, windowed)

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: fft plan: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	s := Spectrum{
		Freqs:      make([]float64, bins),
		Power:      make([]float64, bins),
		FFTSize:    fftSize,
		SampleRate: sampleRate,
	}
	vecmath.Power(s.Power, re, im)
	for k := range s.Freqs {
		s.Freqs[k] = float64(k) * sampleRate / float64(fftSize)
	}

	return s, nil
}
