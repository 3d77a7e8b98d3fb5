package design

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-ssvep/dsp/filter/biquad"
)

// ErrInvalidFilterParameter reports an out-of-range cutoff, order or
// quality factor. Designers never clamp; callers get this error instead.
var ErrInvalidFilterParameter = errors.New("design: invalid filter parameter")

// Lowpass designs a second-order RBJ lowpass section at freq (Hz) with
// quality factor q.
func Lowpass(freq, q, sampleRate float64) (biquad.Coefficients, error) {
	w0, err := normalizedW0("cutoff", freq, sampleRate)
	if err != nil {
		return biquad.Coefficients{}, err
	}
	if err := checkQ(q); err != nil {
		return biquad.Coefficients{}, err
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalizeBiquad((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha), nil
}

// Highpass designs a second-order RBJ highpass section at freq (Hz) with
// quality factor q.
func Highpass(freq, q, sampleRate float64) (biquad.Coefficients, error) {
	w0, err := normalizedW0("cutoff", freq, sampleRate)
	if err != nil {
		return biquad.Coefficients{}, err
	}
	if err := checkQ(q); err != nil {
		return biquad.Coefficients{}, err
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalizeBiquad((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha), nil
}

// Notch designs a second-order band-reject section centered at freq (Hz).
// The -3 dB rejection bandwidth is freq/q. The passband gain is exactly 1
// at DC and Nyquist.
func Notch(freq, q, sampleRate float64) (biquad.Coefficients, error) {
	w0, err := normalizedW0("notch frequency", freq, sampleRate)
	if err != nil {
		return biquad.Coefficients{}, err
	}
	if err := checkQ(q); err != nil {
		return biquad.Coefficients{}, err
	}

	bw := w0 / q
	if bw >= math.Pi {
		return biquad.Coefficients{}, fmt.Errorf("%w: notch bandwidth %g Hz reaches Nyquist", ErrInvalidFilterParameter, freq/q)
	}

	beta := math.Tan(bw / 2)
	gain := 1 / (1 + beta)
	cw := math.Cos(w0)

	return biquad.Coefficients{
		B0: gain,
		B1: -2 * gain * cw,
		B2: gain,
		A1: -2 * gain * cw,
		A2: 2*gain - 1,
	}, nil
}

// MainsQ returns the quality factor that gives a notch at mains frequency a
// ±1 Hz rejection band.
func MainsQ(mainsHz float64) float64 {
	return mainsHz / 2
}

func normalizedW0(name string, freq, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("%w: sample rate %g must be positive", ErrInvalidFilterParameter, sampleRate)
	}

	nyquist := sampleRate / 2
	if !(freq > 0 && freq < nyquist) {
		return 0, fmt.Errorf("%w: %s %g Hz outside (0, %g)", ErrInvalidFilterParameter, name, freq, nyquist)
	}

	return 2 * math.Pi * freq / sampleRate, nil
}

func checkQ(q float64) error {
	if !(q > 0) || math.IsInf(q, 0) {
		return fmt.Errorf("%w: quality factor %g must be positive", ErrInvalidFilterParameter, q)
	}

	return nil
}

func checkOrder(order int) error {
	if order <= 0 {
		return fmt.Errorf("%w: order %d must be positive", ErrInvalidFilterParameter, order)
	}

	return nil
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
