package design

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-ssvep/dsp/filter/biquad"
)

// ButterworthLowpass designs a lowpass Butterworth cascade of the given order.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthLowpass(freq float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	if _, err := normalizedW0("cutoff", freq, sampleRate); err != nil {
		return nil, err
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		c, err := Lowpass(freq, butterworthQ(order, i), sampleRate)
		if err != nil {
			return nil, err
		}
		sections = append(sections, c)
	}
	if order%2 != 0 {
		k := math.Tan(math.Pi * freq / sampleRate)
		norm := 1 / (1 + k)
		sections = append(sections, biquad.Coefficients{
			B0: k * norm,
			B1: k * norm,
			A1: (k - 1) * norm,
		})
	}

	return sections, nil
}

// ButterworthHighpass designs a highpass Butterworth cascade of the given order.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthHighpass(freq float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	if _, err := normalizedW0("cutoff", freq, sampleRate); err != nil {
		return nil, err
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		c, err := Highpass(freq, butterworthQ(order, i), sampleRate)
		if err != nil {
			return nil, err
		}
		sections = append(sections, c)
	}
	if order%2 != 0 {
		k := math.Tan(math.Pi * freq / sampleRate)
		norm := 1 / (1 + k)
		sections = append(sections, biquad.Coefficients{
			B0: norm,
			B1: -norm,
			A1: (k - 1) * norm,
		})
	}

	return sections, nil
}

// ButterworthBandpass designs a band-pass Butterworth filter passing
// [low, high] Hz. The analog prototype of the given order is mapped through
// the lowpass-to-bandpass transform, so the digital filter has order 2*order
// and unit gain at the geometric band center.
func ButterworthBandpass(low, high float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	wo, bw, err := bandEdges(low, high, order, sampleRate)
	if err != nil {
		return nil, err
	}

	poles := make([]complex128, 0, 2*order)
	for _, p := range butterworthPrototype(order) {
		pl := p * complex(bw/2, 0)
		d := cmplx.Sqrt(pl*pl - complex(wo*wo, 0))
		poles = append(poles, pl+d, pl-d)
	}

	// order zeros at s=0 map to z=1, the order zeros at infinity to z=-1.
	zeros := make([]complex128, 0, 2*order)
	for range order {
		zeros = append(zeros, 1, -1)
	}

	sections := toSections(zeros, bilinearPoles(poles, sampleRate))
	center := math.Atan(wo/(2*sampleRate)) * sampleRate / math.Pi
	normalizeAt(sections, center, sampleRate)

	return sections, nil
}

// ButterworthBandstop designs a band-stop Butterworth filter rejecting
// [low, high] Hz via the lowpass-to-bandstop transform (digital order
// 2*order, unit gain at DC).
func ButterworthBandstop(low, high float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	wo, bw, err := bandEdges(low, high, order, sampleRate)
	if err != nil {
		return nil, err
	}

	poles := make([]complex128, 0, 2*order)
	for _, p := range butterworthPrototype(order) {
		ph := complex(bw/2, 0) / p
		d := cmplx.Sqrt(ph*ph - complex(wo*wo, 0))
		poles = append(poles, ph+d, ph-d)
	}

	// Transmission zeros at ±j*wo land on the unit circle at the center.
	zc := bilinearPoint(complex(0, wo), sampleRate)
	zeros := make([]complex128, 0, 2*order)
	for range order {
		zeros = append(zeros, zc, cmplx.Conj(zc))
	}

	sections := toSections(zeros, bilinearPoles(poles, sampleRate))
	normalizeAt(sections, 0, sampleRate)

	return sections, nil
}

// butterworthQ returns the quality factor for a Butterworth filter section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}

	return 1 / (2 * s)
}

// butterworthPrototype returns the left half-plane poles of the normalized
// analog Butterworth lowpass of the given order.
func butterworthPrototype(order int) []complex128 {
	poles := make([]complex128, order)
	for i := range poles {
		m := float64(2*i - order + 1)
		poles[i] = -cmplx.Exp(complex(0, math.Pi*m/(2*float64(order))))
	}

	return poles
}

// bandEdges validates a band and returns the pre-warped analog center
// frequency and bandwidth in rad/s.
func bandEdges(low, high float64, order int, sampleRate float64) (float64, float64, error) {
	if err := checkOrder(order); err != nil {
		return 0, 0, err
	}
	if _, err := normalizedW0("low cutoff", low, sampleRate); err != nil {
		return 0, 0, err
	}
	if _, err := normalizedW0("high cutoff", high, sampleRate); err != nil {
		return 0, 0, err
	}
	if low >= high {
		return 0, 0, fmt.Errorf("%w: low cutoff %g must be below high cutoff %g", ErrInvalidFilterParameter, low, high)
	}

	wl := 2 * sampleRate * math.Tan(math.Pi*low/sampleRate)
	wh := 2 * sampleRate * math.Tan(math.Pi*high/sampleRate)

	return math.Sqrt(wl * wh), wh - wl, nil
}

func bilinearPoint(s complex128, sampleRate float64) complex128 {
	k := complex(2*sampleRate, 0)
	return (k + s) / (k - s)
}

func bilinearPoles(poles []complex128, sampleRate float64) []complex128 {
	out := make([]complex128, len(poles))
	for i, p := range poles {
		out[i] = bilinearPoint(p, sampleRate)
	}

	return out
}

// toSections groups z-plane roots into second-order polynomials and pairs
// zero and pole polynomials into biquads. Both root sets must have the
// same even length and be closed under conjugation.
func toSections(zeros, poles []complex128) []biquad.Coefficients {
	num := quadratics(zeros)
	den := quadratics(poles)

	sections := make([]biquad.Coefficients, len(den))
	for i := range den {
		sections[i] = biquad.Coefficients{
			B0: 1,
			B1: num[i][0],
			B2: num[i][1],
			A1: den[i][0],
			A2: den[i][1],
		}
	}

	return sections
}

// quadratics returns [c1, c2] for each factor 1 + c1*z^-1 + c2*z^-2.
// Conjugate pairs form one factor; remaining real roots are paired in order.
func quadratics(roots []complex128) [][2]float64 {
	const realTol = 1e-10

	out := make([][2]float64, 0, len(roots)/2)
	reals := make([]float64, 0, len(roots))
	for _, r := range roots {
		switch {
		case math.Abs(imag(r)) <= realTol:
			reals = append(reals, real(r))
		case imag(r) > 0:
			out = append(out, [2]float64{-2 * real(r), real(r)*real(r) + imag(r)*imag(r)})
		}
	}
	for i := 0; i+1 < len(reals); i += 2 {
		out = append(out, [2]float64{-(reals[i] + reals[i+1]), reals[i] * reals[i+1]})
	}

	return out
}

// normalizeAt scales the first section so the cascade has unit magnitude
// at freq.
func normalizeAt(sections []biquad.Coefficients, freq, sampleRate float64) {
	h := complex(1, 0)
	for i := range sections {
		h *= sections[i].Response(freq, sampleRate)
	}

	g := cmplx.Abs(h)
	if g == 0 || math.IsNaN(g) || math.IsInf(g, 0) {
		return
	}

	sections[0].B0 /= g
	sections[0].B1 /= g
	sections[0].B2 /= g
}
