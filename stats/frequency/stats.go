// Package frequency computes shape descriptors of a one-sided power spectrum
// restricted to a frequency band.
package frequency

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-ssvep/dsp/spectrum"
)

// ErrEmptyBand is returned when no spectrum bin falls inside the band.
var ErrEmptyBand = errors.New("frequency: no bins in band")

// DefaultRolloff is the energy fraction used for [Stats.Rolloff].
const DefaultRolloff = 0.85

// Stats holds descriptors of the bins inside [Low, High].
type Stats struct {
	Low, High float64
	Bins      int

	Power     float64 // summed power in the band
	Fraction  float64 // Power relative to the whole spectrum without DC
	PeakFreq  float64
	PeakPower float64

	Centroid  float64 // power-weighted mean frequency (Hz)
	Spread    float64 // power-weighted standard deviation around Centroid (Hz)
	Flatness  float64 // geometric over arithmetic mean, 0..1
	Rolloff   float64 // frequency below which DefaultRolloff of Power lies (Hz)
	Bandwidth float64 // -3 dB width around the peak (Hz)
}

// PeakDB returns the peak power in decibels.
func (s Stats) PeakDB() float64 { return toDB(s.PeakPower) }

// FractionDB returns the band share of the total power in decibels.
func (s Stats) FractionDB() float64 { return toDB(s.Fraction) }

func toDB(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(p)
}

// Band computes the descriptors of s over [low, high] Hz. The band is
// clipped to the spectrum range.
func Band(s spectrum.Spectrum, low, high float64) (Stats, error) {
	if !(low <= high) {
		return Stats{}, fmt.Errorf("frequency: band [%g, %g] is empty", low, high)
	}

	first, last := -1, -1
	for k, f := range s.Freqs {
		if f < low || f > high {
			continue
		}
		if first < 0 {
			first = k
		}
		last = k
	}
	if first < 0 {
		return Stats{}, fmt.Errorf("%w: [%g, %g] Hz", ErrEmptyBand, low, high)
	}

	freqs := s.Freqs[first : last+1]
	power := s.Power[first : last+1]

	st := Stats{Low: low, High: high, Bins: len(power), PeakFreq: freqs[0], PeakPower: power[0]}
	peak := 0
	for i, p := range power {
		st.Power += p
		if p > st.PeakPower {
			st.PeakPower = p
			st.PeakFreq = freqs[i]
			peak = i
		}
	}

	total := 0.0
	for _, p := range s.Power[min(1, len(s.Power)-1):] {
		total += p
	}
	if total > 0 {
		st.Fraction = st.Power / total
	}

	st.Centroid, st.Spread = moments(freqs, power, st.Power)
	st.Flatness = Flatness(power)
	st.Rolloff = rolloff(freqs, power, DefaultRolloff*st.Power)
	st.Bandwidth = bandwidth(freqs, power, peak)

	return st, nil
}

func moments(freqs, power []float64, sum float64) (centroid, spread float64) {
	if sum == 0 {
		return 0, 0
	}
	for i, p := range power {
		centroid += freqs[i] * p
	}
	centroid /= sum

	for i, p := range power {
		d := freqs[i] - centroid
		spread += d * d * p
	}
	return centroid, math.Sqrt(spread / sum)
}

// Flatness returns the Wiener entropy of power: the geometric mean divided
// by the arithmetic mean. A single zero bin gives 0.
func Flatness(power []float64) float64 {
	if len(power) == 0 {
		return 0
	}

	sumLin, sumLog := 0.0, 0.0
	for _, p := range power {
		if p <= 0 {
			return 0
		}
		sumLin += p
		sumLog += math.Log(p)
	}
	n := float64(len(power))

	return math.Exp(sumLog/n) / (sumLin / n)
}

func rolloff(freqs, power []float64, threshold float64) float64 {
	if threshold <= 0 {
		return freqs[0]
	}
	acc := 0.0
	for i, p := range power {
		acc += p
		if acc >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// bandwidth walks outwards from the peak to the half-power points and
// interpolates linearly between bins.
func bandwidth(freqs, power []float64, peak int) float64 {
	half := power[peak] / 2
	if half <= 0 {
		return 0
	}

	lower := freqs[0]
	for i := peak; i >= 1; i-- {
		if power[i-1] <= half {
			lower = crossing(freqs[i-1], freqs[i], power[i-1], power[i], half)
			break
		}
	}
	upper := freqs[len(freqs)-1]
	for i := peak; i < len(power)-1; i++ {
		if power[i+1] <= half {
			upper = crossing(freqs[i], freqs[i+1], power[i], power[i+1], half)
			break
		}
	}

	return max(0, upper-lower)
}

func crossing(f0, f1, p0, p1, level float64) float64 {
	if p1 == p0 {
		return (f0 + f1) / 2
	}
	return f0 + (level-p0)/(p1-p0)*(f1-f0)
}
