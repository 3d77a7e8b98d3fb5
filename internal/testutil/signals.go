// Package testutil holds deterministic signal builders and tolerance helpers
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave starting at phase zero.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// GaussianNoise generates zero-mean Gaussian noise with standard deviation
// sigma and a fixed seed.
func GaussianNoise(seed int64, sigma float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.NormFloat64() * sigma
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Add returns the element-wise sum of equally long signals.
func Add(signals ...[]float64) []float64 {
	if len(signals) == 0 {
		return nil
	}
	out := make([]float64, len(signals[0]))
	for _, s := range signals {
		for i := range out {
			out[i] += s[i]
		}
	}
	return out
}

// SSVEPChannels builds channels copies of a sine at freqHz, each with its own
// Gaussian noise realization derived from seed. The sine power is 0.5, so
// sigma = sqrt(0.5) gives 0 dB SNR.
func SSVEPChannels(channels int, freqHz, sampleRate, sigma float64, length int, seed int64) [][]float64 {
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = Add(
			DeterministicSine(freqHz, sampleRate, 1, length),
			GaussianNoise(seed*int64(channels)+int64(ch), sigma, length),
		)
	}
	return out
}
