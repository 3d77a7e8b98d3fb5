// Package signal generates deterministic synthetic recordings: sinusoids,
// noise and multichannel SSVEP-like responses for playback and tests.
package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// Generator creates deterministic signals at one sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator for sampleRate.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("signal: sample rate must be > 0: %f", sampleRate)
	}
	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// Sine generates amplitude*sin(2*pi*f*k/fs + phase) for k = 0..samples-1.
func (g *Generator) Sine(freqHz, amplitude, phase float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i)+phase)
	}
	return out, nil
}

// WhiteNoise generates deterministic uniform noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Response describes a synthetic steady-state evoked response.
type Response struct {
	Frequency float64
	// Harmonics holds the amplitude of each harmonic, fundamental first.
	Harmonics []float64
	// Channels is the number of output channels. Each channel sees the
	// response with its own gain and phase lag.
	Channels int
	// NoiseSigma is the standard deviation of additive Gaussian noise,
	// independent per channel.
	NoiseSigma float64
}

// SSVEP generates a channel-major [Channels][samples] block for r. Channel
// gains fall in [0.5, 1] and phase lags in [0, pi/2), both drawn from the
// generator seed, so equal seeds give equal blocks.
func (g *Generator) SSVEP(r Response, samples int) ([][]float64, error) {
	switch {
	case samples <= 0:
		return nil, fmt.Errorf("ssvep samples must be > 0: %d", samples)
	case r.Channels <= 0:
		return nil, fmt.Errorf("ssvep channels must be > 0: %d", r.Channels)
	case r.Frequency < 0 || math.IsNaN(r.Frequency):
		return nil, fmt.Errorf("ssvep frequency must be >= 0: %f", r.Frequency)
	case r.NoiseSigma < 0:
		return nil, fmt.Errorf("ssvep noise sigma must be >= 0: %f", r.NoiseSigma)
	}

	rng := rand.New(rand.NewSource(g.seed))
	out := make([][]float64, r.Channels)
	for ch := range out {
		gain := 0.5 + 0.5*rng.Float64()
		lag := 0.5 * math.Pi * rng.Float64()

		x := make([]float64, samples)
		for h, amp := range r.Harmonics {
			step := 2 * math.Pi * float64(h+1) * r.Frequency / g.sampleRate
			for k := range x {
				x[k] += gain * amp * math.Sin(step*float64(k)-float64(h+1)*lag)
			}
		}
		if r.NoiseSigma > 0 {
			for k := range x {
				x[k] += rng.NormFloat64() * r.NoiseSigma
			}
		}
		out[ch] = x
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
