package bank

import (
	"fmt"
	"math"
)

// SubBandConfig describes a filter-bank decomposition: band m (1-based)
// passes [Base + (m-1)*Step, High] Hz.
type SubBandConfig struct {
	Count int
	Base  float64
	Step  float64
	High  float64
	Order int
}

// DefaultSubBands returns the common five-band SSVEP decomposition with
// lower edges at multiples of 8 Hz up to a fixed 88 Hz upper edge, capped
// below Nyquist.
func DefaultSubBands(sampleRate float64) SubBandConfig {
	return SubBandConfig{
		Count: 5,
		Base:  8,
		Step:  8,
		High:  math.Min(88, 0.45*sampleRate),
		Order: 4,
	}
}

// Weights returns the per-band weights m^(-a) + b.
func (c SubBandConfig) Weights(a, b float64) []float64 {
	w := make([]float64, c.Count)
	for m := range w {
		w[m] = math.Pow(float64(m+1), -a) + b
	}
	return w
}

// SubBands designs the band-pass filters for cfg. Every band must lie
// strictly inside (0, fs/2) with low < high.
func SubBands(sampleRate float64, cfg SubBandConfig) ([]*Filter, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("%w: sub-band count %d must be positive", ErrInvalidFilterParameter, cfg.Count)
	}
	if !(cfg.Step >= 0) {
		return nil, fmt.Errorf("%w: sub-band step %g must not be negative", ErrInvalidFilterParameter, cfg.Step)
	}

	filters := make([]*Filter, cfg.Count)
	for m := range filters {
		low := cfg.Base + float64(m)*cfg.Step
		f, err := NewFilter(Bandpass(low, cfg.High, cfg.Order), sampleRate)
		if err != nil {
			return nil, fmt.Errorf("bank: sub-band %d: %w", m+1, err)
		}
		filters[m] = f
	}

	return filters, nil
}
