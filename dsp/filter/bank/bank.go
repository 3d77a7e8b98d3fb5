package bank

import (
	"fmt"

	"github.com/cwbudde/algo-ssvep/dsp/filter/biquad"
	"github.com/cwbudde/algo-ssvep/dsp/filter/design"
	"github.com/cwbudde/algo-ssvep/dsp/filter/zerophase"
)

// Filter is one designed zero-phase filter. It holds only coefficients, so
// it is immutable and safe for concurrent use.
type Filter struct {
	spec       Spec
	sections   []biquad.Coefficients
	sampleRate float64
}

// NewFilter designs spec for sampleRate.
func NewFilter(spec Spec, sampleRate float64) (*Filter, error) {
	var (
		sections []biquad.Coefficients
		err      error
	)

	switch spec.Kind {
	case KindBandpass:
		sections, err = design.ButterworthBandpass(spec.Low, spec.High, spec.Order, sampleRate)
	case KindHighpass:
		sections, err = design.ButterworthHighpass(spec.Low, spec.Order, sampleRate)
	case KindLowpass:
		sections, err = design.ButterworthLowpass(spec.High, spec.Order, sampleRate)
	case KindBandstop:
		sections, err = design.ButterworthBandstop(spec.Low, spec.High, spec.Order, sampleRate)
	case KindNotch:
		var c biquad.Coefficients
		c, err = design.Notch(spec.NotchFreq, spec.Q, sampleRate)
		sections = []biquad.Coefficients{c}
	default:
		err = fmt.Errorf("%w: unknown filter kind %d", ErrInvalidFilterParameter, int(spec.Kind))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec, err)
	}
	if !biquad.NewChain(sections).Stable() {
		return nil, fmt.Errorf("%s: %w: poles on or outside the unit circle", spec, ErrInvalidFilterParameter)
	}

	return &Filter{spec: spec, sections: sections, sampleRate: sampleRate}, nil
}

// Spec returns the spec the filter was designed from.
func (f *Filter) Spec() Spec { return f.spec }

// SampleRate returns the sample rate the filter was designed for.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Sections returns a copy of the designed biquad sections.
func (f *Filter) Sections() []biquad.Coefficients {
	return append([]biquad.Coefficients(nil), f.sections...)
}

// Apply filters one channel forward and backward and returns a new slice.
func (f *Filter) Apply(x []float64) []float64 {
	return zerophase.Filter(f.sections, x)
}

// MagnitudeDB returns the single-pass magnitude response in dB. The zero-phase
// application doubles it.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return biquad.NewChain(f.sections).MagnitudeDB(freqHz, f.sampleRate)
}

// Bank is an ordered set of filters applied in series to every channel.
type Bank struct {
	filters    []*Filter
	sampleRate float64
}

// New validates and designs every spec for sampleRate. An empty spec list
// yields a pass-through bank.
func New(sampleRate float64, specs ...Spec) (*Bank, error) {
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("%w: sample rate %g must be positive", ErrInvalidFilterParameter, sampleRate)
	}

	filters := make([]*Filter, 0, len(specs))
	for i, spec := range specs {
		f, err := NewFilter(spec, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("bank: filter %d: %w", i, err)
		}
		filters = append(filters, f)
	}

	return &Bank{filters: filters, sampleRate: sampleRate}, nil
}

// Filters returns the filters in application order.
func (b *Bank) Filters() []*Filter { return b.filters }

// Len returns the number of filters.
func (b *Bank) Len() int { return len(b.filters) }

// SampleRate returns the sample rate the bank was built for.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// ApplyChannel runs x through every filter and returns a new slice.
func (b *Bank) ApplyChannel(x []float64) []float64 {
	out := append([]float64(nil), x...)
	for _, f := range b.filters {
		zerophase.FilterTo(out, f.sections, out)
	}
	return out
}

// Apply filters each channel independently. The result has the same shape
// as channels; the input is not modified.
func (b *Bank) Apply(channels [][]float64) [][]float64 {
	out := make([][]float64, len(channels))
	for ch, x := range channels {
		out[ch] = b.ApplyChannel(x)
	}
	return out
}
