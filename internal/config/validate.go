package config

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ssvep/dsp/filter/bank"
	"github.com/cwbudde/algo-ssvep/internal/logging"
	"github.com/cwbudde/algo-ssvep/ssvep/cca"
	"github.com/cwbudde/algo-ssvep/ssvep/reference"
	"github.com/cwbudde/algo-ssvep/ssvep/segment"
	"github.com/cwbudde/algo-ssvep/ssvep/stimulus"
)

// Validate checks every section against the validator of the component it
// configures and joins all failures.
func (c *Config) Validate() error {
	var errs []error
	add := func(section string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalid, section, err))
		}
	}

	if !(c.Stream.SampleRate > 0) {
		add("stream.sample_rate", fmt.Errorf("%g must be positive", c.Stream.SampleRate))
	}
	if c.Stream.Channels <= 0 {
		add("stream.channels", fmt.Errorf("%d must be positive", c.Stream.Channels))
	}
	if c.Stream.Retention < 0 {
		add("stream.retention", fmt.Errorf("%d must not be negative", c.Stream.Retention))
	}
	if c.Stream.BlockSize <= 0 {
		add("stream.block_size", fmt.Errorf("%d must be positive", c.Stream.BlockSize))
	}

	switch c.Segment.Policy {
	case PolicyWallClock, PolicyContinuous:
	default:
		add("segment.policy", fmt.Errorf("unknown policy %q", c.Segment.Policy))
	}
	if c.Segment.PollInterval <= 0 {
		add("segment.poll_interval", fmt.Errorf("%v must be positive", c.Segment.PollInterval))
	}
	if c.Segment.RetryInterval <= 0 {
		add("segment.retry_interval", fmt.Errorf("%v must be positive", c.Segment.RetryInterval))
	}

	if c.Stream.SampleRate > 0 {
		n, err := c.WindowSamples()
		add("segment.duration", err)
		if err == nil && c.Stream.Retention > 0 && c.Stream.Retention < n {
			add("stream.retention", fmt.Errorf("%d samples cannot hold a %d-sample window", c.Stream.Retention, n))
		}
		if err == nil {
			_, err = c.ReferenceParams(n)
			add("classifier", err)
		}
		_, err = c.FilterBank()
		add("filters", err)
	}

	_, err := c.ClassifierOptions()
	add("classifier", err)

	if c.Stimulus.RefreshRate != 0 {
		_, err := stimulus.Quantize(c.Classifier.Frequencies, c.Stimulus.RefreshRate)
		add("stimulus", err)
	}

	if _, err := logging.New(c.Log.Level, c.Log.Format); err != nil {
		add("log", err)
	}

	return errors.Join(errs...)
}

// WindowSamples returns the analysis window length in samples.
func (c *Config) WindowSamples() (int, error) {
	return segment.SamplesFor(c.Stream.SampleRate, c.Segment.Duration)
}

// Frequencies returns the stimulation frequencies, quantized to the
// display refresh rate when one is configured.
func (c *Config) Frequencies() ([]float64, error) {
	if c.Stimulus.RefreshRate == 0 {
		return append([]float64(nil), c.Classifier.Frequencies...), nil
	}
	targets, err := stimulus.Quantize(c.Classifier.Frequencies, c.Stimulus.RefreshRate)
	if err != nil {
		return nil, err
	}
	return stimulus.Frequencies(targets), nil
}

// ReferenceParams returns the reference set parameters for windows of n
// samples.
func (c *Config) ReferenceParams(n int) (reference.Params, error) {
	freqs, err := c.Frequencies()
	if err != nil {
		return reference.Params{}, err
	}
	p := reference.Params{
		SampleRate:  c.Stream.SampleRate,
		Samples:     n,
		Frequencies: freqs,
		Harmonics:   c.Classifier.Harmonics,
	}
	return p, p.Validate()
}

// FilterSpecs parses the configured filters.
func (c *Config) FilterSpecs() ([]bank.Spec, error) {
	specs := make([]bank.Spec, 0, len(c.Filters))
	for i, f := range c.Filters {
		kind, err := bank.ParseKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		var s bank.Spec
		switch kind {
		case bank.KindBandpass:
			s = bank.Bandpass(f.Low, f.High, f.Order)
		case bank.KindHighpass:
			s = bank.Highpass(f.Low, f.Order)
		case bank.KindLowpass:
			s = bank.Lowpass(f.High, f.Order)
		case bank.KindBandstop:
			s = bank.Bandstop(f.Low, f.High, f.Order)
		case bank.KindNotch:
			q := f.Q
			if q == 0 {
				s = bank.MainsNotch(f.Freq)
				break
			}
			s = bank.Notch(f.Freq, q)
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// FilterBank designs the configured filters.
func (c *Config) FilterBank() (*bank.Bank, error) {
	specs, err := c.FilterSpecs()
	if err != nil {
		return nil, err
	}
	return bank.New(c.Stream.SampleRate, specs...)
}

// ClassifierOptions translates the classifier section into cca options.
func (c *Config) ClassifierOptions() ([]cca.Option, error) {
	strategy, err := cca.ParseStrategy(c.Classifier.Strategy)
	if err != nil {
		return nil, err
	}
	if c.Classifier.SNRNeighbors < 0 {
		return nil, fmt.Errorf("snr_neighbors %d must not be negative", c.Classifier.SNRNeighbors)
	}
	sb := c.Classifier.SubBands
	opts := []cca.Option{
		cca.WithStrategy(strategy),
		cca.WithSubBands(bank.SubBandConfig{
			Count: sb.Count,
			Base:  sb.Base,
			Step:  sb.Step,
			High:  sb.High,
			Order: sb.Order,
		}),
		cca.WithSubBandWeights(sb.WeightA, sb.WeightB),
		cca.WithOptimizerBudget(c.Classifier.OptimizerBudget),
	}
	if c.Classifier.DropFlatChannels {
		opts = append(opts, cca.WithDropFlatChannels())
	}
	return opts, nil
}

// NewClassifier builds the reference set and classifier for windows of n
// samples.
func (c *Config) NewClassifier(n int) (*reference.Set, *cca.Classifier, error) {
	p, err := c.ReferenceParams(n)
	if err != nil {
		return nil, nil, err
	}
	refs, err := reference.NewSet(p)
	if err != nil {
		return nil, nil, err
	}
	opts, err := c.ClassifierOptions()
	if err != nil {
		return nil, nil, err
	}
	clf, err := cca.New(refs, opts...)
	if err != nil {
		return nil, nil, err
	}
	return refs, clf, nil
}
