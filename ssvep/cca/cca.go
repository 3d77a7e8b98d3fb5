package cca

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-ssvep/dsp/filter/bank"
	"github.com/cwbudde/algo-ssvep/ssvep/reference"
	"github.com/cwbudde/algo-ssvep/ssvep/segment"
)

var (
	// ErrMismatchedSampleCount is returned when a window's length differs
	// from the reference length. Windows are never truncated or padded.
	ErrMismatchedSampleCount = errors.New("cca: window and reference sample counts differ")

	// ErrInvalidOption reports an unusable classifier option.
	ErrInvalidOption = errors.New("cca: invalid option")
)

// DegenerateScore is the score of a frequency that could not be evaluated.
const DegenerateScore = -1.0

// DefaultOptimizerBudget bounds the objective evaluations spent per
// frequency by StrategyOptimizedCCA.
const DefaultOptimizerBudget = 300

// Result is the outcome of classifying one window.
type Result struct {
	// Frequency is the winning stimulation frequency, 0 when nothing was
	// detected.
	Frequency float64
	// Index of the winning frequency in the reference set, -1 when nothing
	// was detected.
	Index    int
	Detected bool
	// Confidence is the winning score in [-1, 1].
	Confidence float64
	// Scores holds one score per reference frequency, in reference order.
	Scores []float64
}

func (r Result) String() string {
	if !r.Detected {
		return "none"
	}
	return fmt.Sprintf("%g Hz (%.3f)", r.Frequency, r.Confidence)
}

type config struct {
	strategy Strategy
	subBands *bank.SubBandConfig
	weightA  float64
	weightB  float64
	budget   int
	dropFlat bool
}

// Option configures a Classifier.
type Option func(*config)

// WithStrategy selects the scoring strategy. Default StrategyCCA.
func WithStrategy(s Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithSubBands sets the filter-bank decomposition used by
// StrategyFilterBankCCA. Default bank.DefaultSubBands for the reference
// sample rate.
func WithSubBands(cfg bank.SubBandConfig) Option {
	return func(c *config) { c.subBands = &cfg }
}

// WithSubBandWeights sets a and b in the sub-band weights m^(-a) + b.
// Defaults 1.25 and 0.25.
func WithSubBandWeights(a, b float64) Option {
	return func(c *config) {
		c.weightA = a
		c.weightB = b
	}
}

// WithOptimizerBudget bounds the objective evaluations per frequency for
// StrategyOptimizedCCA.
func WithOptimizerBudget(evaluations int) Option {
	return func(c *config) { c.budget = evaluations }
}

// WithDropFlatChannels excludes zero-variance channels from scoring instead
// of flooring every score. A window with no usable channel is still
// degenerate.
func WithDropFlatChannels() Option {
	return func(c *config) { c.dropFlat = true }
}

// Classifier scores windows against a reference set.
type Classifier struct {
	refs *reference.Set
	cfg  config

	mu       sync.Mutex
	prepared *prepared
}

// prepared is the per-generation state derived from a reference snapshot.
type prepared struct {
	gen    int
	params reference.Params
	// raw holds the generated matrices; std their standardized columns with
	// flat columns removed (nil when every column is flat).
	raw       []*mat.Dense
	std       []*mat.Dense
	subBands  []*bank.Filter
	weights   []float64
	weightSum float64
}

// New returns a classifier reading references from refs.
func New(refs *reference.Set, opts ...Option) (*Classifier, error) {
	if refs == nil {
		return nil, fmt.Errorf("%w: nil reference set", ErrInvalidOption)
	}
	cfg := config{
		strategy: StrategyCCA,
		weightA:  1.25,
		weightB:  0.25,
		budget:   DefaultOptimizerBudget,
	}
	for _, o := range opts {
		o(&cfg)
	}

	if _, ok := strategyNames[cfg.strategy]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, cfg.strategy)
	}
	if cfg.budget <= 0 {
		return nil, fmt.Errorf("%w: optimizer budget %d must be positive", ErrInvalidOption, cfg.budget)
	}
	if math.IsNaN(cfg.weightA) || math.IsNaN(cfg.weightB) || cfg.weightB < 0 {
		return nil, fmt.Errorf("%w: sub-band weights a=%g b=%g", ErrInvalidOption, cfg.weightA, cfg.weightB)
	}

	c := &Classifier{refs: refs, cfg: cfg}
	if _, err := c.prepare(); err != nil {
		return nil, err
	}
	return c, nil
}

// Strategy returns the configured strategy.
func (c *Classifier) Strategy() Strategy { return c.cfg.strategy }

// Classify scores w against every reference frequency and returns the best
// one. Ties resolve to the lowest frequency index.
func (c *Classifier) Classify(w *segment.Window) (Result, error) {
	if w == nil {
		return Result{}, errors.New("cca: nil window")
	}
	p, err := c.prepare()
	if err != nil {
		return Result{}, err
	}
	if w.Samples() != p.params.Samples {
		return Result{}, fmt.Errorf("%w: window has %d samples, references have %d",
			ErrMismatchedSampleCount, w.Samples(), p.params.Samples)
	}

	scores := make([]float64, len(p.raw))
	switch c.cfg.strategy {
	case StrategyFilterBankCCA:
		c.scoreFilterBank(w.Data(), p, scores)
	case StrategyOptimizedCCA:
		c.scoreOptimized(w.Data(), p, scores)
	default:
		c.scoreCCA(w.Data(), p, scores)
	}

	return decide(p.params.Frequencies, scores), nil
}

// prepare returns the state for the current reference generation,
// rebuilding it after the set was reconfigured.
func (c *Classifier) prepare() (*prepared, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.refs.Snapshot()
	if c.prepared != nil && c.prepared.gen == snap.Generation {
		return c.prepared, nil
	}

	p := &prepared{
		gen:    snap.Generation,
		params: snap.Params,
		raw:    snap.Matrices,
		std:    make([]*mat.Dense, len(snap.Matrices)),
	}
	for i, r := range snap.Matrices {
		p.std[i] = standardizeColumns(r)
	}

	if c.cfg.strategy == StrategyFilterBankCCA {
		sb := bank.DefaultSubBands(snap.Params.SampleRate)
		if c.cfg.subBands != nil {
			sb = *c.cfg.subBands
		}
		filters, err := bank.SubBands(snap.Params.SampleRate, sb)
		if err != nil {
			return nil, fmt.Errorf("cca: %w", err)
		}
		p.subBands = filters
		p.weights = sb.Weights(c.cfg.weightA, c.cfg.weightB)
		p.weightSum = floats.Sum(p.weights)
		if !(p.weightSum > 0) {
			return nil, fmt.Errorf("%w: sub-band weights sum to zero", ErrInvalidOption)
		}
	}

	c.prepared = p
	return p, nil
}

// decide picks the highest non-degenerate score. Strict comparison keeps
// the lowest index on ties.
func decide(freqs, scores []float64) Result {
	res := Result{Index: -1, Confidence: DegenerateScore, Scores: scores}
	for i, s := range scores {
		if s <= DegenerateScore {
			continue
		}
		if res.Index < 0 || s > res.Confidence {
			res.Index = i
			res.Confidence = s
		}
	}
	if res.Index >= 0 {
		res.Detected = true
		res.Frequency = freqs[res.Index]
	}
	return res
}
