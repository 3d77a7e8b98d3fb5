package reference

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidParams is returned for parameters that cannot produce a
// reference set.
var ErrInvalidParams = errors.New("reference: invalid parameters")

// Params fully determines a reference set.
type Params struct {
	SampleRate  float64
	Samples     int
	Frequencies []float64
	Harmonics   int
}

// Validate checks that every matrix of p can be built.
func (p Params) Validate() error {
	switch {
	case !(p.SampleRate > 0) || math.IsInf(p.SampleRate, 0):
		return fmt.Errorf("%w: sample rate %g must be positive", ErrInvalidParams, p.SampleRate)
	case p.Samples <= 0:
		return fmt.Errorf("%w: samples %d must be positive", ErrInvalidParams, p.Samples)
	case p.Harmonics < 1:
		return fmt.Errorf("%w: harmonics %d must be at least 1", ErrInvalidParams, p.Harmonics)
	case len(p.Frequencies) == 0:
		return fmt.Errorf("%w: no frequencies", ErrInvalidParams)
	}
	for i, f := range p.Frequencies {
		if err := p.checkFrequency(f); err != nil {
			return fmt.Errorf("frequency %d: %w", i, err)
		}
	}
	return nil
}

func (p Params) checkFrequency(f float64) error {
	if !(f > 0 && f < p.SampleRate/2) {
		return fmt.Errorf("%w: frequency %g Hz outside (0, %g)", ErrInvalidParams, f, p.SampleRate/2)
	}
	return nil
}

// Equal reports whether p and o describe the same reference set. The
// frequency lists are compared element-wise, in order.
func (p Params) Equal(o Params) bool {
	return p.SampleRate == o.SampleRate &&
		p.Samples == o.Samples &&
		p.Harmonics == o.Harmonics &&
		slices.Equal(p.Frequencies, o.Frequencies)
}

// Aliased returns the frequencies whose highest harmonic reaches or exceeds
// Nyquist. Such references are still built; the upper harmonics alias.
func (p Params) Aliased() []float64 {
	var out []float64
	for _, f := range p.Frequencies {
		if float64(p.Harmonics)*f >= p.SampleRate/2 {
			out = append(out, f)
		}
	}
	return out
}

func (p Params) clone() Params {
	p.Frequencies = slices.Clone(p.Frequencies)
	return p
}

// Generate builds the n×2H reference matrix for frequency f. The
// frequency need not be listed in p.Frequencies.
func Generate(f float64, p Params) (*mat.Dense, error) {
	q := p
	q.Frequencies = []float64{f}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return generate(f, p.SampleRate, p.Samples, p.Harmonics), nil
}

func generate(f, sampleRate float64, samples, harmonics int) *mat.Dense {
	r := mat.NewDense(samples, 2*harmonics, nil)
	for k := range samples {
		t := float64(k) / sampleRate
		for h := 1; h <= harmonics; h++ {
			s, c := math.Sincos(2 * math.Pi * float64(h) * f * t)
			r.Set(k, h-1, s)
			r.Set(k, harmonics+h-1, c)
		}
	}
	return r
}

// Snapshot is a consistent, read-only view of a Set at one generation.
type Snapshot struct {
	Params     Params
	Matrices   []*mat.Dense
	Generation int
}

// Set caches the reference matrices for one Params value. Readers take
// snapshots; Configure swaps in a new set atomically, so a rebuild never
// races an in-flight classification.
type Set struct {
	build    sync.Mutex // serializes Configure
	mu       sync.RWMutex
	params   Params
	matrices []*mat.Dense
	gen      int
}

// NewSet validates p and builds its matrices.
func NewSet(p Params) (*Set, error) {
	s := &Set{}
	if _, err := s.Configure(p); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure rebuilds the matrices if p differs from the current parameters
// and reports whether it did. On error the previous set stays in place.
func (s *Set) Configure(p Params) (bool, error) {
	s.build.Lock()
	defer s.build.Unlock()

	s.mu.RLock()
	same := s.gen > 0 && s.params.Equal(p)
	s.mu.RUnlock()
	if same {
		return false, nil
	}

	if err := p.Validate(); err != nil {
		return false, err
	}
	p = p.clone()
	matrices := make([]*mat.Dense, len(p.Frequencies))
	for i, f := range p.Frequencies {
		matrices[i] = generate(f, p.SampleRate, p.Samples, p.Harmonics)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p
	s.matrices = matrices
	s.gen++
	return true, nil
}

// Snapshot returns the current matrices. The returned matrices must not be
// modified.
func (s *Set) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Params:     s.params.clone(),
		Matrices:   slices.Clone(s.matrices),
		Generation: s.gen,
	}
}

// Params returns a copy of the current parameters.
func (s *Set) Params() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.clone()
}

// Generation counts builds; it starts at 1 and increments on every rebuild.
func (s *Set) Generation() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}
