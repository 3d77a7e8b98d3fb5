package cca

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	timestats "github.com/cwbudde/algo-ssvep/stats/time"
)

// Standardize returns x shifted to zero mean and scaled to unit variance.
// It reports false, and returns nil, when x is flat or not finite.
func Standardize(x []float64) ([]float64, bool) {
	s := timestats.Calculate(x)
	if s.Flat {
		return nil, false
	}
	out := make([]float64, len(x))
	copy(out, x)
	floats.AddConst(-s.Mean, out)
	floats.Scale(1/s.StdDev, out)
	return out, true
}

// standardizeColumns standardizes every column of r and drops flat ones,
// such as a harmonic sampled exactly at Nyquist. It returns nil when no
// column survives.
func standardizeColumns(r *mat.Dense) *mat.Dense {
	rows, cols := r.Dims()
	kept := make([][]float64, 0, cols)
	for j := range cols {
		col, ok := Standardize(mat.Col(nil, j, r))
		if ok {
			kept = append(kept, col)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return fromColumns(rows, kept)
}

// windowMatrix builds the standardized samples × channels matrix of data.
// Flat channels make the window degenerate unless dropFlat is set, in which
// case they are left out.
func windowMatrix(data [][]float64, dropFlat bool) (*mat.Dense, bool) {
	cols := make([][]float64, 0, len(data))
	for _, ch := range data {
		col, ok := Standardize(ch)
		if !ok {
			if dropFlat {
				continue
			}
			return nil, false
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return nil, false
	}
	return fromColumns(len(cols[0]), cols), true
}

func fromColumns(rows int, cols [][]float64) *mat.Dense {
	m := mat.NewDense(rows, len(cols), nil)
	for j, c := range cols {
		m.SetCol(j, c)
	}
	return m
}

// topCorrelation returns the largest canonical correlation between x and y,
// or DegenerateScore when it cannot be computed. Both matrices must have
// the same number of rows.
func topCorrelation(x, y *mat.Dense) float64 {
	if x == nil || y == nil {
		return DegenerateScore
	}
	rows, xc := x.Dims()
	_, yc := y.Dims()
	if xc >= rows || yc >= rows {
		return DegenerateScore
	}

	var cc stat.CC
	if err := cc.CanonicalCorrelations(x, y, nil); err != nil {
		return DegenerateScore
	}
	corrs := cc.CorrsTo(nil)
	if len(corrs) == 0 {
		return DegenerateScore
	}
	return clampCorrelation(floats.Max(corrs))
}

func clampCorrelation(rho float64) float64 {
	if math.IsNaN(rho) || math.IsInf(rho, 0) {
		return DegenerateScore
	}
	return math.Min(rho, 1)
}

func (c *Classifier) scoreCCA(data [][]float64, p *prepared, scores []float64) {
	x, ok := windowMatrix(data, c.cfg.dropFlat)
	if !ok {
		fill(scores, DegenerateScore)
		return
	}
	for i, r := range p.std {
		scores[i] = topCorrelation(x, r)
	}
}

func fill(dst []float64, v float64) {
	for i := range dst {
		dst[i] = v
	}
}
