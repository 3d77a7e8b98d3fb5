package cca

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// scoreFilterBank combines per-sub-band correlations into
// sqrt(Σ w_m·ρ_m² / Σ w_m). A degenerate sub-band floors the frequency.
func (c *Classifier) scoreFilterBank(data [][]float64, p *prepared, scores []float64) {
	bands := make([]*mat.Dense, len(p.subBands))
	for m, f := range p.subBands {
		filtered := make([][]float64, len(data))
		for ch, x := range data {
			filtered[ch] = f.Apply(x)
		}
		x, ok := windowMatrix(filtered, c.cfg.dropFlat)
		if !ok {
			fill(scores, DegenerateScore)
			return
		}
		bands[m] = x
	}

	for i, r := range p.std {
		var sum float64
		for m, x := range bands {
			rho := topCorrelation(x, r)
			if rho <= DegenerateScore {
				sum = math.NaN()
				break
			}
			sum += p.weights[m] * rho * rho
		}
		if math.IsNaN(sum) {
			scores[i] = DegenerateScore
			continue
		}
		scores[i] = clampCorrelation(math.Sqrt(sum / p.weightSum))
	}
}
