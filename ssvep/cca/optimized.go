package cca

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// rankTol is the relative singular value below which a window direction is
// treated as absent.
const rankTol = 1e-10

// projector measures how much of a signal lies in the span of the window
// channels.
type projector struct {
	basis *mat.Dense // orthonormal samples × rank
	rows  int
}

func newProjector(x *mat.Dense) (*projector, bool) {
	rows, cols := x.Dims()
	if cols >= rows {
		return nil, false
	}
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return nil, false
	}
	values := svd.Values(nil)
	rank := 0
	for _, v := range values {
		if v > values[0]*rankTol {
			rank++
		}
	}
	if rank == 0 {
		return nil, false
	}
	var u mat.Dense
	svd.UTo(&u)
	return &projector{basis: u.Slice(0, rows, 0, rank).(*mat.Dense), rows: rows}, true
}

// correlation returns the multiple correlation between v and the window
// channels, which is the top canonical correlation for a one-column
// reference. v is centered in place.
func (p *projector) correlation(v []float64) float64 {
	floats.AddConst(-floats.Sum(v)/float64(len(v)), v)
	norm := floats.Norm(v, 2)
	if !(norm > 0) {
		return DegenerateScore
	}
	var proj mat.VecDense
	proj.MulVec(p.basis.T(), mat.NewVecDense(p.rows, v))
	return clampCorrelation(mat.Norm(&proj, 2) / norm)
}

// harmonicModel evaluates v(t) = Σ_h a_h·sin(2π·h·f·t + φ_h) from the raw
// sine and cosine columns of a reference matrix. Parameters are laid out
// as [φ_1..φ_H, a_2..a_H]; a_1 is fixed at 1.
type harmonicModel struct {
	sin, cos [][]float64
	buf      []float64
}

func newHarmonicModel(r *mat.Dense, harmonics int) *harmonicModel {
	rows, _ := r.Dims()
	m := &harmonicModel{
		sin: make([][]float64, harmonics),
		cos: make([][]float64, harmonics),
		buf: make([]float64, rows),
	}
	for h := range harmonics {
		m.sin[h] = mat.Col(nil, h, r)
		m.cos[h] = mat.Col(nil, harmonics+h, r)
	}
	return m
}

func (m *harmonicModel) eval(params []float64) []float64 {
	harmonics := len(m.sin)
	for i := range m.buf {
		m.buf[i] = 0
	}
	for h := range harmonics {
		a := 1.0
		if h > 0 {
			a = params[harmonics+h-1]
		}
		phi := params[h]
		floats.AddScaled(m.buf, a*math.Cos(phi), m.sin[h])
		floats.AddScaled(m.buf, a*math.Sin(phi), m.cos[h])
	}
	return m.buf
}

// start derives the initial parameters in closed form: each harmonic gets
// the phase maximizing its own projected energy, and amplitudes follow the
// projected magnitudes relative to the fundamental, signed to add up with
// it.
func (m *harmonicModel) start(p *projector) []float64 {
	harmonics := len(m.sin)
	x := make([]float64, 2*harmonics-1)
	gains := make([]float64, harmonics)
	aligned := make([]*mat.VecDense, harmonics)
	for h := range harmonics {
		ps := project(p, m.sin[h])
		pc := project(p, m.cos[h])
		ss := mat.Dot(ps, ps)
		cc := mat.Dot(pc, pc)
		sc := mat.Dot(ps, pc)
		phi := 0.5 * math.Atan2(2*sc, ss-cc)
		x[h] = phi

		var v mat.VecDense
		v.ScaleVec(math.Cos(phi), ps)
		v.AddScaledVec(&v, math.Sin(phi), pc)
		aligned[h] = &v
		gains[h] = mat.Norm(&v, 2)
	}
	for h := 1; h < harmonics; h++ {
		a := 1 / float64(h+1)
		if gains[0] > 0 {
			a = gains[h] / gains[0]
		}
		if mat.Dot(aligned[h], aligned[0]) < 0 {
			a = -a
		}
		x[harmonics+h-1] = a
	}
	return x
}

func project(p *projector, v []float64) *mat.VecDense {
	var out mat.VecDense
	out.MulVec(p.basis.T(), mat.NewVecDense(p.rows, v))
	return &out
}

// scoreOptimized fits one harmonic waveform per frequency with Nelder-Mead
// and scores the best correlation found within the evaluation budget.
func (c *Classifier) scoreOptimized(data [][]float64, p *prepared, scores []float64) {
	x, ok := windowMatrix(data, c.cfg.dropFlat)
	if !ok {
		fill(scores, DegenerateScore)
		return
	}
	proj, ok := newProjector(x)
	if !ok {
		fill(scores, DegenerateScore)
		return
	}

	for i, r := range p.raw {
		if p.std[i] == nil {
			scores[i] = DegenerateScore
			continue
		}
		model := newHarmonicModel(r, p.params.Harmonics)
		x0 := model.start(proj)
		best := proj.correlation(model.eval(x0))

		problem := optimize.Problem{
			Func: func(params []float64) float64 {
				rho := proj.correlation(model.eval(params))
				if rho <= DegenerateScore {
					return 1
				}
				return -rho
			},
		}
		settings := &optimize.Settings{
			FuncEvaluations: c.cfg.budget,
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-12,
				Iterations: 50,
			},
		}
		res, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
		scores[i] = clampCorrelation(refined(best, res, err))
	}
}

// refined returns the better of the closed-form start score and the
// optimizer result. A failed search falls back to the start, which is an
// achievable correlation and so a valid lower bound.
func refined(start float64, res *optimize.Result, err error) float64 {
	if err != nil || res == nil || !(-res.F > start) {
		return start
	}
	return -res.F
}
