package fitting

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/specmodel/model"
)

// Problem is a least-squares problem over the free parameters of a private
// model snapshot. It is not safe for concurrent use.
type Problem struct {
	m    *model.Composite
	refs []model.ParamRef
	x, y []float64
	w    []float64

	// X0 is the starting point, already projected into the bounds.
	X0 []float64

	// Lower and Upper are the box constraints per free parameter.
	Lower, Upper []float64

	evals int
}

// newProblem binds snap to the data. snap is owned by the problem from here on.
func newProblem(snap *model.Composite, x, y, w []float64) (*Problem, error) {
	refs := snap.FreeParameters()
	x0, err := snap.Values(refs)
	if err != nil {
		return nil, err
	}
	p := &Problem{
		m: snap, refs: refs, x: x, y: y, w: w,
		X0:    x0,
		Lower: make([]float64, len(refs)),
		Upper: make([]float64, len(refs)),
	}
	for i, ref := range refs {
		par, err := snap.Parameter(ref)
		if err != nil {
			return nil, err
		}
		p.Lower[i], p.Upper[i] = par.Bounds.Lower(), par.Bounds.Upper()
	}
	p.Project(p.X0)
	return p, nil
}

// Dim is the number of free parameters.
func (p *Problem) Dim() int { return len(p.refs) }

// Size is the number of residuals.
func (p *Problem) Size() int { return len(p.x) }

// Evaluations counts model evaluations so far.
func (p *Problem) Evaluations() int { return p.evals }

// Project clamps params into the box in place.
func (p *Problem) Project(params []float64) {
	for i := range params {
		params[i] = math.Max(p.Lower[i], math.Min(p.Upper[i], params[i]))
	}
}

// Residuals writes w*(model(x) - y) at params into dst. Ties are resolved
// on the snapshot before evaluation.
func (p *Problem) Residuals(dst, params []float64) {
	p.evals++
	if err := p.m.Assign(p.refs, params); err != nil {
		for i := range dst {
			dst[i] = math.NaN()
		}
		return
	}
	floats.SubTo(dst, p.m.Evaluate(p.x), p.y)
	if p.w != nil {
		floats.Mul(dst, p.w)
	}
}

// Cost is the sum of squared residuals at params.
func (p *Problem) Cost(params []float64) float64 {
	r := make([]float64, p.Size())
	p.Residuals(r, params)
	return floats.Dot(r, r)
}
