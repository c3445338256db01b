package fitting

import (
	"context"
	"math"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Simplex minimises the sum of squared residuals with gonum's Nelder-Mead.
// It needs no derivatives and copes with kinks (Box1D, Trapezoid1D), but
// converges more slowly than LevenbergMarquardt; raise MaxIterations.
type Simplex struct{}

// Name implements Fitter.
func (Simplex) Name() string { return NameSimplex }

// Minimize implements Fitter.
func (Simplex) Minimize(ctx context.Context, p *Problem, opts Options) (Solution, error) {
	n := p.Dim()
	scale := make([]float64, n)
	for i, v := range p.X0 {
		scale[i] = math.Abs(v)
		if scale[i] == 0 {
			scale[i] = 1
		}
	}
	u0 := make([]float64, n)
	floats.DivTo(u0, p.X0, scale)

	params := make([]float64, n)
	toParams := func(u []float64) []float64 {
		floats.MulTo(params, u, scale)
		p.Project(params)
		return params
	}

	initial := p.Cost(p.X0)
	sol := Solution{X: append([]float64(nil), p.X0...), InitialCost: initial, FinalCost: initial}

	problem := optimize.Problem{
		Func: func(u []float64) float64 {
			c := p.Cost(toParams(u))
			if math.IsNaN(c) {
				return math.Inf(1)
			}
			return c
		},
	}
	settings := &optimize.Settings{
		MajorIterations: opts.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Relative:   opts.FTol,
			Iterations: 5 * (n + 1),
		},
		Recorder: &ctxRecorder{ctx: ctx, log: opts.Logger},
	}

	res, err := optimize.Minimize(problem, u0, settings, &optimize.NelderMead{})
	if cerr := ctx.Err(); cerr != nil {
		return sol, cerr
	}
	if res == nil {
		sol.Reason = err.Error()
		return sol, nil
	}

	sol.X = append([]float64(nil), toParams(res.X)...)
	sol.Iterations = res.MajorIterations
	sol.FinalCost = res.F
	sol.Reason = res.Status.String()
	if err != nil {
		sol.Reason = err.Error()
		return sol, nil
	}
	sol.Converged = simplexConverged(res.Status)
	return sol, nil
}

// simplexConverged maps gonum termination statuses onto convergence.
func simplexConverged(s optimize.Status) bool {
	switch s {
	case optimize.Success,
		optimize.FunctionThreshold,
		optimize.FunctionConvergence,
		optimize.GradientThreshold,
		optimize.StepConvergence,
		optimize.MethodConverge:
		return true
	default:
		return false
	}
}

// ctxRecorder aborts optimize.Minimize once ctx is done.
type ctxRecorder struct {
	ctx context.Context
	log logr.Logger
}

func (r *ctxRecorder) Init() error { return nil }

func (r *ctxRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op == optimize.MajorIteration {
		r.log.V(2).Info("simplex iteration", "iter", stats.MajorIterations, "cost", loc.F)
	}
	return r.ctx.Err()
}
