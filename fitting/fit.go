package fitting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/specmodel/model"
)

// Fitter table keys.
const (
	NameLevenbergMarquardt = "Levenberg-Marquardt"
	NameSimplex            = "Simplex"
)

// fitters is the fitter table, in presentation order.
var fitters = []Fitter{LevenbergMarquardt{}, Simplex{}}

// Lookup returns the fitter registered under name. An empty name selects
// the default, Levenberg-Marquardt.
func Lookup(name string) (Fitter, error) {
	if name == "" {
		return fitters[0], nil
	}
	for _, f := range fitters {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFitter, name)
}

// Names lists the fitter table keys; the first is the default.
func Names() []string {
	out := make([]string, len(fitters))
	for i, f := range fitters {
		out[i] = f.Name()
	}
	return out
}

// Fit runs the Levenberg-Marquardt fitter. See FitWith.
func Fit(ctx context.Context, m *model.Composite, x, y []float64, opts *Options) (*Result, error) {
	return FitWith(ctx, LevenbergMarquardt{}, m, x, y, opts)
}

// FitWith fits m to (x, y) with f. A nil opts means DefaultOptions().
//
// On convergence the fitted values are written back to m, provided m was
// not edited during the fit; otherwise model.ErrStaleModel is returned.
// Without convergence m is untouched and Result.Err wraps ErrFitDiverged.
//
// Complexity: one Snapshot O(P), then the fitter's own cost.
func FitWith(ctx context.Context, f Fitter, m *model.Composite, x, y []float64, opts *Options) (*Result, error) {
	// 1) Validate inputs before any solver work.
	if m == nil {
		return nil, ErrNilModel
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrShapeMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return nil, ErrEmptyData
	}
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.Weights != nil && len(o.Weights) != len(x) {
		return nil, fmt.Errorf("%w: %d weights for %d points", ErrBadWeights, len(o.Weights), len(x))
	}
	if o.Epsilon <= 0 {
		o.Epsilon = sqrtEps
	}

	// 2) Freeze the model; the solver never touches m.
	snap, version := m.Snapshot()
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	p, err := newProblem(snap, x, y, o.Weights)
	if err != nil {
		return nil, err
	}

	log := o.Logger.WithValues("fitter", f.Name(), "free", p.Dim(), "points", p.Size())
	start := time.Now()

	// 3) Solve, short-circuiting the trivial budgets.
	var sol Solution
	switch {
	case o.MaxIterations <= 0:
		c := p.Cost(p.X0)
		sol = Solution{X: p.X0, InitialCost: c, FinalCost: c, Reason: "no iterations allowed"}
	case p.Dim() == 0:
		c := p.Cost(p.X0)
		sol = Solution{X: p.X0, InitialCost: c, FinalCost: c, Converged: true, Reason: "no free parameters"}
	default:
		sol, err = f.Minimize(ctx, p, o)
		if err != nil {
			outcome := OutcomeError
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				outcome = OutcomeCanceled
			}
			o.Metrics.observe(f.Name(), outcome, sol.Iterations, time.Since(start))
			log.V(1).Info("fit aborted", "reason", err.Error(), "iterations", sol.Iterations)
			return nil, err
		}
	}

	res := &Result{
		Fitter:      f.Name(),
		Converged:   sol.Converged,
		Iterations:  sol.Iterations,
		InitialCost: sol.InitialCost,
		FinalCost:   sol.FinalCost,
		Reason:      sol.Reason,
		Params:      p.refs,
		Values:      append([]float64(nil), sol.X...),
	}

	// 4) Write back only a converged fit, guarded by the snapshot version.
	outcome := OutcomeConverged
	if sol.Converged {
		if err := m.Apply(version, res.Params, res.Values); err != nil {
			o.Metrics.observe(f.Name(), OutcomeError, sol.Iterations, time.Since(start))
			return nil, err
		}
	} else {
		outcome = OutcomeDiverged
		res.Err = fmt.Errorf("%w: %s after %d iterations", ErrFitDiverged, sol.Reason, sol.Iterations)
	}
	o.Metrics.observe(f.Name(), outcome, sol.Iterations, time.Since(start))
	log.V(1).Info("fit done", "outcome", outcome, "iterations", sol.Iterations,
		"initialCost", sol.InitialCost, "finalCost", sol.FinalCost, "reason", sol.Reason)

	return res, nil
}
