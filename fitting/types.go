package fitting

import (
	"context"
	"errors"
	"math"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/specmodel/model"
)

// Sentinel errors for fitting.
var (
	// ErrShapeMismatch indicates x and y of different lengths.
	ErrShapeMismatch = errors.New("fitting: x and y lengths differ")

	// ErrEmptyData indicates a fit with no data points.
	ErrEmptyData = errors.New("fitting: no data points")

	// ErrBadWeights indicates a weight vector not aligned with x.
	ErrBadWeights = errors.New("fitting: weights length differs from data")

	// ErrUnknownFitter indicates a fitter name missing from the fitter table.
	ErrUnknownFitter = errors.New("fitting: unknown fitter")

	// ErrFitDiverged marks a fit that stopped without converging.
	// It is reported in Result.Err, not returned.
	ErrFitDiverged = errors.New("fitting: fit did not converge")

	// ErrNilModel indicates a nil *model.Composite.
	ErrNilModel = errors.New("fitting: model is nil")
)

// Fitter minimises the cost of a Problem.
type Fitter interface {
	// Name is the key of the fitter in the fitter table.
	Name() string

	// Minimize runs from p.X0 and returns the best point found.
	// It must check ctx between iterations and return ctx.Err() when done.
	Minimize(ctx context.Context, p *Problem, opts Options) (Solution, error)
}

// Solution is what a Fitter reports back.
type Solution struct {
	X           []float64
	Iterations  int
	Converged   bool
	Reason      string
	InitialCost float64
	FinalCost   float64
}

// Options control a fit. Build them with DefaultOptions.
type Options struct {
	// MaxIterations caps solver iterations. 0 runs none and reports
	// the fit as not converged.
	MaxIterations int

	// FTol stops when the relative cost reduction of a step falls below it.
	FTol float64

	// XTol stops when the relative step size falls below it.
	XTol float64

	// GTol stops when the largest gradient entry falls below it; 0 disables.
	GTol float64

	// Epsilon is the finite-difference step in scaled parameter space.
	Epsilon float64

	// Weights multiplies residuals point by point; nil means unweighted.
	Weights []float64

	// Metrics, when non-nil, records every fit.
	Metrics *Metrics

	// Logger receives a summary per fit at V(1) and per-iteration costs at V(2).
	Logger logr.Logger
}

// sqrtEps is sqrt of the float64 machine epsilon.
var sqrtEps = math.Sqrt(0x1p-52)

// DefaultOptions returns:
//   - MaxIterations 100
//   - FTol, XTol and Epsilon sqrt(machine epsilon), about 1.49e-8
//   - GTol 0
//   - no weights, no metrics, a discarding logger
func DefaultOptions() Options {
	return Options{
		MaxIterations: 100,
		FTol:          sqrtEps,
		XTol:          sqrtEps,
		GTol:          0,
		Epsilon:       sqrtEps,
		Logger:        logr.Discard(),
	}
}

// Result summarises a fit.
type Result struct {
	Fitter      string
	Converged   bool
	Iterations  int
	InitialCost float64
	FinalCost   float64
	Reason      string

	// Err wraps ErrFitDiverged when Converged is false.
	Err error

	// Params are the free parameters at fit time; Values are their fitted
	// values, index-aligned. Values are only written back when Converged.
	Params []model.ParamRef
	Values []float64
}
