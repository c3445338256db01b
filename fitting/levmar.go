package fitting

import (
	"context"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Damping schedule of the Levenberg-Marquardt loop.
const (
	lambdaInit   = 1e-3 // times the largest diagonal entry of JᵀJ
	lambdaFactor = 10
	lambdaMax    = 1e16
)

// LevenbergMarquardt is the default fitter. It works in scaled space
// u = p/s with s = |p0| (1 where p0 is zero), so one Epsilon suits
// parameters of any magnitude. Damping is λ·I in that space; the scaling by
// start values takes the place of Marquardt's diag(JᵀJ).
//
// Complexity: per iteration O(m·n) residual evaluations for the Jacobian
// plus O(n³) for the Cholesky solve (m points, n free parameters).
type LevenbergMarquardt struct{}

// Name implements Fitter.
func (LevenbergMarquardt) Name() string { return NameLevenbergMarquardt }

// lmState is the working set of one Minimize call.
type lmState struct {
	p     *Problem
	opts  Options
	scale []float64

	u, params, r []float64
	cost         float64
	lambda       float64

	jac   *mat.Dense
	jtj   mat.SymDense
	aug   *mat.SymDense
	chol  mat.Cholesky
	g     mat.VecDense
	negG  mat.VecDense
	delta mat.VecDense

	trialU, trialP, trialR, tmp []float64
}

// Minimize implements Fitter.
func (LevenbergMarquardt) Minimize(ctx context.Context, p *Problem, opts Options) (Solution, error) {
	n, m := p.Dim(), p.Size()
	s := &lmState{
		p: p, opts: opts,
		scale:  make([]float64, n),
		u:      make([]float64, n),
		params: append([]float64(nil), p.X0...),
		r:      make([]float64, m),
		lambda: -1,
		jac:    mat.NewDense(m, n, nil),
		aug:    mat.NewSymDense(n, nil),
		trialU: make([]float64, n),
		trialP: make([]float64, n),
		trialR: make([]float64, m),
		tmp:    make([]float64, n),
	}
	for i, v := range p.X0 {
		s.scale[i] = math.Abs(v)
		if s.scale[i] == 0 {
			s.scale[i] = 1
		}
	}
	floats.DivTo(s.u, s.params, s.scale)
	p.Residuals(s.r, s.params)
	s.cost = floats.Dot(s.r, s.r)

	sol := Solution{X: s.params, InitialCost: s.cost, FinalCost: s.cost}
	finish := func(converged bool, reason string) (Solution, error) {
		sol.Converged, sol.Reason, sol.FinalCost = converged, reason, s.cost
		return sol, nil
	}

	switch {
	case math.IsNaN(s.cost) || math.IsInf(s.cost, 0):
		return finish(false, "non-finite cost at start")
	case s.cost == 0:
		return finish(true, "zero residual")
	}

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return sol, err
		}
		sol.Iterations = iter

		s.linearize()
		if opts.GTol > 0 && mat.Norm(&s.g, math.Inf(1)) <= opts.GTol {
			return finish(true, "gradient below gtol")
		}

		converged, reason, ok := s.step()
		opts.Logger.V(2).Info("lm iteration", "iter", iter, "cost", s.cost, "lambda", s.lambda)
		if !ok {
			return finish(false, reason)
		}
		if converged {
			return finish(true, reason)
		}
	}
	return finish(false, "iteration limit reached")
}

// residualsAt evaluates the problem at scaled point u.
func (s *lmState) residualsAt(dst, u []float64) {
	floats.MulTo(s.tmp, u, s.scale)
	s.p.Residuals(dst, s.tmp)
}

// linearize computes J at u, JᵀJ and g = Jᵀr, and seeds lambda once.
func (s *lmState) linearize() {
	fd.Jacobian(s.jac, s.residualsAt, s.u, &fd.JacobianSettings{
		Formula:     fd.Forward,
		OriginValue: s.r,
		Step:        s.opts.Epsilon,
	})
	s.jtj.SymOuterK(1, s.jac.T())
	s.g.MulVec(s.jac.T(), mat.NewVecDense(len(s.r), s.r))
	s.negG.ScaleVec(-1, &s.g)

	if s.lambda < 0 {
		maxDiag := 0.0
		for i := 0; i < len(s.u); i++ {
			maxDiag = math.Max(maxDiag, s.jtj.At(i, i))
		}
		s.lambda = lambdaInit * maxDiag
		if s.lambda == 0 {
			s.lambda = lambdaInit
		}
	}
}

// step raises lambda until a trial point does not increase the cost, then
// accepts it. ok is false when lambda overflows.
func (s *lmState) step() (converged bool, reason string, ok bool) {
	uNorm := floats.Norm(s.u, 2)
	for first := true; ; first = false {
		if s.solve() {
			for i := range s.trialU {
				s.trialU[i] = s.u[i] + s.delta.AtVec(i)
			}
			floats.MulTo(s.trialP, s.trialU, s.scale)
			s.p.Project(s.trialP)
			floats.DivTo(s.trialU, s.trialP, s.scale)

			small := floats.Distance(s.trialU, s.u, 2) <= s.opts.XTol*(uNorm+s.opts.XTol)
			s.p.Residuals(s.trialR, s.trialP)
			trialCost := floats.Dot(s.trialR, s.trialR)

			if trialCost <= s.cost && !math.IsNaN(trialCost) {
				actual := (s.cost - trialCost) / s.cost
				predicted := s.predicted() / s.cost
				copy(s.u, s.trialU)
				copy(s.params, s.trialP)
				copy(s.r, s.trialR)
				s.cost = trialCost
				s.lambda /= lambdaFactor

				switch {
				case s.cost == 0:
					return true, "zero residual", true
				case small:
					return true, "step below xtol", true
				case actual <= s.opts.FTol && predicted <= s.opts.FTol:
					return true, "cost reduction below ftol", true
				}
				return false, "", true
			}
			if small && first {
				// No descent even at the damping the last accepted step used.
				return true, "step below xtol", true
			}
		}
		s.lambda *= lambdaFactor
		if s.lambda > lambdaMax {
			return false, "damping exceeded 1e16", false
		}
	}
}

// solve computes delta from (JᵀJ + lambda·I) delta = -g.
func (s *lmState) solve() bool {
	s.aug.CopySym(&s.jtj)
	for i := 0; i < len(s.u); i++ {
		s.aug.SetSym(i, i, s.jtj.At(i, i)+s.lambda)
	}
	if s.chol.Factorize(s.aug) && s.chol.SolveVecTo(&s.delta, &s.negG) == nil {
		return true
	}
	return s.delta.SolveVec(s.aug, &s.negG) == nil
}

// predicted is the decrease of the linear model for the current delta,
// lambda·|delta|² - gᵀdelta, using the lambda the step was solved with.
func (s *lmState) predicted() float64 {
	return s.lambda*mat.Dot(&s.delta, &s.delta) - mat.Dot(&s.g, &s.delta)
}
