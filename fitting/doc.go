// Package fitting refines the free parameters of a model.Composite against
// observed (x, y) data by nonlinear least squares.
//
// What:
//
//   - Two fitters are registered by name:
//
//	"Levenberg-Marquardt"  damped Gauss-Newton on a forward-difference Jacobian (default)
//	"Simplex"              gonum Nelder-Mead on the sum of squared residuals
//
//   - Problem: the free vector holds every unfixed, untied parameter in
//     component order, then schema order. Residuals are model(x) - y,
//     optionally multiplied by per-point weights. Bounds are box
//     constraints enforced by projection.
//   - Metrics: Prometheus counters and histograms per fitter and outcome.
//
// Why:
//
//   - A fit works on a snapshot of the model. Only a converged fit writes
//     values back, through model.Composite.Apply, so a model edited during
//     the fit is never overwritten (model.ErrStaleModel).
//   - A fit that does not converge is a normal outcome, not a failure: it
//     returns a Result with Converged=false, Err wrapping ErrFitDiverged,
//     and a nil error, leaving the model untouched.
//   - Cancellation is checked between iterations and returns ctx.Err()
//     with the model untouched.
//
// Complexity (m points, n free parameters, k iterations):
//
//	Levenberg-Marquardt  O(k·(n·m·c + n³)), c = cost of one model evaluation per point
//	Simplex              O(k·m·c) per function evaluation, more iterations than LM
//
// Errors:
//
//	ErrShapeMismatch  - len(x) != len(y).
//	ErrEmptyData      - no data points.
//	ErrBadWeights     - len(weights) != len(x).
//	ErrUnknownFitter  - Lookup on an unregistered name.
//	ErrNilModel       - nil model passed to Fit or FitWith.
//	ErrFitDiverged    - carried in Result.Err, never returned.
package fitting
