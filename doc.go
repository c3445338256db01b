// Package specmodel composes, adjusts, fits and persists additive spectral
// models: sums of parametric 1-D components (Gaussian and Lorentzian
// lines, power laws, polynomials, constants) whose parameters can be
// bounded, fixed, or tied to another component's parameter.
//
// What is in the box:
//
//	registry/  - the component kinds: schema, defaults, evaluation, module path
//	model/     - Component and the thread-safe Composite, tie graph resolution
//	adjust/    - initial guesses for a new component from a data window
//	fitting/   - Levenberg-Marquardt and Simplex least-squares fitters
//	modelio/   - python-shaped text and YAML model files
//	analysis/  - region statistics, equivalent width, smoothing
//	session/   - the editing engine: one model, one data window, one fit slot
//	cmd/specmodel - the command line (kinds, check, eval, fit, stats, ew, smooth, new)
//
// A minimal fit:
//
//	m := model.New()
//	_ = m.Add(model.MustComponent(registry.Const1D, "continuum", 1))
//	_ = m.Add(model.MustComponent(registry.Gaussian1D, "halpha", 4, 6563, 2))
//	res, err := fitting.Fit(ctx, m, x, y, nil)
//	if err == nil && res.Converged {
//		out, _ := modelio.Serialize(m)
//		_ = os.WriteFile("halpha.py", out, 0o644)
//	}
//
// Every library package takes a logr.Logger through options and defaults to
// discarding; nothing logs unless asked.
package specmodel
