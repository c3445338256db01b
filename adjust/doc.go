// Package adjust seeds the parameters of a freshly created component from a
// data window, so that a fit starts near the feature the user selected.
//
// The heuristic depends on the kind's registry.AdjusterClass:
//
//	AdjustConstant     amplitude = 0
//	AdjustLinear       slope = (y[n-1]-y[0]) / (x[n-1]-x[0]), intercept = y[0]
//	AdjustLineProfile  amplitude = (max(y)-min(y)) * kind.AmplitudeFactor()
//	                   position  = x[0] + (x[n-1]-x[0]) / 2
//	                   width     = (x[n-1]-x[0]) / 50
//	AdjustNone         untouched
//
// Line-profile roles are mapped to schema names through kind.Role; a kind
// without a given role (power laws have no width) simply skips it.
// Nothing in this package fails: degenerate input leaves the component as is
// and the skip is reported at V(1) on the optional logger.
package adjust
