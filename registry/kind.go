package registry

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrUnknownKind indicates that a kind name is not registered.
	ErrUnknownKind = errors.New("registry: unknown kind")

	// ErrDuplicateKind indicates that the same kind was registered twice.
	ErrDuplicateKind = errors.New("registry: duplicate kind")

	// ErrInvalidKind indicates the zero Kind or a value outside the enum.
	ErrInvalidKind = errors.New("registry: invalid kind")
)

// Kind is the closed type tag of a spectral component.
// The zero value is Invalid.
type Kind int

const (
	// Invalid is the zero Kind; it is never registered.
	Invalid Kind = iota

	Box1D
	Gaussian1D
	GaussianAbsorption1D
	Lorentz1D
	MexicanHat1D
	Trapezoid1D
	ExponentialCutoffPowerLaw1D
	BrokenPowerLaw1D
	LogParabola1D
	PowerLaw1D
	Linear1D
	Const1D
	Redshift
	Scale
	Shift
	Sine1D
	Chebyshev1D
	Legendre1D
	Polynomial1D

	numKinds
)

// AdjusterClass selects the initial-guess heuristic applied to a kind.
type AdjusterClass int

const (
	// AdjustNone leaves the component untouched.
	AdjustNone AdjusterClass = iota

	// AdjustConstant zeroes the amplitude.
	AdjustConstant

	// AdjustLinear seeds slope and intercept from the data end points.
	AdjustLinear

	// AdjustLineProfile seeds amplitude, position and width.
	AdjustLineProfile
)

// Role names a generic parameter role used by the line-profile adjuster.
type Role int

const (
	RoleAmplitude Role = iota
	RolePosition
	RoleWidth
)

// String returns the role name as used in log records.
func (r Role) String() string {
	switch r {
	case RoleAmplitude:
		return "amplitude"
	case RolePosition:
		return "position"
	case RoleWidth:
		return "width"
	default:
		return "unknown"
	}
}

// Module paths emitted in persisted model headers.
const (
	moduleFunctional = "astropy.modeling.functional_models"
	modulePowerLaws  = "astropy.modeling.powerlaws"
	modulePolynomial = "astropy.modeling.polynomial"
)

// EvalFunc evaluates a kind at a single abscissa x with parameters p
// given in schema order.
type EvalFunc func(x float64, p []float64) float64

// kindInfo is the static description of one Kind.
type kindInfo struct {
	name     string
	module   string
	params   []string
	defaults []float64
	eval     EvalFunc
	adjuster AdjusterClass
	factor   float64         // amplitude multiplier for AdjustLineProfile
	roles    map[Role]string // role → schema parameter name
}

// lineRoles builds a role table; an empty width means the kind has no width concept.
func lineRoles(position, width string) map[Role]string {
	roles := map[Role]string{RoleAmplitude: "amplitude", RolePosition: position}
	if width != "" {
		roles[RoleWidth] = width
	}
	return roles
}

// kindTable is indexed by Kind. Order matches the const block above.
var kindTable = [numKinds]kindInfo{
	Invalid: {name: "Invalid"},
	Box1D: {
		name: "Box1D", module: moduleFunctional,
		params: []string{"amplitude", "x_0", "width"}, defaults: []float64{1, 1, 1},
		eval: evalBox, adjuster: AdjustLineProfile, factor: 1, roles: lineRoles("x_0", "width"),
	},
	Gaussian1D: {
		name: "Gaussian1D", module: moduleFunctional,
		params: []string{"amplitude", "mean", "stddev"}, defaults: []float64{1, 1, 1},
		eval: evalGaussian, adjuster: AdjustLineProfile, factor: 1, roles: lineRoles("mean", "stddev"),
	},
	GaussianAbsorption1D: {
		name: "GaussianAbsorption1D", module: moduleFunctional,
		params: []string{"amplitude", "mean", "stddev"}, defaults: []float64{1, 1, 1},
		eval: evalGaussianAbsorption, adjuster: AdjustLineProfile, factor: 1, roles: lineRoles("mean", "stddev"),
	},
	Lorentz1D: {
		name: "Lorentz1D", module: moduleFunctional,
		params: []string{"amplitude", "x_0", "fwhm"}, defaults: []float64{1, 1, 1},
		eval: evalLorentz, adjuster: AdjustLineProfile, factor: 1, roles: lineRoles("x_0", "fwhm"),
	},
	MexicanHat1D: {
		name: "MexicanHat1D", module: moduleFunctional,
		params: []string{"amplitude", "x_0", "sigma"}, defaults: []float64{1, 1, 1},
		eval: evalMexicanHat, adjuster: AdjustLineProfile, factor: 1, roles: lineRoles("x_0", "sigma"),
	},
	Trapezoid1D: {
		name: "Trapezoid1D", module: moduleFunctional,
		params: []string{"amplitude", "x_0", "width", "slope"}, defaults: []float64{1, 1, 1, 1},
		eval: evalTrapezoid, adjuster: AdjustLineProfile, factor: 1, roles: lineRoles("x_0", "width"),
	},
	ExponentialCutoffPowerLaw1D: {
		name: "ExponentialCutoffPowerLaw1D", module: modulePowerLaws,
		params: []string{"amplitude", "x_0", "alpha", "x_cutoff"}, defaults: []float64{1, 1, 1, 1},
		eval: evalExpCutoffPowerLaw, adjuster: AdjustLineProfile, factor: 0.5, roles: lineRoles("x_0", ""),
	},
	BrokenPowerLaw1D: {
		name: "BrokenPowerLaw1D", module: modulePowerLaws,
		params: []string{"amplitude", "x_break", "alpha_1", "alpha_2"}, defaults: []float64{1, 1, 1, 1},
		eval: evalBrokenPowerLaw, adjuster: AdjustLineProfile, factor: 0.5, roles: lineRoles("x_break", ""),
	},
	LogParabola1D: {
		name: "LogParabola1D", module: modulePowerLaws,
		params: []string{"amplitude", "x_0", "alpha", "beta"}, defaults: []float64{1, 1, 1, 1},
		eval: evalLogParabola, adjuster: AdjustLineProfile, factor: 0.5, roles: lineRoles("x_0", ""),
	},
	PowerLaw1D: {
		name: "PowerLaw1D", module: modulePowerLaws,
		params: []string{"amplitude", "x_0", "alpha"}, defaults: []float64{1, 1, 1},
		eval: evalPowerLaw, adjuster: AdjustLineProfile, factor: 0.5, roles: lineRoles("x_0", ""),
	},
	Linear1D: {
		name: "Linear1D", module: moduleFunctional,
		params: []string{"slope", "intercept"}, defaults: []float64{1, 0},
		eval: evalLinear, adjuster: AdjustLinear,
	},
	Const1D: {
		name: "Const1D", module: moduleFunctional,
		params: []string{"amplitude"}, defaults: []float64{0},
		eval: evalConst, adjuster: AdjustConstant,
	},
	Redshift: {
		name: "Redshift", module: moduleFunctional,
		params: []string{"z"}, defaults: []float64{0},
		eval: evalRedshift,
	},
	Scale: {
		name: "Scale", module: moduleFunctional,
		params: []string{"factor"}, defaults: []float64{1},
		eval: evalScale,
	},
	Shift: {
		name: "Shift", module: moduleFunctional,
		params: []string{"offset"}, defaults: []float64{0},
		eval: evalShift,
	},
	Sine1D: {
		name: "Sine1D", module: moduleFunctional,
		params: []string{"amplitude", "frequency"}, defaults: []float64{1, 1},
		eval: evalSine,
	},
	Chebyshev1D: {
		name: "Chebyshev1D", module: modulePolynomial,
		params: []string{"c0", "c1"}, defaults: []float64{0, 0},
		eval: evalChebyshev,
	},
	Legendre1D: {
		name: "Legendre1D", module: modulePolynomial,
		params: []string{"c0", "c1"}, defaults: []float64{0, 0},
		eval: evalLegendre,
	},
	Polynomial1D: {
		name: "Polynomial1D", module: modulePolynomial,
		params: []string{"c0", "c1"}, defaults: []float64{0, 0},
		eval: evalPolynomial,
	},
}

// Valid reports whether k is a real, registered-able kind.
func (k Kind) Valid() bool { return k > Invalid && k < numKinds }

// String returns the kind name, e.g. "Gaussian1D".
func (k Kind) String() string {
	if !k.Valid() {
		return "Invalid"
	}
	return kindTable[k].name
}

// Module returns the module path the kind is imported from in model files.
func (k Kind) Module() string {
	if !k.Valid() {
		return ""
	}
	return kindTable[k].module
}

// Schema returns a copy of the ordered parameter names.
func (k Kind) Schema() []string {
	if !k.Valid() {
		return nil
	}
	return append([]string(nil), kindTable[k].params...)
}

// NumParams returns the schema length.
func (k Kind) NumParams() int {
	if !k.Valid() {
		return 0
	}
	return len(kindTable[k].params)
}

// Defaults returns a copy of the prototype parameter values in schema order.
func (k Kind) Defaults() []float64 {
	if !k.Valid() {
		return nil
	}
	return append([]float64(nil), kindTable[k].defaults...)
}

// ParamIndex returns the schema position of name, or -1.
func (k Kind) ParamIndex(name string) int {
	if !k.Valid() {
		return -1
	}
	for i, p := range kindTable[k].params {
		if p == name {
			return i
		}
	}
	return -1
}

// Eval evaluates the kind at x. p must be in schema order and of schema length.
func (k Kind) Eval(x float64, p []float64) float64 {
	return kindTable[k].eval(x, p)
}

// Adjuster returns the initial-guess class of the kind.
func (k Kind) Adjuster() AdjusterClass {
	if !k.Valid() {
		return AdjustNone
	}
	return kindTable[k].adjuster
}

// AmplitudeFactor returns the amplitude multiplier used by the line-profile
// adjuster (0.5 for power-law shaped kinds, 1 otherwise).
func (k Kind) AmplitudeFactor() float64 {
	if !k.Valid() || kindTable[k].factor == 0 {
		return 1
	}
	return kindTable[k].factor
}

// Role maps a generic role to this kind's parameter name.
// ok is false when the kind has no such role (e.g. power laws have no width).
func (k Kind) Role(r Role) (name string, ok bool) {
	if !k.Valid() {
		return "", false
	}
	name, ok = kindTable[k].roles[r]
	return name, ok
}

// AllKinds returns every valid kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := Invalid + 1; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}
