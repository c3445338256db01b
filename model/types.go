package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/katalvlaran/specmodel/registry"
)

// Sentinel errors for model operations.
var (
	// ErrIndexOutOfRange indicates a component index outside [0, Len).
	ErrIndexOutOfRange = errors.New("model: component index out of range")

	// ErrUnknownParameter indicates a name that is not in the kind schema.
	ErrUnknownParameter = errors.New("model: unknown parameter")

	// ErrSchemaMismatch indicates a parameter list that does not match the kind schema.
	ErrSchemaMismatch = errors.New("model: parameters do not match kind schema")

	// ErrDanglingTie indicates a tie whose target does not exist or points at its own component.
	ErrDanglingTie = errors.New("model: dangling tie")

	// ErrTieCycle indicates that ties (transitively) reference themselves.
	ErrTieCycle = errors.New("model: tie cycle")

	// ErrBadTieFactor indicates a NaN or infinite tie factor.
	ErrBadTieFactor = errors.New("model: tie factor is not finite")

	// ErrTiedParameter indicates an attempt to set a value derived from a tie.
	ErrTiedParameter = errors.New("model: parameter is tied")

	// ErrBadBounds indicates min > max or a NaN bound.
	ErrBadBounds = errors.New("model: invalid bounds")

	// ErrStaleModel indicates a write-back against a model that changed since it was read.
	ErrStaleModel = errors.New("model: model changed since snapshot")

	// ErrNilComponent indicates a nil *Component argument.
	ErrNilComponent = errors.New("model: nil component")
)

// Bounds is a box constraint. A nil Min or Max means unbounded on that side.
// The zero value is unbounded.
type Bounds struct {
	Min *float64
	Max *float64
}

// NewBounds builds Bounds from plain floats; ±Inf maps to unbounded.
func NewBounds(lo, hi float64) Bounds {
	var b Bounds
	if !math.IsInf(lo, -1) {
		b.Min = &lo
	}
	if !math.IsInf(hi, 1) {
		b.Max = &hi
	}
	return b
}

// Lower returns the lower bound, -Inf when unbounded.
func (b Bounds) Lower() float64 {
	if b.Min == nil {
		return math.Inf(-1)
	}
	return *b.Min
}

// Upper returns the upper bound, +Inf when unbounded.
func (b Bounds) Upper() float64 {
	if b.Max == nil {
		return math.Inf(1)
	}
	return *b.Max
}

// Clamp projects v into the box.
func (b Bounds) Clamp(v float64) float64 {
	return math.Max(b.Lower(), math.Min(b.Upper(), v))
}

// Validate rejects NaN bounds and min > max.
func (b Bounds) Validate() error {
	lo, hi := b.Lower(), b.Upper()
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return fmt.Errorf("%w: (%v, %v)", ErrBadBounds, lo, hi)
	}
	return nil
}

// clone deep-copies the bound pointers.
func (b Bounds) clone() Bounds {
	var out Bounds
	if b.Min != nil {
		v := *b.Min
		out.Min = &v
	}
	if b.Max != nil {
		v := *b.Max
		out.Max = &v
	}
	return out
}

// Tie links a parameter to Factor times the parameter named Param of the
// component at position Target in the same composite model.
type Tie struct {
	Factor float64
	Target int
	Param  string
}

// String renders the tie as "<factor> * m[<target>].<param>".
func (t Tie) String() string {
	return strconv.FormatFloat(t.Factor, 'g', -1, 64) + " * m[" + strconv.Itoa(t.Target) + "]." + t.Param
}

// Parameter is one named value of a component.
// When Tied is non-nil, Value is derived and read-only to callers.
type Parameter struct {
	Name   string
	Value  float64
	Bounds Bounds
	Fixed  bool
	Tied   *Tie
}

// Free reports whether the parameter takes part in a fit.
func (p *Parameter) Free() bool { return !p.Fixed && p.Tied == nil }

// clone deep-copies the bounds and the tie.
func (p Parameter) clone() Parameter {
	out := p
	out.Bounds = p.Bounds.clone()
	if p.Tied != nil {
		t := *p.Tied
		out.Tied = &t
	}
	return out
}

// ParamRef addresses one parameter by component index and schema position.
type ParamRef struct {
	Component int
	Param     int
}

// Component is one named parametric function of a composite model.
// Params always follow Kind's schema in name and order.
type Component struct {
	Kind   registry.Kind
	Name   string
	Params []Parameter
}

// NewComponent builds the prototype component of a kind: default values,
// unbounded, free and untied.
func NewComponent(kind registry.Kind, name string) (*Component, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("model: NewComponent: %w", registry.ErrInvalidKind)
	}
	schema := kind.Schema()
	defaults := kind.Defaults()
	c := &Component{Kind: kind, Name: name, Params: make([]Parameter, len(schema))}
	for i, n := range schema {
		c.Params[i] = Parameter{Name: n, Value: defaults[i]}
	}
	return c, nil
}

// MustComponent is NewComponent with explicit values in schema order; it
// panics on an invalid kind or a value count mismatch. Meant for tests and
// static fixtures.
func MustComponent(kind registry.Kind, name string, values ...float64) *Component {
	c, err := NewComponent(kind, name)
	if err != nil {
		panic(err)
	}
	if len(values) > 0 {
		if len(values) != len(c.Params) {
			panic(fmt.Sprintf("model: MustComponent: %s takes %d values, got %d", kind, len(c.Params), len(values)))
		}
		for i, v := range values {
			c.Params[i].Value = v
		}
	}
	return c
}

// Param returns a pointer to the named parameter.
func (c *Component) Param(name string) (*Parameter, error) {
	idx := c.Kind.ParamIndex(name)
	if idx < 0 || idx >= len(c.Params) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownParameter, c.Kind, name)
	}
	return &c.Params[idx], nil
}

// Values returns the parameter values in schema order.
func (c *Component) Values() []float64 {
	out := make([]float64, len(c.Params))
	for i := range c.Params {
		out[i] = c.Params[i].Value
	}
	return out
}

// FreeCount returns how many parameters are neither fixed nor tied.
func (c *Component) FreeCount() int {
	n := 0
	for i := range c.Params {
		if c.Params[i].Free() {
			n++
		}
	}
	return n
}

// Evaluate returns the component's values at every x.
func (c *Component) Evaluate(x []float64) []float64 {
	out := make([]float64, len(x))
	c.addTo(out, x)
	return out
}

// addTo accumulates the component's values at x into dst.
func (c *Component) addTo(dst, x []float64) {
	p := c.Values()
	for i, xi := range x {
		dst[i] += c.Kind.Eval(xi, p)
	}
}

// Clone returns a deep copy.
func (c *Component) Clone() *Component {
	out := &Component{Kind: c.Kind, Name: c.Name, Params: make([]Parameter, len(c.Params))}
	for i := range c.Params {
		out.Params[i] = c.Params[i].clone()
	}
	return out
}

// Validate checks schema conformance and bounds.
func (c *Component) Validate() error {
	if c == nil {
		return ErrNilComponent
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("model: component %q: %w", c.Name, registry.ErrInvalidKind)
	}
	schema := c.Kind.Schema()
	if len(schema) != len(c.Params) {
		return fmt.Errorf("%w: %s wants %d parameters, got %d", ErrSchemaMismatch, c.Kind, len(schema), len(c.Params))
	}
	for i, n := range schema {
		if c.Params[i].Name != n {
			return fmt.Errorf("%w: %s parameter %d is %q, want %q", ErrSchemaMismatch, c.Kind, i, c.Params[i].Name, n)
		}
		if err := c.Params[i].Bounds.Validate(); err != nil {
			return fmt.Errorf("%s.%s: %w", c.Kind, n, err)
		}
	}
	return nil
}
