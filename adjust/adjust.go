package adjust

import (
	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/registry"
)

// widthDivisor turns the window span into an initial line width.
const widthDivisor = 50

// Option configures Adjust.
type Option func(*options)

type options struct {
	log logr.Logger
}

// WithLogger reports skipped roles and non-adjustable kinds at V(1).
func WithLogger(l logr.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// Adjust seeds c from the window (x, y) and returns c.
// It is a no-op when x or y is empty or their lengths differ.
func Adjust(c *model.Component, x, y []float64, opts ...Option) *model.Component {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if c == nil {
		return nil
	}
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		o.log.V(1).Info("adjust skipped: empty or mismatched window",
			"kind", c.Kind.String(), "len_x", len(x), "len_y", len(y))
		return c
	}

	log := o.log.WithValues("kind", c.Kind.String(), "component", c.Name)
	first, last := x[0], x[len(x)-1]
	span := last - first

	switch c.Kind.Adjuster() {
	case registry.AdjustConstant:
		set(c, "amplitude", 0, log)

	case registry.AdjustLinear:
		if span != 0 {
			set(c, "slope", (y[len(y)-1]-y[0])/span, log)
		} else {
			log.V(1).Info("slope skipped: zero-width window")
		}
		set(c, "intercept", y[0], log)

	case registry.AdjustLineProfile:
		seeds := []struct {
			role  registry.Role
			value float64
		}{
			{registry.RoleAmplitude, (floats.Max(y) - floats.Min(y)) * c.Kind.AmplitudeFactor()},
			{registry.RolePosition, first + span/2},
			{registry.RoleWidth, span / widthDivisor},
		}
		for _, s := range seeds {
			name, ok := c.Kind.Role(s.role)
			if !ok {
				log.V(1).Info("role skipped", "role", s.role.String())
				continue
			}
			set(c, name, s.value, log)
		}

	default:
		log.V(1).Info("kind has no adjuster")
	}
	return c
}

// set writes a value by name, logging names missing from the schema.
func set(c *model.Component, name string, v float64, log logr.Logger) {
	p, err := c.Param(name)
	if err != nil {
		log.V(1).Info("parameter skipped", "param", name, "reason", err.Error())
		return
	}
	p.Value = v
}
