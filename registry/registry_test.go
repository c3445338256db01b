package registry_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/specmodel/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault_HoldsEveryKind verifies the process-wide registry covers the enum.
func TestDefault_HoldsEveryKind(t *testing.T) {
	reg := registry.Default()
	require.Equal(t, len(registry.AllKinds()), reg.Len())

	for _, k := range registry.AllKinds() {
		assert.True(t, reg.Has(k), "kind %s must be registered", k)
		got, err := reg.Lookup(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.NotEmpty(t, k.Module(), "kind %s needs a module path", k)
		assert.Len(t, k.Defaults(), k.NumParams(), "defaults must match schema for %s", k)
	}
}

// TestLookup_Unknown ensures unknown names wrap ErrUnknownKind.
func TestLookup_Unknown(t *testing.T) {
	_, err := registry.Default().Lookup("Voigt1D")
	assert.ErrorIs(t, err, registry.ErrUnknownKind)
	assert.Contains(t, err.Error(), "Voigt1D")
}

// TestNew_RejectsDuplicatesAndInvalid checks constructor validation.
func TestNew_RejectsDuplicatesAndInvalid(t *testing.T) {
	_, err := registry.New(registry.Gaussian1D, registry.Gaussian1D)
	assert.ErrorIs(t, err, registry.ErrDuplicateKind)

	_, err = registry.New(registry.Invalid)
	assert.ErrorIs(t, err, registry.ErrInvalidKind)

	reg, err := registry.New(registry.Const1D, registry.Gaussian1D)
	require.NoError(t, err)
	assert.Equal(t, []string{"Const1D", "Gaussian1D"}, reg.Names())
	assert.False(t, reg.Has(registry.Lorentz1D))

	_, err = reg.Lookup("Lorentz1D")
	assert.ErrorIs(t, err, registry.ErrUnknownKind, "narrow registries only know their own kinds")
}

// TestKind_SchemaAndRoles checks the per-kind parameter-name mapping.
func TestKind_SchemaAndRoles(t *testing.T) {
	assert.Equal(t, []string{"amplitude", "mean", "stddev"}, registry.Gaussian1D.Schema())
	assert.Equal(t, 1, registry.Gaussian1D.ParamIndex("mean"))
	assert.Equal(t, -1, registry.Gaussian1D.ParamIndex("x_0"))

	cases := []struct {
		kind     registry.Kind
		role     registry.Role
		want     string
		wantOK   bool
		describe string
	}{
		{registry.Gaussian1D, registry.RolePosition, "mean", true, "gaussian position"},
		{registry.Lorentz1D, registry.RolePosition, "x_0", true, "lorentz position"},
		{registry.Lorentz1D, registry.RoleWidth, "fwhm", true, "lorentz width"},
		{registry.BrokenPowerLaw1D, registry.RolePosition, "x_break", true, "broken power law break"},
		{registry.PowerLaw1D, registry.RoleWidth, "", false, "power laws have no width"},
		{registry.Const1D, registry.RoleAmplitude, "", false, "const has no role table"},
	}
	for _, c := range cases {
		got, ok := c.kind.Role(c.role)
		assert.Equal(t, c.wantOK, ok, c.describe)
		assert.Equal(t, c.want, got, c.describe)
	}

	assert.Equal(t, 0.5, registry.PowerLaw1D.AmplitudeFactor())
	assert.Equal(t, 1.0, registry.Gaussian1D.AmplitudeFactor())
	assert.Equal(t, 1.0, registry.Linear1D.AmplitudeFactor())
}

// TestKind_Invalid ensures the zero Kind is inert.
func TestKind_Invalid(t *testing.T) {
	var k registry.Kind
	assert.False(t, k.Valid())
	assert.Equal(t, "Invalid", k.String())
	assert.Nil(t, k.Schema())
	assert.Equal(t, registry.AdjustNone, k.Adjuster())
	_, ok := k.Role(registry.RoleAmplitude)
	assert.False(t, ok)
}

// TestEval_KnownValues spot-checks evaluators against closed forms.
func TestEval_KnownValues(t *testing.T) {
	const eps = 1e-12
	cases := []struct {
		kind registry.Kind
		x    float64
		p    []float64
		want float64
	}{
		{registry.Gaussian1D, 1, []float64{2, 1, 1}, 2},
		{registry.Gaussian1D, 2, []float64{1, 1, 1}, math.Exp(-0.5)},
		{registry.GaussianAbsorption1D, 1, []float64{0.3, 1, 1}, 0.7},
		{registry.Lorentz1D, 1, []float64{3, 1, 2}, 3},
		{registry.Lorentz1D, 2, []float64{1, 1, 2}, 0.5},
		{registry.MexicanHat1D, 0, []float64{1, 0, 1}, 1},
		{registry.Box1D, 1.5, []float64{4, 1, 1}, 4},
		{registry.Box1D, 1.6, []float64{4, 1, 1}, 0},
		{registry.Trapezoid1D, 0, []float64{1, 0, 2, 1}, 1},
		{registry.Trapezoid1D, -1.5, []float64{1, 0, 2, 1}, 0.5},
		{registry.Trapezoid1D, 1.5, []float64{1, 0, 2, 1}, 0.5},
		{registry.Trapezoid1D, 3, []float64{1, 0, 2, 1}, 0},
		{registry.PowerLaw1D, 2, []float64{1, 1, 1}, 0.5},
		{registry.BrokenPowerLaw1D, 0.5, []float64{1, 1, 1, 2}, 2},
		{registry.BrokenPowerLaw1D, 2, []float64{1, 1, 1, 2}, 0.25},
		{registry.ExponentialCutoffPowerLaw1D, 1, []float64{1, 1, 1, 1}, math.Exp(-1)},
		{registry.LogParabola1D, 1, []float64{5, 1, 2, 3}, 5},
		{registry.Linear1D, 3, []float64{2, 1}, 7},
		{registry.Const1D, 42, []float64{1.5}, 1.5},
		{registry.Redshift, 2, []float64{0.5}, 3},
		{registry.Scale, 2, []float64{3}, 6},
		{registry.Shift, 2, []float64{3}, 5},
		{registry.Sine1D, 0.25, []float64{2, 1}, 2},
		{registry.Polynomial1D, 2, []float64{1, 3}, 7},
		{registry.Chebyshev1D, 2, []float64{1, 3}, 7},
		{registry.Legendre1D, 2, []float64{1, 3}, 7},
	}
	for _, c := range cases {
		got := c.kind.Eval(c.x, c.p)
		assert.InDelta(t, c.want, got, eps, "%s(%v; %v)", c.kind, c.x, c.p)
	}
}
