package model_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/registry"
)

// constGauss builds the Const1D + Gaussian1D fixture used throughout.
func constGauss(t *testing.T) *model.Composite {
	t.Helper()
	m, err := model.FromComponents([]*model.Component{
		model.MustComponent(registry.Const1D, "c0", 0),
		model.MustComponent(registry.Gaussian1D, "c1", 1, 1, 1),
	})
	require.NoError(t, err)
	return m
}

// names lists component names in order.
func names(m *model.Composite) []string {
	var out []string
	for _, c := range m.Components() {
		out = append(out, c.Name)
	}
	return out
}

// TestNewComponent_Defaults checks the prototype of every kind.
func TestNewComponent_Defaults(t *testing.T) {
	for _, k := range registry.AllKinds() {
		c, err := model.NewComponent(k, "x")
		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, k.Defaults(), c.Values(), "%s", k)
		assert.Equal(t, k.NumParams(), c.FreeCount(), "%s", k)
	}

	_, err := model.NewComponent(registry.Invalid, "x")
	assert.ErrorIs(t, err, registry.ErrInvalidKind)
}

// TestComponent_ValidateSchema rejects reordered or short parameter lists.
func TestComponent_ValidateSchema(t *testing.T) {
	c := model.MustComponent(registry.Gaussian1D, "g")
	c.Params[0], c.Params[1] = c.Params[1], c.Params[0]
	assert.ErrorIs(t, c.Validate(), model.ErrSchemaMismatch)

	c = model.MustComponent(registry.Gaussian1D, "g")
	c.Params = c.Params[:2]
	assert.ErrorIs(t, c.Validate(), model.ErrSchemaMismatch)

	c = model.MustComponent(registry.Gaussian1D, "g")
	c.Params[2].Bounds = model.NewBounds(3, 1)
	assert.ErrorIs(t, c.Validate(), model.ErrBadBounds)
}

// TestEvaluate_EmptyModel returns zeros of the input length.
func TestEvaluate_EmptyModel(t *testing.T) {
	m := model.New()
	assert.Equal(t, []float64{0, 0, 0}, m.Evaluate([]float64{1, 2, 3}))
	assert.Empty(t, m.Evaluate(nil))
}

// TestEvaluate_Additive checks the sum equals per-component evaluation.
func TestEvaluate_Additive(t *testing.T) {
	m := constGauss(t)
	require.NoError(t, m.SetValue(0, "amplitude", 0.25))
	x := []float64{-1, 0, 0.5, 1, 2, 7}

	want := make([]float64, len(x))
	for _, c := range m.Components() {
		for i, v := range c.Evaluate(x) {
			want[i] += v
		}
	}
	assert.InDeltaSlice(t, want, m.Evaluate(x), 1e-15)
}

// TestConstGaussFixture evaluates Const(0) + Gaussian(1, 1, 1) at x = [0, 1, 2]
// against each component evaluated on its own.
func TestConstGaussFixture(t *testing.T) {
	m := constGauss(t)
	x := []float64{0, 1, 2}

	cs := m.Components()
	k, g := cs[0].Evaluate(x), cs[1].Evaluate(x)
	want := []float64{k[0] + g[0], k[1] + g[1], k[2] + g[2]}
	assert.InDeltaSlice(t, want, m.Evaluate(x), 1e-15)
	assert.InDeltaSlice(t, []float64{math.Exp(-0.5), 1, math.Exp(-0.5)}, m.Evaluate(x), 1e-12)
}

// TestEvaluate_OrderInvariant moves every component to every destination of a
// tied three-component model; the sum and the tie values must not change.
func TestEvaluate_OrderInvariant(t *testing.T) {
	build := func() *model.Composite {
		m, err := model.FromComponents([]*model.Component{
			model.MustComponent(registry.Const1D, "k", 0.5),
			model.MustComponent(registry.Gaussian1D, "a", 2, 1, 0.5),
			model.MustComponent(registry.Lorentz1D, "b", 1, 2.5, 0.8),
		})
		require.NoError(t, err)
		require.NoError(t, m.SetTie(2, "amplitude", model.Tie{Factor: 0.25, Target: 1, Param: "amplitude"}))
		return m
	}
	x := []float64{-1, 0, 0.5, 1, 1.5, 2, 2.5, 3, 4}
	want := build().Evaluate(x)

	for from := 0; from < 3; from++ {
		for to := -1; to <= 4; to++ {
			m := build()
			require.NoError(t, m.Move(from, to), "move %d -> %d", from, to)
			assert.InDeltaSlice(t, want, m.Evaluate(x), 1e-12, "move %d -> %d", from, to)

			// The tie still follows the Gaussian wherever both ended up.
			var gauss, lorentz int
			for i, c := range m.Components() {
				switch c.Name {
				case "a":
					gauss = i
				case "b":
					lorentz = i
				}
			}
			require.NoError(t, m.SetValue(gauss, "amplitude", 8))
			c, err := m.Component(lorentz)
			require.NoError(t, err)
			require.NotNil(t, c.Params[0].Tied)
			assert.Equal(t, gauss, c.Params[0].Tied.Target)
			assert.Equal(t, 2.0, c.Params[0].Value)
		}
	}
}

// TestAdd_IndexAndRange covers append, insert and out-of-range.
func TestAdd_IndexAndRange(t *testing.T) {
	m := constGauss(t)
	v0 := m.Version()

	require.NoError(t, m.Add(model.MustComponent(registry.Lorentz1D, "L")))
	require.NoError(t, m.Add(model.MustComponent(registry.Box1D, "B"), 1))
	assert.Equal(t, []string{"c0", "B", "c1", "L"}, names(m))
	assert.Greater(t, m.Version(), v0)

	err := m.Add(model.MustComponent(registry.Box1D, "X"), 9)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
	err = m.Add(model.MustComponent(registry.Box1D, "X"), -1)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
	assert.ErrorIs(t, m.Add(nil), model.ErrNilComponent)
	assert.Equal(t, 4, m.Len())
}

// TestAdd_ShiftsTies keeps existing ties on their targets after an insert.
func TestAdd_ShiftsTies(t *testing.T) {
	m := constGauss(t)
	require.NoError(t, m.Add(model.MustComponent(registry.Gaussian1D, "c2", 1, 4, 1)))
	require.NoError(t, m.SetTie(2, "amplitude", model.Tie{Factor: 0.5, Target: 1, Param: "amplitude"}))

	require.NoError(t, m.Add(model.MustComponent(registry.Box1D, "front"), 0))

	c, err := m.Component(3)
	require.NoError(t, err)
	require.NotNil(t, c.Params[0].Tied)
	assert.Equal(t, 2, c.Params[0].Tied.Target)
	assert.Equal(t, "c1", names(m)[2])
}

// TestRemove_DropsAndReindexesTies covers both tie rewrites on removal.
func TestRemove_DropsAndReindexesTies(t *testing.T) {
	m := constGauss(t)
	require.NoError(t, m.Add(model.MustComponent(registry.Gaussian1D, "c2")))
	require.NoError(t, m.Add(model.MustComponent(registry.Gaussian1D, "c3")))
	require.NoError(t, m.SetTie(2, "mean", model.Tie{Factor: 1, Target: 1, Param: "mean"}))
	require.NoError(t, m.SetTie(3, "mean", model.Tie{Factor: 2, Target: 2, Param: "mean"}))

	removed, err := m.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "c1", removed.Name)

	cs := m.Components()
	require.Len(t, cs, 3)
	assert.Nil(t, cs[1].Params[1].Tied, "tie to the removed component is dropped")
	require.NotNil(t, cs[2].Params[1].Tied)
	assert.Equal(t, 1, cs[2].Params[1].Tied.Target)

	_, err = m.Remove(3)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
}

// TestMove_ClampsAndRemapsTies moves a tie target and clamps destinations.
func TestMove_ClampsAndRemapsTies(t *testing.T) {
	m := constGauss(t)
	require.NoError(t, m.Add(model.MustComponent(registry.Gaussian1D, "c2")))
	require.NoError(t, m.SetTie(2, "stddev", model.Tie{Factor: 3, Target: 1, Param: "stddev"}))

	require.NoError(t, m.Move(1, 99))
	assert.Equal(t, []string{"c0", "c2", "c1"}, names(m))
	c, err := m.Component(1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Params[2].Tied.Target)

	require.NoError(t, m.Move(2, -5))
	assert.Equal(t, []string{"c1", "c0", "c2"}, names(m))
	c, err = m.Component(2)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Params[2].Tied.Target)

	assert.ErrorIs(t, m.Move(3, 0), model.ErrIndexOutOfRange)
}

// TestComponent_IsDeepCopy ensures callers cannot alias model state.
func TestComponent_IsDeepCopy(t *testing.T) {
	m := constGauss(t)
	c, err := m.Component(1)
	require.NoError(t, err)
	c.Params[0].Value = 42
	c.Name = "mutated"

	again, err := m.Component(1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, again.Params[0].Value)
	assert.Equal(t, "c1", again.Name)

	_, err = m.Component(5)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
}

// TestParameterEdits covers the GUI editing commands.
func TestParameterEdits(t *testing.T) {
	m := constGauss(t)

	require.NoError(t, m.SetBounds(1, "stddev", model.NewBounds(0, math.Inf(1))))
	require.NoError(t, m.SetFixed(1, "mean", true))
	require.NoError(t, m.SetName(1, "line"))

	c, err := m.Component(1)
	require.NoError(t, err)
	assert.Equal(t, "line", c.Name)
	assert.True(t, c.Params[1].Fixed)
	require.NotNil(t, c.Params[2].Bounds.Min)
	assert.Equal(t, 0.0, *c.Params[2].Bounds.Min)
	assert.Nil(t, c.Params[2].Bounds.Max)

	assert.ErrorIs(t, m.SetValue(1, "x_0", 1), model.ErrUnknownParameter)
	assert.ErrorIs(t, m.SetBounds(1, "mean", model.NewBounds(2, 1)), model.ErrBadBounds)
	assert.ErrorIs(t, m.SetFixed(7, "mean", true), model.ErrIndexOutOfRange)
}

// TestFreeParameters_Order lists free refs in component then schema order.
func TestFreeParameters_Order(t *testing.T) {
	m := constGauss(t)
	require.NoError(t, m.SetFixed(1, "mean", true))
	assert.Equal(t, []model.ParamRef{
		{Component: 0, Param: 0},
		{Component: 1, Param: 0},
		{Component: 1, Param: 2},
	}, m.FreeParameters())
}

// TestApply_StaleVersion refuses write-back after a concurrent edit.
func TestApply_StaleVersion(t *testing.T) {
	m := constGauss(t)
	snap, version := m.Snapshot()
	refs := snap.FreeParameters()
	vals, err := snap.Values(refs)
	require.NoError(t, err)
	vals[1] = 5

	require.NoError(t, m.SetName(0, "baseline"))
	assert.ErrorIs(t, m.Apply(version, refs, vals), model.ErrStaleModel)

	version = m.Version()
	require.NoError(t, m.Apply(version, refs, vals))
	c, err := m.Component(1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, c.Params[0].Value)
}

// TestAssign_RejectsTiedRefs keeps tied values derived-only.
func TestAssign_RejectsTiedRefs(t *testing.T) {
	m := constGauss(t)
	require.NoError(t, m.SetTie(0, "amplitude", model.Tie{Factor: 1, Target: 1, Param: "amplitude"}))
	err := m.Assign([]model.ParamRef{{Component: 0, Param: 0}}, []float64{3})
	assert.ErrorIs(t, err, model.ErrTiedParameter)

	err = m.Assign([]model.ParamRef{{Component: 1, Param: 0}}, []float64{1, 2})
	assert.Error(t, err)
}
