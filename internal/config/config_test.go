package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/specmodel/fitting"
	"github.com/katalvlaran/specmodel/internal/config"
)

// TestLoad_Defaults matches fitting.DefaultOptions.
func TestLoad_Defaults(t *testing.T) {
	c, err := config.Load(config.New(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, fitting.NameLevenbergMarquardt, c.Fit.Fitter)
	assert.False(t, c.Session.ProtectBaseline)

	d := fitting.DefaultOptions()
	o := c.FitOptions()
	assert.Equal(t, d.MaxIterations, o.MaxIterations)
	assert.Equal(t, d.FTol, o.FTol)
	assert.Equal(t, d.XTol, o.XTol)
}

// TestLoad_Precedence layers file, environment and flags.
func TestLoad_Precedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "specmodel.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"log:\n  level: debug\nfit:\n  max_iterations: 40\n  ftol: 1e-6\nsession:\n  protect_baseline: true\n"), 0o644))
	t.Setenv("SPECMODEL_FIT_MAX_ITERATIONS", "70")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(config.KeyFitFitter, "", "")
	require.NoError(t, flags.Parse([]string{"--fit.fitter=Simplex"}))

	c, err := config.Load(config.New(), file, flags)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 70, c.Fit.MaxIterations)
	assert.Equal(t, 1e-6, c.Fit.FTol)
	assert.Equal(t, fitting.NameSimplex, c.Fit.Fitter)
	assert.True(t, c.Session.ProtectBaseline)
}

// TestLoad_Invalid reports every bad value.
func TestLoad_Invalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"log:\n  level: loud\nfit:\n  fitter: Genetic\n  max_iterations: -1\n  xtol: -1\n"), 0o644))

	_, err := config.Load(config.New(), file, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fitting.ErrUnknownFitter)
	for _, want := range []string{"log.level", "fit.max_iterations", "fit.xtol"} {
		assert.Contains(t, err.Error(), want)
	}

	_, err = config.Load(config.New(), filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
