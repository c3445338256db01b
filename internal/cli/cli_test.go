package cli

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/specmodel/modelio"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeSpectrum stores a flat continuum of 2 plus a Gaussian at 6563.
func writeSpectrum(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("# x y\n")
	for i := 0; i <= 200; i++ {
		x := 6540 + 0.25*float64(i)
		fmt.Fprintf(&b, "%g %g\n", x, 2+5*math.Exp(-0.5*(x-6563)*(x-6563)/4))
	}
	path := filepath.Join(dir, "spec.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// TestKinds lists every kind with its module.
func TestKinds(t *testing.T) {
	out, err := run(t, "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Regexp(t, `Gaussian1D\s+astropy\.modeling\.functional_models\s+amplitude, mean, stddev`, out)
	assert.Regexp(t, `PowerLaw1D\s+astropy\.modeling\.powerlaws`, out)
}

// TestNewCheckFit builds, prints and fits a model end to end.
func TestNewCheckFit(t *testing.T) {
	dir := t.TempDir()
	data := writeSpectrum(t, dir)
	modelPath := filepath.Join(dir, "start.py")
	fitted := filepath.Join(dir, "fitted.yaml")
	metrics := filepath.Join(dir, "fit.prom")

	out, err := run(t, "new", "Const1D", "Gaussian1D", data, "-o", modelPath)
	require.NoError(t, err)
	assert.Equal(t, "wrote 2 components to "+modelPath+"\n", out)

	out, err = run(t, "check", modelPath)
	require.NoError(t, err)
	src, err := os.ReadFile(modelPath)
	require.NoError(t, err)
	assert.Equal(t, string(src), out)

	out, err = run(t, "check", "--format", "yaml", modelPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "version: 1\n"))

	out, err = run(t, "fit", modelPath, data, "-o", fitted, "--strict", "--metrics-file", metrics)
	require.NoError(t, err)
	assert.Regexp(t, `converged\s+true`, out)
	assert.Contains(t, out, "m[1].mean")

	m, err := modelio.LoadFile(fitted)
	require.NoError(t, err)
	cs := m.Components()
	assert.InDelta(t, 2, cs[0].Params[0].Value, 1e-4)
	assert.InDelta(t, 6563, cs[1].Params[1].Value, 1e-4)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `specmodel_fits_total{fitter="Levenberg-Marquardt",outcome="converged"} 1`)
}

// TestFit_StrictFailsWithoutConvergence exits non-zero on an iteration cap.
func TestFit_StrictFailsWithoutConvergence(t *testing.T) {
	dir := t.TempDir()
	data := writeSpectrum(t, dir)
	modelPath := filepath.Join(dir, "start.py")
	_, err := run(t, "new", "Const1D", "Gaussian1D", data, "-o", modelPath)
	require.NoError(t, err)

	out, err := run(t, "fit", modelPath, data, "--max-iterations", "1", "--fitter", "Simplex")
	require.NoError(t, err)
	assert.Regexp(t, `fitter\s+Simplex`, out)
	assert.Regexp(t, `converged\s+false`, out)

	_, err = run(t, "fit", modelPath, data, "--max-iterations", "1", "--strict")
	assert.ErrorIs(t, err, errNotConverged)

	_, err = run(t, "fit", modelPath, data, "--fitter", "Genetic")
	assert.Error(t, err)
}

// TestEval prints one row per data point.
func TestEval(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "d.txt")
	require.NoError(t, os.WriteFile(data, []byte("1 0\n2 0\n"), 0o644))
	modelPath := filepath.Join(dir, "m.py")
	require.NoError(t, os.WriteFile(modelPath, []byte(
		"from astropy.modeling.functional_models import Linear1D\nm = Linear1D(slope=2, intercept=1)\n"), 0o644))

	out, err := run(t, "eval", modelPath, data)
	require.NoError(t, err)
	assert.Equal(t, "1\t3\n2\t5\n", out)
}

// TestStatsAndEW runs the region analysis commands.
func TestStatsAndEW(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "d.txt")
	require.NoError(t, os.WriteFile(data, []byte("1 2\n2 2\n3 2\n4 1\n5 0\n6 1\n7 2\n8 2\n9 2\n"), 0o644))

	out, err := run(t, "stats", data, "--from", "3", "--to", "8")
	require.NoError(t, err)
	assert.Regexp(t, `npoints\s+5\n`, out)
	assert.Regexp(t, `mean\s+1.2\n`, out)
	assert.Regexp(t, `median\s+1\n`, out)

	out, err = run(t, "ew", data, "--cont1", "1:3", "--cont2", "8:10", "--line", "3:8")
	require.NoError(t, err)
	assert.Equal(t, "flux\t-4\new\t2\n", out)

	_, err = run(t, "ew", data, "--cont1", "3:1", "--cont2", "8:10", "--line", "3:8")
	assert.ErrorContains(t, err, "empty")
	_, err = run(t, "stats", data)
	assert.Error(t, err)
}

// TestSmooth requires exactly one kernel.
func TestSmooth(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "d.txt")
	require.NoError(t, os.WriteFile(data, []byte("1 3\n2 3\n3 3\n4 3\n"), 0o644))

	out, err := run(t, "smooth", data, "--box", "3")
	require.NoError(t, err)
	assert.Equal(t, "1\t2\n2\t3\n3\t3\n4\t2\n", out)

	_, err = run(t, "smooth", data)
	assert.Error(t, err)
	_, err = run(t, "smooth", data, "--box", "3", "--gaussian", "1")
	assert.Error(t, err)
}

// TestConfigFile applies settings from --config.
func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: loud\n"), 0o644))
	_, err := run(t, "--config", cfg, "kinds")
	assert.ErrorContains(t, err, "log.level")

	require.NoError(t, os.WriteFile(cfg, []byte("fit:\n  fitter: Simplex\n  max_iterations: 3\n"), 0o644))
	data := writeSpectrum(t, dir)
	modelPath := filepath.Join(dir, "m.py")
	_, err = run(t, "new", "Gaussian1D", data, "-o", modelPath)
	require.NoError(t, err)
	out, err := run(t, "--config", cfg, "fit", modelPath, data)
	require.NoError(t, err)
	assert.Regexp(t, `fitter\s+Simplex`, out)
}

// TestParseRange accepts LO:HI only.
func TestParseRange(t *testing.T) {
	r, err := parseRange(" 1.5 : 3")
	require.NoError(t, err)
	assert.Equal(t, [2]float64{1.5, 3}, r)
	for _, bad := range []string{"1", "a:2", "1:b", "2:2"} {
		_, err := parseRange(bad)
		assert.Error(t, err, bad)
	}
}
