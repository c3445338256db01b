package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/specmodel/internal/dataset"
)

// TestRead_Formats accepts whitespace, commas, comments and extra columns.
func TestRead_Formats(t *testing.T) {
	src := "# wavelength flux\n" +
		"6560.0 1.5\n" +
		"\n" +
		"6560.5,\t2.0, 0.1   # with error column\n" +
		"  6561  -3e-1\n"
	s, err := dataset.Read(strings.NewReader(src), "inline")
	require.NoError(t, err)
	assert.Equal(t, []float64{6560, 6560.5, 6561}, s.X)
	assert.Equal(t, []float64{1.5, 2, -0.3}, s.Y)
	assert.Equal(t, 3, s.Len())
}

// TestRead_Errors names the source and line.
func TestRead_Errors(t *testing.T) {
	_, err := dataset.Read(strings.NewReader("1 2\n3\n"), "d.txt")
	assert.EqualError(t, err, "dataset: d.txt:2: want 2 columns, got 1")

	_, err = dataset.Read(strings.NewReader("1 two\n"), "d.txt")
	assert.ErrorContains(t, err, "d.txt:1: y:")

	_, err = dataset.Read(strings.NewReader("# only comments\n\n"), "d.txt")
	assert.ErrorIs(t, err, dataset.ErrNoData)
}

// TestReadFile reads from disk and reports missing files.
func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2\n3 4\n"), 0o644))
	s, err := dataset.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, s.X)

	_, err = dataset.ReadFile(filepath.Join(t.TempDir(), "none.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
