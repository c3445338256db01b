// Package dataset reads two-column spectra: one "x y" pair per line,
// separated by whitespace or a comma, with '#' comments and blank lines
// ignored. Extra columns (errors, masks) are ignored.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNoData indicates an input without a single data row.
var ErrNoData = errors.New("dataset: no data rows")

// Spectrum is a loaded data set.
type Spectrum struct {
	X, Y []float64
}

// Len is the number of samples.
func (s Spectrum) Len() int { return len(s.X) }

// Read parses r. name labels errors ("<name>:<line>: ...").
func Read(r io.Reader, name string) (Spectrum, error) {
	var s Spectrum
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == ';'
		})
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return Spectrum{}, fmt.Errorf("dataset: %s:%d: want 2 columns, got %d", name, line, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Spectrum{}, fmt.Errorf("dataset: %s:%d: x: %w", name, line, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Spectrum{}, fmt.Errorf("dataset: %s:%d: y: %w", name, line, err)
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, y)
	}
	if err := sc.Err(); err != nil {
		return Spectrum{}, fmt.Errorf("dataset: %s: %w", name, err)
	}
	if s.Len() == 0 {
		return Spectrum{}, fmt.Errorf("%w: %s", ErrNoData, name)
	}
	return s, nil
}

// ReadFile reads the spectrum stored at path.
func ReadFile(path string) (Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spectrum{}, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}
