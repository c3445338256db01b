package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrZeroContinuum indicates a continuum level of zero.
	ErrZeroContinuum = errors.New("analysis: zero continuum")

	// ErrTooFewPoints indicates a line region with fewer than two samples.
	ErrTooFewPoints = errors.New("analysis: too few points")

	// ErrLengthMismatch indicates x and y of different lengths.
	ErrLengthMismatch = errors.New("analysis: x and y lengths differ")
)

// Statistics summarises the flux of a region.
type Statistics struct {
	Mean    float64
	Median  float64
	StdDev  float64 // population standard deviation
	Total   float64 // trapezoidal integral with unit sample spacing
	NPoints int
}

// Extract returns the samples with lo <= x < hi, in input order. When x
// and y differ in length the extra tail of the longer one is ignored.
func Extract(x, y []float64, lo, hi float64) (xs, ys []float64) {
	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		if x[i] >= lo && x[i] < hi {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	return xs, ys
}

// Stats computes summary statistics of y. An empty y yields NaN moments
// and a zero total.
func Stats(y []float64) Statistics {
	s := Statistics{NPoints: len(y)}
	if len(y) == 0 {
		s.Mean, s.Median, s.StdDev = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Mean, s.StdDev = stat.PopMeanStdDev(y, nil)
	s.Median = median(y)
	if len(y) > 1 {
		s.Total = integrate.Trapezoidal(floats.Span(make([]float64, len(y)), 0, float64(len(y)-1)), y)
	}
	return s
}

// median averages the two middle values of an even-length sample.
func median(y []float64) float64 {
	sorted := append([]float64(nil), y...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// EquivalentWidth integrates a line region against a flat continuum, the
// mean of the two continuum region means. dx is the mean sample spacing of
// lineX.
//
//	flux = Σ (y - c) · dx
//	ew   = Σ (c - y) / c · dx
func EquivalentWidth(cont1, cont2 Statistics, lineX, lineY []float64) (flux, ew float64, err error) {
	if len(lineX) != len(lineY) {
		return 0, 0, fmt.Errorf("%w: %d x, %d y", ErrLengthMismatch, len(lineX), len(lineY))
	}
	if len(lineX) < 2 {
		return 0, 0, fmt.Errorf("%w: %d", ErrTooFewPoints, len(lineX))
	}
	cont := (cont1.Mean + cont2.Mean) / 2
	if cont == 0 {
		return 0, 0, ErrZeroContinuum
	}

	steps := make([]float64, len(lineX)-1)
	floats.SubTo(steps, lineX[1:], lineX[:len(lineX)-1])
	dx := stat.Mean(steps, nil)

	n := float64(len(lineY))
	sum := floats.Sum(lineY)
	flux = (sum - n*cont) * dx
	ew = (n*cont - sum) / cont * dx
	return flux, ew, nil
}
