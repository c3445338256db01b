package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrBadKernel indicates a non-positive or non-finite kernel width.
var ErrBadKernel = errors.New("analysis: bad kernel width")

// Kernel is a normalised, odd-length convolution kernel.
type Kernel []float64

// GaussianKernel samples a Gaussian of the given stddev at integer offsets
// over 8σ rounded up to an odd size.
func GaussianKernel(stddev float64) (Kernel, error) {
	if !(stddev > 0) || math.IsInf(stddev, 0) {
		return nil, fmt.Errorf("%w: stddev %v", ErrBadKernel, stddev)
	}
	size := oddSize(8 * stddev)
	k := make(Kernel, size)
	half := size / 2
	for i := range k {
		d := float64(i - half)
		k[i] = math.Exp(-d * d / (2 * stddev * stddev))
	}
	return k.normalize(), nil
}

// BoxKernel is a boxcar of the given width. Each tap holds the fraction
// of its unit pixel covered by the box, so even widths get half-weight
// edges.
func BoxKernel(width float64) (Kernel, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("%w: width %v", ErrBadKernel, width)
	}
	size := oddSize(width)
	k := make(Kernel, size)
	half := size / 2
	for i := range k {
		c := float64(i - half)
		lo := math.Max(c-0.5, -width/2)
		hi := math.Min(c+0.5, width/2)
		k[i] = math.Max(hi-lo, 0)
	}
	return k.normalize(), nil
}

func oddSize(w float64) int {
	n := int(math.Ceil(w))
	if n%2 == 0 {
		n++
	}
	return n
}

func (k Kernel) normalize() Kernel {
	floats.Scale(1/floats.Sum(k), k)
	return k
}

// Smooth convolves y with k. Samples beyond the ends count as zero. NaN
// samples are skipped and the remaining weights renormalised; an output
// whose whole window is NaN stays NaN.
func Smooth(y []float64, k Kernel) []float64 {
	out := make([]float64, len(y))
	half := len(k) / 2
	for i := range y {
		var sum, wsum float64
		for j, w := range k {
			idx := i + j - half
			if idx < 0 || idx >= len(y) {
				wsum += w
				continue
			}
			if math.IsNaN(y[idx]) {
				continue
			}
			sum += w * y[idx]
			wsum += w
		}
		if wsum == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / wsum
	}
	return out
}
