// Package analysis computes region statistics of a spectrum: extraction of
// an abscissa window, summary statistics, a constant-continuum equivalent
// width, and kernel smoothing.
//
// Inputs are plain float64 slices; nothing here retains or mutates them.
//
//	cont1 := analysis.Stats(ys1)
//	cont2 := analysis.Stats(ys2)
//	lx, ly := analysis.Extract(x, y, 6550, 6575)
//	flux, ew, err := analysis.EquivalentWidth(cont1, cont2, lx, ly)
//
// Errors:
//   - ErrZeroContinuum   - the averaged continuum is zero.
//   - ErrTooFewPoints    - fewer than two line samples.
//   - ErrLengthMismatch  - x and y differ in length.
//   - ErrBadKernel       - a non-positive kernel width.
package analysis
