package registry

import "math"

// Evaluators follow the astropy.modeling definitions of the same names.
// Parameters arrive in schema order.

func evalBox(x float64, p []float64) float64 {
	amplitude, x0, width := p[0], p[1], p[2]
	if x >= x0-width/2 && x <= x0+width/2 {
		return amplitude
	}
	return 0
}

func evalGaussian(x float64, p []float64) float64 {
	amplitude, mean, stddev := p[0], p[1], p[2]
	d := x - mean
	return amplitude * math.Exp(-0.5*d*d/(stddev*stddev))
}

func evalGaussianAbsorption(x float64, p []float64) float64 {
	return 1 - evalGaussian(x, p)
}

func evalLorentz(x float64, p []float64) float64 {
	amplitude, x0, fwhm := p[0], p[1], p[2]
	hw2 := (fwhm / 2) * (fwhm / 2)
	d := x - x0
	return amplitude * hw2 / (d*d + hw2)
}

func evalMexicanHat(x float64, p []float64) float64 {
	amplitude, x0, sigma := p[0], p[1], p[2]
	r2 := (x - x0) * (x - x0) / (sigma * sigma)
	return amplitude * (1 - r2) * math.Exp(-r2/2)
}

// evalTrapezoid: plateau of the given width centred on x_0, with linear
// ramps of the given slope down to zero on both sides.
func evalTrapezoid(x float64, p []float64) float64 {
	amplitude, x0, width, slope := p[0], p[1], p[2], p[3]
	x2 := x0 - width/2
	x3 := x0 + width/2
	switch {
	case x >= x2 && x < x3:
		return amplitude
	case slope == 0:
		return 0
	}
	x1 := x2 - amplitude/slope
	x4 := x3 + amplitude/slope
	switch {
	case x >= x1 && x < x2:
		return slope * (x - x1)
	case x >= x3 && x < x4:
		return slope * (x4 - x)
	}
	return 0
}

func evalPowerLaw(x float64, p []float64) float64 {
	amplitude, x0, alpha := p[0], p[1], p[2]
	return amplitude * math.Pow(x/x0, -alpha)
}

func evalBrokenPowerLaw(x float64, p []float64) float64 {
	amplitude, xBreak, alpha1, alpha2 := p[0], p[1], p[2], p[3]
	alpha := alpha2
	if x < xBreak {
		alpha = alpha1
	}
	return amplitude * math.Pow(x/xBreak, -alpha)
}

func evalExpCutoffPowerLaw(x float64, p []float64) float64 {
	amplitude, x0, alpha, xCutoff := p[0], p[1], p[2], p[3]
	return amplitude * math.Pow(x/x0, -alpha) * math.Exp(-x/xCutoff)
}

func evalLogParabola(x float64, p []float64) float64 {
	amplitude, x0, alpha, beta := p[0], p[1], p[2], p[3]
	xx := x / x0
	return amplitude * math.Pow(xx, -alpha-beta*math.Log(xx))
}

func evalLinear(x float64, p []float64) float64 { return p[0]*x + p[1] }

func evalConst(_ float64, p []float64) float64 { return p[0] }

func evalRedshift(x float64, p []float64) float64 { return x * (1 + p[0]) }

func evalScale(x float64, p []float64) float64 { return p[0] * x }

func evalShift(x float64, p []float64) float64 { return x + p[0] }

func evalSine(x float64, p []float64) float64 {
	return p[0] * math.Sin(2*math.Pi*p[1]*x)
}

// Degree-1 polynomial families on the default [-1, 1] domain:
// T0 = P0 = 1 and T1 = P1 = x, so all three coincide.

func evalChebyshev(x float64, p []float64) float64 { return p[0] + p[1]*x }

func evalLegendre(x float64, p []float64) float64 { return p[0] + p[1]*x }

func evalPolynomial(x float64, p []float64) float64 { return p[0] + p[1]*x }
