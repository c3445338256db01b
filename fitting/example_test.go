package fitting_test

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/specmodel/fitting"
	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/registry"
)

// ExampleFit fits a line plus an emission line to noise-free data.
func ExampleFit() {
	x := make([]float64, 81)
	y := make([]float64, len(x))
	for i := range x {
		x[i] = 6540 + 0.5*float64(i)
		d := (x[i] - 6563) / 2
		y[i] = 0.01*(x[i]-6540) + 1 + 5*math.Exp(-0.5*d*d)
	}

	m := model.New()
	_ = m.Add(model.MustComponent(registry.Linear1D, "continuum", 0, 1))
	_ = m.Add(model.MustComponent(registry.Gaussian1D, "halpha", 4, 6562, 1.5))
	// Keep the intercept referenced at x=0 well conditioned: fit the slope only.
	_ = m.SetValue(0, "intercept", 1-0.01*6540)
	_ = m.SetFixed(0, "intercept", true)

	res, err := fitting.Fit(context.Background(), m, x, y, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	g, _ := m.Component(1)
	fmt.Println("converged:", res.Converged)
	fmt.Printf("amplitude=%.3f mean=%.3f stddev=%.3f\n", g.Params[0].Value, g.Params[1].Value, g.Params[2].Value)

	// Output:
	// converged: true
	// amplitude=5.000 mean=6563.000 stddev=2.000
}
