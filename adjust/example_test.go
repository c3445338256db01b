package adjust_test

import (
	"fmt"

	"github.com/katalvlaran/specmodel/adjust"
	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/registry"
)

// ExampleAdjust seeds a Gaussian from a selected window.
func ExampleAdjust() {
	x := []float64{6550, 6560, 6570, 6580}
	y := []float64{1.0, 3.5, 2.0, 1.0}

	g, _ := model.NewComponent(registry.Gaussian1D, "halpha")
	adjust.Adjust(g, x, y)
	fmt.Println(g.Values())

	// Output:
	// [2.5 6565 0.6]
}
