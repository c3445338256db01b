package model_test

import (
	"fmt"

	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/registry"
)

// ExampleComposite builds a continuum plus two lines with a tied amplitude.
func ExampleComposite() {
	m := model.New()
	_ = m.Add(model.MustComponent(registry.Const1D, "continuum", 1))
	_ = m.Add(model.MustComponent(registry.Gaussian1D, "halpha", 4, 6563, 2))
	_ = m.Add(model.MustComponent(registry.Gaussian1D, "nii", 1, 6583, 2))

	// [NII] is a third of H-alpha.
	err := m.SetTie(2, "amplitude", model.Tie{Factor: 1.0 / 3, Target: 1, Param: "amplitude"})
	fmt.Println("tie:", err)

	c, _ := m.Component(2)
	fmt.Printf("nii amplitude: %.4f\n", c.Params[0].Value)
	fmt.Printf("peak: %.1f\n", m.Evaluate([]float64{6563})[0])
	fmt.Println("free:", len(m.FreeParameters()))

	// Output:
	// tie: <nil>
	// nii amplitude: 1.3333
	// peak: 5.0
	// free: 6
}
