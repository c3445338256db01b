package modelio_test

import (
	"fmt"

	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/modelio"
	"github.com/katalvlaran/specmodel/registry"
)

// ExampleParse reads a model and writes it back in canonical form.
func ExampleParse() {
	src := `
from astropy.modeling.functional_models import Const1D

model1 = Const1D(name='sky', amplitude=0.5, fixed={'amplitude': True})
`
	m, err := modelio.Parse([]byte(src))
	if err != nil {
		fmt.Println(err)
		return
	}
	out, _ := modelio.Serialize(m)
	fmt.Print(string(out))

	// Output:
	// from astropy.modeling.functional_models import Const1D
	//
	// model1 = \
	// Const1D(name='sky',
	//         amplitude = 0.5,
	//         bounds = {'amplitude': (None, None)},
	//         fixed = {'amplitude': True},
	//         tied = {'amplitude': False},
	//         )
}

// ExampleParseError shows the location carried by parse failures.
func ExampleParseError() {
	_, err := modelio.Parse([]byte("from astropy.modeling.functional_models import Const1D\nm = Const1D(1, 2)\n"))
	fmt.Println(err)

	// Output:
	// <input>:2:16: Const1D takes 1 parameters
}

// ExampleMarshalYAML writes the structured record list.
func ExampleMarshalYAML() {
	m := model.New()
	_ = m.Add(model.MustComponent(registry.Const1D, "sky", 0.5))
	out, _ := modelio.MarshalYAML(m)
	fmt.Print(string(out))

	// Output:
	// version: 1
	// components:
	//   - kind: Const1D
	//     name: sky
	//     parameters:
	//       - name: amplitude
	//         value: 0.5
}
