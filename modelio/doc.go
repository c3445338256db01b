// Package modelio reads and writes composite models.
//
// The text format is python-shaped and stays importable by astropy users,
// but it is never executed here: a hand-written lexer and recursive-descent
// parser accept a restricted grammar.
//
//	from astropy.modeling.functional_models import Const1D
//	from astropy.modeling.functional_models import Gaussian1D
//
//	model1 = \
//	Const1D(name='c0',
//	        amplitude = 0.0,
//	        bounds = {'amplitude': (None, None)},
//	        fixed = {'amplitude': False},
//	        tied = {'amplitude': False},
//	        ) + \
//	Gaussian1D(name='c1',
//	           amplitude = 1.0,
//	           ...
//	           tied = {'amplitude': lambda m: 0.5 * m[0].amplitude, ...},
//	           )
//
// Accepted input:
//   - "from <module> import <Kind>[, <Kind>]" lines; each kind must be
//     registered and imported from its registry module
//   - comments, blank lines, bracket and backslash continuations
//   - exactly one assignment whose value is a "+" sum of kind calls
//   - parameter values by keyword or position, plus name=, bounds=,
//     fixed= and tied= keywords
//   - ties shaped "lambda v: F * v[I].P", "lambda v: v[I].P * F" or
//     "lambda v: v[I].P"; any other lambda leaves the parameter untied and
//     logs a warning
//
// Serialize(Parse(Serialize(m))) is byte-identical to Serialize(m).
//
// A YAML codec (MarshalYAML, UnmarshalYAML) carries the same information as
// a plain record list. SaveFile and LoadFile pick the codec by extension and
// write through a temporary file and rename.
package modelio
