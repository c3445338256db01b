// Package registry is the single source of truth for spectral component kinds.
//
// What:
//
//   - Kind: a closed enum of component kinds (Gaussian1D, Lorentz1D,
//     PowerLaw1D, Const1D, ...). Each kind carries
//   - an ordered parameter schema (Gaussian1D → amplitude, mean, stddev)
//   - default parameter values used to build a prototype component
//   - the module path written in the "from <module> import <Kind>" header
//     of a persisted model file
//   - an evaluator f(x; p) for a single abscissa
//   - an adjuster class plus a role→parameter mapping used to seed initial
//     guesses from a data window
//   - Registry: an immutable, ordered set of kinds addressed by name.
//     Default() holds every kind; New builds narrower sets for embedders
//     and tests.
//
// Why:
//
//   - Persistence, the adjuster and the fitters all need the same schema
//     and evaluator for a kind. Keeping them in one table means a kind is
//     added in exactly one place.
//   - A restricted Registry lets a parser accept only the kinds a host
//     application supports.
//
// Usage:
//
//	reg := registry.Default()
//	kind, err := reg.Lookup("Gaussian1D")
//	if err != nil {
//	  // errors.Is(err, registry.ErrUnknownKind)
//	}
//	fmt.Println(kind.Schema()) // [amplitude mean stddev]
//
// Complexity:
//
//	Lookup, Has              O(1)
//	Kind methods             O(1), except ParamIndex O(p) for p parameters
//	Names, Kinds             O(k) copies
//	New                      O(k)
//
// Errors:
//
//	ErrUnknownKind    - Lookup on a name that is not registered.
//	ErrDuplicateKind  - New given the same kind twice.
//	ErrInvalidKind    - New given Invalid or a value outside the enum.
//
// Registries are read-only after construction and safe for concurrent use.
package registry
