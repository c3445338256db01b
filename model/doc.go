// Package model defines parameters, ties, components and the composite
// spectral model.
//
// What:
//
//   - Component: one kind from the registry with its parameters in schema
//     order. A Parameter has a value, optional Bounds, a Fixed flag and an
//     optional Tie.
//   - Composite: an ordered list of components whose values add up at every
//     abscissa. It is guarded by an RWMutex and carries a version counter
//     bumped by every committed edit.
//   - Tie: value = Factor * m[Target].Param, where Target is another
//     component's index.
//
// Ties form a directed graph with one vertex per parameter, named like
// "m[1].amplitude", and an edge from each tie target to the tied parameter.
// The graph is built on internal/core and walked by internal/dfs:
// a topological sort gives the resolution order (targets first), and a
// back edge is reported as ErrTieCycle naming the loop, e.g.
// "m[0].amplitude -> m[1].amplitude -> m[0].amplitude".
//
// Every mutation is applied to a copy, ties are re-resolved on the copy, and
// the copy is committed only when resolution succeeds. Structural edits keep
// ties pointing at the same component:
//
//	Add     - targets at or after the insertion point shift up by one.
//	Remove  - ties to the removed component are dropped (logged), later targets shift down.
//	Move    - targets follow the permutation.
//
// Why:
//
//   - Evaluation order never matters (the model is a sum), so reordering is
//     a display concern; ties are stored by index and follow their targets.
//   - Fitters work on a Snapshot, then call Apply with the snapshot's
//     version. A model edited in the meantime answers ErrStaleModel instead
//     of being overwritten.
//
// Complexity:
//
//	Evaluate                       O(N·len(x)) for N components
//	Add, Remove, Move, Set*        O(P + T·log T) copy plus tie resolution
//	                               (P parameters, T ties)
//	FreeParameters                 O(P)
//	Component, Components, Clone   O(P) deep copies
//
// Errors:
//
//	ErrIndexOutOfRange   - component index outside [0, Len).
//	ErrUnknownParameter  - parameter name not in the component's schema.
//	ErrSchemaMismatch    - parameter list does not match the kind schema.
//	ErrDanglingTie       - tie target index/parameter invalid or self-referencing.
//	ErrTieCycle          - ties form a cycle.
//	ErrBadTieFactor      - tie factor is NaN or infinite.
//	ErrTiedParameter     - direct write to a tie-derived value.
//	ErrBadBounds         - min > max or NaN bound.
//	ErrStaleModel        - write-back against a model that changed meanwhile.
//	ErrNilComponent      - nil component argument.
package model
