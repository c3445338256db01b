package registry

import (
	"fmt"
	"sync"
)

// Registry is an immutable, ordered set of kinds addressed by name.
// It is safe for concurrent use.
type Registry struct {
	kinds  []Kind
	byName map[string]Kind
}

// New builds a registry holding kinds in the given order.
//
// Errors:
//   - ErrInvalidKind   - a kind is Invalid or outside the enum.
//   - ErrDuplicateKind - a kind appears twice.
func New(kinds ...Kind) (*Registry, error) {
	r := &Registry{
		kinds:  make([]Kind, 0, len(kinds)),
		byName: make(map[string]Kind, len(kinds)),
	}
	for _, k := range kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
		}
		if _, dup := r.byName[k.String()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, k)
		}
		r.kinds = append(r.kinds, k)
		r.byName[k.String()] = k
	}

	return r, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry holding every kind.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := New(AllKinds()...)
		if err != nil {
			// AllKinds is static and duplicate-free.
			panic(err)
		}
		defaultReg = reg
	})

	return defaultReg
}

// Lookup resolves a kind by name. Unknown names wrap ErrUnknownKind.
// Complexity: O(1).
func (r *Registry) Lookup(name string) (Kind, error) {
	k, ok := r.byName[name]
	if !ok {
		return Invalid, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}

	return k, nil
}

// Has reports whether k is registered.
func (r *Registry) Has(k Kind) bool {
	got, ok := r.byName[k.String()]
	return ok && got == k
}

// Names returns kind names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.kinds))
	for i, k := range r.kinds {
		out[i] = k.String()
	}

	return out
}

// Kinds returns a copy of the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.kinds...)
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int { return len(r.kinds) }
