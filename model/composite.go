package model

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"
)

// Option configures a Composite.
type Option func(*Composite)

// WithLogger sets the logger used for lenient paths (dropped ties).
// The default discards everything.
func WithLogger(l logr.Logger) Option {
	return func(c *Composite) {
		c.log = l
	}
}

// Composite is an ordered sum of components.
//
// All methods are safe for concurrent use. Every mutation bumps Version, and
// tied values are kept resolved after each successful mutation. Structural
// edits work on a copy of the component list and commit only when the
// result is schema-conformant with an acyclic tie graph.
type Composite struct {
	mu      sync.RWMutex
	items   []*Component
	version uint64
	log     logr.Logger
}

// New returns an empty composite.
func New(opts ...Option) *Composite {
	c := &Composite{log: logr.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromComponents builds a composite from deep copies of cs. Each component
// must match its schema, and ties must reference existing parameters of
// other components without cycles. Tied values are resolved.
func FromComponents(cs []*Component, opts ...Option) (*Composite, error) {
	m := New(opts...)
	items := make([]*Component, len(cs))
	for i, comp := range cs {
		if err := comp.Validate(); err != nil {
			return nil, fmt.Errorf("model: component %d: %w", i, err)
		}
		items[i] = comp.Clone()
	}
	if err := resolveTies(items); err != nil {
		return nil, err
	}
	m.items = items
	return m, nil
}

// Len returns the number of components.
func (m *Composite) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Version returns the mutation counter.
func (m *Composite) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Component returns a deep copy of the component at i.
func (m *Composite) Component(i int) (*Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkIndex(i); err != nil {
		return nil, err
	}
	return m.items[i].Clone(), nil
}

// Components returns deep copies of all components in order.
func (m *Composite) Components() []*Component {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneItems(m.items)
}

// Clone returns an independent deep copy sharing the logger and version.
func (m *Composite) Clone() *Composite {
	out, _ := m.Snapshot()
	return out
}

// Snapshot returns a deep copy together with the version it was taken at.
// Pass the version to Apply to write results back.
func (m *Composite) Snapshot() (*Composite, uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Composite{items: cloneItems(m.items), version: m.version, log: m.log}, m.version
}

// Add appends c, or inserts it at index[0] when given (0..Len).
// Ties in c address the model as it is after insertion. Existing ties that
// point at or after the insertion point are shifted so they keep their target.
// Complexity: O(P) copy plus tie resolution.
func (m *Composite) Add(c *Component, index ...int) error {
	if c == nil {
		return ErrNilComponent
	}
	if err := c.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	at := len(m.items)
	if len(index) > 0 {
		at = index[0]
		if at < 0 || at > len(m.items) {
			return fmt.Errorf("%w: insert at %d, len %d", ErrIndexOutOfRange, at, len(m.items))
		}
	}

	// Shift ties first, then open the slot, so c's own ties are left as given.
	items := cloneItems(m.items)
	remapTies(items, func(old int) (int, bool) {
		if old >= at {
			return old + 1, true
		}
		return old, true
	}, nil)

	items = append(items, nil)
	copy(items[at+1:], items[at:])
	items[at] = c.Clone()

	return m.commit(items)
}

// Remove deletes and returns the component at index. Ties pointing at it
// are dropped with a warning; ties past it are re-indexed.
// Complexity: O(P) copy plus tie resolution.
func (m *Composite) Remove(index int) (*Component, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkIndex(index); err != nil {
		return nil, err
	}

	items := cloneItems(m.items)
	removed := items[index]
	items = append(items[:index], items[index+1:]...)

	remapTies(items, func(old int) (int, bool) {
		switch {
		case old == index:
			return 0, false
		case old > index:
			return old - 1, true
		default:
			return old, true
		}
	}, func(ci int, param string, t Tie) {
		m.log.Info("dropping tie to removed component",
			"component", ci, "param", param, "tie", t.String())
	})

	if err := m.commit(items); err != nil {
		return nil, err
	}
	return removed, nil
}

// Move relocates the component at from to position to, clamped into
// [0, Len-1]. Ties follow their targets.
func (m *Composite) Move(from, to int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkIndex(from); err != nil {
		return err
	}
	to = max(0, min(to, len(m.items)-1))
	if to == from {
		return nil
	}

	// pos[old] = new index after the move.
	pos := make([]int, len(m.items))
	for old := range pos {
		switch {
		case old == from:
			pos[old] = to
		case from < to && old > from && old <= to:
			pos[old] = old - 1
		case to < from && old >= to && old < from:
			pos[old] = old + 1
		default:
			pos[old] = old
		}
	}

	src := cloneItems(m.items)
	remapTies(src, func(old int) (int, bool) {
		if old < 0 || old >= len(pos) {
			return old, true
		}
		return pos[old], true
	}, nil)

	items := make([]*Component, len(src))
	for old, comp := range src {
		items[pos[old]] = comp
	}
	return m.commit(items)
}

// SetValue assigns a parameter value and re-resolves dependent ties.
// Tied parameters are read-only (ErrTiedParameter).
func (m *Composite) SetValue(i int, name string, v float64) error {
	return m.edit(i, name, func(p *Parameter) error {
		if p.Tied != nil {
			return fmt.Errorf("%w: m[%d].%s is %s", ErrTiedParameter, i, name, p.Tied)
		}
		p.Value = v
		return nil
	})
}

// SetBounds replaces a parameter's bounds.
func (m *Composite) SetBounds(i int, name string, b Bounds) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return m.edit(i, name, func(p *Parameter) error {
		p.Bounds = b.clone()
		return nil
	})
}

// SetFixed marks a parameter as fixed or free.
func (m *Composite) SetFixed(i int, name string, fixed bool) error {
	return m.edit(i, name, func(p *Parameter) error {
		p.Fixed = fixed
		return nil
	})
}

// SetTie ties a parameter to t. A tie that dangles or closes a cycle is
// rejected and leaves the model unchanged.
func (m *Composite) SetTie(i int, name string, t Tie) error {
	return m.edit(i, name, func(p *Parameter) error {
		p.Tied = &Tie{Factor: t.Factor, Target: t.Target, Param: t.Param}
		return nil
	})
}

// ClearTie unties a parameter; it keeps its last resolved value.
func (m *Composite) ClearTie(i int, name string) error {
	return m.edit(i, name, func(p *Parameter) error {
		p.Tied = nil
		return nil
	})
}

// SetName renames the component at i.
func (m *Composite) SetName(i int, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkIndex(i); err != nil {
		return err
	}
	items := cloneItems(m.items)
	items[i].Name = name
	return m.commit(items)
}

// Evaluate returns the elementwise sum of all components at x, or zeros
// when the model is empty.
// Complexity: O(N·len(x)).
func (m *Composite) Evaluate(x []float64) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]float64, len(x))
	for _, comp := range m.items {
		comp.addTo(out, x)
	}
	return out
}

// ResolveTies sets every tied value to factor * target value, targets first.
// On ErrTieCycle or ErrDanglingTie no value changes.
func (m *Composite) ResolveTies() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := resolveTies(m.items); err != nil {
		return err
	}
	m.version++
	return nil
}

// Validate checks every component against its schema and the tie graph.
func (m *Composite) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i, comp := range m.items {
		if err := comp.Validate(); err != nil {
			return fmt.Errorf("model: component %d: %w", i, err)
		}
	}
	_, err := tieOrder(m.items)
	return err
}

// checkIndex requires the lock to be held.
func (m *Composite) checkIndex(i int) error {
	if i < 0 || i >= len(m.items) {
		return fmt.Errorf("%w: %d, len %d", ErrIndexOutOfRange, i, len(m.items))
	}
	return nil
}

// edit applies fn to a copy of one parameter and commits on success.
func (m *Composite) edit(i int, name string, fn func(p *Parameter) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkIndex(i); err != nil {
		return err
	}
	items := cloneItems(m.items)
	p, err := items[i].Param(name)
	if err != nil {
		return err
	}
	if err = fn(p); err != nil {
		return err
	}
	return m.commit(items)
}

// commit resolves ties on items, then swaps them in and bumps the version.
// The lock must be held. On error the model is unchanged.
func (m *Composite) commit(items []*Component) error {
	if err := resolveTies(items); err != nil {
		return err
	}
	m.items = items
	m.version++
	return nil
}

func cloneItems(items []*Component) []*Component {
	out := make([]*Component, len(items))
	for i, c := range items {
		out[i] = c.Clone()
	}
	return out
}
