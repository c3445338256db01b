package model

import "fmt"

// FreeParameters lists the unfixed, untied parameters in component order,
// then schema order. This is the layout of a fitter's parameter vector.
func (m *Composite) FreeParameters() []ParamRef {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var refs []ParamRef
	for ci, comp := range m.items {
		for pi := range comp.Params {
			if comp.Params[pi].Free() {
				refs = append(refs, ParamRef{Component: ci, Param: pi})
			}
		}
	}
	return refs
}

// Parameter returns a copy of the parameter at ref.
func (m *Composite) Parameter(ref ParamRef) (Parameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkRef(ref); err != nil {
		return Parameter{}, err
	}
	return m.items[ref.Component].Params[ref.Param].clone(), nil
}

// Values gathers the values at refs.
func (m *Composite) Values(refs []ParamRef) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]float64, len(refs))
	for i, ref := range refs {
		if err := m.checkRef(ref); err != nil {
			return nil, err
		}
		out[i] = m.items[ref.Component].Params[ref.Param].Value
	}
	return out, nil
}

// Assign scatters values into the parameters at refs and resolves ties.
// Every ref must address a free parameter. Fitters call it on their own
// snapshot once per residual evaluation.
func (m *Composite) Assign(refs []ParamRef, values []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignLocked(refs, values)
}

// Apply is Assign guarded by version: it fails with ErrStaleModel when the
// model was mutated after the Snapshot that produced version.
func (m *Composite) Apply(version uint64, refs []ParamRef, values []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version != version {
		return fmt.Errorf("%w: snapshot %d, now %d", ErrStaleModel, version, m.version)
	}
	return m.assignLocked(refs, values)
}

func (m *Composite) assignLocked(refs []ParamRef, values []float64) error {
	if len(refs) != len(values) {
		return fmt.Errorf("model: %d refs, %d values", len(refs), len(values))
	}
	for _, ref := range refs {
		if err := m.checkRef(ref); err != nil {
			return err
		}
		p := &m.items[ref.Component].Params[ref.Param]
		if p.Tied != nil {
			return fmt.Errorf("%w: m[%d].%s", ErrTiedParameter, ref.Component, p.Name)
		}
	}
	for i, ref := range refs {
		m.items[ref.Component].Params[ref.Param].Value = values[i]
	}
	// The graph is validated on every commit, so resolution cannot fail here.
	if err := resolveTies(m.items); err != nil {
		return err
	}
	m.version++
	return nil
}

func (m *Composite) checkRef(ref ParamRef) error {
	if err := m.checkIndex(ref.Component); err != nil {
		return err
	}
	if ref.Param < 0 || ref.Param >= len(m.items[ref.Component].Params) {
		return fmt.Errorf("%w: m[%d] parameter #%d", ErrUnknownParameter, ref.Component, ref.Param)
	}
	return nil
}
