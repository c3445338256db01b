package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/specmodel/adjust"
	"github.com/katalvlaran/specmodel/fitting"
	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/modelio"
	"github.com/katalvlaran/specmodel/registry"
)

var (
	// ErrProtected indicates an attempt to remove the protected baseline.
	ErrProtected = errors.New("session: component is protected")

	// ErrFitInProgress indicates an edit or a fit while a fit is running.
	ErrFitInProgress = errors.New("session: fit in progress")

	// ErrNoData indicates a fit without data and without a data window.
	ErrNoData = errors.New("session: no data")
)

// baselineIndex is the component position held by the baseline.
const baselineIndex = 0

// Option configures a Session.
type Option func(*Session)

// WithRegistry restricts the kinds a session can add, load and save.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Session) {
		if reg != nil {
			s.reg = reg
		}
	}
}

// WithLogger sets the logger passed to every collaborator.
func WithLogger(l logr.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithMetrics records fits on m.
func WithMetrics(m *fitting.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithFitOptions replaces fitting.DefaultOptions() for every fit.
func WithFitOptions(o fitting.Options) Option {
	return func(s *Session) {
		s.fitOpts = o
	}
}

// WithFitters makes extra fitters available by name. They shadow the
// fitting package's table.
func WithFitters(fs ...fitting.Fitter) Option {
	return func(s *Session) {
		for _, f := range fs {
			s.fitters[f.Name()] = f
		}
	}
}

// WithProtectedBaseline refuses removal of component 0.
func WithProtectedBaseline(on bool) Option {
	return func(s *Session) {
		s.protect = on
	}
}

// Session owns one model. All methods are safe for concurrent use.
type Session struct {
	reg     *registry.Registry
	log     logr.Logger
	metrics *fitting.Metrics
	fitOpts fitting.Options
	protect bool
	fitters map[string]fitting.Fitter

	mu      sync.Mutex
	model   *model.Composite
	x, y    []float64
	busy    bool
	subs    map[int]func(Event)
	nextSub int
}

// New returns a session with an empty model.
func New(opts ...Option) *Session {
	s := &Session{
		reg:     registry.Default(),
		log:     logr.Discard(),
		fitOpts: fitting.DefaultOptions(),
		fitters: make(map[string]fitting.Fitter),
		subs:    make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.model = model.New(model.WithLogger(s.log))
	return s
}

// SetData stores a copy of the data window used to seed new components
// and as the default fit data.
func (s *Session) SetData(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("session: %w: len(x)=%d, len(y)=%d", fitting.ErrShapeMismatch, len(x), len(y))
	}
	s.mu.Lock()
	s.x = append([]float64(nil), x...)
	s.y = append([]float64(nil), y...)
	s.mu.Unlock()
	return nil
}

// Data returns a copy of the data window.
func (s *Session) Data() (x, y []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.x...), append([]float64(nil), s.y...)
}

// Model returns a deep copy of the current model.
func (s *Session) Model() *model.Composite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Clone()
}

// Components returns deep copies of the components in order.
func (s *Session) Components() []*model.Component {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Components()
}

// Spectrum resolves ties on a copy of the model and evaluates it at x.
func (s *Session) Spectrum(x []float64) ([]float64, error) {
	m := s.Model()
	if err := m.ResolveTies(); err != nil {
		return nil, err
	}
	return m.Evaluate(x), nil
}

// AddComponent appends a default component of the named kind, seeded from
// the data window, and returns a copy of it.
func (s *Session) AddComponent(kindName string) (*model.Component, error) {
	kind, err := s.reg.Lookup(kindName)
	if err != nil {
		return nil, err
	}
	c, err := model.NewComponent(kind, "")
	if err != nil {
		return nil, err
	}

	var added *model.Component
	err = s.mutate(func(m *model.Composite) error {
		adjust.Adjust(c, s.x, s.y, adjust.WithLogger(s.log))
		if err := m.Add(c); err != nil {
			return err
		}
		got, err := m.Component(m.Len() - 1)
		added = got
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveComponent deletes component i. With a protected baseline, index 0
// fails with ErrProtected.
func (s *Session) RemoveComponent(i int) error {
	return s.mutate(func(m *model.Composite) error {
		if s.protect && i == baselineIndex {
			return fmt.Errorf("%w: index %d", ErrProtected, i)
		}
		_, err := m.Remove(i)
		return err
	})
}

// MoveComponent moves component from to position to, clamped to the model.
func (s *Session) MoveComponent(from, to int) error {
	return s.mutate(func(m *model.Composite) error {
		return m.Move(from, to)
	})
}

// SetParameter assigns a value to a free or fixed parameter.
func (s *Session) SetParameter(i int, name string, v float64) error {
	return s.mutate(func(m *model.Composite) error {
		return m.SetValue(i, name, v)
	})
}

// SetFixed freezes or frees a parameter.
func (s *Session) SetFixed(i int, name string, fixed bool) error {
	return s.mutate(func(m *model.Composite) error {
		return m.SetFixed(i, name, fixed)
	})
}

// SetBounds replaces a parameter's bounds.
func (s *Session) SetBounds(i int, name string, b model.Bounds) error {
	return s.mutate(func(m *model.Composite) error {
		return m.SetBounds(i, name, b)
	})
}

// TieParameter ties parameter name of component i to t.
func (s *Session) TieParameter(i int, name string, t model.Tie) error {
	return s.mutate(func(m *model.Composite) error {
		return m.SetTie(i, name, t)
	})
}

// UntieParameter clears a tie, keeping the last resolved value.
func (s *Session) UntieParameter(i int, name string) error {
	return s.mutate(func(m *model.Composite) error {
		return m.ClearTie(i, name)
	})
}

// SetName renames component i.
func (s *Session) SetName(i int, name string) error {
	return s.mutate(func(m *model.Composite) error {
		return m.SetName(i, name)
	})
}

// SaveToFile writes the model to path; the codec follows the extension.
func (s *Session) SaveToFile(path string) error {
	m := s.Model()
	return modelio.SaveFile(path, m, modelio.WithRegistry(s.reg), modelio.WithLogger(s.log))
}

// LoadFromFile replaces the model with the one stored at path.
func (s *Session) LoadFromFile(path string) error {
	m, err := modelio.LoadFile(path, modelio.WithRegistry(s.reg), modelio.WithLogger(s.log))
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrFitInProgress
	}
	s.model = m
	s.mu.Unlock()

	s.log.V(1).Info("model loaded", "path", path, "components", m.Len())
	s.emit(Event{Kind: ModelLoaded})
	return nil
}

// mutate runs fn on the model under the session lock and announces the
// change. It fails with ErrFitInProgress while a fit runs.
func (s *Session) mutate(fn func(m *model.Composite) error) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrFitInProgress
	}
	err := fn(s.model)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(Event{Kind: ModelChanged})
	return nil
}
