package session

import "github.com/katalvlaran/specmodel/fitting"

// EventKind classifies session notifications.
type EventKind int

const (
	// ModelChanged follows every successful edit.
	ModelChanged EventKind = iota
	// FitComplete follows every fit that produced a result, converged or not.
	FitComplete
	// ModelLoaded follows LoadFromFile.
	ModelLoaded
)

func (k EventKind) String() string {
	switch k {
	case ModelChanged:
		return "ModelChanged"
	case FitComplete:
		return "FitComplete"
	case ModelLoaded:
		return "ModelLoaded"
	}
	return "EventKind(?)"
}

// Event is passed to subscribers. Result is set for FitComplete.
type Event struct {
	Kind   EventKind
	Result *fitting.Result
}

// Subscribe registers fn for every event and returns its cancel function.
// Cancel is idempotent.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// emit calls the subscribers in registration order without holding the lock.
func (s *Session) emit(e Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
