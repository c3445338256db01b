package session

import (
	"context"
	"fmt"

	"github.com/katalvlaran/specmodel/fitting"
	"github.com/katalvlaran/specmodel/model"
)

// FitOutcome is delivered by StartFit.
type FitOutcome struct {
	Result *fitting.Result
	Err    error
}

// Fit fits the model with the named fitter ("" for the default). Nil x
// and y select the session data window. The call blocks; the session
// refuses edits until it returns.
func (s *Session) Fit(ctx context.Context, fitterName string, x, y []float64) (*fitting.Result, error) {
	job, err := s.acquire(fitterName, x, y)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, job)
}

// StartFit starts Fit on its own goroutine. The channel receives exactly
// one outcome and is then closed. A fit that cannot start (busy, unknown
// fitter, no data) reports immediately.
func (s *Session) StartFit(ctx context.Context, fitterName string, x, y []float64) <-chan FitOutcome {
	out := make(chan FitOutcome, 1)
	job, err := s.acquire(fitterName, x, y)
	if err != nil {
		out <- FitOutcome{Err: err}
		close(out)
		return out
	}
	go func() {
		defer close(out)
		res, err := s.run(ctx, job)
		out <- FitOutcome{Result: res, Err: err}
	}()
	return out
}

// Busy reports whether a fit is running.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// fitJob is everything a fit needs, captured under the session lock.
type fitJob struct {
	fitter fitting.Fitter
	model  *model.Composite
	x, y   []float64
	opts   fitting.Options
}

// acquire claims the fit slot.
func (s *Session) acquire(fitterName string, x, y []float64) (fitJob, error) {
	f, ok := s.fitters[fitterName]
	if !ok {
		var err error
		if f, err = fitting.Lookup(fitterName); err != nil {
			return fitJob{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return fitJob{}, ErrFitInProgress
	}
	if x == nil && y == nil {
		x, y = s.x, s.y
	}
	if len(x) == 0 && len(y) == 0 {
		return fitJob{}, ErrNoData
	}

	o := s.fitOpts
	if s.metrics != nil {
		o.Metrics = s.metrics
	}
	if o.Logger.GetSink() == nil {
		o.Logger = s.log
	}
	s.busy = true
	return fitJob{fitter: f, model: s.model, x: x, y: y, opts: o}, nil
}

// run executes a claimed job and releases the slot.
func (s *Session) run(ctx context.Context, job fitJob) (*fitting.Result, error) {
	res, err := fitting.FitWith(ctx, job.fitter, job.model, job.x, job.y, &job.opts)

	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()

	if err != nil {
		s.log.V(1).Info("fit failed", "fitter", job.fitter.Name(), "reason", err.Error())
		return nil, fmt.Errorf("session: fit: %w", err)
	}
	s.emit(Event{Kind: FitComplete, Result: res})
	return res, nil
}
