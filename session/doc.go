// Package session is the editing engine behind an interactive model
// builder: one composite model, the data window it is built against, and
// a single fit slot.
//
// Components are added by kind name and seeded from the data window with
// the adjust package. Edits go through the session so that observers get a
// ModelChanged event and so that nothing edits the model while a fit runs:
// every edit made during a fit fails with ErrFitInProgress, as does a
// second fit.
//
//	s := session.New(session.WithProtectedBaseline(true))
//	_ = s.SetData(x, y)
//	_, _ = s.AddComponent("Linear1D")
//	_, _ = s.AddComponent("Gaussian1D")
//	res, err := s.Fit(ctx, "", nil, nil) // default fitter, session data
//
// StartFit runs the same fit on its own goroutine and reports on a channel.
// Observers registered with Subscribe are called synchronously, after the
// session lock is released, on the goroutine that caused the event.
package session
