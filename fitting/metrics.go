package fitting

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fit outcomes used as the "outcome" label.
const (
	OutcomeConverged = "converged"
	OutcomeDiverged  = "diverged"
	OutcomeCanceled  = "canceled"
	OutcomeError     = "error"
)

// Metrics records fits into Prometheus collectors.
type Metrics struct {
	fits       *prometheus.CounterVec
	iterations *prometheus.HistogramVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the fit collectors and registers them with reg.
// A nil reg leaves them unregistered, which suits tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "specmodel",
			Name:      "fits_total",
			Help:      "Fits run, by fitter and outcome.",
		}, []string{"fitter", "outcome"}),
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "specmodel",
			Name:      "fit_iterations",
			Help:      "Solver iterations per fit.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
		}, []string{"fitter"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "specmodel",
			Name:      "fit_duration_seconds",
			Help:      "Wall time per fit.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"fitter"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.fits, m.iterations, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Collectors exposes the underlying collectors, e.g. for testutil.
func (m *Metrics) Collectors() (fits *prometheus.CounterVec, iterations, duration *prometheus.HistogramVec) {
	return m.fits, m.iterations, m.duration
}

// observe is nil-safe so callers need not check Options.Metrics.
func (m *Metrics) observe(fitter, outcome string, iterations int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fits.WithLabelValues(fitter, outcome).Inc()
	m.iterations.WithLabelValues(fitter).Observe(float64(iterations))
	m.duration.WithLabelValues(fitter).Observe(elapsed.Seconds())
}
