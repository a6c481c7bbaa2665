package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every metric name, e.g. fetchsim_dispatch_total.
const namespace = "fetchsim"

// Outcome labels for DispatchTotal.
const (
	OutcomeResolved = "resolved"
	OutcomeRejected = "rejected"
)

// Config controls collector registration.
type Config struct {
	// Registerer receives the collectors. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// Metrics holds the simulator's collectors.
type Metrics struct {
	// DispatchTotal counts dispatches by method and outcome.
	DispatchTotal *prometheus.CounterVec

	// DispatchWait tracks the simulated wait applied to resolved dispatches.
	DispatchWait *prometheus.HistogramVec

	// Routes is the number of registered routes.
	Routes prometheus.Gauge
}

// New creates the collectors and registers them with config.Registerer.
// Collectors that are already registered are reused.
func New(config Config) (*Metrics, error) {
	m := &Metrics{
		DispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Number of simulated fetch dispatches by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		DispatchWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_wait_seconds",
				Help:      "Simulated wait applied to resolved dispatches",
				Buckets:   []float64{0, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
			},
			[]string{"method"},
		),
		Routes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "routes",
			Help:      "Number of registered routes",
		}),
	}

	if config.Registerer == nil {
		return m, nil
	}

	var err error
	if m.DispatchTotal, err = register(config.Registerer, m.DispatchTotal); err != nil {
		return nil, err
	}
	if m.DispatchWait, err = register(config.Registerer, m.DispatchWait); err != nil {
		return nil, err
	}
	if m.Routes, err = register(config.Registerer, m.Routes); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to r, returning the existing collector when one with the
// same descriptor was registered earlier.
func register[C prometheus.Collector](r prometheus.Registerer, c C) (C, error) {
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Resolved records a dispatch that resolved after waiting out wait.
func (m *Metrics) Resolved(method string, wait time.Duration) {
	m.DispatchTotal.WithLabelValues(method, OutcomeResolved).Inc()
	m.DispatchWait.WithLabelValues(method).Observe(wait.Seconds())
}

// Rejected records a dispatch that failed validation or lookup.
func (m *Metrics) Rejected(method string) {
	m.DispatchTotal.WithLabelValues(method, OutcomeRejected).Inc()
}

// SetRoutes records the current number of registered routes.
func (m *Metrics) SetRoutes(n int) {
	m.Routes.Set(float64(n))
}
