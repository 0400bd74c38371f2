package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's Prometheus collectors.
type Metrics struct {
	LookupsTotal    *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "court",
				Subsystem: "lookup",
				Name:      "lookups_total",
				Help:      "Case lookups by court, source and outcome",
			},
			[]string{"court", "source", "outcome"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "court",
				Subsystem: "lookup",
				Name:      "fetch_duration_seconds",
				Help:      "Time spent fetching a case from a court website",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"court", "source"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "court",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "court",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}

	reg.MustRegister(m.LookupsTotal, m.FetchDuration, m.RequestsTotal, m.RequestDuration)
	return m
}

// ObserveLookup counts one finished lookup. source is empty for failures.
func (m *Metrics) ObserveLookup(court, source, outcome string) {
	m.LookupsTotal.WithLabelValues(court, source, outcome).Inc()
}

func (m *Metrics) ObserveFetch(court, source string, elapsed time.Duration) {
	m.FetchDuration.WithLabelValues(court, source).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRequest(method, endpoint, status string, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.RequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}
