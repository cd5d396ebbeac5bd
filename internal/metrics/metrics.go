// Package metrics exposes Prometheus counters for the fetch pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Fetches  *prometheus.CounterVec // subject + outcome (live, empty, error)
	Fallback *prometheus.CounterVec // subject
	Retries  *prometheus.CounterVec // subject
}

// New registers the catalog counters on the given registerer. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookworm_fetches_total",
			Help: "Fetch cycles by subject and outcome.",
		}, []string{"subject", "outcome"}),
		Fallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookworm_fallback_served_total",
			Help: "Fetch cycles that returned the sample catalog.",
		}, []string{"subject"}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookworm_fetch_retries_total",
			Help: "Automatic retry attempts by subject.",
		}, []string{"subject"}),
	}
	reg.MustRegister(m.Fetches, m.Fallback, m.Retries)
	return m
}

// NewNop returns metrics registered on a throwaway registry, for callers that
// do not care about scraping.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
