// Package metrics declares the Prometheus collectors exposed by the
// operational HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds reused
// across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// SweepsTotal counts completed monitoring sweeps.
	SweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "subwatch_sweeps_total",
		Help: "Number of completed monitoring sweeps.",
	})

	// SweepDuration observes how long one full sweep takes.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "subwatch_sweep_duration_seconds",
		Help:    "Duration of one full monitoring sweep.",
		Buckets: DefaultBuckets,
	})

	// SubdomainsFetched counts hostnames returned by the transparency log
	// source, per domain.
	SubdomainsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subwatch_subdomains_fetched_total",
		Help: "Hostnames returned by the certificate-transparency source.",
	}, []string{"domain"})

	// NewSubdomains counts newly discovered hostnames, per domain.
	NewSubdomains = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subwatch_new_subdomains_total",
		Help: "Newly discovered subdomains.",
	}, []string{"domain"})

	// DomainErrors counts per-domain cycle failures by stage (fetch, store).
	DomainErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subwatch_domain_errors_total",
		Help: "Per-domain monitoring failures by stage.",
	}, []string{"domain", "stage"})

	// Deliveries counts notification delivery attempts by channel and
	// outcome.
	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subwatch_deliveries_total",
		Help: "Notification delivery attempts by channel and outcome.",
	}, []string{"channel", "outcome"})
)
