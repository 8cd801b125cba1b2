package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	retrievalsTotal   *prometheus.CounterVec
	retrievalDuration *prometheus.HistogramVec

	// Registration guard
	once       sync.Once
	registered bool
)

// Init registers the retrieval metrics with the default registry. Call it
// once at startup when metrics are enabled; Record is a no-op otherwise.
func Init() {
	once.Do(func() {
		retrievalsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccp_requests_total",
				Help: "Total number of CCP retrieval requests by outcome category",
			},
			[]string{"outcome"},
		)

		retrievalDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ccp_request_duration_seconds",
				Help:    "Duration of CCP retrieval requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 5, 30},
			},
			[]string{"outcome"},
		)

		registered = true
	})
}

// Record observes one completed retrieval. The outcome is "success" or an
// error category name.
func Record(outcome string, durationSeconds float64) {
	if !registered {
		return
	}
	retrievalsTotal.WithLabelValues(outcome).Inc()
	retrievalDuration.WithLabelValues(outcome).Observe(durationSeconds)
}

// Registered reports whether Init has run.
func Registered() bool {
	return registered
}

// RetrievalsTotal returns the request counter for testing.
func RetrievalsTotal() *prometheus.CounterVec {
	return retrievalsTotal
}
