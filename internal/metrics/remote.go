package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Remote API Prometheus metrics, recorded by the REST transport.
var (
	RemoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "consultdesk",
			Name:      "remote_requests_total",
			Help:      "Total number of requests to the consultation API",
		},
		[]string{"operation", "status"},
	)

	RemoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "consultdesk",
			Name:      "remote_request_duration_seconds",
			Help:      "Consultation API request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	RemoteErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "consultdesk",
			Name:      "remote_errors_total",
			Help:      "Consultation API failures by status class",
		},
		[]string{"operation", "class"},
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "consultdesk",
			Name:      "search_results_returned",
			Help:      "Number of results per search page",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)

var registerRemote sync.Once

// RegisterRemoteMetrics registers the remote API metrics with the default registry.
// Safe to call more than once.
func RegisterRemoteMetrics() {
	registerRemote.Do(func() {
		prometheus.MustRegister(RemoteRequestsTotal)
		prometheus.MustRegister(RemoteRequestDuration)
		prometheus.MustRegister(RemoteErrorsTotal)
		prometheus.MustRegister(SearchResultsReturned)
	})
}
