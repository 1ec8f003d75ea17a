package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "consultdesk",
			Subsystem: "console",
			Name:      "request_duration_seconds",
			Help:      "Console HTTP request duration in seconds, by route pattern",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "consultdesk",
			Subsystem: "console",
			Name:      "requests_total",
			Help:      "Total console HTTP requests, by route pattern",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "consultdesk",
			Subsystem: "console",
			Name:      "requests_in_flight",
			Help:      "Console HTTP requests currently being served",
		},
	)
)

var registerConsole sync.Once

// RegisterConsoleMetrics registers the console HTTP metrics with the default registry.
// Safe to call more than once; Middleware calls it.
func RegisterConsoleMetrics() {
	registerConsole.Do(func() {
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
		prometheus.MustRegister(httpRequestsInFlight)
	})
}

// Middleware records console request count, duration and concurrency.
// Routes are labelled by chi route pattern, so ids never become label values.
func Middleware() func(next http.Handler) http.Handler {
	RegisterConsoleMetrics()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routeLabel(chi.RouteContext(r.Context()))
			labels := []string{r.Method, route, strconv.Itoa(status)}

			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()
		})
	}
}

// routeLabel returns the matched route pattern, or "unmatched" for 404/405 traffic.
func routeLabel(rctx *chi.Context) string {
	if rctx == nil {
		return "unmatched"
	}
	return normalizePath(rctx.RoutePattern())
}

func normalizePath(pattern string) string {
	if pattern == "" || pattern == "/*" {
		return "unmatched"
	}
	return pattern
}
