package consultdesk

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration

	listLimit int
	strategy  CacheStrategy

	pageSize  int
	threshold *float64
	ordered   bool

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the root URL of the consultation service, e.g. "http://localhost:8000".
// Required.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithHTTPClient replaces the HTTP client used for remote calls.
// WithTimeout is ignored when a client is given.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout sets the per-request timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithListLimit sets how many records the initial list fetch requests. Default: 100.
func WithListLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.listLimit = n
	})
}

// WithStrategy selects how the cache reconciles after a mutation.
// Default: StrategyPrepend.
func WithStrategy(s CacheStrategy) Option {
	return optionFunc(func(c *clientConfig) {
		c.strategy = s
	})
}

// WithPageSize sets the default search page size. Default: 10.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithThreshold sets the default similarity threshold. Default: 0.3.
func WithThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = &t
	})
}

// WithOrderedResponses discards search completions older than the newest applied one.
// Off by default: the last completion to arrive wins.
func WithOrderedResponses() Option {
	return optionFunc(func(c *clientConfig) {
		c.ordered = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
