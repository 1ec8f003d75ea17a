package health

import "context"

// APIChecker checks remote service liveness.
type APIChecker interface {
	HealthCheck(ctx context.Context) error
}

// CacheChecker reports whether the record cache holds a usable list.
type CacheChecker interface {
	Ready() error
}
