package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the remote service is up but the local cache is not usable.
	Degraded Status = "degraded"
	// Unhealthy indicates the remote service is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	api   APIChecker
	cache CacheChecker
}

// New creates a Service. cache can be nil.
func New(api APIChecker, cache CacheChecker) *Service {
	return &Service{api: api, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.cache != nil {
		if err := s.cache.Ready(); err != nil {
			checks["cache"] = CheckError
			status = Degraded
		} else {
			checks["cache"] = CheckOK
		}
	}

	if err := s.api.HealthCheck(ctx); err != nil {
		checks["api"] = CheckError
		status = Unhealthy
	} else {
		checks["api"] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
