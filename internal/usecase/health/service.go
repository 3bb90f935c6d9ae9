// Package health aggregates component liveness checks for the health endpoint.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled indicates the component is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Report aggregates health check results.
type Report struct {
	Status       Status
	Checks       map[string]CheckResult
	SyncEnabled  bool
	CacheEnabled bool
}

// Service coordinates health checks.
type Service struct {
	cache       CachePinger
	syncEnabled bool
}

// New creates a Service. cache can be nil when no cache backend is configured.
func New(cache CachePinger, syncEnabled bool) *Service {
	return &Service{cache: cache, syncEnabled: syncEnabled}
}

// Check runs health checks against all components. A disabled component never
// degrades the report; only a configured-but-failing one does.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	switch {
	case s.cache == nil:
		checks["cache"] = CheckDisabled
	default:
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
			status = Degraded
		} else {
			checks["cache"] = CheckOK
		}
	}

	if s.syncEnabled {
		checks["sync"] = CheckOK
	} else {
		checks["sync"] = CheckDisabled
	}

	return Report{
		Status:       status,
		Checks:       checks,
		SyncEnabled:  s.syncEnabled,
		CacheEnabled: s.cache != nil,
	}
}
