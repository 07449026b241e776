// Package health aggregates component health checks for the probe endpoint.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "healthy"
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
)

// Report aggregates health check results.
type Report struct {
	Status              Status
	SearcherInitialized bool
	Checks              map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	searcher  SearcherInfo
	embedding EmbeddingChecker
}

// New creates a Service. Either dependency can be nil.
func New(searcher SearcherInfo, embedding EmbeddingChecker) *Service {
	return &Service{searcher: searcher, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	initialized := s.searcher != nil && s.searcher.Documents() > 0
	if initialized {
		checks["searcher"] = CheckOK
	} else {
		checks["searcher"] = CheckError
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, SearcherInitialized: initialized, Checks: checks}
}
