package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "healthy"
	// Degraded indicates the corpus is empty or a component check failed.
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

// Report aggregates corpus statistics for the health endpoint.
type Report struct {
	Status        Status
	Tickers       []string
	PassageCounts map[string]int
	TotalPassages int
	// ChatStatus is empty when no completion provider is configured.
	ChatStatus CheckResult
}

// Service reports corpus health.
type Service struct {
	corpus CorpusReader
	chat   ChatChecker
}

// New creates a Service. chat can be nil.
func New(corpus CorpusReader, chat ChatChecker) *Service {
	return &Service{corpus: corpus, chat: chat}
}

// Check builds the health report from the current corpus snapshot and, when
// a completion provider is configured, its availability.
func (s *Service) Check(ctx context.Context) Report {
	counts := s.corpus.Counts()
	total := 0
	for _, n := range counts {
		total += n
	}

	status := Healthy
	if total == 0 {
		status = Degraded
	}

	var chatStatus CheckResult
	if s.chat != nil {
		chatStatus = CheckOK
		if err := s.chat.HealthCheck(ctx); err != nil {
			chatStatus = CheckError
			status = Degraded
		}
	}

	return Report{
		Status:        status,
		Tickers:       s.corpus.Tickers(),
		PassageCounts: counts,
		TotalPassages: total,
		ChatStatus:    chatStatus,
	}
}
