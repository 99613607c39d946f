package health

import "context"

// CorpusReader exposes corpus statistics for the health report.
type CorpusReader interface {
	Tickers() []string
	Counts() map[string]int
}

// ChatChecker checks chat completion provider availability.
type ChatChecker interface {
	HealthCheck(ctx context.Context) error
}
