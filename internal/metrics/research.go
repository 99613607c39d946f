package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

// Research corpus and chat Prometheus metrics.
var (
	IngestRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "researchd",
			Name:      "ingest_runs_total",
			Help:      "Total number of ingestion runs",
		},
		[]string{"status"},
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "researchd",
			Name:      "ingest_duration_seconds",
			Help:      "Ingestion run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	CorpusPassages = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "researchd",
			Name:      "corpus_passages",
			Help:      "Passages in the corpus per ticker",
		},
		[]string{"ticker"},
	)

	RetrievalRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "researchd",
			Name:      "retrieval_requests_total",
			Help:      "Total number of passage retrieval requests",
		},
	)

	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "researchd",
			Name:      "chat_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"model", "status"},
	)

	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "researchd",
			Name:      "chat_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	ChatTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "researchd",
			Name:      "chat_tokens_total",
			Help:      "Total chat completion tokens consumed",
		},
		[]string{"model", "type"},
	)
)

// ObserveIngest records a successful ingestion run: duration plus the
// per-ticker corpus gauges.
func ObserveIngest(summary domain.CorpusSummary, duration time.Duration) {
	IngestRunsTotal.WithLabelValues("success").Inc()
	IngestDuration.Observe(duration.Seconds())
	for ticker, count := range summary.PassageCounts {
		CorpusPassages.WithLabelValues(ticker).Set(float64(count))
	}
}

// RegisterResearchMetrics registers corpus and chat metrics with the default
// registry. Called explicitly from the composition root (no init()).
func RegisterResearchMetrics() {
	prometheus.MustRegister(
		IngestRunsTotal,
		IngestDuration,
		CorpusPassages,
		RetrievalRequestsTotal,
		ChatRequestsTotal,
		ChatRequestDuration,
		ChatTokensTotal,
	)
}
