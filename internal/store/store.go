// Package store holds the in-process passage corpus. The corpus is built
// once at startup (or rebuilt on demand) and swapped in atomically as an
// immutable snapshot, so any number of concurrent readers run without locks.
package store

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/continuum-intelligence/researchd/internal/domain"
	"github.com/continuum-intelligence/researchd/internal/ingest"
)

// snapshot is one immutable corpus build. Readers never see a partially
// built snapshot: Ingest constructs a complete one and swaps the pointer.
type snapshot struct {
	byTicker map[string][]domain.Passage
	all      []domain.Passage
	tickers  []string
}

var emptySnapshot = &snapshot{byTicker: map[string][]domain.Passage{}}

// Store maps tickers to their passage lists. The zero value of Store is not
// usable; construct with New.
type Store struct {
	snap   atomic.Pointer[snapshot]
	logger *zap.Logger
}

// New creates an empty store. It holds no passages until Ingest runs.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger}
	s.snap.Store(emptySnapshot)
	return s
}

// Ingest reads the source document, runs the extraction pipeline and
// atomically replaces the corpus. It fails only when the document cannot be
// read; malformed entries inside the document are dropped individually.
func (s *Store) Ingest(sourcePath string) (domain.CorpusSummary, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return domain.CorpusSummary{}, fmt.Errorf("read source document %s: %w", sourcePath, err)
	}

	corpus := ingest.ParseDocument(string(data), s.logger)

	snap := &snapshot{
		byTicker: corpus.ByTicker,
		tickers:  make([]string, len(corpus.Order)),
	}
	copy(snap.tickers, corpus.Order)
	sort.Strings(snap.tickers)
	for _, ticker := range corpus.Order {
		snap.all = append(snap.all, corpus.ByTicker[ticker]...)
	}
	s.snap.Store(snap)

	return s.Summary(), nil
}

// Passages returns the ticker's passage list in chunk-emission order, or the
// full flattened corpus when ticker is empty. Unknown tickers yield nil.
func (s *Store) Passages(ticker string) []domain.Passage {
	snap := s.snap.Load()
	if ticker == "" {
		return snap.all
	}
	return snap.byTicker[ticker]
}

// Tickers returns the sorted ticker identifiers.
func (s *Store) Tickers() []string {
	return s.snap.Load().tickers
}

// Counts returns per-ticker passage counts.
func (s *Store) Counts() map[string]int {
	snap := s.snap.Load()
	counts := make(map[string]int, len(snap.byTicker))
	for ticker, passages := range snap.byTicker {
		counts[ticker] = len(passages)
	}
	return counts
}

// Summary reports ticker and passage counts for the current corpus.
func (s *Store) Summary() domain.CorpusSummary {
	return domain.CorpusSummary{
		TickerCount:   len(s.Tickers()),
		PassageCounts: s.Counts(),
	}
}
