// Package retrieval ranks research passages against a question using BM25
// lexical scoring with alignment and section-keyword boosting.
package retrieval

import (
	"math"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

// Service retrieves the most relevant passages for a ticker and question.
// Every call is a pure computation over the current corpus snapshot plus
// freshly boosted copies and a freshly built index, so concurrent calls
// share no mutable state.
type Service struct {
	source PassageSource
}

// New creates a retrieval service.
func New(source PassageSource) *Service {
	return &Service{source: source}
}

// Retrieve ranks the ticker's passages against the query and returns the top
// maxPassages, highest relevance first. Alignment (tier or direction) and
// query section keywords boost passage weights before the index is built.
// An unknown ticker yields an empty result, not an error.
func (s *Service) Retrieve(query, ticker, alignment string, maxPassages int) []domain.ScoredPassage {
	candidates := s.source.Passages(ticker)
	if len(candidates) == 0 {
		return nil
	}

	candidates = applyAlignmentBoost(candidates, alignment)
	candidates = applySectionBoost(candidates, query)

	scored := newBM25Index(candidates).score(query)
	if len(scored) > maxPassages {
		scored = scored[:maxPassages]
	}
	for i := range scored {
		scored[i].RelevanceScore = roundScore(scored[i].RelevanceScore)
	}
	return scored
}

// roundScore rounds to three decimals for stable response payloads.
func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}
