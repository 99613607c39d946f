package retrieval

import "github.com/continuum-intelligence/researchd/internal/domain"

// PassageSource provides retrieval candidates, typically the passage store.
// An empty ticker means the whole corpus.
type PassageSource interface {
	Passages(ticker string) []domain.Passage
}
