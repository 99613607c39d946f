package retrieval

import (
	"math"
	"sort"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

// Okapi BM25 parameters.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// bm25Index precomputes term statistics over one candidate passage set. It
// is built fresh per query over the boosted candidate copies, which keeps
// boosting side-effect-free at the cost of re-tokenizing the candidates.
type bm25Index struct {
	passages []domain.Passage
	docFreqs []map[string]int
	docLens  []int
	avgDL    float64
	df       map[string]int
}

// newBM25Index tokenizes every candidate and builds term and document
// frequency tables.
func newBM25Index(passages []domain.Passage) *bm25Index {
	idx := &bm25Index{
		passages: passages,
		docFreqs: make([]map[string]int, len(passages)),
		docLens:  make([]int, len(passages)),
		df:       make(map[string]int),
	}

	totalLen := 0
	for i, p := range passages {
		tokens := tokenize(p.Content)
		freq := make(map[string]int, len(tokens))
		for _, t := range tokens {
			freq[t]++
		}
		idx.docFreqs[i] = freq
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)
		for term := range freq {
			idx.df[term]++
		}
	}
	n := len(passages)
	if n == 0 {
		n = 1
	}
	idx.avgDL = float64(totalLen) / float64(n)
	return idx
}

// idf is the Okapi-smoothed inverse document frequency.
func (idx *bm25Index) idf(term string) float64 {
	n := float64(idx.df[term])
	size := float64(len(idx.passages))
	return math.Log((size-n+0.5)/(n+0.5) + 1)
}

// score ranks every candidate against the query. The summed BM25 score is
// multiplied by the passage's current weight. Results come back sorted by
// descending score; ties keep candidate order (stable sort). An empty-token
// query yields zero scores in original order.
func (idx *bm25Index) score(query string) []domain.ScoredPassage {
	queryTokens := tokenize(query)

	scored := make([]domain.ScoredPassage, len(idx.passages))
	for i, p := range idx.passages {
		scored[i] = domain.ScoredPassage{Passage: p}
	}
	// No query tokens, or no candidate tokens at all: nothing to rank.
	if len(queryTokens) == 0 || idx.avgDL == 0 {
		return scored
	}

	for i := range idx.passages {
		dl := float64(idx.docLens[i])
		freq := idx.docFreqs[i]

		score := 0.0
		for _, term := range queryTokens {
			tf := float64(freq[term])
			numerator := tf * (bm25K1 + 1)
			denominator := tf + bm25K1*(1-bm25B+bm25B*dl/idx.avgDL)
			score += idx.idf(term) * numerator / denominator
		}
		scored[i].RelevanceScore = score * idx.passages[i].Weight
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].RelevanceScore > scored[b].RelevanceScore
	})
	return scored
}
