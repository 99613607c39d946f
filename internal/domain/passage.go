package domain

// Passage is the unit of retrieval: one tagged, weighted chunk of research
// text describing a single facet of a ticker.
//
// Passages are immutable once emitted by the chunker. Retrieval-time weight
// adjustments always operate on copies (see usecase/retrieval), never on the
// stored corpus, so concurrent queries stay side-effect-free.
type Passage struct {
	Ticker     string
	Section    string
	Subsection string
	Content    string
	Tags       []string
	Weight     float64
}

// HasTag reports whether the passage carries the given tag.
func (p Passage) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// WithWeight returns a copy of the passage with the weight replaced.
// The tag slice is shared; tags are never mutated after chunking.
func (p Passage) WithWeight(w float64) Passage {
	p.Weight = w
	return p
}

// ScoredPassage pairs a passage with its query relevance score.
type ScoredPassage struct {
	Passage
	RelevanceScore float64
}

// CorpusSummary describes the outcome of one ingestion run.
type CorpusSummary struct {
	TickerCount   int
	PassageCounts map[string]int
}

// TotalPassages returns the passage count across all tickers.
func (s CorpusSummary) TotalPassages() int {
	total := 0
	for _, n := range s.PassageCounts {
		total += n
	}
	return total
}
