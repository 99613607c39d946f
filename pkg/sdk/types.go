package researchd

// ChatMessage is one prior conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is one research question about a ticker.
type ChatRequest struct {
	Ticker              string        `json:"ticker"`
	Question            string        `json:"question"`
	ThesisAlignment     string        `json:"thesis_alignment,omitempty"`
	ConversationHistory []ChatMessage `json:"conversation_history,omitempty"`
}

// SourcePassage is one grounding passage reported with an answer.
type SourcePassage struct {
	Section        string  `json:"section"`
	Subsection     string  `json:"subsection"`
	Content        string  `json:"content"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ChatAnswer is the generated response plus its grounding passages.
type ChatAnswer struct {
	Response string          `json:"response"`
	Ticker   string          `json:"ticker"`
	Sources  []SourcePassage `json:"sources"`
	Model    string          `json:"model"`
}

// Passage is one ranked retrieval result.
type Passage struct {
	Ticker         string   `json:"ticker"`
	Section        string   `json:"section"`
	Subsection     string   `json:"subsection"`
	Content        string   `json:"content"`
	Tags           []string `json:"tags"`
	Weight         float64  `json:"weight"`
	RelevanceScore float64  `json:"relevance_score"`
}

// PassagesRequest parameterizes a retrieval-only query.
type PassagesRequest struct {
	Ticker    string
	Query     string
	Alignment string
	Limit     int
}

// TickerList reports the tickers in the corpus and their passage counts.
type TickerList struct {
	Tickers []string       `json:"tickers"`
	Counts  map[string]int `json:"counts"`
}

// Health is the service health report. Chat is empty when no completion
// provider is configured.
type Health struct {
	Status        string         `json:"status"`
	Tickers       []string       `json:"tickers"`
	PassageCounts map[string]int `json:"passage_counts"`
	TotalPassages int            `json:"total_passages"`
	Chat          string         `json:"chat,omitempty"`
}

// IngestSummary reports the outcome of a corpus rebuild.
type IngestSummary struct {
	Tickers       int            `json:"tickers"`
	PassageCounts map[string]int `json:"passage_counts"`
	TotalPassages int            `json:"total_passages"`
}
