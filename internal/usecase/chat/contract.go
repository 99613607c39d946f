package chat

import (
	"context"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

// Retriever finds the passages grounding an answer.
type Retriever interface {
	Retrieve(query, ticker, alignment string, maxPassages int) []domain.ScoredPassage
}

// TickerSource lists the tickers present in the corpus.
type TickerSource interface {
	Tickers() []string
}

// Completer generates an answer from a system prompt and conversation.
type Completer interface {
	Complete(ctx context.Context, system string, messages []domain.ChatMessage) (domain.ChatResult, error)
}
