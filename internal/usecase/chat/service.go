// Package chat answers research questions about a ticker: it validates the
// ticker, retrieves grounding passages and calls the completion provider
// with the analyst system prompt.
package chat

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

// Options bound the request shaping.
type Options struct {
	// MaxPassages is the retrieval depth per question.
	MaxPassages int
	// MaxHistoryTurns caps the conversation history at 2*turns messages.
	MaxHistoryTurns int
	// SourceLimit is how many grounding passages the answer reports back.
	SourceLimit int
	// SnippetChars truncates reported source contents for response size.
	SnippetChars int
}

// DefaultOptions mirror the service's production shaping.
func DefaultOptions() Options {
	return Options{
		MaxPassages:     12,
		MaxHistoryTurns: 20,
		SourceLimit:     6,
		SnippetChars:    300,
	}
}

// Request is one research question.
type Request struct {
	Ticker    string
	Question  string
	Alignment string
	History   []domain.ChatMessage
}

// Answer is the generated response plus the passages that grounded it.
type Answer struct {
	Text    string
	Ticker  string
	Model   string
	Sources []domain.ScoredPassage
}

// Service coordinates retrieval and generation.
type Service struct {
	retriever Retriever
	tickers   TickerSource
	completer Completer
	opts      Options
}

// New creates a chat service.
func New(retriever Retriever, tickers TickerSource, completer Completer, opts Options) *Service {
	if opts.MaxPassages <= 0 {
		opts = DefaultOptions()
	}
	return &Service{retriever: retriever, tickers: tickers, completer: completer, opts: opts}
}

// Ask answers a research question grounded in the ticker's corpus. Unknown
// tickers fail with domain.ErrTickerNotFound; provider failures surface as
// domain.ErrChatProviderError via the completer.
func (s *Service) Ask(ctx context.Context, req Request) (Answer, error) {
	if s.completer == nil {
		return Answer{}, domain.ErrChatNotConfigured
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))

	available := s.tickers.Tickers()
	if !contains(available, ticker) {
		return Answer{}, domain.NewTickerNotFound(ticker, available)
	}

	passages := s.retriever.Retrieve(req.Question, ticker, req.Alignment, s.opts.MaxPassages)

	messages := s.buildMessages(ticker, req, passages)
	result, err := s.completer.Complete(ctx, systemPrompt, messages)
	if err != nil {
		return Answer{}, fmt.Errorf("complete research chat: %w", err)
	}

	return Answer{
		Text:    result.Text,
		Ticker:  ticker,
		Model:   result.Model,
		Sources: s.sources(passages),
	}, nil
}

// buildMessages assembles the truncated history plus the current question
// wrapped in its research context block.
func (s *Service) buildMessages(ticker string, req Request, passages []domain.ScoredPassage) []domain.ChatMessage {
	history := req.History
	if limit := s.opts.MaxHistoryTurns * 2; len(history) > limit {
		history = history[len(history)-limit:]
	}

	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)

	var b strings.Builder
	fmt.Fprintf(&b, "<research_context>\n%s\n</research_context>\n\n", contextBlock(ticker, passages))
	fmt.Fprintf(&b, "**Stock:** %s\n", ticker)
	if req.Alignment != "" {
		fmt.Fprintf(&b, "**Thesis alignment:** %s\n", req.Alignment)
	}
	fmt.Fprintf(&b, "**Question:** %s", req.Question)

	return append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: b.String()})
}

// contextBlock formats retrieved passages for the model.
func contextBlock(ticker string, passages []domain.ScoredPassage) string {
	if len(passages) == 0 {
		return fmt.Sprintf("No research passages found for %s.", ticker)
	}
	lines := []string{fmt.Sprintf("## Research Context for %s\n", ticker)}
	for i, p := range passages {
		lines = append(lines,
			fmt.Sprintf("### Passage %d [%s/%s]", i+1, p.Section, p.Subsection),
			p.Content,
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// sources truncates the top grounding passages for the response payload.
func (s *Service) sources(passages []domain.ScoredPassage) []domain.ScoredPassage {
	limit := s.opts.SourceLimit
	if len(passages) < limit {
		limit = len(passages)
	}
	out := make([]domain.ScoredPassage, limit)
	for i := range out {
		out[i] = passages[i]
		if len(out[i].Content) > s.opts.SnippetChars {
			cut := s.opts.SnippetChars
			// Back off to a rune boundary so the snippet stays valid UTF-8.
			for cut > 0 && !utf8.RuneStart(out[i].Content[cut]) {
				cut--
			}
			out[i].Content = out[i].Content[:cut]
		}
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
