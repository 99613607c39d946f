package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

type stubRetriever struct {
	results []domain.ScoredPassage

	gotQuery     string
	gotTicker    string
	gotAlignment string
	gotMax       int
}

func (r *stubRetriever) Retrieve(query, ticker, alignment string, maxPassages int) []domain.ScoredPassage {
	r.gotQuery, r.gotTicker, r.gotAlignment, r.gotMax = query, ticker, alignment, maxPassages
	return r.results
}

type stubTickers struct{ tickers []string }

func (s *stubTickers) Tickers() []string { return s.tickers }

type stubCompleter struct {
	result domain.ChatResult
	err    error

	gotSystem   string
	gotMessages []domain.ChatMessage
}

func (c *stubCompleter) Complete(_ context.Context, system string, messages []domain.ChatMessage) (domain.ChatResult, error) {
	c.gotSystem = system
	c.gotMessages = messages
	return c.result, c.err
}

func scoredPassage(section, subsection, content string, score float64) domain.ScoredPassage {
	return domain.ScoredPassage{
		Passage: domain.Passage{
			Ticker: "WOW", Section: section, Subsection: subsection,
			Content: content, Weight: 1.0,
		},
		RelevanceScore: score,
	}
}

func newTestService(retriever *stubRetriever, completer *stubCompleter) *Service {
	return New(retriever, &stubTickers{tickers: []string{"BHP", "WOW"}}, completer, DefaultOptions())
}

func TestAsk_NotConfigured(t *testing.T) {
	svc := New(&stubRetriever{}, &stubTickers{tickers: []string{"WOW"}}, nil, DefaultOptions())
	_, err := svc.Ask(context.Background(), Request{Ticker: "WOW", Question: "q"})
	if !errors.Is(err, domain.ErrChatNotConfigured) {
		t.Errorf("got %v, want ErrChatNotConfigured", err)
	}
}

func TestAsk_UnknownTicker(t *testing.T) {
	svc := newTestService(&stubRetriever{}, &stubCompleter{})
	_, err := svc.Ask(context.Background(), Request{Ticker: "XYZ", Question: "q"})

	if !errors.Is(err, domain.ErrTickerNotFound) {
		t.Fatalf("got %v, want ErrTickerNotFound", err)
	}
	var tnf *domain.TickerNotFoundError
	if !errors.As(err, &tnf) {
		t.Fatal("expected TickerNotFoundError")
	}
	if tnf.Ticker != "XYZ" || len(tnf.Available) != 2 {
		t.Errorf("got %+v", tnf)
	}
}

func TestAsk_TickerNormalized(t *testing.T) {
	retriever := &stubRetriever{}
	completer := &stubCompleter{result: domain.ChatResult{Text: "ok", Model: "m"}}
	svc := newTestService(retriever, completer)

	answer, err := svc.Ask(context.Background(), Request{Ticker: " wow ", Question: "q"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer.Ticker != "WOW" {
		t.Errorf("ticker: got %s, want WOW", answer.Ticker)
	}
	if retriever.gotTicker != "WOW" {
		t.Errorf("retriever ticker: got %s, want WOW", retriever.gotTicker)
	}
	if retriever.gotMax != 12 {
		t.Errorf("max passages: got %d, want 12", retriever.gotMax)
	}
}

func TestAsk_BuildsContextBlock(t *testing.T) {
	retriever := &stubRetriever{results: []domain.ScoredPassage{
		scoredPassage("hypothesis", "t1", "Margin expansion thesis", 4.2),
		scoredPassage("verdict", "summary", "Constructive on balance", 3.1),
	}}
	completer := &stubCompleter{result: domain.ChatResult{Text: "answer"}}
	svc := newTestService(retriever, completer)

	_, err := svc.Ask(context.Background(), Request{
		Ticker: "WOW", Question: "what is the bull case?", Alignment: "t1",
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	if len(completer.gotMessages) != 1 {
		t.Fatalf("got %d messages, want 1", len(completer.gotMessages))
	}
	last := completer.gotMessages[0]
	if last.Role != domain.RoleUser {
		t.Errorf("role: got %s", last.Role)
	}
	for _, want := range []string{
		"<research_context>",
		"## Research Context for WOW",
		"### Passage 1 [hypothesis/t1]",
		"Margin expansion thesis",
		"### Passage 2 [verdict/summary]",
		"</research_context>",
		"**Stock:** WOW",
		"**Thesis alignment:** t1",
		"**Question:** what is the bull case?",
	} {
		if !strings.Contains(last.Content, want) {
			t.Errorf("message missing %q:\n%s", want, last.Content)
		}
	}
	if completer.gotSystem == "" {
		t.Error("system prompt not passed")
	}
}

func TestAsk_NoPassagesFallbackContext(t *testing.T) {
	completer := &stubCompleter{result: domain.ChatResult{Text: "answer"}}
	svc := newTestService(&stubRetriever{}, completer)

	if _, err := svc.Ask(context.Background(), Request{Ticker: "WOW", Question: "q"}); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(completer.gotMessages[0].Content, "No research passages found for WOW.") {
		t.Errorf("fallback context missing:\n%s", completer.gotMessages[0].Content)
	}
}

func TestAsk_AlignmentOmittedWhenEmpty(t *testing.T) {
	completer := &stubCompleter{result: domain.ChatResult{Text: "answer"}}
	svc := newTestService(&stubRetriever{}, completer)

	if _, err := svc.Ask(context.Background(), Request{Ticker: "WOW", Question: "q"}); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if strings.Contains(completer.gotMessages[0].Content, "**Thesis alignment:**") {
		t.Error("alignment line should be omitted when empty")
	}
}

func TestAsk_HistoryTruncated(t *testing.T) {
	completer := &stubCompleter{result: domain.ChatResult{Text: "answer"}}
	retriever := &stubRetriever{}
	svc := New(retriever, &stubTickers{tickers: []string{"WOW"}}, completer, Options{
		MaxPassages: 12, MaxHistoryTurns: 2, SourceLimit: 6, SnippetChars: 300,
	})

	history := make([]domain.ChatMessage, 10)
	for i := range history {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		history[i] = domain.ChatMessage{Role: role, Content: fmt.Sprintf("turn %d", i)}
	}

	if _, err := svc.Ask(context.Background(), Request{Ticker: "WOW", Question: "q", History: history}); err != nil {
		t.Fatalf("ask: %v", err)
	}

	// 2 turns * 2 messages of history, plus the new question.
	if len(completer.gotMessages) != 5 {
		t.Fatalf("got %d messages, want 5", len(completer.gotMessages))
	}
	if completer.gotMessages[0].Content != "turn 6" {
		t.Errorf("history should keep the most recent turns, got %q first", completer.gotMessages[0].Content)
	}
}

func TestAsk_SourcesTruncated(t *testing.T) {
	long := strings.Repeat("x", 500)
	var results []domain.ScoredPassage
	for i := 0; i < 10; i++ {
		results = append(results, scoredPassage("evidence", fmt.Sprintf("card_%d", i), long, float64(10-i)))
	}
	completer := &stubCompleter{result: domain.ChatResult{Text: "answer", Model: "m"}}
	svc := newTestService(&stubRetriever{results: results}, completer)

	answer, err := svc.Ask(context.Background(), Request{Ticker: "WOW", Question: "q"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	if len(answer.Sources) != 6 {
		t.Errorf("sources: got %d, want 6", len(answer.Sources))
	}
	for _, src := range answer.Sources {
		if len(src.Content) != 300 {
			t.Errorf("source content: got %d chars, want 300", len(src.Content))
		}
	}
	// The full passages still reach the model untruncated.
	if !strings.Contains(completer.gotMessages[0].Content, long) {
		t.Error("model context should carry the full passage text")
	}
}

func TestAsk_SnippetKeepsRuneBoundary(t *testing.T) {
	// A cut point inside the three-byte arrow must back off, not split it.
	completer := &stubCompleter{result: domain.ChatResult{Text: "answer"}}
	retriever := &stubRetriever{results: []domain.ScoredPassage{
		scoredPassage("tripwire", "FY26 guidance", "abcd→efgh", 1.0),
	}}
	svc := New(retriever, &stubTickers{tickers: []string{"WOW"}}, completer, Options{
		MaxPassages: 12, MaxHistoryTurns: 20, SourceLimit: 6, SnippetChars: 5,
	})

	answer, err := svc.Ask(context.Background(), Request{Ticker: "WOW", Question: "q"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	got := answer.Sources[0].Content
	if !utf8.ValidString(got) {
		t.Errorf("snippet is not valid UTF-8: %q", got)
	}
	if got != "abcd" {
		t.Errorf("snippet: got %q, want %q", got, "abcd")
	}
}

func TestAsk_ProviderErrorWrapped(t *testing.T) {
	completer := &stubCompleter{err: fmt.Errorf("upstream: %w", domain.ErrChatProviderError)}
	svc := newTestService(&stubRetriever{}, completer)

	_, err := svc.Ask(context.Background(), Request{Ticker: "WOW", Question: "q"})
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Errorf("got %v, want wrapped ErrChatProviderError", err)
	}
}
