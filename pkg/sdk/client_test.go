package researchd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResearchChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/research-chat" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization: got %q", got)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Ticker != "WOW" || req.ThesisAlignment != "t1" {
			t.Errorf("request: got %+v", req)
		}

		_ = json.NewEncoder(w).Encode(ChatAnswer{
			Response: "answer text",
			Ticker:   "WOW",
			Model:    "test-model",
			Sources:  []SourcePassage{{Section: "hypothesis", RelevanceScore: 4.2}},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, WithAPIKey("secret"))
	answer, err := client.ResearchChat(context.Background(), ChatRequest{
		Ticker: "WOW", Question: "bull case?", ThesisAlignment: "t1",
	})
	if err != nil {
		t.Fatalf("research chat: %v", err)
	}
	if answer.Response != "answer text" || answer.Model != "test-model" {
		t.Errorf("answer: got %+v", answer)
	}
	if len(answer.Sources) != 1 || answer.Sources[0].Section != "hypothesis" {
		t.Errorf("sources: got %+v", answer.Sources)
	}
}

func TestPassages_QueryEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("ticker") != "WOW" || q.Get("q") != "bear case" ||
			q.Get("alignment") != "downside" || q.Get("limit") != "5" {
			t.Errorf("query: got %v", q)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"passages": []Passage{{Ticker: "WOW", Section: "hypothesis"}},
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	passages, err := client.Passages(context.Background(), PassagesRequest{
		Ticker: "WOW", Query: "bear case", Alignment: "downside", Limit: 5,
	})
	if err != nil {
		t.Fatalf("passages: %v", err)
	}
	if len(passages) != 1 || passages[0].Section != "hypothesis" {
		t.Errorf("got %+v", passages)
	}
}

func TestTickerNotFound_Sentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "ticker_not_found",
			"message": `ticker not found: "XYZ" (available: WOW)`,
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.ResearchChat(context.Background(), ChatRequest{Ticker: "XYZ", Question: "q"})

	if !errors.Is(err, ErrTickerNotFound) {
		t.Errorf("got %v, want ErrTickerNotFound", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected APIError")
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != "ticker_not_found" {
		t.Errorf("got %+v", apiErr)
	}
}

func TestUnauthorized_Sentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code": "bad_request", "message": "invalid api key",
		})
	}))
	defer srv.Close()

	client := New(srv.URL, WithAPIKey("wrong"))
	_, err := client.Health(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Tickers(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status: got %d", apiErr.StatusCode)
	}
	if apiErr.Message == "" {
		t.Error("message should fall back to status text")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Health{
			Status: "healthy", Tickers: []string{"WOW"},
			PassageCounts: map[string]int{"WOW": 22}, TotalPassages: 22,
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	h, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if h.Status != "healthy" || h.TotalPassages != 22 {
		t.Errorf("got %+v", h)
	}
}
