// Package chi wires the research chat API onto a chi router: request
// decoding, domain error mapping and the SPA/data passthrough routes.
package chi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/continuum-intelligence/researchd/internal/domain"
	logpkg "github.com/continuum-intelligence/researchd/internal/logger"
	"github.com/continuum-intelligence/researchd/internal/metrics"
	chatuc "github.com/continuum-intelligence/researchd/internal/usecase/chat"
	healthuc "github.com/continuum-intelligence/researchd/internal/usecase/health"
	retrievaluc "github.com/continuum-intelligence/researchd/internal/usecase/retrieval"
)

// Corpus rebuilds the passage corpus and exposes its statistics.
type Corpus interface {
	Ingest(sourcePath string) (domain.CorpusSummary, error)
	Tickers() []string
	Counts() map[string]int
}

// Server exposes the research chat API over HTTP.
type Server struct {
	chat          *chatuc.Service
	retrieval     *retrievaluc.Service
	health        *healthuc.Service
	corpus        Corpus
	sourcePath    string
	maxPassages   int
	chatEnabled   bool
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. chatEnabled should be false when no
// completion provider is configured; the chat endpoint then returns 500
// without calling out.
func NewServer(
	chat *chatuc.Service,
	retrieval *retrievaluc.Service,
	health *healthuc.Service,
	corpus Corpus,
	sourcePath string,
	maxPassages int,
	chatEnabled bool,
	logger *zap.Logger,
) *Server {
	s := &Server{
		chat:        chat,
		retrieval:   retrieval,
		health:      health,
		corpus:      corpus,
		sourcePath:  sourcePath,
		maxPassages: maxPassages,
		chatEnabled: chatEnabled,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		tickerNotFoundHandler,
		sentinelHandler(domain.ErrTickerNotFound, http.StatusNotFound, codeTickerNotFound),
		sentinelHandler(domain.ErrChatNotConfigured, http.StatusInternalServerError, codeChatNotConfigured),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeChatProviderError),
	}
	return s
}

// Routes registers the API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/research-chat", s.researchChat)
	r.Get("/api/tickers", s.listTickers)
	r.Get("/api/health", s.healthCheck)
	r.Get("/api/passages", s.listPassages)
	r.Post("/api/reingest", s.reingest)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/data/{filename}", s.serveData)
	r.NotFound(s.serveFrontend)
}

// --- Request / response DTOs ---

// ChatMessage is one prior conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResearchChatRequest is the chat endpoint request body.
type ResearchChatRequest struct {
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

// ResearchChatResponse is the chat endpoint response body.
type ResearchChatResponse struct {
	Response string          `json:"response"`
	Ticker   string          `json:"ticker"`
	Sources  []SourcePassage `json:"sources"`
	Model    string          `json:"model"`
}

// PassageResult is one retrieval debug result.
type PassageResult struct {
	Ticker         string   `json:"ticker"`
	Section        string   `json:"section"`
	Subsection     string   `json:"subsection"`
	Content        string   `json:"content"`
	Tags           []string `json:"tags"`
	Weight         float64  `json:"weight"`
	RelevanceScore float64  `json:"relevance_score"`
}

// --- Handlers ---

// researchChat handles POST /api/research-chat.
func (s *Server) researchChat(w http.ResponseWriter, r *http.Request) {
	var req ResearchChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "ticker is required")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "question is required")
		return
	}
	if !s.chatEnabled {
		s.handleDomainError(w, domain.ErrChatNotConfigured)
		return
	}

	history := make([]domain.ChatMessage, 0, len(req.ConversationHistory))
	for _, m := range req.ConversationHistory {
		history = append(history, domain.ChatMessage{
			Role:    domain.ChatRole(m.Role),
			Content: m.Content,
		})
	}

	answer, err := s.chat.Ask(r.Context(), chatuc.Request{
		Ticker:    req.Ticker,
		Question:  req.Question,
		Alignment: req.ThesisAlignment,
		History:   history,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sources := make([]SourcePassage, len(answer.Sources))
	for i, p := range answer.Sources {
		sources[i] = SourcePassage{
			Section:        p.Section,
			Subsection:     p.Subsection,
			Content:        p.Content,
			RelevanceScore: p.RelevanceScore,
		}
	}
	writeJSON(w, http.StatusOK, ResearchChatResponse{
		Response: answer.Text,
		Ticker:   answer.Ticker,
		Sources:  sources,
		Model:    answer.Model,
	})
}

// listTickers handles GET /api/tickers.
func (s *Server) listTickers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tickers": s.corpus.Tickers(),
		"counts":  s.corpus.Counts(),
	})
}

// healthCheck handles GET /api/health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	payload := map[string]any{
		"status":         string(report.Status),
		"tickers":        report.Tickers,
		"passage_counts": report.PassageCounts,
		"total_passages": report.TotalPassages,
	}
	if report.ChatStatus != "" {
		payload["chat"] = string(report.ChatStatus)
	}
	writeJSON(w, http.StatusOK, payload)
}

// listPassages handles GET /api/passages — retrieval without generation, for
// debugging relevance.
func (s *Server) listPassages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ticker := strings.ToUpper(strings.TrimSpace(q.Get("ticker")))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "ticker query parameter is required")
		return
	}

	limit := s.maxPassages
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	metrics.RetrievalRequestsTotal.Inc()
	scored := s.retrieval.Retrieve(q.Get("q"), ticker, q.Get("alignment"), limit)

	results := make([]PassageResult, len(scored))
	for i, p := range scored {
		results[i] = PassageResult{
			Ticker:         p.Ticker,
			Section:        p.Section,
			Subsection:     p.Subsection,
			Content:        p.Content,
			Tags:           p.Tags,
			Weight:         p.Weight,
			RelevanceScore: p.RelevanceScore,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"passages": results})
}

// reingest handles POST /api/reingest: whole-corpus replace from the source
// document, swapped in atomically.
func (s *Server) reingest(w http.ResponseWriter, r *http.Request) {
	log := logpkg.FromContext(r.Context())

	start := time.Now()
	summary, err := s.corpus.Ingest(s.sourcePath)
	if err != nil {
		metrics.IngestRunsTotal.WithLabelValues("error").Inc()
		log.Error("reingest failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "reingest failed: "+err.Error())
		return
	}
	metrics.ObserveIngest(summary, time.Since(start))

	log.Info("corpus reingested",
		zap.Int("tickers", summary.TickerCount),
		zap.Int("passages", summary.TotalPassages()),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"tickers":        summary.TickerCount,
		"passage_counts": summary.PassageCounts,
		"total_passages": summary.TotalPassages(),
	})
}

// serveData handles GET /data/{filename} for JSON data files living next to
// the source document.
func (s *Server) serveData(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(chi.URLParam(r, "filename"))
	if filepath.Ext(filename) != ".json" {
		writeError(w, http.StatusNotFound, codeNotFound, "File not found")
		return
	}
	path := filepath.Join(filepath.Dir(s.sourcePath), "data", filename)
	if _, err := filepath.Abs(path); err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, path)
}

// serveFrontend serves the source document for all non-API routes (SPA
// catch-all). Unknown API paths still 404 as JSON.
func (s *Server) serveFrontend(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, codeNotFound, "Not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, s.sourcePath)
}

// handleDomainError maps domain sentinels to HTTP responses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err, err.Error()) {
			return
		}
	}
	s.logger.Error("unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
