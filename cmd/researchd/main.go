package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/continuum-intelligence/researchd/internal/config"
	logpkg "github.com/continuum-intelligence/researchd/internal/logger"
	"github.com/continuum-intelligence/researchd/internal/metrics"
	"github.com/continuum-intelligence/researchd/internal/store"
	chiTransport "github.com/continuum-intelligence/researchd/internal/transport/chi"
	openaiChat "github.com/continuum-intelligence/researchd/internal/transport/openai"
	chatuc "github.com/continuum-intelligence/researchd/internal/usecase/chat"
	healthuc "github.com/continuum-intelligence/researchd/internal/usecase/health"
	retrievaluc "github.com/continuum-intelligence/researchd/internal/usecase/retrieval"
	"github.com/continuum-intelligence/researchd/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting researchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("source_path", cfg.Source.Path),
	)

	// Register corpus and chat metrics explicitly (no init())
	metrics.RegisterResearchMetrics()

	// Build the passage corpus once at startup. Source-unreadable is fatal;
	// malformed entries inside the document are dropped individually.
	passageStore := store.New(logger)

	start := time.Now()
	summary, err := passageStore.Ingest(cfg.Source.Path)
	if err != nil {
		metrics.IngestRunsTotal.WithLabelValues("error").Inc()
		logger.Fatal("Failed to ingest research document", zap.Error(err))
	}
	metrics.ObserveIngest(summary, time.Since(start))

	logger.Info("Research corpus ingested",
		zap.Int("tickers", summary.TickerCount),
		zap.Int("passages", summary.TotalPassages()),
		zap.Duration("took", time.Since(start)),
	)
	for _, ticker := range passageStore.Tickers() {
		logger.Info("Corpus ticker",
			zap.String("ticker", ticker),
			zap.Int("passages", summary.PassageCounts[ticker]),
		)
	}

	// Use case services
	retrievalSvc := retrievaluc.New(passageStore)

	chatEnabled := cfg.Chat.APIKey != ""
	var completer chatuc.Completer
	var chatChecker healthuc.ChatChecker
	if chatEnabled {
		provider := openaiChat.NewCompleter(&openaiChat.Config{
			APIKey:    cfg.Chat.APIKey,
			BaseURL:   cfg.Chat.BaseURL,
			Model:     cfg.Chat.Model,
			MaxTokens: cfg.Chat.MaxTokens,
			Logger:    logger,
		})
		completer = provider
		chatChecker = provider
		logger.Info("Chat completion provider configured",
			zap.String("model", cfg.Chat.Model),
			zap.String("base_url", cfg.Chat.BaseURL),
		)
	} else {
		logger.Warn("No chat api_key configured; /api/research-chat is disabled")
	}

	healthSvc := healthuc.New(passageStore, chatChecker)

	chatSvc := chatuc.New(retrievalSvc, passageStore, completer, chatuc.Options{
		MaxPassages:     cfg.Retrieval.MaxPassages,
		MaxHistoryTurns: cfg.Chat.MaxHistoryTurns,
		SourceLimit:     cfg.Retrieval.SourceLimit,
		SnippetChars:    cfg.Retrieval.SnippetChars,
	})

	// Create chi server
	server := chiTransport.NewServer(
		chatSvc, retrievalSvc, healthSvc, passageStore,
		cfg.Source.Path, cfg.Retrieval.MaxPassages, chatEnabled, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
