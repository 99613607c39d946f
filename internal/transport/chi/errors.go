package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest        = "bad_request"
	codeNotFound          = "not_found"
	codeTickerNotFound    = "ticker_not_found"
	codeChatNotConfigured = "chat_not_configured"
	codeChatProviderError = "chat_provider_error"
	codeInternalError     = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// sentinelHandler maps a domain sentinel error to an HTTP status and code.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// tickerNotFoundHandler surfaces the available tickers in the 404 message.
func tickerNotFoundHandler(w http.ResponseWriter, err error, _ string) bool {
	var tnf *domain.TickerNotFoundError
	if !errors.As(err, &tnf) {
		return false
	}
	writeError(w, http.StatusNotFound, codeTickerNotFound, tnf.Error())
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
