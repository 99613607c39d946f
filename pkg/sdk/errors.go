package researchd

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. APIError wraps the matching sentinel
// based on the error code the server returned.
var (
	// ErrTickerNotFound is returned for tickers absent from the corpus.
	ErrTickerNotFound = errors.New("ticker not found")
	// ErrChatNotConfigured is returned when the server has no chat provider.
	ErrChatNotConfigured = errors.New("chat not configured")
	// ErrUnauthorized is returned for missing or invalid API keys.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a structured error response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("researchd: %s (%s, HTTP %d)", e.Message, e.Code, e.StatusCode)
}

// Unwrap maps known error codes to sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "ticker_not_found":
		return ErrTickerNotFound
	case "chat_not_configured":
		return ErrChatNotConfigured
	}
	if e.StatusCode == 401 {
		return ErrUnauthorized
	}
	return nil
}
