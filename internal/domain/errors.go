package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTickerNotFound signals a ticker absent from the corpus.
	ErrTickerNotFound = errors.New("ticker not found")
	// ErrChatNotConfigured signals a missing chat provider configuration.
	ErrChatNotConfigured = errors.New("chat provider not configured")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
)

// TickerNotFoundError wraps ErrTickerNotFound with the tickers that exist.
type TickerNotFoundError struct {
	Ticker    string
	Available []string
}

func (e *TickerNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q (available: %s)",
		ErrTickerNotFound.Error(), e.Ticker, strings.Join(e.Available, ", "))
}

func (e *TickerNotFoundError) Unwrap() error { return ErrTickerNotFound }

// NewTickerNotFound creates a ticker not found error.
func NewTickerNotFound(ticker string, available []string) error {
	return &TickerNotFoundError{Ticker: ticker, Available: available}
}
