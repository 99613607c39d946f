package researchd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 90 * time.Second

// Option configures the Client.
type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) { c.apiKey = key })
}

// WithHTTPClient replaces the underlying HTTP client. Useful for custom
// timeouts or transports.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) { c.http = hc })
}

// Client is the researchd API client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// ResearchChat asks a research question grounded in the ticker's corpus.
func (c *Client) ResearchChat(ctx context.Context, req ChatRequest) (ChatAnswer, error) {
	var answer ChatAnswer
	err := c.do(ctx, http.MethodPost, "/api/research-chat", req, &answer)
	return answer, err
}

// Passages runs retrieval without generation and returns the ranked passages.
func (c *Client) Passages(ctx context.Context, req PassagesRequest) ([]Passage, error) {
	q := url.Values{}
	q.Set("ticker", req.Ticker)
	if req.Query != "" {
		q.Set("q", req.Query)
	}
	if req.Alignment != "" {
		q.Set("alignment", req.Alignment)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}

	var resp struct {
		Passages []Passage `json:"passages"`
	}
	err := c.do(ctx, http.MethodGet, "/api/passages?"+q.Encode(), nil, &resp)
	return resp.Passages, err
}

// Tickers lists the tickers available in the corpus.
func (c *Client) Tickers(ctx context.Context) (TickerList, error) {
	var list TickerList
	err := c.do(ctx, http.MethodGet, "/api/tickers", nil, &list)
	return list, err
}

// Health fetches the service health report.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &h)
	return h, err
}

// Reingest rebuilds the corpus from the source document.
func (c *Client) Reingest(ctx context.Context) (IngestSummary, error) {
	var summary IngestSummary
	err := c.do(ctx, http.MethodPost, "/api/reingest", nil, &summary)
	return summary, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && json.Unmarshal(data, &body) == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
