package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PlaceholderContent is returned when the backend replies without the
// expected response field. A missing answer is "no answer", not a failure.
const PlaceholderContent = "No response generated."

// Result is the normalized backend answer.
type Result struct {
	Content string
	Sources []json.RawMessage
}

// Client issues generate calls against the ML service.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  apiKey,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type generateResponse struct {
	Response        *string           `json:"response"`
	RelevantSources []json.RawMessage `json:"relevant_sources"`
}

// Generate sends one query to the ML service and normalizes the reply.
// Failures are classified so callers can map them to proxy-facing outcomes:
// ErrTimeout, ErrUnreachable, or *Error for a structured backend rejection.
func (c *Client) Generate(ctx context.Context, query, sessionID string) (Result, error) {
	if c.baseURL == "" {
		return Result{}, fmt.Errorf("ML service URL not configured: %w", ErrUnreachable)
	}

	payload, err := json.Marshal(generateRequest{Query: query, SessionID: sessionID})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return Result{}, c.classifyTransportError(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return Result{}, newError(res)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}

	content := PlaceholderContent
	if parsed.Response != nil {
		content = *parsed.Response
	}
	return Result{Content: content, Sources: parsed.RelevantSources}, nil
}

func (c *Client) classifyTransportError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return fmt.Errorf("backend call exceeded %s: %w", c.timeout, ErrTimeout)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("backend call exceeded deadline: %w", ErrTimeout)
	}
	return fmt.Errorf("backend call failed: %w: %v", ErrUnreachable, err)
}
