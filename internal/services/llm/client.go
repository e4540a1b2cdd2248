package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultTimeout = 15 * time.Second
)

// Config holds the endpoint settings for translation requests.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

func (c Config) trimmed() Config {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.Model = strings.TrimSpace(c.Model)
	c.Referer = strings.TrimSpace(c.Referer)
	c.Title = strings.TrimSpace(c.Title)
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	return c
}

// Client talks to an OpenAI-compatible chat completion endpoint. It sends
// exactly one request per call and never retries.
type Client struct {
	cfg  Config
	http *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{cfg: cfg.trimmed(), http: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// EmptyReplyError is returned when the endpoint answers with choices but none
// of them carries text.
type EmptyReplyError struct {
	Op      string
	Reason  string
	Refusal string
	Body    string
}

func (e *EmptyReplyError) Error() string {
	return fmt.Sprintf("%s: empty reply (finish_reason=%q refusal=%q body=%s)", e.Op, e.Reason, e.Refusal, e.Body)
}

// CompleteJSON asks for a JSON-only answer to userPrompt and returns the raw
// reply text.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	const op = "llm complete"
	systemPrompt, userPrompt = strings.TrimSpace(systemPrompt), strings.TrimSpace(userPrompt)
	switch {
	case systemPrompt == "":
		return "", errors.New(op + ": system prompt required")
	case userPrompt == "":
		return "", errors.New(op + ": user prompt required")
	case c.cfg.APIKey == "":
		return "", errors.New(op + ": api key required")
	}
	return c.ask(ctx, op, systemPrompt, userPrompt)
}

// HealthCheck sends a trivial JSON prompt and expects {"ok":true} back.
func (c *Client) HealthCheck(ctx context.Context) error {
	const op = "llm health"
	if c.cfg.APIKey == "" {
		return errors.New(op + ": api key required")
	}
	reply, err := c.ask(ctx, op, "Reply with JSON only.", `Respond with {"ok":true}`)
	if err != nil {
		return err
	}
	var pong struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(reply, &pong); err != nil {
		return fmt.Errorf("%s: parse payload: %w", op, err)
	}
	if !pong.OK {
		return fmt.Errorf("%s: endpoint did not confirm", op)
	}
	return nil
}
