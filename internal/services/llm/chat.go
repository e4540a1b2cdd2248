package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const jsonResponseType = "json_object"

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type replyText struct {
	Content string `json:"content"`
	Refusal string `json:"refusal"`
}

type chatChoice struct {
	Message replyText `json:"message"`
	// Some providers answer with the streaming shape or the legacy text field.
	Delta        replyText `json:"delta"`
	Text         string    `json:"text"`
	FinishReason string    `json:"finish_reason"`
}

func (ch chatChoice) content() string {
	for _, s := range []string{ch.Message.Content, ch.Delta.Content, ch.Text} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

type chatCompletionResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) ask(ctx context.Context, op, system, user string) (string, error) {
	resp, raw, err := c.post(ctx, chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]string{"type": jsonResponseType},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices", op)
	}
	empty := &EmptyReplyError{Op: op, Body: summarizePayloadSnippet(string(raw))}
	for _, choice := range resp.Choices {
		if text := choice.content(); text != "" {
			return text, nil
		}
		if empty.Reason == "" {
			empty.Reason = strings.TrimSpace(choice.FinishReason)
		}
		if empty.Refusal == "" {
			empty.Refusal = strings.TrimSpace(choice.Message.Refusal + choice.Delta.Refusal)
		}
	}
	return "", empty
}

func (c *Client) post(ctx context.Context, payload chatCompletionRequest) (chatCompletionResponse, []byte, error) {
	var out chatCompletionResponse
	body, err := json.Marshal(payload)
	if err != nil {
		return out, nil, fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return out, nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	for header, value := range map[string]string{"HTTP-Referer": c.cfg.Referer, "X-Title": c.cfg.Title} {
		if value != "" {
			req.Header.Set(header, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return out, nil, fmt.Errorf("send (timeout %s): %w", c.http.Timeout, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, raw, &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, raw, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return out, raw, fmt.Errorf("api error: %s", strings.TrimSpace(out.Error.Message))
	}
	return out, raw, nil
}
