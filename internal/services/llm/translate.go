package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const translationPrompt = `You translate subtitle lines for burned-in video captions.
Translate the user's text into %s (language code %q).
Keep the meaning and tone, keep it about the same length, and do not add notes or quotes.
Respond with JSON only: {"translation": "<translated text>"}`

// Translate returns text rendered in the target language. The target may be a
// language code; name, when non-empty, is used in the prompt for clarity.
func (c *Client) Translate(ctx context.Context, text, target, name string) (string, error) {
	text = strings.TrimSpace(text)
	target = strings.TrimSpace(target)
	if text == "" {
		return "", errors.New("llm translate: text required")
	}
	if target == "" {
		return "", errors.New("llm translate: target language required")
	}
	if name = strings.TrimSpace(name); name == "" {
		name = target
	}

	content, err := c.CompleteJSON(ctx, fmt.Sprintf(translationPrompt, name, target), text)
	if err != nil {
		return "", err
	}
	var parsed struct {
		Translation string `json:"translation"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return "", fmt.Errorf("llm translate: parse payload: %w", err)
	}
	translated := strings.TrimSpace(parsed.Translation)
	if translated == "" {
		return "", errors.New("llm translate: empty translation")
	}
	return translated, nil
}
