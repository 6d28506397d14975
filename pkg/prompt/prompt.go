// Package prompt defines the prompt-completion collaborator used for script
// generation and visual-prompt condensation, with OpenAI, Anthropic and
// Gemini implementations in subpackages.
package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var ErrEmptyCompletion = errors.New("completion service returned an empty result")

// Completer is the prompt-completion collaborator. Implementations return
// plain text; transports that wrap results in a JSON envelope are handled by
// Normalize.
type Completer interface {
	QueryPrompt(ctx context.Context, text string, maxTokens int) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, text string, maxTokens int) (string, error)

func (f CompleterFunc) QueryPrompt(ctx context.Context, text string, maxTokens int) (string, error) {
	return f(ctx, text, maxTokens)
}

type envelope struct {
	Response       string `json:"response"`
	EnhancedPrompt string `json:"enhanced_prompt"`
}

// Normalize unwraps a completion result. Services answer either with bare
// text or with a JSON object carrying a "response" or "enhanced_prompt"
// field; both shapes must be accepted.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "{") {
		var env envelope
		if err := json.Unmarshal([]byte(trimmed), &env); err == nil {
			if env.Response != "" {
				return strings.TrimSpace(env.Response)
			}
			if env.EnhancedPrompt != "" {
				return strings.TrimSpace(env.EnhancedPrompt)
			}
		}
	}

	// Some services return a JSON-encoded string rather than an object.
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return strings.TrimSpace(s)
		}
	}

	return trimmed
}
