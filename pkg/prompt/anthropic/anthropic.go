package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/frameflow-ai/frameflow/pkg/prompt"
)

// Completer implements the prompt.Completer interface for Anthropic Claude
type Completer struct {
	client anthropic.Client
	model  string
	config Config
}

// Config holds Anthropic-specific configuration
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}

// New creates a new Anthropic completer
func New(apiKey, model string) *Completer {
	return NewWithConfig(Config{
		APIKey: apiKey,
		Model:  model,
	})
}

// NewWithConfig creates a new Anthropic completer with custom configuration
func NewWithConfig(config Config) *Completer {
	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &Completer{
		client: client,
		model:  config.Model,
		config: config,
	}
}

// QueryPrompt implements the QueryPrompt method of the Completer interface
func (c *Completer) QueryPrompt(ctx context.Context, text string, maxTokens int) (string, error) {
	msgReq := anthropic.MessageNewParams{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	}

	if maxTokens > 0 {
		msgReq.MaxTokens = int64(maxTokens)
	} else if c.config.MaxTokens > 0 {
		msgReq.MaxTokens = int64(c.config.MaxTokens)
	} else {
		// Anthropic requires max_tokens, set a reasonable default
		msgReq.MaxTokens = int64(4096)
	}

	if c.config.Temperature > 0 {
		msgReq.Temperature = anthropic.Float(float64(c.config.Temperature))
	}

	resp, err := c.client.Messages.New(ctx, msgReq)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var textContent strings.Builder

	for _, block := range resp.Content {
		if block.Type == "text" {
			textContent.WriteString(block.Text)
		}
	}

	if textContent.Len() == 0 {
		return "", prompt.ErrEmptyCompletion
	}

	return prompt.Normalize(textContent.String()), nil
}
