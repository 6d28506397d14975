package openai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/frameflow-ai/frameflow/pkg/prompt"
)

// Completer implements the prompt.Completer interface for OpenAI
type Completer struct {
	client *openai.Client

	RequestSettings RequestSettings
}

type RequestSettings struct {
	Model       string
	Temperature float32
	TopP        float32
}

// New creates a new OpenAI completer
func New(apiKey, model string) *Completer {
	clientConfig := openai.DefaultConfig(apiKey)

	return &Completer{
		client: openai.NewClientWithConfig(clientConfig),
		RequestSettings: RequestSettings{
			Model: model,
		},
	}
}

func (c *Completer) SetRequestSettings(settings RequestSettings) {
	c.RequestSettings = settings
}

// QueryPrompt implements the QueryPrompt method of the Completer interface
func (c *Completer) QueryPrompt(ctx context.Context, text string, maxTokens int) (string, error) {
	log.Debug().Interface("requestSettings", c.RequestSettings).Msg("Request settings from openai completer")

	chatReq := openai.ChatCompletionRequest{
		Model: c.RequestSettings.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: c.RequestSettings.Temperature,
		TopP:        c.RequestSettings.TopP,
	}

	if maxTokens > 0 {
		if isMaxCompletionTokensModel(c.RequestSettings.Model) {
			chatReq.MaxCompletionTokens = maxTokens
		} else {
			chatReq.MaxTokens = maxTokens
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", prompt.ErrEmptyCompletion
	}

	return prompt.Normalize(resp.Choices[0].Message.Content), nil
}

// isMaxCompletionTokensModel returns true for models that reject the legacy
// max_tokens parameter.
func isMaxCompletionTokensModel(model string) bool {
	switch {
	case len(model) >= 2 && model[:2] == "o1":
		return true
	case len(model) >= 2 && model[:2] == "o3":
		return true
	case len(model) >= 5 && model[:5] == "gpt-5":
		return true
	}

	return false
}
