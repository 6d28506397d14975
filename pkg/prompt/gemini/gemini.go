package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/frameflow-ai/frameflow/pkg/prompt"
)

// Completer implements the prompt.Completer interface for Google Gemini
type Completer struct {
	client *genai.Client

	RequestSettings RequestSettings
}

type RequestSettings struct {
	Model         string
	Temperature   float32
	TopP          float32
	StopSequences []string
}

// New creates a new Gemini completer
func New(ctx context.Context, apiKey, model string) (*Completer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Completer{
		client: client,
		RequestSettings: RequestSettings{
			Model: model,
		},
	}, nil
}

func (c *Completer) SetRequestSettings(settings RequestSettings) {
	c.RequestSettings = settings
}

// QueryPrompt implements the QueryPrompt method of the Completer interface
func (c *Completer) QueryPrompt(ctx context.Context, text string, maxTokens int) (string, error) {
	config := &genai.GenerateContentConfig{}

	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	if c.RequestSettings.Temperature > 0 {
		config.Temperature = genai.Ptr(c.RequestSettings.Temperature)
	}
	if c.RequestSettings.TopP > 0 {
		config.TopP = genai.Ptr(c.RequestSettings.TopP)
	}
	if len(c.RequestSettings.StopSequences) > 0 {
		config.StopSequences = c.RequestSettings.StopSequences
	}

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(text)},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.RequestSettings.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", prompt.ErrEmptyCompletion
	}

	candidate := resp.Candidates[0]

	var content string
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	if content == "" {
		return "", prompt.ErrEmptyCompletion
	}

	return prompt.Normalize(content), nil
}
