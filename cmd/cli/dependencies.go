package cli

import (
	"context"
	"fmt"

	"github.com/frameflow-ai/frameflow/internal/canvas"
	"github.com/frameflow-ai/frameflow/internal/config"
	"github.com/frameflow-ai/frameflow/internal/domain"
	"github.com/frameflow-ai/frameflow/internal/engine"
	"github.com/frameflow-ai/frameflow/pkg/prompt"
	"github.com/frameflow-ai/frameflow/pkg/prompt/anthropic"
	"github.com/frameflow-ai/frameflow/pkg/prompt/gemini"
	"github.com/frameflow-ai/frameflow/pkg/prompt/openai"

	"github.com/frameflow-ai/frameflow/internal/storage/mongodb"
	"github.com/frameflow-ai/frameflow/internal/storage/postgres"
)

// newCanvasStore builds the in-memory canvas store backed by the configured
// durable storage, if any.
func newCanvasStore(ctx context.Context, cfg *config.Config) (*canvas.Store, error) {
	persister, err := newPersister(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if persister == nil {
		return canvas.New(), nil
	}

	return canvas.New(canvas.WithPersister(persister)), nil
}

func newPersister(ctx context.Context, cfg *config.Config) (domain.Persister, error) {
	switch cfg.StorageBackend {
	case "", "none":
		return nil, nil
	case "postgres":
		store, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := store.InitSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "mongodb":
		return mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newCompleter(ctx context.Context, cfg *config.Config) (prompt.Completer, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.Model), nil
	case "anthropic":
		return anthropic.New(cfg.AnthropicAPIKey, cfg.Model), nil
	case "gemini":
		return gemini.New(ctx, cfg.GeminiAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown prompt provider %q", cfg.Provider)
	}
}

func layoutParams(cfg *config.Config) engine.LayoutParams {
	params := engine.DefaultLayoutParams()

	if cfg.FrameWidth > 0 {
		params.FrameWidth = cfg.FrameWidth
	}
	if cfg.FrameHeight > 0 {
		params.FrameHeight = cfg.FrameHeight
	}
	if cfg.VerticalSpacing > 0 {
		params.VerticalSpacing = cfg.VerticalSpacing
	}
	if cfg.ColumnGap > 0 {
		params.ColumnGap = cfg.ColumnGap
	}
	if cfg.HorizontalSpacing > 0 {
		params.HorizontalSpacing = cfg.HorizontalSpacing
	}

	return params
}
