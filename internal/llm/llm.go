package llm

import (
	"context"
	"fmt"

	"mealworm/internal/config"
	"mealworm/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a system and user prompt.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// NewTextGenerator creates the text generator selected by the configuration.
func NewTextGenerator(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case config.ProviderGroq:
		return NewGroqClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.LLMProvider)
	}
}
