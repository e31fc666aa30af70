package llmadapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prasannaarjun/multihop-research-agent/internal/config"
	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

// Build constructs a research.LLMClient for the configured provider.
func Build(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (research.LLMClient, error) {
	switch cfg.Provider {
	case "", "anthropic":
		return NewAnthropic(cfg.Anthropic, httpClient), nil
	case "openai", "local":
		return NewOpenAI(cfg.OpenAI, httpClient), nil
	case "google":
		return NewGoogle(ctx, cfg.Google, httpClient)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
