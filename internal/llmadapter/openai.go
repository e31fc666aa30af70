package llmadapter

import (
	"context"
	"net/http"
	"strings"

	sdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/prasannaarjun/multihop-research-agent/internal/config"
	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

// OpenAIClient adapts openai-go/v2's Chat Completions API to
// research.LLMClient. It also serves any OpenAI-compatible endpoint
// (local inference servers, etc.) via cfg.BaseURL.
type OpenAIClient struct {
	sdk   sdk.Client
	model string
}

// NewOpenAI builds an OpenAIClient from configuration.
func NewOpenAI(cfg config.OpenAIConfig, httpClient *http.Client) *OpenAIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(httpClient),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(base, "/")))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{sdk: sdk.NewClient(opts...), model: model}
}

// Generate implements research.LLMClient.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, userPrompt string, opts research.GenerateOptions) (string, error) {
	params := sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(c.model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(systemPrompt),
			sdk.UserMessage(userPrompt),
		},
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = sdk.Float(opts.Temperature)
	}

	comp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(comp.Choices) == 0 {
		return "", nil
	}
	return comp.Choices[0].Message.Content, nil
}
