// Package llmadapter provides single-shot research.LLMClient
// implementations over the supported LLM providers. Unlike a full chat
// client, each adapter here only needs to answer one system/user prompt
// and return text -- no streaming, no tool calls, no multi-turn state.
package llmadapter

import (
	"context"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/prasannaarjun/multihop-research-agent/internal/config"
	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicClient adapts anthropic-sdk-go to research.LLMClient.
type AnthropicClient struct {
	sdk       anthropic.Client
	model     string
	maxTokens int64
	cacheCfg  config.AnthropicPromptCacheConfig
}

// NewAnthropic builds an AnthropicClient from configuration. httpClient may
// be nil to use http.DefaultClient (callers typically pass an
// otelhttp-wrapped client so LLM calls are traced like the rest of the
// service).
func NewAnthropic(cfg config.AnthropicConfig, httpClient *http.Client) *AnthropicClient {
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
		model = string(anthropic.ModelClaude3_7SonnetLatest)
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &AnthropicClient{
		sdk:       anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		cacheCfg:  cfg.PromptCache,
	}
}

// Generate implements research.LLMClient.
func (c *AnthropicClient) Generate(ctx context.Context, systemPrompt, userPrompt string, opts research.GenerateOptions) (string, error) {
	sysBlock := anthropic.TextBlockParam{Text: systemPrompt}
	if c.cacheCfg.Enabled {
		sysBlock.CacheControl = anthropic.CacheControlEphemeralParam{TTL: cacheTTL(c.cacheCfg.TTL)}
	}

	maxTokens := c.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = int64(opts.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		System:    []anthropic.TextBlockParam{sysBlock},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt))},
		MaxTokens: maxTokens,
	}

	resp, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	return sb.String(), nil
}

func cacheTTL(ttl string) anthropic.CacheControlEphemeralTTL {
	if strings.TrimSpace(ttl) == "1h" {
		return anthropic.CacheControlEphemeralTTLTTL1h
	}
	return anthropic.CacheControlEphemeralTTLTTL5m
}
