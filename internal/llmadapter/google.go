package llmadapter

import (
	"context"
	"net/http"
	"strings"

	genai "google.golang.org/genai"

	"github.com/prasannaarjun/multihop-research-agent/internal/config"
	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

// GoogleClient adapts google.golang.org/genai to research.LLMClient.
type GoogleClient struct {
	client *genai.Client
	model  string
}

// NewGoogle builds a GoogleClient from configuration.
func NewGoogle(ctx context.Context, cfg config.GoogleConfig, httpClient *http.Client) (*GoogleClient, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}

	httpOpts := genai.HTTPOptions{}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		httpOpts.BaseURL = strings.TrimSuffix(base, "/") + "/"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      strings.TrimSpace(cfg.APIKey),
		HTTPClient:  httpClient,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, err
	}

	return &GoogleClient{client: client, model: model}, nil
}

// Generate implements research.LLMClient.
func (c *GoogleClient) Generate(ctx context.Context, systemPrompt, userPrompt string, opts research.GenerateOptions) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		t := float32(opts.Temperature)
		config.Temperature = &t
	}

	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
