package research

import "context"

// GenerateOptions are soft hints to an LLMClient; implementations may
// ignore fields they do not support.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// LLMClient is the optional text-generation capability used by the Aspect
// Extractor, Sub-query Generator, and Answer Synthesizer. A nil LLMClient
// (or one that errors) causes each of those components to fall back to its
// deterministic heuristic path -- the loop never fails solely because the
// LLM is unavailable.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error)
}

// LLMClientFunc adapts a plain function to the LLMClient interface.
type LLMClientFunc func(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error)

func (f LLMClientFunc) Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error) {
	return f(ctx, systemPrompt, userPrompt, opts)
}
