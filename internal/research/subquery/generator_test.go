package subquery

import (
	"context"
	"testing"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

func TestNext_TemplateFallbackByType(t *testing.T) {
	uncovered := []research.Aspect{
		{Name: "definition of caching", Type: research.AspectDefinition, Importance: 1.0},
		{Name: "applications of caching", Type: research.AspectApplication, Importance: 0.6},
	}
	pairs := Next(context.Background(), "What is caching and how is it used?", uncovered, nil, 1)
	if len(pairs) != 1 {
		t.Fatalf("expected max=1 to truncate, got %d", len(pairs))
	}
	if pairs[0].TargetAspect != "definition of caching" {
		t.Fatalf("expected highest-importance aspect chosen first, got %+v", pairs[0])
	}
	if pairs[0].SubQuery != "What is caching?" {
		t.Fatalf("unexpected template output: %q", pairs[0].SubQuery)
	}
}

func TestNext_LLMPathUsed(t *testing.T) {
	uncovered := []research.Aspect{{Name: "definition of caching", Type: research.AspectDefinition, Importance: 1.0}}
	stub := research.LLMClientFunc(func(ctx context.Context, sys, user string, opts research.GenerateOptions) (string, error) {
		return "definition of caching :: Explain what caching means in distributed systems", nil
	})
	pairs := Next(context.Background(), "What is caching?", uncovered, stub, 1)
	if len(pairs) != 1 || !pairs[0].FromLLM {
		t.Fatalf("expected LLM-sourced pair, got %+v", pairs)
	}
}

func TestNext_LLMFailureFallsBackToTemplate(t *testing.T) {
	uncovered := []research.Aspect{{Name: "definition of caching", Type: research.AspectDefinition, Importance: 1.0}}
	stub := research.LLMClientFunc(func(ctx context.Context, sys, user string, opts research.GenerateOptions) (string, error) {
		return "", nil
	})
	pairs := Next(context.Background(), "What is caching?", uncovered, stub, 1)
	if pairs[0].FromLLM {
		t.Fatalf("expected template fallback when LLM yields nothing")
	}
}

func TestNext_EmptyUncoveredReturnsNil(t *testing.T) {
	pairs := Next(context.Background(), "q", nil, nil, 3)
	if pairs != nil {
		t.Fatalf("expected nil, got %+v", pairs)
	}
}
