package aspect

import (
	"context"
	"testing"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

func TestExtract_HeuristicDefinition(t *testing.T) {
	aspects, fellBack := Extract(context.Background(), "What is quantum entanglement?", nil)
	if !fellBack {
		t.Fatalf("expected heuristic fallback with nil llm")
	}
	if len(aspects) != 1 {
		t.Fatalf("expected 1 aspect, got %d: %+v", len(aspects), aspects)
	}
	if aspects[0].Type != research.AspectDefinition {
		t.Errorf("expected definition type, got %v", aspects[0].Type)
	}
	if !aspects[0].IsCore() {
		t.Errorf("expected core aspect")
	}
}

func TestExtract_HeuristicComparisonProducesThreeAspects(t *testing.T) {
	aspects, _ := Extract(context.Background(), "gRPC vs REST", nil)
	if len(aspects) != 3 {
		t.Fatalf("expected 3 aspects, got %d: %+v", len(aspects), aspects)
	}
	var sawComparison bool
	for _, a := range aspects {
		if a.Type == research.AspectComparison {
			sawComparison = true
		}
	}
	if !sawComparison {
		t.Errorf("expected a comparison aspect among %+v", aspects)
	}
}

func TestExtract_LLMPathParsesJSON(t *testing.T) {
	stub := research.LLMClientFunc(func(ctx context.Context, sys, user string, opts research.GenerateOptions) (string, error) {
		return `[{"name":"definition of X","type":"definition","importance":0.9,"keywords":["x"]},
		          {"name":"applications of X","type":"application","importance":0.5,"keywords":["x","use"]}]`, nil
	})
	aspects, fellBack := Extract(context.Background(), "What is X and how is it used?", stub)
	if fellBack {
		t.Fatalf("did not expect fallback")
	}
	if len(aspects) != 2 {
		t.Fatalf("expected 2 aspects, got %d", len(aspects))
	}
	if aspects[0].Importance < aspects[1].Importance {
		t.Errorf("expected importance-descending order, got %+v", aspects)
	}
}

func TestExtract_LLMFailureFallsBack(t *testing.T) {
	stub := research.LLMClientFunc(func(ctx context.Context, sys, user string, opts research.GenerateOptions) (string, error) {
		return "", errFake
	})
	aspects, fellBack := Extract(context.Background(), "What is resilience engineering?", stub)
	if !fellBack {
		t.Fatalf("expected fallback when llm errors")
	}
	if len(aspects) == 0 {
		t.Fatalf("expected at least one synthetic aspect")
	}
}

var errFake = fakeErr("boom")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
