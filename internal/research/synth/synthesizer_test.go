package synth

import (
	"context"
	"testing"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

func TestSynthesize_NoEvidence(t *testing.T) {
	cov := research.Coverage{
		"definition of x": {Aspect: research.Aspect{Name: "definition of X", Importance: 1.0}},
	}
	r := Synthesize(context.Background(), "What is X?", nil, cov, nil)
	if !r.Fallback {
		t.Fatalf("expected fallback")
	}
	if len(r.Citations) != 0 {
		t.Fatalf("expected no citations")
	}
	if r.Answer == "" {
		t.Fatalf("expected a non-empty answer even with no evidence")
	}
}

func TestSynthesize_DedupesCitationsAcrossHops(t *testing.T) {
	cov := research.Coverage{
		"definition of x": {Aspect: research.Aspect{Name: "definition of X", Importance: 1.0}, Score: 0.9, CoveredAtHop: 1},
	}
	hops := []research.SubQueryRecord{
		{Hop: 1, TargetAspect: "definition of x", Passages: []research.Passage{{ID: "p1", Text: "x is a thing", Score: 0.8}}},
		{Hop: 2, TargetAspect: "definition of x", Passages: []research.Passage{{ID: "p1", Text: "x is a thing", Score: 0.95}}},
	}
	r := Synthesize(context.Background(), "What is X?", hops, cov, nil)
	if len(r.Citations) != 1 {
		t.Fatalf("expected deduped citation list of 1, got %d: %+v", len(r.Citations), r.Citations)
	}
	if r.Citations[0].Score != 0.95 {
		t.Fatalf("expected highest score retained, got %v", r.Citations[0].Score)
	}
}

func TestSynthesize_HeuristicNotesUncoveredAspects(t *testing.T) {
	cov := research.Coverage{
		"definition of x": {Aspect: research.Aspect{Name: "definition of X", Importance: 1.0}, Score: 0.9, CoveredAtHop: 1},
		"comparison":      {Aspect: research.Aspect{Name: "comparison", Importance: 1.0}, Score: 0.1},
	}
	hops := []research.SubQueryRecord{
		{Hop: 1, TargetAspect: "definition of x", Passages: []research.Passage{{ID: "p1", Text: "x is a thing", Score: 0.8}}},
	}
	r := Synthesize(context.Background(), "What is X?", hops, cov, nil)
	if !contains(r.Answer, "comparison") {
		t.Fatalf("expected uncovered aspect mentioned, got: %s", r.Answer)
	}
}

func TestSynthesize_LLMPathUsed(t *testing.T) {
	cov := research.Coverage{"definition of x": {Aspect: research.Aspect{Name: "definition of X", Importance: 1.0}}}
	hops := []research.SubQueryRecord{{Hop: 1, TargetAspect: "definition of x", Passages: []research.Passage{{ID: "p1", Text: "x", Score: 0.5}}}}
	stub := research.LLMClientFunc(func(ctx context.Context, sys, user string, opts research.GenerateOptions) (string, error) {
		return "X is defined as [#1].", nil
	})
	r := Synthesize(context.Background(), "What is X?", hops, cov, stub)
	if r.Fallback {
		t.Fatalf("expected LLM path")
	}
	if r.Answer != "X is defined as [#1]." {
		t.Fatalf("unexpected answer: %q", r.Answer)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
