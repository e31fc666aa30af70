package oracle

import (
	"testing"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

func TestDecide_MaxHopsWins(t *testing.T) {
	d := Decide(Params{Hop: 10, MinHops: 1, MaxHops: 10})
	if !d.Stop || d.Reason != ReasonMaxHops {
		t.Fatalf("expected stop at max_hops, got %+v", d)
	}
}

func TestDecide_BelowMinHopsContinues(t *testing.T) {
	d := Decide(Params{Hop: 1, MinHops: 3, MaxHops: 10, AspectGuided: true, WeightedCoverage: 1.0})
	if d.Stop || d.Reason != ReasonBelowMinHops {
		t.Fatalf("expected continue below min_hops, got %+v", d)
	}
}

func TestDecide_CoreAspectsCovered(t *testing.T) {
	d := Decide(Params{Hop: 5, MinHops: 3, MaxHops: 10, AspectGuided: true, UncoveredCore: nil, WeightedCoverage: 0.8})
	if !d.Stop || d.Reason != ReasonCoreAspectsCovered {
		t.Fatalf("expected stop on core coverage, got %+v", d)
	}
}

func TestDecide_CoreAspectsUncoveredContinues(t *testing.T) {
	d := Decide(Params{
		Hop: 5, MinHops: 3, MaxHops: 10, AspectGuided: true,
		UncoveredCore: []research.Aspect{{Name: "x", Importance: 1.0}},
	})
	if d.Stop || d.Reason != ReasonCoreAspectsUncovered {
		t.Fatalf("expected continue with uncovered core, got %+v", d)
	}
}

func TestDecide_FallbackQuality(t *testing.T) {
	d := Decide(Params{
		Hop: 5, MinHops: 3, MaxHops: 10, AspectGuided: false,
		LastHopPassages:  []research.Passage{{Score: 0.9}},
		QualityThreshold: 0.5,
	})
	if !d.Stop || d.Reason != ReasonSufficientQuality {
		t.Fatalf("expected stop on quality fallback, got %+v", d)
	}
}

func TestDecide_FallbackOtherwiseContinues(t *testing.T) {
	d := Decide(Params{
		Hop: 5, MinHops: 3, MaxHops: 10, AspectGuided: false,
		LastHopPassages:  nil,
		QualityThreshold: 0.5,
	})
	if d.Stop || d.Reason != ReasonContinue {
		t.Fatalf("expected continue fallback, got %+v", d)
	}
}
