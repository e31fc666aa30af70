// Package oracle implements the Stopping Oracle: a pure six-rule decision
// ladder deciding, after each hop, whether the research loop should stop or
// continue.
package oracle

import "github.com/prasannaarjun/multihop-research-agent/internal/research"

// Decision is the oracle's verdict for one hop boundary.
type Decision struct {
	Stop   bool
	Reason string
}

const (
	ReasonMaxHops              = "max_hops"
	ReasonBelowMinHops         = "below_min_hops"
	ReasonCoreAspectsCovered   = "core_aspects_covered"
	ReasonCoreAspectsUncovered = "core_aspects_uncovered"
	ReasonSufficientQuality    = "sufficient_quality"
	ReasonContinue             = "continue"
)

// Params bundles the inputs the ladder needs, beyond the aspect-level
// coverage queries.
type Params struct {
	Hop               int
	MinHops           int
	MaxHops           int
	LastHopPassages   []research.Passage
	AspectGuided      bool // true when aspects exist and coverage drives stopping
	UncoveredCore     []research.Aspect
	WeightedCoverage  float64
	QualityThreshold  float64
}

// Decide applies the six-rule ladder. It is pure: it never mutates
// Coverage or any other shared state.
func Decide(p Params) Decision {
	if p.Hop >= p.MaxHops {
		return Decision{Stop: true, Reason: ReasonMaxHops}
	}
	if p.Hop < p.MinHops {
		return Decision{Stop: false, Reason: ReasonBelowMinHops}
	}
	if p.AspectGuided {
		if len(p.UncoveredCore) == 0 && p.WeightedCoverage >= 0.7 {
			return Decision{Stop: true, Reason: ReasonCoreAspectsCovered}
		}
		if len(p.UncoveredCore) > 0 {
			return Decision{Stop: false, Reason: ReasonCoreAspectsUncovered}
		}
	}
	if avgScore(p.LastHopPassages) >= p.QualityThreshold && len(p.LastHopPassages) > 0 {
		return Decision{Stop: true, Reason: ReasonSufficientQuality}
	}
	return Decision{Stop: false, Reason: ReasonContinue}
}

func avgScore(passages []research.Passage) float64 {
	if len(passages) == 0 {
		return 0
	}
	var sum float64
	for _, p := range passages {
		sum += p.Score
	}
	return sum / float64(len(passages))
}
