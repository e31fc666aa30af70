// Package complexity implements the Complexity Analyzer: a pure function
// mapping a research question to a complexity score and a suggested hop
// target, driven by a small set of lexical indicators.
package complexity

import (
	"regexp"
	"strings"
)

// Indicators captures which lexical signals fired for a question, useful
// for logging and for tests that assert on individual signals rather than
// just the aggregate score.
type Indicators struct {
	MultiAspect  bool
	Comparison   bool
	Causal       bool
	Process      bool
	Evaluation   bool
	Temporal     bool
	LengthFactor float64 // token count normalized into [0,1]
}

// Weights used to combine indicators into the final score. Exported so
// callers (and tests) can see exactly how the score is built.
var Weights = struct {
	MultiAspect, Comparison, Causal, Process, Evaluation, Temporal, Length float64
}{
	MultiAspect: 0.20,
	Comparison:  0.15,
	Causal:      0.15,
	Process:     0.15,
	Evaluation:  0.15,
	Temporal:    0.10,
	Length:      0.10,
}

// lengthNormCap is the token count at which LengthFactor saturates to 1.0.
const lengthNormCap = 40

var (
	comparisonRe = regexp.MustCompile(`\b(compare|difference|differences|vs\.?|versus)\b`)
	causalRe     = regexp.MustCompile(`\b(why|cause|causes|reason|reasons)\b`)
	processRe    = regexp.MustCompile(`\b(how|steps|mechanism|process)\b`)
	evaluationRe = regexp.MustCompile(`\b(best|worst|pros|cons|advantage|advantages|disadvantage|disadvantages)\b`)
	temporalRe   = regexp.MustCompile(`\b(when|history|historical|future|trend|trends)\b`)
	coordRe      = regexp.MustCompile(`\b(and|or)\b`)
)

// Analyze computes a complexity score in [0,1] and a suggested hop target
// for a question, along with the indicators that drove the score.
func Analyze(question string) (score float64, hopTarget int, ind Indicators) {
	lower := strings.ToLower(question)

	ind.Comparison = comparisonRe.MatchString(lower)
	ind.Causal = causalRe.MatchString(lower)
	ind.Process = processRe.MatchString(lower)
	ind.Evaluation = evaluationRe.MatchString(lower)
	ind.Temporal = temporalRe.MatchString(lower)

	qMarks := strings.Count(question, "?")
	commaClauses := strings.Count(lower, ",") >= 2
	ind.MultiAspect = coordRe.MatchString(lower) || qMarks > 1 || commaClauses

	tokens := strings.Fields(lower)
	ind.LengthFactor = clip01(float64(len(tokens)) / lengthNormCap)

	score = 0
	if ind.MultiAspect {
		score += Weights.MultiAspect
	}
	if ind.Comparison {
		score += Weights.Comparison
	}
	if ind.Causal {
		score += Weights.Causal
	}
	if ind.Process {
		score += Weights.Process
	}
	if ind.Evaluation {
		score += Weights.Evaluation
	}
	if ind.Temporal {
		score += Weights.Temporal
	}
	score += Weights.Length * ind.LengthFactor
	score = clip01(score)

	switch {
	case score < 0.2:
		hopTarget = 3
	case score < 0.6:
		hopTarget = 7
	default:
		hopTarget = 10
	}

	return score, hopTarget, ind
}

// ClampHopTarget clamps a raw hop target into [minHops, maxHops].
func ClampHopTarget(target, minHops, maxHops int) int {
	if target < minHops {
		return minHops
	}
	if target > maxHops {
		return maxHops
	}
	return target
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
