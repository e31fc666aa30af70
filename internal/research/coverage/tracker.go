// Package coverage implements the Coverage Tracker: deterministic,
// reimplementable keyword-overlap scoring of how well retrieved passages
// address each extracted aspect.
package coverage

import (
	"sort"
	"strings"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

// New builds the initial Coverage map for a set of aspects: all scores
// zero, nothing yet covered.
func New(aspects []research.Aspect) research.Coverage {
	cov := make(research.Coverage, len(aspects))
	for _, a := range aspects {
		a := a
		cov[a.CanonicalName()] = &research.AspectCoverage{Aspect: a}
	}
	return cov
}

// KeywordHits computes the fraction of an aspect's keywords that appear as
// a substring of the passage's (lowercased) text or title.
func KeywordHits(a research.Aspect, p research.Passage) float64 {
	if len(a.Keywords) == 0 {
		return 0
	}
	text := strings.ToLower(p.Text)
	title := strings.ToLower(p.Title)
	hits := 0
	for _, k := range a.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(text, k) || strings.Contains(title, k) {
			hits++
		}
	}
	return float64(hits) / float64(max(1, len(a.Keywords)))
}

// DocScore combines keyword overlap and the passage's own retrieval score.
// Zero keyword overlap forces a zero doc score, so a high-similarity but
// keyword-irrelevant passage cannot falsely mark an aspect covered.
func DocScore(a research.Aspect, p research.Passage) float64 {
	hits := KeywordHits(a, p)
	if hits == 0 {
		return 0
	}
	return 0.5*hits + 0.5*clip01(p.Score)
}

// AspectScoreFromHop is the best DocScore across a hop's passages for one
// aspect.
func AspectScoreFromHop(a research.Aspect, passages []research.Passage) float64 {
	best := 0.0
	for _, p := range passages {
		if s := DocScore(a, p); s > best {
			best = s
		}
	}
	return best
}

// Update applies one hop's passages to Coverage, returning the per-aspect
// delta caused by this hop (new score minus previous score; zero if the
// aspect's score did not change). Scores are monotonic non-decreasing:
// Update never lowers a score. covered_at_hop is set exactly once, on the
// first hop whose resulting score crosses threshold.
func Update(cov research.Coverage, passages []research.Passage, hop int, threshold float64) map[string]float64 {
	delta := make(map[string]float64, len(cov))
	if len(passages) == 0 {
		for k := range cov {
			delta[k] = 0
		}
		return delta
	}
	for key, ac := range cov {
		prev := ac.Score
		candidate := AspectScoreFromHop(ac.Aspect, passages)
		next := clip01(max2(prev, candidate))
		ac.Score = next
		if ac.CoveredAtHop == 0 && next >= threshold {
			ac.CoveredAtHop = hop
		}
		delta[key] = next - prev
	}
	return delta
}

// Uncovered returns aspects below threshold, importance-descending.
func Uncovered(cov research.Coverage, threshold float64) []research.Aspect {
	var out []research.Aspect
	for _, ac := range cov {
		if !ac.Covered(threshold) {
			out = append(out, ac.Aspect)
		}
	}
	sortByImportance(out)
	return out
}

// UncoveredCore returns only core (importance >= 0.8) uncovered aspects.
func UncoveredCore(cov research.Coverage, threshold float64) []research.Aspect {
	var out []research.Aspect
	for _, ac := range cov {
		if ac.Aspect.IsCore() && !ac.Covered(threshold) {
			out = append(out, ac.Aspect)
		}
	}
	sortByImportance(out)
	return out
}

// Percentage is the fraction of aspects currently covered.
func Percentage(cov research.Coverage, threshold float64) float64 {
	if len(cov) == 0 {
		return 0
	}
	covered := 0
	for _, ac := range cov {
		if ac.Covered(threshold) {
			covered++
		}
	}
	return float64(covered) / float64(len(cov))
}

// Weighted is the importance-weighted average coverage score:
// sum(importance*score) / sum(importance).
func Weighted(cov research.Coverage) float64 {
	var num, den float64
	for _, ac := range cov {
		num += ac.Aspect.Importance * ac.Score
		den += ac.Aspect.Importance
	}
	if den == 0 {
		return 0
	}
	return clip01(num / den)
}

// Snapshot copies Coverage into the plain value map exposed on
// ResearchResult, so callers cannot mutate tracker-internal state.
func Snapshot(cov research.Coverage) map[string]research.AspectCoverage {
	out := make(map[string]research.AspectCoverage, len(cov))
	for k, v := range cov {
		out[k] = *v
	}
	return out
}

func sortByImportance(aspects []research.Aspect) {
	sort.SliceStable(aspects, func(i, j int) bool {
		return aspects[i].Importance > aspects[j].Importance
	})
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

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
