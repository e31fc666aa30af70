// Package synth implements the Answer Synthesizer: combining a research
// run's hop log into a final cited answer, preferring an LLM call and
// falling back to deterministic per-aspect concatenation.
package synth

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

const snippetLen = 240

const systemPrompt = `You write a final answer to a research question from retrieved evidence.
You are given the question, a set of sub-queries each with their top passages, and a coverage summary.
Cite passages inline using their bracketed index, e.g. [#3]. Be concise and do not invent facts not present in the evidence.`

// Result is what Synthesize returns: the answer text, whether the
// heuristic fallback was used, and the deduplicated citation list.
type Result struct {
	Answer    string
	Fallback  bool
	Citations []research.Citation
}

// Synthesize builds the final answer from a run's hop log and coverage
// snapshot. It never errors: a zero-evidence run still produces an answer
// stating that, naming the aspects left uncovered.
func Synthesize(ctx context.Context, question string, hops []research.SubQueryRecord, cov research.Coverage, llm research.LLMClient) Result {
	citations := dedupeCitations(hops)

	if llm != nil {
		if answer, ok := synthesizeViaLLM(ctx, question, hops, cov, citations, llm); ok {
			return Result{Answer: answer, Fallback: false, Citations: citations}
		}
	}
	return Result{Answer: synthesizeHeuristic(question, hops, cov, citations), Fallback: true, Citations: citations}
}

func synthesizeViaLLM(ctx context.Context, question string, hops []research.SubQueryRecord, cov research.Coverage, citations []research.Citation, llm research.LLMClient) (string, bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	for _, h := range hops {
		fmt.Fprintf(&b, "Sub-query %d (%s): %s\n", h.Hop, h.TargetAspect, h.SubQuery)
		for _, p := range h.Passages {
			idx := citationIndex(citations, p.ID)
			fmt.Fprintf(&b, "  [#%d] %s: %s\n", idx, p.Title, snippetAround(p.Text, h.SubQuery, snippetLen))
		}
	}
	b.WriteString("\nCoverage:\n")
	for key, ac := range cov {
		fmt.Fprintf(&b, "  %s: %.2f\n", key, ac.Score)
	}

	out, err := llm.Generate(ctx, systemPrompt, b.String(), research.GenerateOptions{Temperature: 0.3, MaxTokens: 1200})
	if err != nil || strings.TrimSpace(out) == "" {
		return "", false
	}
	return strings.TrimSpace(out), true
}

func synthesizeHeuristic(question string, hops []research.SubQueryRecord, cov research.Coverage, citations []research.Citation) string {
	if len(citations) == 0 {
		return noEvidenceAnswer(cov)
	}

	byAspect := map[string]research.SubQueryRecord{}
	for _, h := range hops {
		if h.TargetAspect == "" {
			continue
		}
		if existing, ok := byAspect[h.TargetAspect]; !ok || topScore(h.Passages) > topScore(existing.Passages) {
			byAspect[h.TargetAspect] = h
		}
	}

	var keys []string
	for k := range cov {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return cov[keys[i]].Aspect.Importance > cov[keys[j]].Aspect.Importance
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Research summary for: %s\n\n", question)
	var notCovered []string
	for _, key := range keys {
		ac := cov[key]
		hop, ok := byAspect[key]
		if !ok || len(hop.Passages) == 0 || !ac.Covered(0.5) {
			notCovered = append(notCovered, ac.Aspect.Name)
			continue
		}
		top := bestPassage(hop.Passages)
		idx := citationIndex(citations, top.ID)
		fmt.Fprintf(&b, "%s: %s [#%d]\n\n", ac.Aspect.Name, snippetAround(top.Text, hop.SubQuery, snippetLen), idx)
	}
	if len(notCovered) > 0 {
		fmt.Fprintf(&b, "Not fully covered: %s\n", strings.Join(notCovered, ", "))
	}
	return strings.TrimSpace(b.String())
}

func noEvidenceAnswer(cov research.Coverage) string {
	var names []string
	for _, ac := range cov {
		names = append(names, ac.Aspect.Name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "No evidence was retrieved for this question."
	}
	return "No evidence was retrieved. Aspects left uncovered: " + strings.Join(names, ", ")
}

func dedupeCitations(hops []research.SubQueryRecord) []research.Citation {
	best := map[string]research.Passage{}
	bestQuery := map[string]string{}
	var order []string
	for _, h := range hops {
		for _, p := range h.Passages {
			if cur, ok := best[p.ID]; !ok || p.Score > cur.Score {
				if _, seen := best[p.ID]; !seen {
					order = append(order, p.ID)
				}
				best[p.ID] = p
				bestQuery[p.ID] = h.SubQuery
			}
		}
	}
	out := make([]research.Citation, 0, len(order))
	for _, id := range order {
		p := best[id]
		out = append(out, research.Citation{
			ID:       p.ID,
			Title:    p.Title,
			Filename: p.Filename,
			Score:    p.Score,
			Snippet:  snippetAround(p.Text, bestQuery[id], snippetLen),
		})
	}
	return out
}

func citationIndex(citations []research.Citation, id string) int {
	for i, c := range citations {
		if c.ID == id {
			return i + 1
		}
	}
	return 0
}

func bestPassage(passages []research.Passage) research.Passage {
	best := passages[0]
	for _, p := range passages[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best
}

func topScore(passages []research.Passage) float64 {
	if len(passages) == 0 {
		return 0
	}
	return bestPassage(passages).Score
}

// snippetAround returns a window of s, roughly n chars wide, centered on
// the first occurrence of query (or its first term). It falls back to the
// leading n characters when the query isn't found in s, so a citation
// snippet always points at the passage text actually relevant to the
// sub-query that retrieved it rather than an arbitrary prefix.
func snippetAround(s, query string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}

	idx := -1
	ls := strings.ToLower(s)
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		idx = strings.Index(ls, q)
		if idx == -1 {
			for _, term := range strings.Fields(q) {
				if term == "" {
					continue
				}
				if i := strings.Index(ls, term); i != -1 {
					idx = i
					break
				}
			}
		}
	}
	if idx == -1 {
		return strings.TrimSpace(s[:n]) + "..."
	}

	half := n / 2
	start := idx - half
	if start < 0 {
		start = 0
	}
	end := start + n
	if end > len(s) {
		end = len(s)
		if end-n > 0 {
			start = end - n
		}
	}
	prefix, suffix := "", ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(s) {
		suffix = "..."
	}
	return prefix + strings.TrimSpace(s[start:end]) + suffix
}
