// Package aspect implements the Aspect Extractor: producing the initial
// facet list for a research question, preferring an LLM call and falling
// back to enumerated heuristics when the LLM is absent or fails.
package aspect

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

const (
	maxAspects = 10
	coreImportance     = 1.0
	optionalImportance = 0.6
)

var (
	comparePattern = regexp.MustCompile(`(?i)^\s*(?:compare|comparison of)?\s*([a-z0-9 \-]+?)\s+(?:vs\.?|versus)\s+([a-z0-9 \-]+?)\s*\??\s*$`)
	compareAndPattern = regexp.MustCompile(`(?i)compare\s+([a-z0-9 \-]+?)\s+and\s+([a-z0-9 \-]+?)(?:\s*\?|\s*$)`)
	whatIsPattern  = regexp.MustCompile(`(?i)^\s*what\s+(?:is|are)\s+(?:a |an |the )?(.+?)\s*\??\s*$`)
	stopwords = map[string]bool{
		"the": true, "a": true, "an": true, "of": true, "is": true, "are": true,
		"and": true, "or": true, "to": true, "in": true, "for": true, "on": true,
		"what": true, "how": true, "why": true, "does": true, "do": true,
	}
)

// llmAspect mirrors the JSON shape requested from the LLM prompt.
type llmAspect struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Importance float64  `json:"importance"`
	Keywords   []string `json:"keywords"`
}

const systemPrompt = `You decompose research questions into distinct facets ("aspects") that must each be individually researched to fully answer the question.
Respond with a JSON array only, no prose. Each element: {"name": string, "type": one of "definition","comparison","process","causal","evaluation","application","temporal","other", "importance": number 0-1, "keywords": [string,...]}.
Produce between 1 and 10 aspects. Importance >= 0.8 means the aspect is essential to a complete answer.`

// Extract produces the aspect list for a question. It never returns an
// error: extraction degrades to a single synthetic aspect in the worst
// case. The second return value reports whether the heuristic fallback was
// used (LLM absent, errored, or produced nothing that validated).
func Extract(ctx context.Context, question string, llm research.LLMClient) ([]research.Aspect, bool) {
	if llm != nil {
		if aspects, ok := extractViaLLM(ctx, question, llm); ok && len(aspects) > 0 {
			return order(aspects), false
		}
	}
	return order(extractHeuristic(question)), true
}

func extractViaLLM(ctx context.Context, question string, llm research.LLMClient) ([]research.Aspect, bool) {
	out, err := llm.Generate(ctx, systemPrompt, question, research.GenerateOptions{Temperature: 0.2, MaxTokens: 800})
	if err != nil || strings.TrimSpace(out) == "" {
		return nil, false
	}
	raw := extractJSONArray(out)
	var parsed []llmAspect
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}
	var aspects []research.Aspect
	for _, p := range parsed {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		if len(name) > 120 {
			name = name[:120]
		}
		typ := research.AspectType(strings.ToLower(strings.TrimSpace(p.Type)))
		if !validType(typ) {
			typ = research.AspectOther
		}
		importance := p.Importance
		if importance <= 0 || importance > 1 {
			importance = optionalImportance
		}
		kws := normalizeKeywords(p.Keywords)
		if len(kws) == 0 {
			kws = keywordsFromText(name)
		}
		aspects = append(aspects, research.Aspect{Name: name, Type: typ, Importance: importance, Keywords: kws})
		if len(aspects) >= maxAspects {
			break
		}
	}
	return dedupeByName(aspects), len(aspects) > 0
}

// extractJSONArray trims leading/trailing prose an LLM may add around the
// requested JSON array, by slicing from the first '[' to the last ']'.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "[]"
	}
	return s[start : end+1]
}

func validType(t research.AspectType) bool {
	switch t {
	case research.AspectDefinition, research.AspectComparison, research.AspectProcess,
		research.AspectCausal, research.AspectEvaluation, research.AspectApplication,
		research.AspectTemporal, research.AspectOther:
		return true
	}
	return false
}

func extractHeuristic(question string) []research.Aspect {
	trimmed := strings.TrimSpace(question)

	if m := comparePattern.FindStringSubmatch(trimmed); m != nil {
		return comparisonAspects(m[1], m[2])
	}
	if m := compareAndPattern.FindStringSubmatch(trimmed); m != nil {
		return comparisonAspects(m[1], m[2])
	}
	if m := whatIsPattern.FindStringSubmatch(trimmed); m != nil {
		topic := strings.TrimSpace(m[1])
		return []research.Aspect{{
			Name:       "definition of " + topic,
			Type:       research.AspectDefinition,
			Importance: coreImportance,
			Keywords:   keywordsFromText(topic),
		}}
	}

	return []research.Aspect{{
		Name:       fallbackName(trimmed),
		Type:       research.AspectOther,
		Importance: coreImportance,
		Keywords:   keywordsFromText(trimmed),
	}}
}

func comparisonAspects(a, b string) []research.Aspect {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return []research.Aspect{
		{Name: "definition of " + a, Type: research.AspectDefinition, Importance: coreImportance, Keywords: keywordsFromText(a)},
		{Name: "definition of " + b, Type: research.AspectDefinition, Importance: coreImportance, Keywords: keywordsFromText(b)},
		{Name: "comparison between " + a + " and " + b, Type: research.AspectComparison, Importance: coreImportance, Keywords: append(keywordsFromText(a), keywordsFromText(b)...)},
	}
}

func fallbackName(question string) string {
	name := strings.TrimRight(question, "?. ")
	if len(name) > 120 {
		name = name[:120]
	}
	if name == "" {
		name = "main question"
	}
	return name
}

func keywordsFromText(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	seen := map[string]bool{}
	var out []string
	for _, f := range fields {
		if f == "" || stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func normalizeKeywords(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func dedupeByName(in []research.Aspect) []research.Aspect {
	seen := map[string]bool{}
	var out []research.Aspect
	for _, a := range in {
		key := research.CanonicalAspectName(a.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// order sorts aspects by importance descending, ties broken by original
// appearance order (sort.SliceStable preserves that).
func order(in []research.Aspect) []research.Aspect {
	out := make([]research.Aspect, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Importance > out[j].Importance
	})
	return out
}
