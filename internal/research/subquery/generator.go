// Package subquery implements the Sub-query Generator: turning the
// highest-importance uncovered aspects into focused retrieval queries,
// preferring an LLM call and falling back to per-type templates.
package subquery

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

const maxSubQueryLength = 300

// Pair is one generated sub-query tied to the aspect it targets (canonical
// name, matching a research.Coverage key).
type Pair struct {
	SubQuery     string
	TargetAspect string
	FromLLM      bool
}

var stripPrefixes = []string{
	"definition of ", "comparison between ", "comparison of ",
	"applications of ", "application of ",
}

const systemPrompt = `You write focused research sub-queries. Given a main question and a list of aspects (name, type, importance label), emit one natural-language sub-query per aspect.
Respond with one line per aspect, formatted exactly as: <aspect name> :: <sub-query>
Do not add commentary.`

// Next produces up to max sub-queries for the given uncovered aspects,
// sorted by importance descending before truncation. If llm is non-nil it
// is tried first; any aspect the LLM response does not cover falls back to
// the per-type template.
func Next(ctx context.Context, question string, uncovered []research.Aspect, llm research.LLMClient, max int) []Pair {
	if max < 1 {
		max = 1
	}
	chosen := sortedByImportance(uncovered)
	if len(chosen) > max {
		chosen = chosen[:max]
	}
	if len(chosen) == 0 {
		return nil
	}

	fromLLM := map[string]string{}
	if llm != nil {
		fromLLM = tryLLM(ctx, question, chosen, llm)
	}

	out := make([]Pair, 0, len(chosen))
	for _, a := range chosen {
		key := a.CanonicalName()
		if sq, ok := fromLLM[key]; ok && strings.TrimSpace(sq) != "" {
			out = append(out, Pair{SubQuery: clampLen(sq), TargetAspect: key, FromLLM: true})
			continue
		}
		out = append(out, Pair{SubQuery: clampLen(template(a)), TargetAspect: key, FromLLM: false})
	}
	return out
}

func tryLLM(ctx context.Context, question string, aspects []research.Aspect, llm research.LLMClient) map[string]string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\nAspects:\n")
	for _, a := range aspects {
		label := "optional"
		if a.IsCore() {
			label = "core"
		}
		b.WriteString("- ")
		b.WriteString(a.Name)
		b.WriteString(" (")
		b.WriteString(string(a.Type))
		b.WriteString(", ")
		b.WriteString(label)
		b.WriteString(")\n")
	}

	out, err := llm.Generate(ctx, systemPrompt, b.String(), research.GenerateOptions{Temperature: 0.2, MaxTokens: 500})
	if err != nil || strings.TrimSpace(out) == "" {
		return nil
	}
	return parsePairs(out, aspects)
}

var pairLineRe = regexp.MustCompile(`^\s*(.+?)\s*::\s*(.+?)\s*$`)

func parsePairs(out string, aspects []research.Aspect) map[string]string {
	byName := map[string]string{}
	for _, a := range aspects {
		byName[strings.ToLower(a.Name)] = a.CanonicalName()
	}
	result := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		m := pairLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(m[1]))
		if key, ok := byName[name]; ok {
			result[key] = m[2]
		}
	}
	return result
}

func template(a research.Aspect) string {
	topic := topicFromName(a.Name)
	switch a.Type {
	case research.AspectDefinition:
		return "What is " + topic + "?"
	case research.AspectComparison:
		return "What are the differences in " + topic + "?"
	case research.AspectProcess:
		return "How does " + topic + " work?"
	case research.AspectCausal:
		return "Why is " + topic + " important?"
	case research.AspectEvaluation:
		return "What are the pros and cons of " + topic + "?"
	case research.AspectApplication:
		return "What are the applications of " + topic + "?"
	case research.AspectTemporal:
		return "How has " + topic + " changed over time?"
	default:
		name := strings.TrimSpace(a.Name)
		if strings.HasSuffix(name, "?") {
			return name
		}
		return name + "?"
	}
}

func topicFromName(name string) string {
	lower := strings.ToLower(name)
	for _, p := range stripPrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(name[len(p):])
		}
	}
	return strings.TrimSpace(name)
}

func clampLen(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxSubQueryLength {
		return s[:maxSubQueryLength]
	}
	return s
}

func sortedByImportance(in []research.Aspect) []research.Aspect {
	out := make([]research.Aspect, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Importance > out[j].Importance
	})
	return out
}
