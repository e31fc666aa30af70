package retrieveradapter

import (
	"math"
	"sort"
	"strings"

	"github.com/prasannaarjun/multihop-research-agent/internal/persistence/databases"
)

// fusedCandidate is a passage candidate after RRF fusion, before diversify
// and K-pruning.
type fusedCandidate struct {
	ID       string
	DocID    string
	Source   string
	FtRank   int // 1-based; 0 if the full-text backend didn't return it
	VecRank  int // 1-based; 0 if the vector backend didn't return it
	FtScore  float64
	VecScore float64
	Fused    float64
	Snippet  string
	Text     string
	Metadata map[string]string
}

// FuseRRF combines full-text and vector candidate lists with Reciprocal
// Rank Fusion. opt.Alpha weights the full-text side; opt.RRFK is the rank
// discount constant (default 60, the standard RRF value).
func FuseRRF(fts []databases.SearchResult, vec []databases.VectorResult, opt RetrieveOptions) []fusedCandidate {
	wft := opt.Alpha
	if wft < 0 {
		wft = 0
	}
	if wft > 1 {
		wft = 1
	}
	wvec := 1 - wft
	krrf := opt.RRFK
	if krrf <= 0 {
		krrf = 60
	}

	ftPos := make(map[string]int, len(fts))
	ftByID := make(map[string]databases.SearchResult, len(fts))
	for i, r := range fts {
		ftPos[r.ID] = i + 1
		ftByID[r.ID] = r
	}
	vecPos := make(map[string]int, len(vec))
	vecByID := make(map[string]databases.VectorResult, len(vec))
	for i, r := range vec {
		vecPos[r.ID] = i + 1
		vecByID[r.ID] = r
	}

	seen := make(map[string]struct{}, len(fts)+len(vec))
	ids := make([]string, 0, len(fts)+len(vec))
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, r := range fts {
		add(r.ID)
	}
	for _, r := range vec {
		add(r.ID)
	}

	out := make([]fusedCandidate, 0, len(ids))
	for _, id := range ids {
		fr, vr := ftPos[id], vecPos[id]
		var fContrib, vContrib float64
		if fr > 0 {
			fContrib = 1.0 / float64(krrf+fr)
		}
		if vr > 0 {
			vContrib = 1.0 / float64(krrf+vr)
		}

		var snippet, text string
		md := map[string]string{}
		if r, ok := ftByID[id]; ok {
			snippet, text = r.Snippet, r.Text
			for k, v := range r.Metadata {
				md[k] = v
			}
		}
		if r, ok := vecByID[id]; ok {
			for k, v := range r.Metadata {
				if _, exists := md[k]; !exists {
					md[k] = v
				}
			}
		}

		out = append(out, fusedCandidate{
			ID:       id,
			DocID:    deriveDocID(id, md),
			Source:   md["source"],
			FtRank:   fr,
			VecRank:  vr,
			FtScore:  fContrib,
			VecScore: vContrib,
			Fused:    wft*fContrib + wvec*vContrib,
			Snippet:  snippet,
			Text:     text,
			Metadata: md,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Fused != out[j].Fused {
			return out[i].Fused > out[j].Fused
		}
		if si, sj := safeRankSum(out[i]), safeRankSum(out[j]); si != sj {
			return si < sj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// safeRankSum breaks fusion-score ties by preferring the candidate that
// ranked well on both sources, not just one.
func safeRankSum(c fusedCandidate) int {
	ft, vec := c.FtRank, c.VecRank
	if ft == 0 {
		ft = 1 << 30
	}
	if vec == 0 {
		vec = 1 << 30
	}
	return ft + vec
}

// Diversify greedily selects up to k candidates, applying a multiplicative
// penalty as a DocID or Source is picked repeatedly, so one dominant
// document can't own the whole result list. diversify=false returns the
// input truncated to k.
func Diversify(fused []fusedCandidate, k int, diversify bool) []fusedCandidate {
	if !diversify || k <= 0 || len(fused) <= 1 {
		if k > 0 && k < len(fused) {
			return fused[:k]
		}
		return fused
	}

	const lambdaDoc, lambdaSrc = 0.75, 0.25
	docCount := map[string]int{}
	srcCount := map[string]int{}
	used := make([]bool, len(fused))
	selected := make([]fusedCandidate, 0, min(k, len(fused)))

	for len(selected) < k {
		bestIdx := -1
		bestAdj := -1.0
		for i, c := range fused {
			if used[i] {
				continue
			}
			denom := 1.0 + lambdaDoc*float64(docCount[c.DocID]) + lambdaSrc*float64(srcCount[c.Source])
			adj := c.Fused / denom
			if adj > bestAdj || (almostEqual(adj, bestAdj) && c.ID < fused[bestIdx].ID) {
				bestAdj, bestIdx = adj, i
			}
		}
		if bestIdx == -1 {
			break
		}
		pick := fused[bestIdx]
		selected = append(selected, pick)
		used[bestIdx] = true
		docCount[pick.DocID]++
		srcCount[pick.Source]++
		if len(selected) == len(fused) {
			break
		}
	}
	return selected
}

// FuseAndDiversify runs FuseRRF then Diversify and converts the result to
// RetrievedItem, capped to opt.K.
func FuseAndDiversify(fts []databases.SearchResult, vec []databases.VectorResult, plan QueryPlan, opt RetrieveOptions) []RetrievedItem {
	fused := FuseRRF(fts, vec, opt)
	diversified := Diversify(fused, plan.FtK+plan.VecK, opt.Diversify)

	items := make([]RetrievedItem, 0, len(diversified))
	for _, c := range diversified {
		items = append(items, RetrievedItem{
			ID:      c.ID,
			DocID:   c.DocID,
			Score:   c.Fused,
			Snippet: c.Snippet,
			Text:    c.Text,
			Metadata: c.Metadata,
			Explanation: map[string]any{
				"fused":    c.Fused,
				"ft_rank":  c.FtRank,
				"vec_rank": c.VecRank,
				"ft_rrf":   c.FtScore,
				"vec_rrf":  c.VecScore,
			},
		})
	}

	k := opt.K
	if k <= 0 {
		k = 10
	}
	if len(items) > k {
		items = items[:k]
	}
	return items
}

// deriveDocID recovers a parent document ID from a chunk ID of the form
// "chunk:<doc-id>:<index>", falling back to explicit metadata or the ID
// itself when the chunk naming convention isn't in use.
func deriveDocID(chunkID string, md map[string]string) string {
	if d := md["doc_id"]; d != "" {
		return d
	}
	if strings.HasPrefix(chunkID, "chunk:") {
		rest := strings.TrimPrefix(chunkID, "chunk:")
		if idx := strings.LastIndex(rest, ":"); idx != -1 {
			return rest[:idx]
		}
	}
	return chunkID
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
