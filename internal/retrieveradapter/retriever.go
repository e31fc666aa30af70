package retrieveradapter

import (
	"context"

	"github.com/prasannaarjun/multihop-research-agent/internal/persistence/databases"
	"github.com/prasannaarjun/multihop-research-agent/internal/research"
	"github.com/prasannaarjun/multihop-research-agent/internal/retrieveradapter/embedder"
)

// Retriever adapts the hybrid FTS+vector fusion pipeline to the research
// package's Retriever interface. It owns no research-domain logic: it
// embeds the query, fans out to the two backends, fuses and diversifies,
// optionally reranks, and converts the result to research.Passage.
type Retriever struct {
	manager  databases.Manager
	embedder embedder.Embedder
	reranker Reranker
	alpha    float64
	diversify bool
}

// RetrieverOption configures optional Retriever behavior.
type RetrieverOption func(*Retriever)

// WithReranker installs a cross-encoder style reranker.
func WithReranker(rr Reranker) RetrieverOption {
	return func(r *Retriever) { r.reranker = rr }
}

// WithAlpha sets the FTS/vector fusion weight (0..1, weight on FTS).
func WithAlpha(alpha float64) RetrieverOption {
	return func(r *Retriever) { r.alpha = alpha }
}

// WithDiversify toggles dominance-penalty diversification.
func WithDiversify(on bool) RetrieverOption {
	return func(r *Retriever) { r.diversify = on }
}

// NewRetriever builds a Retriever over the given storage Manager and query
// embedder.
func NewRetriever(manager databases.Manager, emb embedder.Embedder, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		manager:   manager,
		embedder:  emb,
		reranker:  NoopReranker{},
		alpha:     0.5,
		diversify: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve implements research.Retriever: given a free-text query and a
// requested top-k, returns fused, ranked Passages. It never returns an
// error for "no results" -- an empty Passage slice is a valid response.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]research.Passage, error) {
	if topK <= 0 {
		topK = 10
	}
	opt := RetrieveOptions{
		K:         topK,
		Alpha:     r.alpha,
		Diversify: r.diversify,
		Rerank:    r.reranker != nil,
	}
	plan := BuildQueryPlan(ctx, query, opt)

	var embVec []float32
	if r.embedder != nil {
		vecs, err := r.embedder.EmbedBatch(ctx, []string{plan.Query})
		if err == nil && len(vecs) > 0 {
			embVec = vecs[0]
		}
	}

	fts, vrs, _, err := ParallelCandidates(ctx, r.manager.Search, r.manager.Vector, plan, embVec)
	if err != nil {
		return nil, err
	}

	fused := FuseAndDiversify(fts, vrs, plan, opt)
	items, _, err := AssembleResults(ctx, r.reranker, plan, opt, fused)
	if err != nil {
		return nil, err
	}

	items = AttachDocMetadata(ctx, r.manager.Search, items)
	items = GenerateSnippets(ctx, r.manager.Search, items, SnippetOptions{Lang: plan.Lang, Query: plan.Query})

	return toPassages(items), nil
}

func toPassages(items []RetrievedItem) []research.Passage {
	out := make([]research.Passage, 0, len(items))
	for _, it := range items {
		title := it.Doc.Title
		if title == "" {
			title = it.Metadata["title"]
		}
		filename := it.Doc.URL
		if filename == "" {
			filename = it.Metadata["filename"]
		}
		out = append(out, research.Passage{
			ID:       it.ID,
			Text:     it.Text,
			Title:    title,
			Filename: filename,
			Score:    clip01(it.Score),
			Metadata: it.Metadata,
		})
	}
	return out
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
