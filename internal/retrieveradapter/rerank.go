package retrieveradapter

import "context"

// Reranker optionally reorders fused items, e.g. with a cross-encoder.
// Implementations must not drop items or clear their Metadata.
type Reranker interface {
	Rerank(ctx context.Context, query string, items []RetrievedItem) ([]RetrievedItem, error)
}

// NoopReranker is the default Reranker: it leaves fusion order unchanged.
type NoopReranker struct{}

func (NoopReranker) Rerank(_ context.Context, _ string, items []RetrievedItem) ([]RetrievedItem, error) {
	return items, nil
}
