package research

import "context"

// Retriever is the research loop's only source of evidence. Implementations
// must be scoped to the caller's corpus externally; the loop never passes
// caller identity. Retrieve must not error on "no results" -- return an
// empty slice instead. Any other error is treated as a zero-passage hop and
// recorded in ResultMetadata.RetrievalErrors.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Passage, error)
}

// RetrieverFunc adapts a plain function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, query string, topK int) ([]Passage, error)

func (f RetrieverFunc) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	return f(ctx, query, topK)
}
