package retrieveradapter

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prasannaarjun/multihop-research-agent/internal/persistence/databases"
)

// SourceDiagnostics carries per-source retrieval timings and counts.
type SourceDiagnostics struct {
	FtLatency  time.Duration
	VecLatency time.Duration
	FtCount    int
	VecCount   int
}

// chunkSearcher is the optional capability a FullTextSearch backend may
// implement to prefer chunk-level hits over whole-document hits.
type chunkSearcher interface {
	SearchChunks(ctx context.Context, query string, lang string, limit int, filter map[string]string) ([]databases.SearchResult, error)
}

// ParallelCandidates queries FTS and vector stores concurrently according to
// the plan. Either source failing fails the whole call: a hop with no
// passages from one source still needs the other's candidates to be
// meaningful, so there is no partial-success path here.
func ParallelCandidates(ctx context.Context, search databases.FullTextSearch, vector databases.VectorStore, plan QueryPlan, embVec []float32) (fts []databases.SearchResult, vrs []databases.VectorResult, diag SourceDiagnostics, err error) {
	g, ctx := errgroup.WithContext(ctx)

	if plan.FtK > 0 && search != nil {
		g.Go(func() error {
			t0 := time.Now()
			var res []databases.SearchResult
			var e error
			if cs, ok := search.(chunkSearcher); ok {
				res, e = cs.SearchChunks(ctx, plan.Query, plan.Lang, plan.FtK, plan.Filters)
			} else {
				res, e = search.Search(ctx, plan.Query, plan.FtK)
			}
			diag.FtLatency = time.Since(t0)
			diag.FtCount = len(res)
			fts = res
			return e
		})
	}

	if plan.VecK > 0 && vector != nil && len(embVec) > 0 {
		g.Go(func() error {
			t0 := time.Now()
			res, e := vector.SimilaritySearch(ctx, embVec, plan.VecK, plan.Filters)
			diag.VecLatency = time.Since(t0)
			diag.VecCount = len(res)
			vrs = res
			return e
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, SourceDiagnostics{}, err
	}
	return fts, vrs, diag, nil
}
