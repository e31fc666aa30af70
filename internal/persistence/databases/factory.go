package databases

import (
    "context"
    "fmt"

    "github.com/prasannaarjun/multihop-research-agent/internal/config"
)

// NewManager constructs the search and vector backends from configuration.
// The loop only ever needs an in-process corpus for a single research run,
// so "memory" is the only real backend; "none"/"disabled" wires in no-ops
// for a dry run with no retrieval at all.
func NewManager(ctx context.Context, cfg config.DBConfig) (Manager, error) {
    _ = ctx
    var m Manager

    switch cfg.Search.Backend {
    case "", "memory":
        m.Search = NewMemorySearch()
    case "none", "disabled":
        m.Search = noopSearch{}
    default:
        return Manager{}, fmt.Errorf("unsupported search backend: %s", cfg.Search.Backend)
    }

    switch cfg.Vector.Backend {
    case "", "memory":
        m.Vector = NewMemoryVector()
    case "none", "disabled":
        m.Vector = noopVector{}
    default:
        return Manager{}, fmt.Errorf("unsupported vector backend: %s", cfg.Vector.Backend)
    }
    return m, nil
}

type noopSearch struct{}

func (noopSearch) Index(context.Context, string, string, map[string]string) error { return nil }
func (noopSearch) Remove(context.Context, string) error                          { return nil }
func (noopSearch) Search(context.Context, string, int) ([]SearchResult, error)    { return nil, nil }
func (noopSearch) GetByID(context.Context, string) (SearchResult, bool, error) {
    return SearchResult{}, false, nil
}

type noopVector struct{}

func (noopVector) Upsert(context.Context, string, []float32, map[string]string) error { return nil }
func (noopVector) Delete(context.Context, string) error                               { return nil }
func (noopVector) SimilaritySearch(context.Context, []float32, int, map[string]string) ([]VectorResult, error) {
    return nil, nil
}
