package databases

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// memorySearch is an in-process full-text backend: term-count scoring over
// an in-memory map. It exists to exercise the retrieval pipeline without an
// external store; it is not meant to scale beyond a single research run's
// corpus.
type memorySearch struct {
	mu      sync.RWMutex
	indexed map[string]indexedText
}

type indexedText struct {
	text     string
	metadata map[string]string
}

func NewMemorySearch() FullTextSearch {
	return &memorySearch{indexed: make(map[string]indexedText)}
}

func (m *memorySearch) Index(_ context.Context, id, text string, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexed[id] = indexedText{text: text, metadata: copyMap(metadata)}
	return nil
}

func (m *memorySearch) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexed, id)
	return nil
}

func (m *memorySearch) Search(_ context.Context, query string, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scoreAll(query, limit, nil, false), nil
}

func (m *memorySearch) GetByID(_ context.Context, id string) (SearchResult, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.indexed[id]
	if !ok {
		return SearchResult{}, false, nil
	}
	return SearchResult{ID: id, Text: d.text, Metadata: copyMap(d.metadata)}, true, nil
}

// SearchChunks restricts matching to chunk-level records (ID prefixed
// "chunk:") and applies a metadata filter, mirroring what a real passage
// index would enforce at the storage layer.
func (m *memorySearch) SearchChunks(_ context.Context, query string, _ string, limit int, filter map[string]string) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scoreAll(query, limit, filter, true), nil
}

func (m *memorySearch) scoreAll(query string, limit int, filter map[string]string, chunksOnly bool) []SearchResult {
	if limit <= 0 {
		limit = 10
	}
	terms := strings.Fields(strings.ToLower(query))
	results := make([]SearchResult, 0, limit)
	for id, d := range m.indexed {
		if chunksOnly && !strings.HasPrefix(id, "chunk:") {
			continue
		}
		if !metaMatches(d.metadata, filter) {
			continue
		}
		if score := termScore(d.text, terms); score > 0 {
			results = append(results, SearchResult{
				ID:       id,
				Score:    score,
				Snippet:  headText(d.text, 120),
				Text:     d.text,
				Metadata: copyMap(d.metadata),
			})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func termScore(text string, terms []string) float64 {
	lt := strings.ToLower(text)
	var score float64
	for _, t := range terms {
		if t == "" {
			continue
		}
		if count := strings.Count(lt, t); count > 0 {
			score += float64(count)
		}
	}
	return score
}

func headText(text string, n int) string {
	if len(text) > n {
		return text[:n]
	}
	return text
}

func metaMatches(md map[string]string, f map[string]string) bool {
	if len(f) == 0 {
		return true
	}
	for k, v := range f {
		if md[k] != v {
			return false
		}
	}
	return true
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
