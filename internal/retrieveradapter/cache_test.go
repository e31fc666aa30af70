package retrieveradapter

import (
	"testing"

	"github.com/prasannaarjun/multihop-research-agent/internal/config"
)

func TestCacheKey_DeterministicPerQueryAndTopK(t *testing.T) {
	a := cacheKey("what is caching", 5)
	b := cacheKey("what is caching", 5)
	if a != b {
		t.Fatalf("expected same key for identical inputs, got %q vs %q", a, b)
	}
}

func TestCacheKey_DiffersByTopK(t *testing.T) {
	a := cacheKey("what is caching", 5)
	b := cacheKey("what is caching", 10)
	if a == b {
		t.Fatalf("expected different keys for different topK")
	}
}

func TestCacheKey_DiffersByQuery(t *testing.T) {
	a := cacheKey("what is caching", 5)
	b := cacheKey("what is a cache", 5)
	if a == b {
		t.Fatalf("expected different keys for different queries")
	}
}

func TestNewCachingRetriever_DisabledReturnsNil(t *testing.T) {
	cr, err := NewCachingRetriever(nil, config.RedisConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cr != nil {
		t.Fatalf("expected nil retriever when caching disabled")
	}
}
