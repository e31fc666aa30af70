package retrieveradapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/prasannaarjun/multihop-research-agent/internal/config"
	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

// CachingRetriever wraps a research.Retriever with a Redis-backed TTL cache
// keyed on query text and top-k, so repeated sub-queries across hops (or
// across runs, for common aspects) skip the fusion pipeline entirely.
type CachingRetriever struct {
	next   research.Retriever
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCachingRetriever builds a CachingRetriever. Returns (nil, nil) when
// caching is disabled in configuration, so callers can fall back to next
// unwrapped.
func NewCachingRetriever(next research.Retriever, cfg config.RedisConfig) (*CachingRetriever, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("retrieval cache ping: %w", err)
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachingRetriever{next: next, client: client, ttl: ttl}, nil
}

// Retrieve implements research.Retriever.
func (c *CachingRetriever) Retrieve(ctx context.Context, query string, topK int) ([]research.Passage, error) {
	key := cacheKey(query, topK)

	if val, err := c.client.Get(ctx, key).Result(); err == nil {
		var passages []research.Passage
		if jerr := json.Unmarshal([]byte(val), &passages); jerr == nil {
			return passages, nil
		}
	} else if err != redis.Nil {
		log.Debug().Err(err).Str("key", key).Msg("retrieval_cache_get_error")
	}

	passages, err := c.next.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(passages); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("retrieval_cache_set_error")
		}
	}
	return passages, nil
}

// Close releases the underlying Redis connection.
func (c *CachingRetriever) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func cacheKey(query string, topK int) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("retrieval:%d:%s", topK, hex.EncodeToString(sum[:]))
}
