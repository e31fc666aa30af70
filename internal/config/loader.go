package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables, optionally sourced
// from a .env file in the working directory. Env values always win over a
// pre-existing OS environment so local overrides stay deterministic.
func Load() (Config, error) {
	_ = godotenv.Overload()

	cfg := Config{}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(getenv("LLM_PROVIDER", "anthropic")))
	cfg.LLM.Anthropic.APIKey = getenv("ANTHROPIC_API_KEY", "")
	cfg.LLM.Anthropic.BaseURL = getenv("ANTHROPIC_BASE_URL", "")
	cfg.LLM.Anthropic.Model = getenv("ANTHROPIC_MODEL", "claude-3-7-sonnet-latest")
	cfg.LLM.Anthropic.MaxTokens = getenvInt("ANTHROPIC_MAX_TOKENS", 1024)
	cfg.LLM.Anthropic.PromptCache.Enabled = getenvBool("ANTHROPIC_PROMPT_CACHE_ENABLED", true)
	cfg.LLM.Anthropic.PromptCache.TTL = getenv("ANTHROPIC_PROMPT_CACHE_TTL", "5m")

	cfg.LLM.OpenAI.APIKey = getenv("OPENAI_API_KEY", "")
	cfg.LLM.OpenAI.BaseURL = getenv("OPENAI_BASE_URL", "")
	cfg.LLM.OpenAI.Model = getenv("OPENAI_MODEL", "gpt-4o-mini")

	cfg.LLM.Google.APIKey = getenv("GOOGLE_API_KEY", "")
	cfg.LLM.Google.BaseURL = getenv("GOOGLE_BASE_URL", "")
	cfg.LLM.Google.Model = getenv("GOOGLE_MODEL", "gemini-2.0-flash")

	cfg.Embedding.BaseURL = getenv("EMBED_BASE_URL", "https://api.openai.com")
	cfg.Embedding.Path = getenv("EMBED_PATH", "/v1/embeddings")
	cfg.Embedding.Model = getenv("EMBED_MODEL", "text-embedding-3-small")
	cfg.Embedding.APIKey = getenv("EMBED_API_KEY", "")
	cfg.Embedding.APIHeader = getenv("EMBED_API_HEADER", "Authorization")
	cfg.Embedding.Timeout = getenvInt("EMBED_TIMEOUT", 30)
	if v := strings.TrimSpace(getenv("EMBED_API_HEADERS", "")); v != "" {
		cfg.Embedding.Headers = parseHeaders(v)
	}

	cfg.Databases.Search.Backend = getenv("SEARCH_BACKEND", "memory")
	cfg.Databases.Vector.Backend = getenv("VECTOR_BACKEND", "memory")
	cfg.Databases.Vector.Dimensions = getenvInt("VECTOR_DIMENSIONS", 64)

	cfg.Redis.Enabled = getenvBool("REDIS_CACHE_ENABLED", false)
	cfg.Redis.Addr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getenv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getenvInt("REDIS_DB", 0)
	cfg.Redis.TTLSeconds = getenvInt("REDIS_CACHE_TTL_SECONDS", 600)

	cfg.Obs.ServiceName = getenv("OTEL_SERVICE_NAME", "multihop-research-agent")
	cfg.Obs.ServiceVersion = getenv("SERVICE_VERSION", "dev")
	cfg.Obs.Environment = getenv("ENVIRONMENT", "dev")
	cfg.Obs.LogPath = getenv("LOG_PATH", "")
	cfg.Obs.LogLevel = getenv("LOG_LEVEL", "info")
	cfg.Obs.OTLP = getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg.Research.MinHops = getenvInt("RESEARCH_MIN_HOPS", 3)
	cfg.Research.MaxHops = getenvInt("RESEARCH_MAX_HOPS", 10)
	cfg.Research.SubQueriesPerHop = getenvInt("RESEARCH_SUBQUERIES_PER_HOP", 3)
	cfg.Research.CoverageThreshold = getenvFloat("RESEARCH_COVERAGE_THRESHOLD", 0.5)
	cfg.Research.QualityThreshold = getenvFloat("RESEARCH_QUALITY_THRESHOLD", 0.5)
	cfg.Research.EnableLLM = getenvBool("RESEARCH_ENABLE_LLM", true)
	cfg.Research.HopTimeoutSeconds = getenvInt("RESEARCH_HOP_TIMEOUT_SECONDS", 30)
	cfg.Research.TotalTimeoutSeconds = getenvInt("RESEARCH_TOTAL_TIMEOUT_SECONDS", 120)

	return cfg, nil
}

func parseHeaders(v string) map[string]string {
	var m map[string]string
	if err := json.Unmarshal([]byte(v), &m); err == nil {
		return m
	}
	m = make(map[string]string)
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i := strings.Index(p, ":"); i != -1 {
			m[strings.TrimSpace(p[:i])] = strings.TrimSpace(p[i+1:])
		} else if i := strings.Index(p, "="); i != -1 {
			m[strings.TrimSpace(p[:i])] = strings.TrimSpace(p[i+1:])
		}
	}
	return m
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}
