// Package config loads runtime configuration for the research service from
// environment variables, with sensible defaults applied after loading.
package config

// AnthropicPromptCacheConfig controls Anthropic prompt-cache breakpoints.
type AnthropicPromptCacheConfig struct {
	Enabled bool
	TTL     string // "5m" or "1h", per the Anthropic API
}

// AnthropicConfig configures the Anthropic Claude LLM adapter.
type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	PromptCache AnthropicPromptCacheConfig
}

// OpenAIConfig configures the OpenAI-compatible LLM adapter.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// GoogleConfig configures the Gemini LLM adapter.
type GoogleConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LLMConfig selects and configures the active LLM provider.
type LLMConfig struct {
	Provider  string // "anthropic", "openai", "google"
	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Google    GoogleConfig
}

// EmbeddingConfig configures the HTTP embedding endpoint used to vectorize
// queries at retrieval time.
type EmbeddingConfig struct {
	BaseURL   string
	Path      string
	Model     string
	APIKey    string
	APIHeader string
	Headers   map[string]string
	Timeout   int // seconds
}

// DBSearchConfig configures the full-text search backend.
type DBSearchConfig struct {
	Backend string // "memory", "none"
}

// DBVectorConfig configures the vector store backend.
type DBVectorConfig struct {
	Backend    string // "memory", "none"
	Dimensions int
}

// DBConfig configures the persistence layer the Retriever adapter queries.
type DBConfig struct {
	Search DBSearchConfig
	Vector DBVectorConfig
}

// RedisConfig configures the optional retrieval cache.
type RedisConfig struct {
	Enabled bool
	Addr    string
	Password string
	DB      int
	TTLSeconds int
}

// ObsConfig configures structured logging and OpenTelemetry export.
type ObsConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	LogPath        string
	LogLevel       string
	OTLP           string // empty disables OTel export
}

// ResearchConfig holds the research loop's own tunables, overridable per
// request via research.Options but defaulted here for the CLI entrypoint.
type ResearchConfig struct {
	MinHops             int
	MaxHops             int
	SubQueriesPerHop    int
	CoverageThreshold   float64
	QualityThreshold    float64
	EnableLLM           bool
	HopTimeoutSeconds   int
	TotalTimeoutSeconds int
}

// Config aggregates every subsystem's configuration.
type Config struct {
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Databases DBConfig
	Redis     RedisConfig
	Obs       ObsConfig
	Research  ResearchConfig
}
