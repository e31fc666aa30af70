package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"RESEARCH_MIN_HOPS", "RESEARCH_MAX_HOPS", "RESEARCH_COVERAGE_THRESHOLD",
		"RESEARCH_QUALITY_THRESHOLD", "LLM_PROVIDER", "SEARCH_BACKEND", "VECTOR_BACKEND",
	} {
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Research.MinHops)
	assert.Equal(t, 10, cfg.Research.MaxHops)
	assert.InDelta(t, 0.5, cfg.Research.CoverageThreshold, 1e-9)
	assert.InDelta(t, 0.5, cfg.Research.QualityThreshold, 1e-9)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "memory", cfg.Databases.Search.Backend)
	assert.Equal(t, "memory", cfg.Databases.Vector.Backend)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RESEARCH_MIN_HOPS", "1")
	t.Setenv("RESEARCH_MAX_HOPS", "5")
	t.Setenv("LLM_PROVIDER", "OpenAI")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Research.MinHops)
	assert.Equal(t, 5, cfg.Research.MaxHops)
	assert.Equal(t, "openai", cfg.LLM.Provider)
}
