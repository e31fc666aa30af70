package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlOverride is the subset of Config an operator can override from a
// --config file without touching environment variables. Fields absent from
// the file (and an empty llm.provider) are left untouched by
// ApplyYAMLOverride; a research field present in the file is applied even
// when its value is 0 or false.
type yamlOverride struct {
	Research struct {
		MinHops           *int     `yaml:"min_hops"`
		MaxHops           *int     `yaml:"max_hops"`
		SubQueriesPerHop  *int     `yaml:"sub_queries_per_hop"`
		CoverageThreshold *float64 `yaml:"coverage_threshold"`
		QualityThreshold  *float64 `yaml:"quality_threshold"`
		EnableLLM         *bool    `yaml:"enable_llm"`
	} `yaml:"research"`
	LLM struct {
		Provider string `yaml:"provider"`
	} `yaml:"llm"`
}

// ApplyYAMLOverride reads a YAML file at path and overlays any fields it
// sets onto cfg. An empty path is a no-op; a path that cannot be read is an
// error.
func ApplyYAMLOverride(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config override %q: %w", path, err)
	}

	var ov yamlOverride
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("parse config override %q: %w", path, err)
	}

	if ov.Research.MinHops != nil {
		cfg.Research.MinHops = *ov.Research.MinHops
	}
	if ov.Research.MaxHops != nil {
		cfg.Research.MaxHops = *ov.Research.MaxHops
	}
	if ov.Research.SubQueriesPerHop != nil {
		cfg.Research.SubQueriesPerHop = *ov.Research.SubQueriesPerHop
	}
	if ov.Research.CoverageThreshold != nil {
		cfg.Research.CoverageThreshold = *ov.Research.CoverageThreshold
	}
	if ov.Research.QualityThreshold != nil {
		cfg.Research.QualityThreshold = *ov.Research.QualityThreshold
	}
	if ov.Research.EnableLLM != nil {
		cfg.Research.EnableLLM = *ov.Research.EnableLLM
	}
	if ov.LLM.Provider != "" {
		cfg.LLM.Provider = ov.LLM.Provider
	}

	return nil
}
