package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/prasannaarjun/multihop-research-agent/internal/config"
	"github.com/prasannaarjun/multihop-research-agent/internal/llmadapter"
	"github.com/prasannaarjun/multihop-research-agent/internal/obs"
	"github.com/prasannaarjun/multihop-research-agent/internal/observability"
	"github.com/prasannaarjun/multihop-research-agent/internal/persistence/databases"
	"github.com/prasannaarjun/multihop-research-agent/internal/research"
	"github.com/prasannaarjun/multihop-research-agent/internal/research/loop"
	"github.com/prasannaarjun/multihop-research-agent/internal/retrieveradapter"
	"github.com/prasannaarjun/multihop-research-agent/internal/retrieveradapter/embedder"
)

var (
	flagMinHops  int
	flagMaxHops  int
	flagPerSubK  int
	flagAdaptive bool
	flagTimeout  time.Duration
	flagConfig   string
)

var rootCmd = &cobra.Command{
	Use:   "research [question]",
	Short: "Run a multi-hop research loop over the configured retriever and LLM",
	Args:  cobra.ExactArgs(1),
	RunE:  runResearch,
}

func init() {
	rootCmd.Flags().IntVar(&flagMinHops, "min-hops", 0, "minimum hops before the oracle may stop (0 = config default)")
	rootCmd.Flags().IntVar(&flagMaxHops, "max-hops", 0, "maximum hops before forced stop (0 = config default)")
	rootCmd.Flags().IntVar(&flagPerSubK, "per-sub-k", 0, "passages retrieved per sub-query (0 = config default)")
	rootCmd.Flags().BoolVar(&flagAdaptive, "adaptive", true, "use aspect-guided sub-query planning")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "overall deadline for the run (0 = config default)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a YAML file overriding research/llm config")
}

func Execute() error {
	return rootCmd.Execute()
}

func runResearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.ApplyYAMLOverride(&cfg, flagConfig); err != nil {
		return err
	}
	observability.InitLogger(cfg.Obs.LogPath, cfg.Obs.LogLevel)

	ctx := cmd.Context()
	if cfg.Obs.OTLP != "" {
		shutdown, err := observability.InitOTel(ctx, cfg.Obs)
		if err != nil {
			log.Warn().Err(err).Msg("otel_init_failed")
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	httpClient := observability.NewHTTPClient(nil)

	manager, err := databases.NewManager(ctx, cfg.Databases)
	if err != nil {
		return fmt.Errorf("init databases: %w", err)
	}

	var emb embedder.Embedder
	if cfg.Embedding.BaseURL != "" && cfg.Embedding.APIKey != "" {
		emb = embedder.NewClient(cfg.Embedding, cfg.Databases.Vector.Dimensions)
	} else {
		emb = embedder.NewDeterministic(cfg.Databases.Vector.Dimensions, true, 1)
	}

	var retriever research.Retriever = retrieveradapter.NewRetriever(manager, emb)
	if cached, cerr := retrieveradapter.NewCachingRetriever(retriever, cfg.Redis); cerr != nil {
		log.Warn().Err(cerr).Msg("retrieval_cache_init_failed")
	} else if cached != nil {
		retriever = cached
		defer cached.Close()
	}

	var llm research.LLMClient
	if cfg.Research.EnableLLM {
		llm, err = llmadapter.Build(ctx, cfg.LLM, httpClient)
		if err != nil {
			return fmt.Errorf("init llm client: %w", err)
		}
	}

	svc := loop.New(retriever, llm,
		loop.WithLogger(obs.ZerologLogger{}),
		loop.WithMetrics(obs.NewOtelMetrics()),
	)

	runOpts := research.NewOptions()
	runOpts.Adaptive = flagAdaptive
	if flagMinHops > 0 {
		runOpts.MinHops = flagMinHops
	} else {
		runOpts.MinHops = cfg.Research.MinHops
	}
	if flagMaxHops > 0 {
		runOpts.MaxHops = flagMaxHops
	} else {
		runOpts.MaxHops = cfg.Research.MaxHops
	}
	if flagPerSubK > 0 {
		runOpts.PerSubK = flagPerSubK
	} else if cfg.Research.SubQueriesPerHop > 0 {
		runOpts.PerSubK = cfg.Research.SubQueriesPerHop
	}
	runOpts.CoverThreshold = cfg.Research.CoverageThreshold
	runOpts.QualityThreshold = cfg.Research.QualityThreshold

	timeout := flagTimeout
	if timeout <= 0 && cfg.Research.TotalTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Research.TotalTimeoutSeconds) * time.Second
	}
	if timeout > 0 {
		runOpts.Deadline = time.Now().Add(timeout)
	}

	result, err := svc.Run(ctx, args[0], runOpts)
	if err != nil {
		return fmt.Errorf("research run: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
