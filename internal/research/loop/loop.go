// Package loop implements the Research Loop: the orchestrator that drives
// the Complexity Analyzer, Aspect Extractor, Coverage Tracker, Sub-query
// Generator, Stopping Oracle, and Answer Synthesizer through a sequential,
// single-flight hop cycle against a Retriever and an optional LLMClient.
package loop

import (
	"context"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
	"github.com/prasannaarjun/multihop-research-agent/internal/research/aspect"
	"github.com/prasannaarjun/multihop-research-agent/internal/research/complexity"
	"github.com/prasannaarjun/multihop-research-agent/internal/research/coverage"
	"github.com/prasannaarjun/multihop-research-agent/internal/research/oracle"
	"github.com/prasannaarjun/multihop-research-agent/internal/research/subquery"
	"github.com/prasannaarjun/multihop-research-agent/internal/research/synth"
)

// Service runs research loops against a fixed Retriever and optional
// LLMClient. A Service is safe for concurrent use: each Run call owns its
// own Coverage and hop log, per the single-flight-per-run concurrency
// model -- nothing here is shared mutable state.
type Service struct {
	retriever research.Retriever
	llm       research.LLMClient
	logger    research.Logger
	metrics   research.Metrics
	clock     research.Clock
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithLogger overrides the default no-op Logger.
func WithLogger(l research.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics overrides the default no-op Metrics.
func WithMetrics(m research.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the default system Clock. Mainly useful in tests.
func WithClock(c research.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// New builds a Service. llm may be nil: the loop degrades to its heuristic
// paths throughout (extraction, sub-query generation, synthesis) and never
// fails solely because of a missing or erroring LLM.
func New(retriever research.Retriever, llm research.LLMClient, opts ...Option) *Service {
	s := &Service{
		retriever: retriever,
		llm:       llm,
		logger:    research.NoopLogger{},
		metrics:   research.NoopMetrics{},
		clock:     research.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one research request start to finish. It never returns a
// raw dependency error: Retriever and LLMClient failures are absorbed into
// ResultMetadata flags and the loop still reaches a defined termination.
// Only invalid input and internal invariant violations are returned as
// errors.
func (s *Service) Run(ctx context.Context, question string, opts research.Options) (result research.ResearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &research.InvariantError{Where: "loop.Run", Why: recoverMessage(r)}
		}
	}()

	opts = opts.WithDefaults()
	if verr := opts.Validate(question); verr != nil {
		return research.ResearchResult{}, verr
	}
	trimmed := research.TrimQuestion(question)

	if !opts.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, opts.Deadline)
		defer cancel()
	}

	startedAt := s.clock.Now()
	s.logger.Info("research.start", map[string]any{"question": trimmed})

	aspects, extractorFallback := aspect.Extract(ctx, trimmed, s.llm)
	cov := coverage.New(aspects)
	complexityScore, hopTarget, _ := complexity.Analyze(trimmed)
	hopTarget = complexity.ClampHopTarget(hopTarget, opts.MinHops, opts.MaxHops)
	adaptiveMode := opts.Adaptive && len(aspects) > 0

	var hopLog []research.SubQueryRecord
	retrievalErrors := 0
	cancelled := false
	stopReason := ""

	for hop := 1; hop <= opts.MaxHops; hop++ {
		if err := ctx.Err(); err != nil {
			cancelled = true
			stopReason = "cancelled"
			break
		}

		subQuery, targetAspect, _ := s.plan(ctx, trimmed, aspects, cov, opts, adaptiveMode)

		passages, rerr := s.retriever.Retrieve(ctx, subQuery, opts.PerSubK)
		if rerr != nil {
			retrievalErrors++
			s.logger.Error("research.retrieve_error", map[string]any{"hop": hop, "error": rerr.Error()})
			passages = nil
		}

		delta := coverage.Update(cov, passages, hop, opts.CoverThreshold)

		hopLog = append(hopLog, research.SubQueryRecord{
			Hop:           hop,
			SubQuery:      subQuery,
			TargetAspect:  targetAspect,
			Passages:      passages,
			CoverageDelta: delta,
		})
		s.metrics.IncCounter("research_hop_total", nil)

		decision := oracle.Decide(oracle.Params{
			Hop:              hop,
			MinHops:          opts.MinHops,
			MaxHops:          opts.MaxHops,
			LastHopPassages:  passages,
			AspectGuided:     adaptiveMode,
			UncoveredCore:    coverage.UncoveredCore(cov, opts.CoverThreshold),
			WeightedCoverage: coverage.Weighted(cov),
			QualityThreshold: opts.QualityThreshold,
		})
		if decision.Stop {
			stopReason = decision.Reason
			break
		}
	}

	synthResult := synth.Synthesize(ctx, trimmed, hopLog, cov, s.llm)

	result = research.ResearchResult{
		Question:  trimmed,
		Answer:    synthResult.Answer,
		Citations: synthResult.Citations,
		HopLog:    hopLog,
		Coverage:  coverage.Snapshot(cov),
		Metadata: research.ResultMetadata{
			Mode:              modeLabel(adaptiveMode),
			EstimatedHops:     hopTarget,
			ActualHops:        len(hopLog),
			EarlyStop:         stopReason != "" && stopReason != oracle.ReasonMaxHops,
			StopReason:        stopReason,
			ComplexityScore:   complexityScore,
			WeightedCoverage:  coverage.Weighted(cov),
			ExtractorFallback: extractorFallback,
			SynthFallback:     synthResult.Fallback,
			RetrievalErrors:   retrievalErrors,
			Cancelled:         cancelled,
		},
	}
	if cancelled {
		result.Metadata.EarlyStop = true
	}

	s.logger.Info("research.done", map[string]any{
		"hops":        len(hopLog),
		"stop_reason": stopReason,
		"cancelled":   cancelled,
		"duration_ms": s.clock.Now().Sub(startedAt).Milliseconds(),
	})
	return result, nil
}

// plan chooses the next hop's sub-query and target aspect. For the
// degenerate case (no extracted aspects, or non-adaptive mode), the main
// question is reused every hop with no target aspect.
func (s *Service) plan(ctx context.Context, question string, aspects []research.Aspect, cov research.Coverage, opts research.Options, adaptiveMode bool) (subQuery, targetAspect string, fromLLM bool) {
	if !adaptiveMode {
		return question, "", false
	}
	uncovered := coverage.Uncovered(cov, opts.CoverThreshold)
	if len(uncovered) == 0 {
		uncovered = aspects
	}
	pairs := subquery.Next(ctx, question, uncovered, s.llm, 1)
	if len(pairs) == 0 {
		return question, "", false
	}
	return pairs[0].SubQuery, pairs[0].TargetAspect, pairs[0].FromLLM
}

func modeLabel(adaptive bool) string {
	if adaptive {
		return "adaptive"
	}
	return "fixed"
}

func recoverMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s, ok := r.(string); ok {
		return s
	}
	return "unknown panic"
}
