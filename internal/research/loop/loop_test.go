package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prasannaarjun/multihop-research-agent/internal/research"
)

func stubRetriever(fn func(ctx context.Context, query string, topK int) ([]research.Passage, error)) research.Retriever {
	return research.RetrieverFunc(fn)
}

func TestRun_SimpleDefinitionStopsEarly(t *testing.T) {
	retriever := stubRetriever(func(ctx context.Context, query string, topK int) ([]research.Passage, error) {
		return []research.Passage{{ID: "p1", Text: "photosynthesis is the process plants use to convert light into energy", Score: 0.95}}, nil
	})
	svc := New(retriever, nil)
	opts := research.NewOptions()
	opts.MinHops = 1

	result, err := svc.Run(context.Background(), "What is photosynthesis?", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metadata.ActualHops < 1 || result.Metadata.ActualHops > opts.MaxHops {
		t.Fatalf("actual hops out of bounds: %d", result.Metadata.ActualHops)
	}
	if len(result.Citations) == 0 {
		t.Fatalf("expected at least one citation")
	}
	if !result.Metadata.EarlyStop || result.Metadata.ActualHops != 1 {
		t.Fatalf("expected early stop after one hop, got earlyStop=%v actualHops=%d reason=%s",
			result.Metadata.EarlyStop, result.Metadata.ActualHops, result.Metadata.StopReason)
	}
}

func TestRun_EmptyQuestionIsInvalid(t *testing.T) {
	svc := New(stubRetriever(func(ctx context.Context, q string, k int) ([]research.Passage, error) { return nil, nil }), nil)
	_, err := svc.Run(context.Background(), "   ", research.NewOptions())
	if !errors.Is(err, research.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestRun_MinEqualsMaxForcesExactlyOneHop(t *testing.T) {
	calls := 0
	retriever := stubRetriever(func(ctx context.Context, q string, k int) ([]research.Passage, error) {
		calls++
		return []research.Passage{{ID: "p1", Text: "evidence", Score: 0.2}}, nil
	})
	svc := New(retriever, nil)
	opts := research.NewOptions()
	opts.MinHops = 1
	opts.MaxHops = 1

	result, err := svc.Run(context.Background(), "What is caching?", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || result.Metadata.ActualHops != 1 {
		t.Fatalf("expected exactly one hop, got calls=%d actualHops=%d", calls, result.Metadata.ActualHops)
	}
}

func TestRun_RetrieverAlwaysEmptyReachesMaxHops(t *testing.T) {
	retriever := stubRetriever(func(ctx context.Context, q string, k int) ([]research.Passage, error) { return nil, nil })
	svc := New(retriever, nil)
	opts := research.NewOptions()
	opts.MinHops = 1
	opts.MaxHops = 4

	result, err := svc.Run(context.Background(), "What is entropy and why does it increase?", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metadata.ActualHops != opts.MaxHops {
		t.Fatalf("expected to exhaust max_hops, got %d", result.Metadata.ActualHops)
	}
	if result.Metadata.StopReason != "max_hops" {
		t.Fatalf("expected max_hops stop reason, got %s", result.Metadata.StopReason)
	}
}

func TestRun_RetrieverErrorStillTerminates(t *testing.T) {
	retriever := stubRetriever(func(ctx context.Context, q string, k int) ([]research.Passage, error) {
		return nil, errors.New("backend down")
	})
	svc := New(retriever, nil)
	opts := research.NewOptions()
	opts.MinHops = 1
	opts.MaxHops = 2

	result, err := svc.Run(context.Background(), "What is caching?", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metadata.RetrievalErrors == 0 {
		t.Fatalf("expected retrieval errors to be recorded")
	}
}

func TestRun_CancellationProducesPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hopsBeforeCancel := 0
	retriever := stubRetriever(func(ctx context.Context, q string, k int) ([]research.Passage, error) {
		hopsBeforeCancel++
		if hopsBeforeCancel == 1 {
			cancel()
		}
		return []research.Passage{{ID: "p1", Text: "weak evidence", Score: 0.1}}, nil
	})
	svc := New(retriever, nil)
	opts := research.NewOptions()
	opts.MinHops = 3
	opts.MaxHops = 10

	result, err := svc.Run(ctx, "Compare X and Y and explain why one is better", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Metadata.Cancelled || !result.Metadata.EarlyStop {
		t.Fatalf("expected cancelled partial result, got %+v", result.Metadata)
	}
}

func TestRun_DeadlineBehavesLikeCancellation(t *testing.T) {
	retriever := stubRetriever(func(ctx context.Context, q string, k int) ([]research.Passage, error) {
		time.Sleep(5 * time.Millisecond)
		return []research.Passage{{ID: "p1", Text: "evidence", Score: 0.1}}, nil
	})
	svc := New(retriever, nil)
	opts := research.NewOptions()
	opts.MinHops = 3
	opts.MaxHops = 10
	opts.Deadline = time.Now().Add(2 * time.Millisecond)

	result, err := svc.Run(context.Background(), "Compare X and Y", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Metadata.EarlyStop {
		t.Fatalf("expected early stop from deadline")
	}
}

func TestRun_LLMOutageFallsBackToHeuristics(t *testing.T) {
	failingLLM := research.LLMClientFunc(func(ctx context.Context, sys, user string, opts research.GenerateOptions) (string, error) {
		return "", errors.New("llm outage")
	})
	retriever := stubRetriever(func(ctx context.Context, q string, k int) ([]research.Passage, error) {
		return []research.Passage{{ID: "p1", Text: "x is defined here", Score: 0.8}}, nil
	})
	svc := New(retriever, failingLLM)
	opts := research.NewOptions()
	opts.MinHops = 1

	result, err := svc.Run(context.Background(), "What is X?", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Metadata.ExtractorFallback {
		t.Fatalf("expected extractor fallback when llm fails")
	}
	if !result.Metadata.SynthFallback {
		t.Fatalf("expected synth fallback when llm fails")
	}
}

func TestRun_DeterministicAcrossRepeatedCalls(t *testing.T) {
	retriever := stubRetriever(func(ctx context.Context, q string, k int) ([]research.Passage, error) {
		return []research.Passage{{ID: "p1", Text: "x is defined as a stable concept", Score: 0.7}}, nil
	})
	opts := research.NewOptions()
	opts.MinHops = 1

	svc1 := New(retriever, nil)
	r1, _ := svc1.Run(context.Background(), "What is X?", opts)
	svc2 := New(retriever, nil)
	r2, _ := svc2.Run(context.Background(), "What is X?", opts)

	if r1.Answer != r2.Answer || len(r1.HopLog) != len(r2.HopLog) {
		t.Fatalf("expected deterministic results, got %q vs %q", r1.Answer, r2.Answer)
	}
}
