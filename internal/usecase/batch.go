package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/arbiscout/backend/internal/domain"
)

// BatchConfig bounds batch evaluation concurrency and pacing.
type BatchConfig struct {
	Concurrency        int           // candidates evaluated in parallel per wave, default 3
	WaveDelay          time.Duration // pause between waves for marketplace rate limits, default 2s
	CandidateTimeout   time.Duration // per-candidate deadline, default 60s
	EnableDebugLogging bool
}

func (c BatchConfig) withDefaults() BatchConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = 3
	}
	if c.WaveDelay <= 0 {
		c.WaveDelay = 2 * time.Second
	}
	if c.CandidateTimeout <= 0 {
		c.CandidateTimeout = 60 * time.Second
	}
	return c
}

// BatchEvaluator runs many candidates through the decision service in
// fixed-size waves. Evaluations share no mutable state; each one is a
// function of its candidate plus the injected collaborators. A cancelled
// batch context stops unstarted waves; a per-candidate timeout fails only
// that candidate.
type BatchEvaluator struct {
	service *DecisionService
	cfg     BatchConfig
}

// NewBatchEvaluator creates the evaluator with defaults applied.
func NewBatchEvaluator(service *DecisionService, config BatchConfig) *BatchEvaluator {
	return &BatchEvaluator{service: service, cfg: config.withDefaults()}
}

// EvaluateAll evaluates every candidate, returning decisions in input
// order. Candidates skipped by batch cancellation get error decisions so
// the output stays aligned with the input.
func (b *BatchEvaluator) EvaluateAll(ctx context.Context, candidates []*domain.Candidate) []*domain.Decision {
	decisions := make([]*domain.Decision, len(candidates))

	for start := 0; start < len(candidates); start += b.cfg.Concurrency {
		if err := ctx.Err(); err != nil {
			// Batch deadline hit: fail the remaining candidates without
			// starting them.
			for i := start; i < len(candidates); i++ {
				decisions[i] = b.service.errorDecision(candidates[i], nil, nil, err)
			}
			return decisions
		}

		end := start + b.cfg.Concurrency
		if end > len(candidates) {
			end = len(candidates)
		}

		if b.cfg.EnableDebugLogging {
			log.Printf("[BATCH] wave %d-%d of %d", start, end-1, len(candidates))
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				candidateCtx, cancel := context.WithTimeout(ctx, b.cfg.CandidateTimeout)
				defer cancel()
				decisions[idx] = b.service.Evaluate(candidateCtx, candidates[idx])
			}(i)
		}
		wg.Wait()

		if end < len(candidates) {
			select {
			case <-ctx.Done():
			case <-time.After(b.cfg.WaveDelay):
			}
		}
	}

	return decisions
}
