package usecase

import (
	"context"
	"log"
	"sort"

	"github.com/arbiscout/backend/internal/domain"
)

// MatcherConfig holds the thresholds of the matching cascade. All values
// have working defaults applied by NewMatcher.
type MatcherConfig struct {
	ImageThreshold     float64 // perceptual similarity %, default 80
	SemanticThreshold  float64 // title similarity, default 70
	TextualThreshold   float64 // keyword compatibility, default 60
	MaxPriceDeviation  float64 // matched/converted price ratio cap, default 2.5
	FxRate             float64 // source currency -> local currency
	EnableDebugLogging bool
}

func (c MatcherConfig) withDefaults() MatcherConfig {
	if c.ImageThreshold <= 0 {
		c.ImageThreshold = 80.0
	}
	if c.SemanticThreshold <= 0 {
		c.SemanticThreshold = 70.0
	}
	if c.TextualThreshold <= 0 {
		c.TextualThreshold = 60.0
	}
	if c.MaxPriceDeviation <= 0 {
		c.MaxPriceDeviation = 2.5
	}
	if c.FxRate <= 0 {
		c.FxRate = 5.20
	}
	return c
}

// strategyOutcome is the result of one matching strategy attempt.
type strategyOutcome struct {
	bestIdx          int
	score            float64
	imageFetchFailed bool
}

// matchStrategy is one step of the fallback cascade. attempt scores the
// pool in place and returns the qualifying outcome, or nil when no
// candidate qualifies. Degraded sub-steps (a single image failing to
// download) are recorded on the outcome, not returned as errors.
type matchStrategy interface {
	name() string
	attempt(ctx context.Context, candidate *domain.Candidate, pool []domain.MatchCandidate) *strategyOutcome
}

// Matcher cascades image, semantic, and textual strategies over a pool of
// secondary-marketplace candidates. Strategies run in order; the first
// qualifying result wins and later strategies are skipped.
type Matcher struct {
	strategies []matchStrategy
	cfg        MatcherConfig
}

// NewMatcher builds the cascade. fetcher and hasher power the image
// strategy; semantic may be nil, in which case the internal token scorer is
// used for title similarity.
func NewMatcher(
	fetcher domain.ImageFetcher,
	hasher domain.ImageHasher,
	semantic domain.SemanticScorer,
	config MatcherConfig,
) *Matcher {
	cfg := config.withDefaults()

	return &Matcher{
		cfg: cfg,
		strategies: []matchStrategy{
			&imageStrategy{fetcher: fetcher, hasher: hasher, threshold: cfg.ImageThreshold, debug: cfg.EnableDebugLogging},
			&semanticStrategy{scorer: semantic, threshold: cfg.SemanticThreshold, maxDeviation: cfg.MaxPriceDeviation, fxRate: cfg.FxRate, debug: cfg.EnableDebugLogging},
			&textualStrategy{threshold: cfg.TextualThreshold, maxDeviation: cfg.MaxPriceDeviation, fxRate: cfg.FxRate},
		},
	}
}

// FindMatch runs the cascade and returns a MatchResult. It returns an error
// only for invalid input; an exhausted cascade is a normal no-match result.
func (m *Matcher) FindMatch(ctx context.Context, candidate *domain.Candidate, pool []domain.MatchCandidate) (*domain.MatchResult, error) {
	if candidate == nil {
		return nil, domain.ErrInvalidCandidate
	}

	result := &domain.MatchResult{
		Strategy:   domain.StrategyNone,
		VisualRisk: true,
	}
	if len(pool) == 0 {
		return result, nil
	}

	// Price deviation is shared by the semantic and textual gates; compute
	// it once for the whole pool.
	converted := candidate.Price * m.cfg.FxRate
	for i := range pool {
		if converted > 0 && pool[i].Price > 0 {
			pool[i].PriceDeviation = pool[i].Price / converted
		}
	}

	for _, strategy := range m.strategies {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Hard risk gate: sensitive categories never reach the textual
		// strategy, regardless of any score it might produce.
		if strategy.name() == domain.StrategyTextual && !candidate.Category.AllowsTextualFallback() {
			if m.cfg.EnableDebugLogging {
				log.Printf("[MATCH] textual fallback blocked for category %q", candidate.Category)
			}
			break
		}

		outcome := strategy.attempt(ctx, candidate, pool)
		if outcome != nil && outcome.imageFetchFailed {
			result.ImageFetchFailed = true
		}
		if outcome == nil || outcome.bestIdx < 0 {
			continue
		}

		best := pool[outcome.bestIdx]
		result.Matched = true
		result.Best = &best
		result.Strategy = strategy.name()
		result.VisualRisk = strategy.name() != domain.StrategyImage
		break
	}

	result.Top = rankTop(pool, 3)
	return result, nil
}

// rankTop returns the n highest-scoring pool entries by their best
// per-strategy score, skipping entries nothing scored.
func rankTop(pool []domain.MatchCandidate, n int) []domain.MatchCandidate {
	ranked := make([]domain.MatchCandidate, 0, len(pool))
	for _, mc := range pool {
		if mc.BestScore() > 0 {
			ranked = append(ranked, mc)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BestScore() > ranked[j].BestScore()
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// imageStrategy compares perceptual hashes of the source image against each
// candidate's primary image.
type imageStrategy struct {
	fetcher   domain.ImageFetcher
	hasher    domain.ImageHasher
	threshold float64
	debug     bool
}

func (s *imageStrategy) name() string { return domain.StrategyImage }

func (s *imageStrategy) attempt(ctx context.Context, candidate *domain.Candidate, pool []domain.MatchCandidate) *strategyOutcome {
	outcome := &strategyOutcome{bestIdx: -1}
	if s.fetcher == nil || s.hasher == nil || len(candidate.ImageURLs) == 0 {
		return outcome
	}

	sourceHash, err := s.fetchHash(ctx, candidate.ImageURLs[0])
	if err != nil {
		if s.debug {
			log.Printf("[MATCH] source image unavailable: %v", err)
		}
		outcome.imageFetchFailed = true
		return outcome
	}

	for i := range pool {
		if len(pool[i].ImageURLs) == 0 {
			continue
		}
		candidateHash, err := s.fetchHash(ctx, pool[i].ImageURLs[0])
		if err != nil {
			outcome.imageFetchFailed = true
			continue
		}

		distance := s.hasher.Distance(sourceHash, candidateHash)
		similarity := (1 - float64(distance)/64.0) * 100
		pool[i].ImageScore = clampScore(similarity)

		if pool[i].ImageScore >= s.threshold && pool[i].ImageScore > outcome.score {
			outcome.score = pool[i].ImageScore
			outcome.bestIdx = i
		}
	}
	return outcome
}

// fetchHash downloads and hashes one image. The image bytes live only for
// the duration of this call; nothing is written to disk.
func (s *imageStrategy) fetchHash(ctx context.Context, url string) (uint64, error) {
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}
	return s.hasher.Hash(data)
}

// semanticStrategy scores title similarity, gated by price deviation.
type semanticStrategy struct {
	scorer       domain.SemanticScorer
	threshold    float64
	maxDeviation float64
	fxRate       float64
	debug        bool
}

func (s *semanticStrategy) name() string { return domain.StrategySemantic }

func (s *semanticStrategy) attempt(ctx context.Context, candidate *domain.Candidate, pool []domain.MatchCandidate) *strategyOutcome {
	outcome := &strategyOutcome{bestIdx: -1}
	title := candidate.DisplayTitle()

	for i := range pool {
		score := s.scoreTitles(ctx, title, pool[i].Title)
		pool[i].SemanticScore = score

		if score < s.threshold {
			continue
		}
		if pool[i].PriceDeviation <= 0 || pool[i].PriceDeviation > s.maxDeviation {
			if s.debug {
				log.Printf("[MATCH] semantic candidate %q blocked by price deviation %.2f", pool[i].Title, pool[i].PriceDeviation)
			}
			continue
		}
		if score > outcome.score {
			outcome.score = score
			outcome.bestIdx = i
		}
	}
	return outcome
}

// scoreTitles uses the injected scorer when available, degrading to the
// internal token scorer on absence or failure.
func (s *semanticStrategy) scoreTitles(ctx context.Context, titleA, titleB string) float64 {
	if s.scorer != nil {
		if score, err := s.scorer.Score(ctx, titleA, titleB); err == nil {
			return clampScore(score)
		}
	}
	return TitleSimilarity(titleA, titleB)
}

// textualStrategy is the last-resort keyword-overlap match. The category
// gate is enforced by the Matcher before this strategy runs.
type textualStrategy struct {
	threshold    float64
	maxDeviation float64
	fxRate       float64
}

func (s *textualStrategy) name() string { return domain.StrategyTextual }

func (s *textualStrategy) attempt(ctx context.Context, candidate *domain.Candidate, pool []domain.MatchCandidate) *strategyOutcome {
	outcome := &strategyOutcome{bestIdx: -1}
	title := candidate.DisplayTitle()

	for i := range pool {
		score := KeywordCompatibility(title, pool[i].Title)
		pool[i].TextualScore = score

		if score < s.threshold {
			continue
		}
		if pool[i].PriceDeviation <= 0 || pool[i].PriceDeviation > s.maxDeviation {
			continue
		}
		if score > outcome.score {
			outcome.score = score
			outcome.bestIdx = i
		}
	}
	return outcome
}
