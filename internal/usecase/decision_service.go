package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arbiscout/backend/internal/domain"
)

// DecisionConfig configures the aggregation rule and pipeline behavior.
type DecisionConfig struct {
	QuantWeight        float64 // default 0.30
	QualWeight         float64 // default 0.30
	MarginWeight       float64 // default 0.40
	MinScore           float64 // weighted score needed for approval, default 70
	MinCriteria        int     // criteria needed for approval, default 3
	ContinueFloor      float64 // quantitative score below which network stages are skipped, default 40
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

func (c DecisionConfig) withDefaults() DecisionConfig {
	if c.QuantWeight <= 0 && c.QualWeight <= 0 && c.MarginWeight <= 0 {
		c.QuantWeight, c.QualWeight, c.MarginWeight = 0.30, 0.30, 0.40
	}
	if c.MinScore <= 0 {
		c.MinScore = 70.0
	}
	if c.MinCriteria <= 0 {
		c.MinCriteria = 3
	}
	if c.ContinueFloor <= 0 {
		c.ContinueFloor = 40.0
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 6 * time.Hour
	}
	return c
}

// DecisionService runs the full evaluation pipeline for one candidate:
// quantitative filter -> qualitative filter -> marketplace match -> margin
// -> risk -> weighted decision. Evaluate is total: it always returns a
// structurally valid Decision, never panics, and records stage failures in
// the decision itself.
type DecisionService struct {
	quant       *QuantitativeFilter
	qual        *QualitativeFilter
	matcher     *Matcher
	margin      *MarginCalculator
	risk        *RiskScorer
	marketplace domain.Marketplace
	cache       domain.CacheRepository
	cfg         DecisionConfig
}

// NewDecisionService wires the pipeline. cache may be nil.
func NewDecisionService(
	quant *QuantitativeFilter,
	qual *QualitativeFilter,
	matcher *Matcher,
	margin *MarginCalculator,
	risk *RiskScorer,
	marketplace domain.Marketplace,
	cache domain.CacheRepository,
	config DecisionConfig,
) *DecisionService {
	return &DecisionService{
		quant:       quant,
		qual:        qual,
		matcher:     matcher,
		margin:      margin,
		risk:        risk,
		marketplace: marketplace,
		cache:       cache,
		cfg:         config.withDefaults(),
	}
}

// Evaluate runs the pipeline for a single candidate.
func (s *DecisionService) Evaluate(ctx context.Context, candidate *domain.Candidate) *domain.Decision {
	if err := candidate.Validate(); err != nil {
		return s.errorDecision(candidate, nil, nil, err)
	}

	// Canonicalize the category once; downstream stages rely on it.
	if candidate.Category == "" {
		candidate.Category = domain.ParseCategory(candidate.RawCategory)
	}

	quantVerdict := s.quant.Evaluate(candidate)
	if s.cfg.EnableDebugLogging {
		log.Printf("[DECISION] %s quantitative: %.1f (%s)", candidate.ID, quantVerdict.Score, describeCriteria(quantVerdict.Criteria))
	}

	qualVerdict := s.qual.Evaluate(ctx, candidate)

	// Early stop: a candidate this weak is not worth network work. The
	// decision is still complete, with the match and margin stages empty.
	if !quantVerdict.Approved && quantVerdict.Score < s.cfg.ContinueFloor {
		return s.aggregate(candidate, quantVerdict, qualVerdict, nil, nil, s.risk.Assess(RiskInput{
			Strategy:     domain.StrategyNone,
			Category:     candidate.Category,
			ProductScore: quantVerdict.Score,
		}))
	}

	if err := ctx.Err(); err != nil {
		return s.errorDecision(candidate, quantVerdict, qualVerdict, err)
	}

	pool, err := s.searchWithCache(ctx, candidate.DisplayTitle())
	if err != nil {
		return s.errorDecision(candidate, quantVerdict, qualVerdict, fmt.Errorf("%w: %v", domain.ErrMarketplaceUnavailable, err))
	}

	match, err := s.matcher.FindMatch(ctx, candidate, pool)
	if err != nil {
		return s.errorDecision(candidate, quantVerdict, qualVerdict, err)
	}

	var analysis *domain.MarginAnalysis
	if match.Matched {
		stats := ComputePriceStats(match.Top)
		analysis, err = s.margin.Analyze(candidate, stats)
		if err != nil {
			// Margin failure degrades the decision rather than aborting it;
			// the missing analysis scores zero in the weighted sum.
			if s.cfg.EnableDebugLogging {
				log.Printf("[DECISION] %s margin analysis failed: %v", candidate.ID, err)
			}
			analysis = nil
		}
	}

	assessment := s.risk.Assess(s.riskInput(candidate, quantVerdict, match, analysis))

	return s.aggregate(candidate, quantVerdict, qualVerdict, match, analysis, assessment)
}

// riskInput projects the pipeline state onto the risk model's input.
func (s *DecisionService) riskInput(
	candidate *domain.Candidate,
	quant *domain.FilterVerdict,
	match *domain.MatchResult,
	analysis *domain.MarginAnalysis,
) RiskInput {
	in := RiskInput{
		Matched:          match.Matched,
		Strategy:         match.Strategy,
		Category:         candidate.Category,
		ImageFetchFailed: match.ImageFetchFailed,
		ProductScore:     quant.Score,
	}
	if match.Best != nil {
		in.SemanticScore = match.Best.SemanticScore
		in.PriceDeviation = match.Best.PriceDeviation
	}
	if realistic := analysis.Scenario(domain.ScenarioRealistic); realistic != nil {
		in.MarginPct = realistic.MarginPct
		in.MarginAmount = realistic.Margin
	}
	return in
}

// aggregate combines the component scores under the configured weights and
// derives the approval, tier, and rationale.
func (s *DecisionService) aggregate(
	candidate *domain.Candidate,
	quant, qual *domain.FilterVerdict,
	match *domain.MatchResult,
	analysis *domain.MarginAnalysis,
	risk *domain.RiskAssessment,
) *domain.Decision {
	marginScore := s.marginScore(analysis)

	weightSum := s.cfg.QuantWeight + s.cfg.QualWeight + s.cfg.MarginWeight
	final := (quant.Score*s.cfg.QuantWeight + qual.Score*s.cfg.QualWeight + marginScore*s.cfg.MarginWeight) / weightSum
	final = clampScore(final)

	marginViable := analysis != nil && analysis.Viable
	criteria := []struct {
		label string
		met   bool
	}{
		{"quantitative approved", quant.Approved},
		{"qualitative not rejected", qual.Score >= s.qual.RejectFloor()},
		{"margin viable", marginViable},
		{fmt.Sprintf("score >= %.0f", s.cfg.MinScore), final >= s.cfg.MinScore},
	}

	met := 0
	var parts []string
	for _, c := range criteria {
		if c.met {
			met++
			parts = append(parts, c.label+": ok")
		} else {
			parts = append(parts, c.label+": failed")
		}
	}

	approved := final >= s.cfg.MinScore && met >= s.cfg.MinCriteria

	var roi float64
	if realistic := analysis.Scenario(domain.ScenarioRealistic); realistic != nil {
		roi = realistic.ROI
	}

	decision := &domain.Decision{
		ID:          uuid.NewString(),
		CandidateID: candidate.ID,
		FinalScore:  final,
		Tier:        domain.TierForScore(final),
		Approved:    approved,
		Components: domain.ComponentScores{
			Quantitative: quant.Score,
			Qualitative:  qual.Score,
			Margin:       marginScore,
			Risk:         risk.Score,
		},
		CriteriaMet:  met,
		ROI:          roi,
		Quantitative: quant,
		Qualitative:  qual,
		Match:        match,
		Margin:       analysis,
		Risk:         risk,
		Rationale:    strings.Join(parts, "; "),
		CreatedAt:    time.Now().UTC(),
	}

	if s.cfg.EnableDebugLogging {
		log.Printf("[DECISION] %s final=%.1f tier=%s approved=%t criteria=%d/4",
			candidate.ID, final, decision.Tier, approved, met)
	}
	return decision
}

// marginScore maps a margin analysis onto the 0-100 component scale: the
// viability floor maps to 70, scaling linearly from zero and capping at 100.
func (s *DecisionService) marginScore(analysis *domain.MarginAnalysis) float64 {
	realistic := analysis.Scenario(domain.ScenarioRealistic)
	if realistic == nil {
		return 0
	}
	if realistic.MarginPct <= 0 {
		return 0
	}
	return clampScore(realistic.MarginPct / s.margin.MinMarginPct() * 70)
}

// errorDecision produces the structurally valid decision for a failed
// stage: approved=false, tier "error", the cause captured.
func (s *DecisionService) errorDecision(candidate *domain.Candidate, quant, qual *domain.FilterVerdict, cause error) *domain.Decision {
	candidateID := ""
	if candidate != nil {
		candidateID = candidate.ID
	}

	decision := &domain.Decision{
		ID:           uuid.NewString(),
		CandidateID:  candidateID,
		Tier:         domain.TierError,
		Approved:     false,
		Quantitative: quant,
		Qualitative:  qual,
		Rationale:    "evaluation failed: " + cause.Error(),
		Err:          cause.Error(),
		CreatedAt:    time.Now().UTC(),
	}
	if quant != nil {
		decision.Components.Quantitative = quant.Score
	}
	if qual != nil {
		decision.Components.Qualitative = qual.Score
	}
	return decision
}

// searchWithCache queries the secondary marketplace, caching results by
// normalized query to spare repeat searches within a batch.
func (s *DecisionService) searchWithCache(ctx context.Context, query string) ([]domain.MatchCandidate, error) {
	key := "search:" + normalizeTitle(query)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			if pool, ok := decodeCachedPool(cached); ok {
				return pool, nil
			}
		}
	}

	pool, err := s.marketplace.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, pool, s.cfg.CacheTTL); err != nil && s.cfg.EnableDebugLogging {
			log.Printf("[DECISION] cache write failed: %v", err)
		}
	}
	return pool, nil
}

// decodeCachedPool converts a cached value back into match candidates via a
// JSON round trip, mirroring how the cache serializes on write.
func decodeCachedPool(value interface{}) ([]domain.MatchCandidate, bool) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, false
	}
	var pool []domain.MatchCandidate
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, false
	}
	return pool, true
}
