package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/arbiscout/backend/internal/domain"
)

// Verdict source tags.
const (
	SourceHeuristic      = "heuristic"
	SourceExternalScorer = "external-scorer"
)

// positiveKeywords boost the heuristic title quality score.
var positiveKeywords = map[string]float64{
	"original":     8,
	"premium":      6,
	"profissional": 6,
	"professional": 6,
	"garantia":     8,
	"warranty":     8,
	"oficial":      6,
	"official":     6,
	"novo":         4,
	"new":          4,
	"qualidade":    5,
	"quality":      5,
	"certificado":  6,
	"certified":    6,
	"kit":          3,
	"completo":     3,
}

// negativeKeywords penalize titles that signal low-quality listings.
var negativeKeywords = map[string]float64{
	"replica":        20,
	"réplica":        20,
	"falso":          20,
	"fake":           20,
	"imitacao":       15,
	"usado":          12,
	"used":           12,
	"recondicionado": 10,
	"refurbished":    10,
	"defeito":        25,
	"defect":         25,
	"barato":         6,
	"cheap":          6,
	"promocao":       4,
	"lote":           5,
}

// QualitativeConfig configures the qualitative filter.
type QualitativeConfig struct {
	ApproveThreshold   float64 // score at or above which the filter approves (default 50)
	RejectFloor        float64 // score below which the candidate counts as rejected (default 30)
	EnableDebugLogging bool
}

// QualitativeFilter scores listing text quality. It prefers the injected
// external scorer; when the scorer is absent or fails it degrades to a
// deterministic keyword heuristic. Evaluate never fails and always returns
// a structurally complete verdict tagged with its source.
type QualitativeFilter struct {
	scorer           domain.QualitativeScorer
	approveThreshold float64
	rejectFloor      float64
	debug            bool
}

// NewQualitativeFilter creates the filter. scorer may be nil.
func NewQualitativeFilter(scorer domain.QualitativeScorer, config QualitativeConfig) *QualitativeFilter {
	approve := config.ApproveThreshold
	if approve <= 0 {
		approve = 50.0
	}
	reject := config.RejectFloor
	if reject <= 0 {
		reject = 30.0
	}

	return &QualitativeFilter{
		scorer:           scorer,
		approveThreshold: approve,
		rejectFloor:      reject,
		debug:            config.EnableDebugLogging,
	}
}

// RejectFloor exposes the configured rejection floor for the aggregator's
// "not rejected" criterion.
func (f *QualitativeFilter) RejectFloor() float64 {
	return f.rejectFloor
}

// Evaluate scores the candidate's text quality.
func (f *QualitativeFilter) Evaluate(ctx context.Context, candidate *domain.Candidate) *domain.FilterVerdict {
	if f.scorer != nil {
		verdict, err := f.scorer.Score(ctx, candidate)
		if err == nil && verdict != nil {
			verdict.Score = clampScore(verdict.Score)
			verdict.Source = SourceExternalScorer
			return verdict
		}
		if f.debug {
			log.Printf("[QUAL] external scorer failed, falling back to heuristic: %v", err)
		}
	}

	return f.heuristic(candidate)
}

// heuristic is the deterministic fallback scorer: a 50-point baseline moved
// by keyword hits on the title plus rating and sales boosts.
func (f *QualitativeFilter) heuristic(candidate *domain.Candidate) *domain.FilterVerdict {
	title := strings.ToLower(candidate.DisplayTitle())

	score := 50.0
	var hits, penalties []string

	for keyword, points := range positiveKeywords {
		if strings.Contains(title, keyword) {
			score += points
			hits = append(hits, keyword)
		}
	}
	for keyword, points := range negativeKeywords {
		if strings.Contains(title, keyword) {
			score -= points
			penalties = append(penalties, keyword)
		}
	}

	// Social-proof boosts: a well-rated, well-sold product usually has an
	// honest listing even when the title is keyword-poor.
	if candidate.Rating >= 4.5 {
		score += 10
	} else if candidate.Rating >= 4.0 {
		score += 5
	} else if candidate.Rating > 0 && candidate.Rating < 3.5 {
		score -= 10
	}
	if candidate.Sales >= 500 {
		score += 10
	} else if candidate.Sales >= 100 {
		score += 5
	}

	// Very short titles carry too little signal to trust.
	if len(strings.Fields(title)) < 3 {
		score -= 10
	}

	score = clampScore(score)

	reason := "heuristic keyword score"
	if len(penalties) > 0 {
		reason = "penalized keywords: " + strings.Join(penalties, ", ")
	} else if len(hits) > 0 {
		reason = "positive keywords: " + strings.Join(hits, ", ")
	}

	return &domain.FilterVerdict{
		Criteria: map[string]bool{
			"no_negative_keywords": len(penalties) == 0,
			"has_positive_signal":  len(hits) > 0 || candidate.Rating >= 4.0,
		},
		Scores:   map[string]float64{"title": score},
		Score:    score,
		Approved: score >= f.approveThreshold,
		Reason:   reason,
		Source:   SourceHeuristic,
	}
}
