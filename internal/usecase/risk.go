package usecase

import (
	"github.com/arbiscout/backend/internal/domain"
)

// RiskConfig holds the tunable bounds of the risk model.
type RiskConfig struct {
	MediumThreshold     int     // default 40
	HighThreshold       int     // default 70
	ReviewThreshold     int     // review required at or above, default 50
	MaxPriceDeviation   float64 // shared with the matcher, default 2.5
	SuspiciousDeviation float64 // deviation flagged suspicious, default 3.0
	SuspiciousMarginPct float64 // margin % flagged suspicious, default 1000
	LowMarginFloor      float64 // absolute margin below this is low, default 10
}

func (c RiskConfig) withDefaults() RiskConfig {
	if c.MediumThreshold <= 0 {
		c.MediumThreshold = 40
	}
	if c.HighThreshold <= 0 {
		c.HighThreshold = 70
	}
	if c.ReviewThreshold <= 0 {
		c.ReviewThreshold = 50
	}
	if c.MaxPriceDeviation <= 0 {
		c.MaxPriceDeviation = 2.5
	}
	if c.SuspiciousDeviation <= 0 {
		c.SuspiciousDeviation = 3.0
	}
	if c.SuspiciousMarginPct <= 0 {
		c.SuspiciousMarginPct = 1000.0
	}
	if c.LowMarginFloor <= 0 {
		c.LowMarginFloor = 10.0
	}
	return c
}

// RiskInput gathers everything the rule table evaluates. All fields come
// from earlier pipeline stages; the scorer itself performs no I/O.
type RiskInput struct {
	Matched          bool
	Strategy         string
	SemanticScore    float64
	PriceDeviation   float64 // matched / converted source price; 0 when unknown
	MarginPct        float64
	MarginAmount     float64
	Category         domain.Category
	ImageFetchFailed bool
	ProductScore     float64 // aggregate quantitative score
}

// riskRule is one declarative rule of the additive model.
type riskRule struct {
	label     string
	points    int
	triggered func(in RiskInput, cfg RiskConfig) bool
}

// riskRules is the full additive model, evaluated in order so triggered
// factors come out in a stable, auditable sequence.
var riskRules = []riskRule{
	{
		label:  "no qualifying image match",
		points: 40,
		triggered: func(in RiskInput, _ RiskConfig) bool {
			return in.Strategy != domain.StrategyImage
		},
	},
	{
		label:  "very low title similarity",
		points: 30,
		triggered: func(in RiskInput, _ RiskConfig) bool {
			return in.SemanticScore < 40
		},
	},
	{
		label:  "moderate title similarity",
		points: 15,
		triggered: func(in RiskInput, _ RiskConfig) bool {
			return in.SemanticScore >= 40 && in.SemanticScore < 70
		},
	},
	{
		label:  "price deviation far beyond cap",
		points: 20,
		triggered: func(in RiskInput, cfg RiskConfig) bool {
			return in.PriceDeviation > cfg.MaxPriceDeviation+0.5
		},
	},
	{
		label:  "price deviation above cap",
		points: 10,
		triggered: func(in RiskInput, cfg RiskConfig) bool {
			return in.PriceDeviation > cfg.MaxPriceDeviation && in.PriceDeviation <= cfg.MaxPriceDeviation+0.5
		},
	},
	{
		label:  "low absolute margin",
		points: 10,
		triggered: func(in RiskInput, cfg RiskConfig) bool {
			return in.MarginAmount < cfg.LowMarginFloor
		},
	},
	{
		label:  "sensitive category",
		points: 10,
		triggered: func(in RiskInput, _ RiskConfig) bool {
			return in.Category.Sensitive()
		},
	},
	{
		label:  "image fetch error",
		points: 15,
		triggered: func(in RiskInput, _ RiskConfig) bool {
			return in.ImageFetchFailed
		},
	},
	{
		label:  "low aggregate product score",
		points: 15,
		triggered: func(in RiskInput, _ RiskConfig) bool {
			return in.ProductScore < 50
		},
	},
	{
		label:  "low-confidence fallback method",
		points: 10,
		triggered: func(in RiskInput, _ RiskConfig) bool {
			return in.Strategy == domain.StrategyTextual
		},
	},
}

// RiskScorer evaluates the declarative rule table into a 0-100 risk score.
type RiskScorer struct {
	cfg RiskConfig
}

// NewRiskScorer creates the scorer with defaults applied.
func NewRiskScorer(config RiskConfig) *RiskScorer {
	return &RiskScorer{cfg: config.withDefaults()}
}

// Assess computes the additive risk score, capped at 100, plus the level
// classification and the review flag. Pure function of its input.
func (s *RiskScorer) Assess(in RiskInput) *domain.RiskAssessment {
	assessment := &domain.RiskAssessment{}

	for _, rule := range riskRules {
		if rule.triggered(in, s.cfg) {
			assessment.Score += rule.points
			assessment.Factors = append(assessment.Factors, domain.RiskFactor{
				Label:  rule.label,
				Points: rule.points,
			})
		}
	}
	if assessment.Score > 100 {
		assessment.Score = 100
	}

	switch {
	case assessment.Score >= s.cfg.HighThreshold:
		assessment.Level = domain.RiskHigh
	case assessment.Score >= s.cfg.MediumThreshold:
		assessment.Level = domain.RiskMedium
	default:
		assessment.Level = domain.RiskLow
	}

	assessment.ReviewRequired = assessment.Score >= s.cfg.ReviewThreshold ||
		(in.Strategy == domain.StrategyTextual && in.SemanticScore < 70) ||
		in.PriceDeviation > s.cfg.SuspiciousDeviation ||
		in.MarginPct > s.cfg.SuspiciousMarginPct

	return assessment
}
