package domain

import "time"

// Margin scenario names, in optimism order.
const (
	ScenarioOptimistic   = "optimistic"
	ScenarioRealistic    = "realistic"
	ScenarioConservative = "conservative"
)

// MarginScenario holds one parameterized cost/price assumption set and the
// margin estimate it yields. A failed scenario records Err and zero figures.
type MarginScenario struct {
	Name           string  `json:"name"`
	SalePrice      float64 `json:"salePrice"`
	PurchaseCost   float64 `json:"purchaseCost"`
	ShippingCost   float64 `json:"shippingCost"`
	ImportTax      float64 `json:"importTax"`
	MarketplaceFee float64 `json:"marketplaceFee"`
	TotalCost      float64 `json:"totalCost"`
	Margin         float64 `json:"margin"`
	MarginPct      float64 `json:"marginPct"` // may be negative
	ROI            float64 `json:"roi"`
	Viable         bool    `json:"viable"`
	Err            string  `json:"error,omitempty"`
}

// MarginAnalysis aggregates the three scenarios into a consensus view.
type MarginAnalysis struct {
	Scenarios      []MarginScenario `json:"scenarios"`
	Computed       int              `json:"computed"` // how many scenarios succeeded
	Viable         bool             `json:"viable"`   // realistic scenario viability
	Recommendation string           `json:"recommendation"`
}

// Scenario returns the named scenario, or nil when absent or failed.
func (a *MarginAnalysis) Scenario(name string) *MarginScenario {
	if a == nil {
		return nil
	}
	for i := range a.Scenarios {
		if a.Scenarios[i].Name == name && a.Scenarios[i].Err == "" {
			return &a.Scenarios[i]
		}
	}
	return nil
}

// FilterVerdict is the structured output of the quantitative and qualitative
// filters: per-criterion booleans, per-metric scores, and an approval.
type FilterVerdict struct {
	Criteria map[string]bool    `json:"criteria,omitempty"`
	Scores   map[string]float64 `json:"scores,omitempty"`
	Score    float64            `json:"score"` // 0-100
	Approved bool               `json:"approved"`
	Reason   string             `json:"reason,omitempty"`
	Source   string             `json:"source,omitempty"` // "heuristic" or "external-scorer"
}

// Risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskFactor is one triggered rule of the risk model.
type RiskFactor struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// RiskAssessment is the additive risk score with its triggered factors.
type RiskAssessment struct {
	Score          int          `json:"score"` // 0-100
	Level          string       `json:"level"`
	Factors        []RiskFactor `json:"factors,omitempty"`
	ReviewRequired bool         `json:"reviewRequired"`
}

// Decision tiers, from banding the final score. TierError marks decisions
// produced after an unexpected stage failure.
const (
	TierDiamond  = "diamond"
	TierPlatinum = "platinum"
	TierGold     = "gold"
	TierSilver   = "silver"
	TierBronze   = "bronze"
	TierRejected = "rejected"
	TierError    = "error"
)

// TierForScore bands a final score into a tier.
func TierForScore(score float64) string {
	switch {
	case score >= 90:
		return TierDiamond
	case score >= 80:
		return TierPlatinum
	case score >= 70:
		return TierGold
	case score >= 55:
		return TierSilver
	case score >= 40:
		return TierBronze
	default:
		return TierRejected
	}
}

// ComponentScores records the per-component inputs of the weighted decision.
type ComponentScores struct {
	Quantitative float64 `json:"quantitative"`
	Qualitative  float64 `json:"qualitative"`
	Margin       float64 `json:"margin"`
	Risk         int     `json:"risk"` // informational, not part of the weighted sum
}

// Decision is the final, auditable verdict for one candidate. It is a pure
// derivation of the candidate plus injected collaborators and is never
// mutated after creation; re-scoring requires a fresh evaluation.
type Decision struct {
	ID           string          `json:"id"`
	CandidateID  string          `json:"candidateId"`
	FinalScore   float64         `json:"finalScore"`
	Tier         string          `json:"tier"`
	Approved     bool            `json:"approved"`
	Components   ComponentScores `json:"components"`
	CriteriaMet  int             `json:"criteriaMet"`
	ROI          float64         `json:"roi"` // realistic scenario ROI, used for ranking tie-breaks
	Quantitative *FilterVerdict  `json:"quantitative,omitempty"`
	Qualitative  *FilterVerdict  `json:"qualitative,omitempty"`
	Match        *MatchResult    `json:"match,omitempty"`
	Margin       *MarginAnalysis `json:"margin,omitempty"`
	Risk         *RiskAssessment `json:"risk,omitempty"`
	Rationale    string          `json:"rationale"`
	Err          string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}
