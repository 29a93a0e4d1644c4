package usecase

import (
	"fmt"

	"github.com/arbiscout/backend/internal/domain"
)

// MarginConfig holds the base cost model. Category multipliers from the
// domain layer adjust tax and shipping per candidate.
type MarginConfig struct {
	FxRate             float64 // source currency -> local, default 5.20
	ImportTaxRate      float64 // fraction, default 0.12
	ShippingBase       float64 // local currency, default 12.0
	MarketplaceFeeRate float64 // fraction of sale price, default 0.10
	MinMarginPct       float64 // viability floor, default 15
	EnableDebugLogging bool
}

func (c MarginConfig) withDefaults() MarginConfig {
	if c.FxRate <= 0 {
		c.FxRate = 5.20
	}
	if c.ImportTaxRate <= 0 {
		c.ImportTaxRate = 0.12
	}
	if c.ShippingBase <= 0 {
		c.ShippingBase = 12.0
	}
	if c.MarketplaceFeeRate <= 0 {
		c.MarketplaceFeeRate = 0.10
	}
	if c.MinMarginPct <= 0 {
		c.MinMarginPct = 15.0
	}
	return c
}

// scenarioAdjustment perturbs the cost model for one scenario. Factors
// multiply the base rates; quantile selects the assumed sale price from the
// price distribution.
type scenarioAdjustment struct {
	name           string
	fxFactor       float64
	taxFactor      float64
	shippingFactor float64
	feeFactor      float64
	quantile       func(domain.PriceStats) float64
}

// scenarioAdjustments lists the three scenarios in optimism order. The
// optimistic scenario assumes cheaper inputs and a p75 sale price, the
// conservative one costlier inputs and a p25 sale price, which guarantees
// optimistic margin >= realistic margin >= conservative margin.
var scenarioAdjustments = []scenarioAdjustment{
	{
		name:     domain.ScenarioOptimistic,
		fxFactor: 0.95, taxFactor: 0.90, shippingFactor: 0.90, feeFactor: 1.0,
		quantile: func(s domain.PriceStats) float64 { return s.P75 },
	},
	{
		name:     domain.ScenarioRealistic,
		fxFactor: 1.0, taxFactor: 1.0, shippingFactor: 1.0, feeFactor: 1.0,
		quantile: func(s domain.PriceStats) float64 { return s.Median },
	},
	{
		name:     domain.ScenarioConservative,
		fxFactor: 1.05, taxFactor: 1.15, shippingFactor: 1.20, feeFactor: 1.0,
		quantile: func(s domain.PriceStats) float64 { return s.P25 },
	},
}

// MarginCalculator converts a matched price distribution plus cost
// assumptions into three scenario-based margin estimates.
type MarginCalculator struct {
	cfg MarginConfig
}

// NewMarginCalculator creates the calculator with defaults applied.
func NewMarginCalculator(config MarginConfig) *MarginCalculator {
	return &MarginCalculator{cfg: config.withDefaults()}
}

// MinMarginPct exposes the viability floor for the risk scorer and tests.
func (c *MarginCalculator) MinMarginPct() float64 {
	return c.cfg.MinMarginPct
}

// Analyze computes the three margin scenarios for a candidate against the
// matched price distribution. A single failed scenario degrades the
// analysis; only a total failure (or invalid inputs) returns an error.
func (c *MarginCalculator) Analyze(candidate *domain.Candidate, stats domain.PriceStats) (*domain.MarginAnalysis, error) {
	if candidate == nil || candidate.Price <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if stats.Samples == 0 {
		return nil, domain.ErrNoPriceData
	}

	analysis := &domain.MarginAnalysis{
		Scenarios: make([]domain.MarginScenario, 0, len(scenarioAdjustments)),
	}

	for _, adj := range scenarioAdjustments {
		scenario := c.computeScenario(adj, candidate, stats)
		if scenario.Err == "" {
			analysis.Computed++
		}
		analysis.Scenarios = append(analysis.Scenarios, scenario)
	}

	if analysis.Computed == 0 {
		return nil, domain.ErrAllScenariosFailed
	}

	realistic := analysis.Scenario(domain.ScenarioRealistic)
	if realistic != nil {
		analysis.Viable = realistic.Viable
		analysis.Recommendation = c.recommend(realistic.MarginPct)
	} else {
		// Realistic failed; fall back to the most cautious surviving view.
		analysis.Recommendation = "Inconclusive: realistic scenario unavailable"
		if cons := analysis.Scenario(domain.ScenarioConservative); cons != nil {
			analysis.Viable = cons.Viable
		}
	}

	return analysis, nil
}

// computeScenario is a pure function of the adjustment, candidate, and
// price distribution:
//
//	purchase = sourcePrice × fx
//	total    = (purchase + shipping) × (1 + tax) + salePrice × fee
//
// with category multipliers on tax and shipping.
func (c *MarginCalculator) computeScenario(adj scenarioAdjustment, candidate *domain.Candidate, stats domain.PriceStats) domain.MarginScenario {
	scenario := domain.MarginScenario{Name: adj.name}

	salePrice := adj.quantile(stats)
	if salePrice <= 0 {
		scenario.Err = "non-positive sale price quantile"
		return scenario
	}

	fx := c.cfg.FxRate * adj.fxFactor
	taxRate := c.cfg.ImportTaxRate * adj.taxFactor * candidate.Category.TaxMultiplier()
	shipping := c.cfg.ShippingBase * adj.shippingFactor * candidate.Category.ShippingMultiplier()
	feeRate := c.cfg.MarketplaceFeeRate * adj.feeFactor

	purchase := candidate.Price * fx
	importTax := (purchase + shipping) * taxRate
	fee := salePrice * feeRate
	totalCost := purchase + shipping + importTax + fee

	margin := salePrice - totalCost

	scenario.SalePrice = salePrice
	scenario.PurchaseCost = purchase
	scenario.ShippingCost = shipping
	scenario.ImportTax = importTax
	scenario.MarketplaceFee = fee
	scenario.TotalCost = totalCost
	scenario.Margin = margin
	scenario.MarginPct = margin / salePrice * 100
	scenario.ROI = margin / totalCost * 100
	scenario.Viable = scenario.MarginPct >= c.cfg.MinMarginPct

	return scenario
}

// recommend maps the realistic margin onto a human-readable call.
func (c *MarginCalculator) recommend(marginPct float64) string {
	min := c.cfg.MinMarginPct
	switch {
	case marginPct >= 2*min:
		return fmt.Sprintf("Strong buy: %.1f%% margin", marginPct)
	case marginPct >= min:
		return fmt.Sprintf("Buy: %.1f%% margin", marginPct)
	case marginPct >= 0:
		return fmt.Sprintf("Marginal: %.1f%% margin below the %.0f%% floor", marginPct, min)
	default:
		return fmt.Sprintf("Avoid: negative margin (%.1f%%)", marginPct)
	}
}
