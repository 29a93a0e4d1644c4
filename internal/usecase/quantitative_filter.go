package usecase

import (
	"fmt"

	"github.com/arbiscout/backend/internal/domain"
)

// MetricWeights distributes the aggregate quantitative score across metrics.
// Weights should sum to 1.0; Normalize fixes tables that don't.
type MetricWeights struct {
	Sales   float64
	Reviews float64
	Rating  float64
	Orders  float64
}

func (w MetricWeights) sum() float64 {
	return w.Sales + w.Reviews + w.Rating + w.Orders
}

// CategoryThresholds holds the hard minimums and weights for one category.
type CategoryThresholds struct {
	MinSales   int
	MinReviews int
	MinRating  float64
	MinOrders  int
	Weights    MetricWeights
}

// DefaultThresholds is the fallback table used when a category has no entry.
func DefaultThresholds() CategoryThresholds {
	return CategoryThresholds{
		MinSales:   50,
		MinReviews: 10,
		MinRating:  4.0,
		MinOrders:  30,
		Weights:    MetricWeights{Sales: 0.30, Reviews: 0.20, Rating: 0.30, Orders: 0.20},
	}
}

// defaultCategoryTables carries per-category overrides. Sensitive categories
// demand stronger social proof before a candidate is worth network work.
func defaultCategoryTables() map[domain.Category]CategoryThresholds {
	return map[domain.Category]CategoryThresholds{
		domain.CategoryElectronics: {
			MinSales: 100, MinReviews: 25, MinRating: 4.3, MinOrders: 60,
			Weights: MetricWeights{Sales: 0.25, Reviews: 0.25, Rating: 0.35, Orders: 0.15},
		},
		domain.CategoryPhones: {
			MinSales: 150, MinReviews: 40, MinRating: 4.5, MinOrders: 80,
			Weights: MetricWeights{Sales: 0.25, Reviews: 0.25, Rating: 0.35, Orders: 0.15},
		},
		domain.CategoryComputers: {
			MinSales: 100, MinReviews: 25, MinRating: 4.4, MinOrders: 60,
			Weights: MetricWeights{Sales: 0.25, Reviews: 0.25, Rating: 0.35, Orders: 0.15},
		},
		domain.CategoryToys: {
			MinSales: 30, MinReviews: 5, MinRating: 3.8, MinOrders: 20,
			Weights: MetricWeights{Sales: 0.35, Reviews: 0.15, Rating: 0.25, Orders: 0.25},
		},
		domain.CategoryHome: {
			MinSales: 40, MinReviews: 8, MinRating: 3.9, MinOrders: 25,
			Weights: MetricWeights{Sales: 0.35, Reviews: 0.15, Rating: 0.25, Orders: 0.25},
		},
	}
}

// QuantitativeConfig configures the quantitative filter.
type QuantitativeConfig struct {
	SoftThreshold float64 // aggregate score that compensates a missed hard threshold
	Tables        map[domain.Category]CategoryThresholds
}

// QuantitativeFilter scores numeric listing metrics against category
// thresholds. Approval is (all hard thresholds met) OR (aggregate score at
// or above the soft threshold): strong aggregate performance compensates a
// single weak metric.
type QuantitativeFilter struct {
	softThreshold float64
	tables        map[domain.Category]CategoryThresholds
	defaults      CategoryThresholds
}

// NewQuantitativeFilter creates the filter with the given configuration.
func NewQuantitativeFilter(config QuantitativeConfig) *QuantitativeFilter {
	soft := config.SoftThreshold
	if soft <= 0 {
		soft = 70.0
	}

	tables := config.Tables
	if tables == nil {
		tables = defaultCategoryTables()
	}

	return &QuantitativeFilter{
		softThreshold: soft,
		tables:        tables,
		defaults:      DefaultThresholds(),
	}
}

// thresholdsFor resolves the category table, falling back to the defaults.
func (f *QuantitativeFilter) thresholdsFor(cat domain.Category) CategoryThresholds {
	if t, ok := f.tables[cat]; ok {
		return t
	}
	return f.defaults
}

// Evaluate scores a candidate's numeric metrics. It never returns an error:
// malformed metrics simply score zero.
func (f *QuantitativeFilter) Evaluate(candidate *domain.Candidate) *domain.FilterVerdict {
	t := f.thresholdsFor(candidate.Category)

	salesScore := ratioScore(float64(candidate.Sales), float64(t.MinSales))
	reviewsScore := ratioScore(float64(candidate.Reviews), float64(t.MinReviews))
	ratingScore := clampScore(candidate.Rating / 5.0 * 100)
	ordersScore := ratioScore(float64(candidate.Orders), float64(t.MinOrders))

	weights := t.Weights
	if weights.sum() <= 0 {
		weights = f.defaults.Weights
	}
	norm := weights.sum()

	final := (salesScore*weights.Sales +
		reviewsScore*weights.Reviews +
		ratingScore*weights.Rating +
		ordersScore*weights.Orders) / norm
	final = clampScore(final)

	criteria := map[string]bool{
		"sales":   candidate.Sales >= t.MinSales,
		"reviews": candidate.Reviews >= t.MinReviews,
		"rating":  candidate.Rating >= t.MinRating,
		"orders":  candidate.Orders >= t.MinOrders,
	}

	allMet := criteria["sales"] && criteria["reviews"] && criteria["rating"] && criteria["orders"]
	compensated := !allMet && final >= f.softThreshold

	reason := "rejected"
	if allMet {
		reason = "thresholds-met"
	} else if compensated {
		reason = "score-compensated"
	}

	return &domain.FilterVerdict{
		Criteria: criteria,
		Scores: map[string]float64{
			"sales":   salesScore,
			"reviews": reviewsScore,
			"rating":  ratingScore,
			"orders":  ordersScore,
		},
		Score:    final,
		Approved: allMet || compensated,
		Reason:   reason,
	}
}

// ratioScore normalizes value/threshold to 0-100, capped at 100. A zero
// threshold means the metric is unconstrained and scores full marks.
func ratioScore(value, threshold float64) float64 {
	if threshold <= 0 {
		return 100
	}
	if value <= 0 {
		return 0
	}
	return clampScore(value / threshold * 100)
}

// clampScore bounds a score to [0,100].
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// describeCriteria renders a criteria map as a stable short string for logs.
func describeCriteria(criteria map[string]bool) string {
	met, missed := 0, 0
	for _, ok := range criteria {
		if ok {
			met++
		} else {
			missed++
		}
	}
	return fmt.Sprintf("%d met, %d missed", met, missed)
}
