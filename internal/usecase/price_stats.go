package usecase

import (
	"sort"

	"github.com/arbiscout/backend/internal/domain"
)

// ComputePriceStats derives the price distribution over the ranked top
// match candidates. Non-positive prices are dropped; an empty input yields
// a zero-sample stats value.
func ComputePriceStats(candidates []domain.MatchCandidate) domain.PriceStats {
	prices := make([]float64, 0, len(candidates))
	for _, mc := range candidates {
		if mc.Price > 0 {
			prices = append(prices, mc.Price)
		}
	}
	if len(prices) == 0 {
		return domain.PriceStats{}
	}

	sort.Float64s(prices)

	return domain.PriceStats{
		Min:     prices[0],
		P25:     quantile(prices, 0.25),
		Median:  quantile(prices, 0.50),
		P75:     quantile(prices, 0.75),
		Max:     prices[len(prices)-1],
		Samples: len(prices),
	}
}

// quantile interpolates the q-th quantile of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
