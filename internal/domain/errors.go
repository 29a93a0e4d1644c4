package domain

import "errors"

var (
	// ErrInvalidCandidate is returned when a candidate is structurally malformed
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrInvalidPrice is returned when a price is zero or negative
	ErrInvalidPrice = errors.New("invalid price")

	// ErrNoPriceData is returned when no price distribution is available for margin analysis
	ErrNoPriceData = errors.New("no price data available")

	// ErrNoMatch is returned when no marketplace listing qualifies under any strategy
	ErrNoMatch = errors.New("no qualifying marketplace match")

	// ErrLowConfidence is returned when a match exists but scores below the threshold
	ErrLowConfidence = errors.New("match confidence below threshold")

	// ErrImageFetch is returned when an image cannot be downloaded or decoded
	ErrImageFetch = errors.New("image fetch failed")

	// ErrMarketplaceUnavailable is returned when the secondary marketplace search fails
	ErrMarketplaceUnavailable = errors.New("marketplace search failed")

	// ErrAllScenariosFailed is returned when every margin scenario fails to compute
	ErrAllScenariosFailed = errors.New("all margin scenarios failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrDecisionNotFound is returned when a stored decision cannot be located
	ErrDecisionNotFound = errors.New("decision not found")
)
