package domain

import (
	"context"
	"time"
)

// ImageFetcher downloads an image over HTTP with retry. Implementations must
// honor the context deadline and only retry idempotent failures.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageHasher produces fixed-length perceptual signatures and compares them.
type ImageHasher interface {
	Hash(data []byte) (uint64, error)
	Distance(a, b uint64) int
}

// Marketplace searches the secondary marketplace for listings matching a query.
type Marketplace interface {
	Search(ctx context.Context, query string) ([]MatchCandidate, error)
}

// SemanticScorer scores title similarity on a 0-100 scale. Optional: when
// absent the matcher falls back to its internal token-based scorer.
type SemanticScorer interface {
	Score(ctx context.Context, titleA, titleB string) (float64, error)
}

// QualitativeScorer is an optional external scorer of listing quality.
// Failures are tolerated; the qualitative filter degrades to its heuristic.
type QualitativeScorer interface {
	Score(ctx context.Context, candidate *Candidate) (*FilterVerdict, error)
}

// DecisionStore persists evaluated decisions. Real persistence lives outside
// the core; the in-memory implementation backs the API listing endpoints.
type DecisionStore interface {
	Save(ctx context.Context, decision *Decision) error
	Get(ctx context.Context, id string) (*Decision, error)
	List(ctx context.Context) ([]*Decision, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
