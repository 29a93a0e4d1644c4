// Package store provides the in-memory decision store backing the API's
// listing endpoints. Durable persistence lives outside the core.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/arbiscout/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory DecisionStore.
type MemoryStore struct {
	decisions map[string]*domain.Decision
	order     []string // insertion order
	mu        sync.RWMutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		decisions: make(map[string]*domain.Decision),
	}
}

// Save stores a decision. Decisions are immutable, so saving the same ID
// twice simply overwrites the identical value.
func (s *MemoryStore) Save(ctx context.Context, decision *domain.Decision) error {
	if decision == nil || decision.ID == "" {
		return domain.ErrInvalidCandidate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.decisions[decision.ID]; !exists {
		s.order = append(s.order, decision.ID)
	}
	s.decisions[decision.ID] = decision
	return nil
}

// Get returns the decision with the given ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decision, ok := s.decisions[id]
	if !ok {
		return nil, domain.ErrDecisionNotFound
	}
	return decision, nil
}

// List returns all decisions ranked by final score descending, breaking
// ties by higher ROI first.
func (s *MemoryStore) List(ctx context.Context) ([]*domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Decision, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.decisions[id])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		return out[i].ROI > out[j].ROI
	})
	return out, nil
}

// Size returns the number of stored decisions.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decisions)
}
