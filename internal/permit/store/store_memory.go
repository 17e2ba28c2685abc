package store

import (
	"context"
	"fmt"
	"sync"

	"sipeka/internal/permit/models"
	"sipeka/pkg/platform/sentinel"
)

// InMemory keeps the permit collection in process memory. Lifetime is
// process-scoped: restart loses all mutations, which is accepted for this
// design. Records are never deleted.
type InMemory struct {
	mu    sync.RWMutex
	order []*models.Permit
	byID  map[string]*models.Permit
}

// NewInMemory creates an empty in-memory permit store.
func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]*models.Permit)}
}

func (s *InMemory) Append(_ context.Context, permit *models.Permit) error {
	if err := permit.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[permit.ID]; exists {
		return fmt.Errorf("permit %q: %w", permit.ID, sentinel.ErrConflict)
	}
	s.insert(permit)
	return nil
}

func (s *InMemory) AppendBatch(_ context.Context, permits []*models.Permit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate and detect collisions up front so the batch is all-or-nothing.
	seen := make(map[string]struct{}, len(permits))
	for _, permit := range permits {
		if err := permit.Validate(); err != nil {
			return err
		}
		if _, exists := s.byID[permit.ID]; exists {
			return fmt.Errorf("permit %q: %w", permit.ID, sentinel.ErrConflict)
		}
		if _, dup := seen[permit.ID]; dup {
			return fmt.Errorf("permit %q duplicated in batch: %w", permit.ID, sentinel.ErrConflict)
		}
		seen[permit.ID] = struct{}{}
	}

	for _, permit := range permits {
		s.insert(permit)
	}
	return nil
}

func (s *InMemory) SetStatus(_ context.Context, id string, status models.Status) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("status %q: %w", status, sentinel.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	permit, exists := s.byID[id]
	if !exists {
		return false, nil
	}
	permit.Status = status
	return true, nil
}

func (s *InMemory) All(_ context.Context) ([]*models.Permit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Permit, len(s.order))
	for i, permit := range s.order {
		clone := *permit
		out[i] = &clone
	}
	return out, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// insert stores a private copy so later caller mutations cannot reach the
// canonical record. Must be called while holding s.mu.
func (s *InMemory) insert(permit *models.Permit) {
	clone := *permit
	s.order = append(s.order, &clone)
	s.byID[clone.ID] = &clone
}
