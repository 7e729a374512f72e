package memory

import (
	"context"
	"sync"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

// Ensure ChangeStore implements the interface.
var _ driven.ChangeStore = (*ChangeStore)(nil)

// ChangeStore is an in-memory implementation of driven.ChangeStore.
// Changes are kept in append order.
type ChangeStore struct {
	mu      sync.RWMutex
	changes []domain.PermitChange
}

// NewChangeStore creates a new in-memory change store.
func NewChangeStore() *ChangeStore {
	return &ChangeStore{}
}

// Append records field changes.
func (s *ChangeStore) Append(_ context.Context, changes []domain.PermitChange) error {
	if len(changes) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range changes {
		s.changes = append(s.changes, copyChange(c))
	}
	return nil
}

// ListByKey returns the changes of one permit revision.
func (s *ChangeStore) ListByKey(_ context.Context, key domain.NaturalKey) ([]domain.PermitChange, error) {
	return s.filter(func(c *domain.PermitChange) bool { return c.Key() == key }), nil
}

// ListByRun returns the changes detected by one run.
func (s *ChangeStore) ListByRun(_ context.Context, runID string) ([]domain.PermitChange, error) {
	return s.filter(func(c *domain.PermitChange) bool { return c.RunID == runID }), nil
}

// Len returns the total number of stored changes.
func (s *ChangeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.changes)
}

func (s *ChangeStore) filter(keep func(*domain.PermitChange) bool) []domain.PermitChange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.PermitChange, 0)
	for i := range s.changes {
		if keep(&s.changes[i]) {
			result = append(result, copyChange(s.changes[i]))
		}
	}
	return result
}

func copyChange(c domain.PermitChange) domain.PermitChange {
	if c.OldValue != nil {
		v := *c.OldValue
		c.OldValue = &v
	}
	if c.NewValue != nil {
		v := *c.NewValue
		c.NewValue = &v
	}
	return c
}
