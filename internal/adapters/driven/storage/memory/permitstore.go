package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

// Ensure PermitStore implements the interface.
var _ driven.PermitStore = (*PermitStore)(nil)

// PermitStore is an in-memory implementation of driven.PermitStore.
type PermitStore struct {
	mu      sync.RWMutex
	permits map[domain.NaturalKey]*domain.Permit
}

// NewPermitStore creates a new in-memory permit store.
func NewPermitStore() *PermitStore {
	return &PermitStore{
		permits: make(map[domain.NaturalKey]*domain.Permit),
	}
}

// GetHash returns the stored content hash for a key.
func (s *PermitStore) GetHash(_ context.Context, key domain.NaturalKey) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.permits[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p.ContentHash, nil
}

// Get retrieves a stored permit.
func (s *PermitStore) Get(_ context.Context, key domain.NaturalKey) (*domain.Permit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.permits[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

// Upsert stores or replaces a permit.
func (s *PermitStore) Upsert(_ context.Context, permit *domain.Permit, hash string, seenAt time.Time) error {
	if permit == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := permit.Clone()
	stored.ContentHash = hash
	stored.FirstSeenAt = seenAt
	stored.LastSeenAt = seenAt
	if prev, ok := s.permits[permit.Key()]; ok {
		stored.FirstSeenAt = prev.FirstSeenAt
	}
	s.permits[permit.Key()] = stored
	return nil
}

// Touch updates last_seen_at for a stored permit.
func (s *PermitStore) Touch(_ context.Context, key domain.NaturalKey, seenAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.permits[key]
	if !ok {
		return domain.ErrNotFound
	}
	p.LastSeenAt = seenAt
	return nil
}

// Count returns the number of stored permits.
func (s *PermitStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.permits), nil
}
