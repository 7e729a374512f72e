package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

// Ensure SyncRunStore implements the interface.
var _ driven.SyncRunStore = (*SyncRunStore)(nil)

// SyncRunStore is an in-memory implementation of driven.SyncRunStore.
type SyncRunStore struct {
	mu   sync.RWMutex
	runs map[string]*domain.SyncRun
	seq  map[string]int
	next int
}

// NewSyncRunStore creates a new in-memory sync run store.
func NewSyncRunStore() *SyncRunStore {
	return &SyncRunStore{
		runs: make(map[string]*domain.SyncRun),
		seq:  make(map[string]int),
	}
}

// Create stores a new run.
func (s *SyncRunStore) Create(_ context.Context, run *domain.SyncRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; exists {
		return fmt.Errorf("%w: run %s already exists", domain.ErrInvalidInput, run.ID)
	}
	s.runs[run.ID] = run.Clone()
	s.seq[run.ID] = s.next
	s.next++
	return nil
}

// Update replaces a stored run. Terminal runs are immutable.
func (s *SyncRunStore) Update(_ context.Context, run *domain.SyncRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.runs[run.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status.IsTerminal() {
		return fmt.Errorf("%w: run %s is %s", domain.ErrRunFinalized, run.ID, stored.Status)
	}
	s.runs[run.ID] = run.Clone()
	return nil
}

// Get retrieves a run by ID.
func (s *SyncRunStore) Get(_ context.Context, id string) (*domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return run.Clone(), nil
}

// List returns runs newest first by start time, then by creation order.
func (s *SyncRunStore) List(_ context.Context, limit int) ([]domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.SyncRun, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, *run.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].StartedAt.After(result[j].StartedAt)
		}
		return s.seq[result[i].ID] > s.seq[result[j].ID]
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
