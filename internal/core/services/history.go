package services

import (
	"context"
	"fmt"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads past runs and the change log.
type HistoryService struct {
	runs    driven.SyncRunStore
	changes driven.ChangeStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(runs driven.SyncRunStore, changes driven.ChangeStore) *HistoryService {
	return &HistoryService{runs: runs, changes: changes}
}

// ListRuns returns the most recent runs first.
func (s *HistoryService) ListRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves a run by ID.
func (s *HistoryService) GetRun(ctx context.Context, id string) (*domain.SyncRun, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	return s.runs.Get(ctx, id)
}

// Changes returns the change log of one permit revision, oldest first.
func (s *HistoryService) Changes(ctx context.Context, key domain.NaturalKey) ([]domain.PermitChange, error) {
	if key.PermitNum == "" || key.RevisionNum == "" {
		return nil, fmt.Errorf("%w: permit number and revision are required", domain.ErrInvalidInput)
	}
	changes, err := s.changes.ListByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("list changes for %s: %w", key, err)
	}
	return changes, nil
}

// RunChanges returns the changes detected by one run, oldest first.
func (s *HistoryService) RunChanges(ctx context.Context, runID string) ([]domain.PermitChange, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	changes, err := s.changes.ListByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list changes for run %s: %w", runID, err)
	}
	return changes, nil
}
