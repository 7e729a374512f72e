package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driving"
)

// mockPermitSync implements driving.PermitSync for testing.
type mockPermitSync struct {
	run    *domain.SyncRun
	err    error
	status *driving.SyncStatus
	delay  time.Duration
	refs   []string
}

func (m *mockPermitSync) Sync(ctx context.Context, ref string) (*domain.SyncRun, error) {
	m.refs = append(m.refs, ref)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
		}
	}
	return m.run, m.err
}

func (m *mockPermitSync) Status(_ context.Context) (*driving.SyncStatus, error) {
	if m.status == nil {
		return &driving.SyncStatus{}, nil
	}
	return m.status, nil
}

// mockHistory implements driving.HistoryService for testing.
type mockHistory struct {
	runs       []domain.SyncRun
	changes    map[domain.NaturalKey][]domain.PermitChange
	runChanges map[string][]domain.PermitChange
	err        error
	lastLimit  int
}

func (m *mockHistory) ListRuns(_ context.Context, limit int) ([]domain.SyncRun, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.runs, nil
}

func (m *mockHistory) GetRun(_ context.Context, id string) (*domain.SyncRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistory) Changes(_ context.Context, key domain.NaturalKey) ([]domain.PermitChange, error) {
	return m.changes[key], m.err
}

func (m *mockHistory) RunChanges(_ context.Context, runID string) ([]domain.PermitChange, error) {
	return m.runChanges[runID], m.err
}

// setServices installs s for one test and restores the previous services.
func setServices(t *testing.T, s *Services) {
	t.Helper()
	oldSync, oldHistory, oldConfig, oldAfter := permitSync, history, configStore, afterSync
	oldBootstrapped, oldBootstrap := bootstrapped, Bootstrap
	SetServices(s)
	t.Cleanup(func() {
		permitSync, history, configStore, afterSync = oldSync, oldHistory, oldConfig, oldAfter
		bootstrapped, Bootstrap = oldBootstrapped, oldBootstrap
	})
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	oldLimit, oldList := runsLimit, classifyListTags

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		color.NoColor = noColor
		runsLimit, classifyListTags = oldLimit, oldList
	}()

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func strp(s string) *string { return &s }

func finishedRun(id string, status domain.RunStatus, c domain.RunCounters) domain.SyncRun {
	started := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)
	return domain.SyncRun{
		ID:         id,
		SourceRef:  "permits-" + id + ".json",
		Status:     status,
		StartedAt:  started,
		FinishedAt: &finished,
		Counters:   c,
	}
}
