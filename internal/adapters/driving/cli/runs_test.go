package cli

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

func TestRunsList_Empty(t *testing.T) {
	setServices(t, &Services{History: &mockHistory{}})

	out, _, err := execute(t, "runs", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No sync runs recorded.")
}

func TestRunsList_Table(t *testing.T) {
	hist := &mockHistory{runs: []domain.SyncRun{
		finishedRun("run-b", domain.RunStatusFailed, domain.RunCounters{Total: 1, Errors: 1}),
		finishedRun("run-a", domain.RunStatusCompleted, domain.RunCounters{Total: 3, New: 2, Unchanged: 1}),
	}}
	setServices(t, &Services{History: hist})

	out, _, err := execute(t, "runs", "list", "--limit", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, hist.lastLimit)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "run-b")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "permits-run-a.json")
	assert.Contains(t, out, "2024-03-01 09:00:00Z")
	assert.Less(t, strings.Index(out, "run-b"), strings.Index(out, "run-a"))
}

func TestRunsList_DefaultLimit(t *testing.T) {
	hist := &mockHistory{}
	setServices(t, &Services{History: hist})

	_, _, err := execute(t, "runs", "list")

	require.NoError(t, err)
	assert.Equal(t, 20, hist.lastLimit)
}

func TestRunsShow(t *testing.T) {
	run := finishedRun("run-1", domain.RunStatusCompleted,
		domain.RunCounters{Total: 2, Updated: 1, Unchanged: 1})
	hist := &mockHistory{
		runs: []domain.SyncRun{run},
		runChanges: map[string][]domain.PermitChange{
			"run-1": {{
				ID: "c1", RunID: "run-1", PermitNum: "24 101234", RevisionNum: "01",
				Field: "storeys", OldValue: strp("1"), NewValue: strp("2"),
			}, {
				ID: "c2", RunID: "run-1", PermitNum: "24 101234", RevisionNum: "01",
				Field: "completed_date", NewValue: strp("2024-05-01"),
			}},
		},
	}
	setServices(t, &Services{History: hist})

	out, _, err := execute(t, "runs", "show", "run-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Run:       run-1")
	assert.Contains(t, out, "Status:    completed")
	assert.Contains(t, out, "(1m30s)")
	assert.Contains(t, out, "2 total, 0 new, 1 updated, 1 unchanged, 0 errors")
	assert.Contains(t, out, "Changes (2):")
	assert.Contains(t, out, "storeys")
	assert.Contains(t, out, "<null>")
	assert.Contains(t, out, "2024-05-01")
}

func TestRunsShow_NotFound(t *testing.T) {
	setServices(t, &Services{History: &mockHistory{}})

	_, _, err := execute(t, "runs", "show", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "run missing")
}

func TestStatusLabel(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	assert.Equal(t, "running", statusLabel(domain.RunStatusRunning))
	assert.Equal(t, "completed", statusLabel(domain.RunStatusCompleted))
	assert.Equal(t, "failed", statusLabel(domain.RunStatusFailed))
	assert.Equal(t, "-", formatTimestamp(domain.SyncRun{}.StartedAt))
	assert.Equal(t, "<null>", formatValue(nil))
}
