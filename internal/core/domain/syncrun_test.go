package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatus_IsValid(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   bool
	}{
		{RunStatusPending, true},
		{RunStatusRunning, true},
		{RunStatusCompleted, true},
		{RunStatusFailed, true},
		{RunStatus("cancelled"), false},
		{RunStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestRunStatus_IsTerminal(t *testing.T) {
	assert.False(t, RunStatusPending.IsTerminal())
	assert.False(t, RunStatusRunning.IsTerminal())
	assert.True(t, RunStatusCompleted.IsTerminal())
	assert.True(t, RunStatusFailed.IsTerminal())
}

func TestRunCounters_Record(t *testing.T) {
	var c RunCounters
	c.Record(OutcomeNew)
	c.Record(OutcomeNew)
	c.Record(OutcomeUpdated)
	c.Record(OutcomeUnchanged)
	c.Record(OutcomeError)

	assert.Equal(t, RunCounters{Total: 5, New: 2, Updated: 1, Unchanged: 1, Errors: 1}, c)
	assert.True(t, c.Consistent())
}

func TestRunCounters_UnknownOutcomeIsError(t *testing.T) {
	var c RunCounters
	c.Record(RecordOutcome("skipped"))
	assert.Equal(t, RunCounters{Total: 1, Errors: 1}, c)
}

func TestRunCounters_Add(t *testing.T) {
	c := RunCounters{Total: 3, New: 1, Updated: 1, Unchanged: 1}
	c.Add(RunCounters{Total: 2, Unchanged: 1, Errors: 1})
	assert.Equal(t, RunCounters{Total: 5, New: 1, Updated: 1, Unchanged: 2, Errors: 1}, c)
	assert.True(t, c.Consistent())
}

func TestRunCounters_Inconsistent(t *testing.T) {
	c := RunCounters{Total: 3, New: 1}
	assert.False(t, c.Consistent())
}

func TestSyncRun_Lifecycle_Completed(t *testing.T) {
	run := NewSyncRun("run-1", "/data/permits.json")
	assert.Equal(t, RunStatusPending, run.Status)
	assert.Equal(t, RunCounters{}, run.Counters)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, run.Start(start))
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, start, run.StartedAt)
	assert.Nil(t, run.FinishedAt)
	assert.Zero(t, run.Duration())

	end := start.Add(90 * time.Second)
	require.NoError(t, run.Complete(end))
	assert.Equal(t, RunStatusCompleted, run.Status)
	require.NotNil(t, run.FinishedAt)
	assert.Equal(t, end, *run.FinishedAt)
	assert.Empty(t, run.ErrorMessage)
	assert.Equal(t, 90*time.Second, run.Duration())
}

func TestSyncRun_Lifecycle_Failed(t *testing.T) {
	run := NewSyncRun("run-1", "permits.json")
	require.NoError(t, run.Start(time.Now()))

	require.NoError(t, run.Fail(time.Now(), errors.New("disk on fire")))
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "disk on fire", run.ErrorMessage)
}

func TestSyncRun_FailNilCause(t *testing.T) {
	run := NewSyncRun("run-1", "permits.json")
	require.NoError(t, run.Start(time.Now()))

	require.NoError(t, run.Fail(time.Now(), nil))
	assert.Equal(t, "unknown error", run.ErrorMessage)
}

func TestSyncRun_InvalidTransitions(t *testing.T) {
	t.Run("complete before start", func(t *testing.T) {
		run := NewSyncRun("run-1", "x")
		err := run.Complete(time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("start twice", func(t *testing.T) {
		run := NewSyncRun("run-1", "x")
		require.NoError(t, run.Start(time.Now()))
		assert.ErrorIs(t, run.Start(time.Now()), ErrInvalidTransition)
	})

	t.Run("fail after complete", func(t *testing.T) {
		run := NewSyncRun("run-1", "x")
		require.NoError(t, run.Start(time.Now()))
		require.NoError(t, run.Complete(time.Now()))
		assert.ErrorIs(t, run.Fail(time.Now(), errors.New("late")), ErrInvalidTransition)
		assert.Equal(t, RunStatusCompleted, run.Status)
	})
}

func TestSyncRun_Clone(t *testing.T) {
	run := NewSyncRun("run-1", "x")
	require.NoError(t, run.Start(time.Now()))
	require.NoError(t, run.Complete(time.Now()))

	clone := run.Clone()
	assert.Equal(t, run, clone)

	*clone.FinishedAt = clone.FinishedAt.Add(time.Hour)
	clone.Counters.Total = 99
	assert.NotEqual(t, *run.FinishedAt, *clone.FinishedAt)
	assert.Zero(t, run.Counters.Total)
}
