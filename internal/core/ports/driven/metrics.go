package driven

import (
	"time"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// SyncMetrics receives pipeline instrumentation. Optional.
type SyncMetrics interface {
	// RecordOutcome counts one processed record.
	RecordOutcome(outcome domain.RecordOutcome)

	// BatchProcessed observes one completed batch.
	BatchProcessed(size int, elapsed time.Duration)

	// RunFinished observes a finalized run.
	RunFinished(status domain.RunStatus, elapsed time.Duration)
}
