package driven

import (
	"context"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// BatchHandler consumes one batch of export elements.
// Returning an error aborts ingestion.
type BatchHandler func(ctx context.Context, batch []domain.RawElement) error

// BatchSource streams a bulk export in bounded batches.
type BatchSource interface {
	// Ingest reads the export at ref and calls onBatch for every batch of at most
	// batchSize elements. The next batch is not parsed until onBatch returns.
	// Returns the number of elements seen.
	Ingest(ctx context.Context, ref string, batchSize int, onBatch BatchHandler) (int, error)
}
