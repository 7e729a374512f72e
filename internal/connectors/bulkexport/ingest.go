package bulkexport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
	"github.com/jasonbrettpreston/buildo-sub002/internal/logger"
)

// DefaultBufferSize is the parser read buffer size.
const DefaultBufferSize = 64 * 1024

// Ensure Source implements the interface.
var _ driven.BatchSource = (*Source)(nil)

// Source is a driven.BatchSource over export files on the local filesystem.
type Source struct {
	bufferSize int
}

// New creates a file-backed batch source.
func New() *Source {
	return &Source{bufferSize: DefaultBufferSize}
}

// WithBufferSize sets the parser read buffer size. Values < 1 are ignored.
func (s *Source) WithBufferSize(n int) *Source {
	if n > 0 {
		s.bufferSize = n
	}
	return s
}

// Ingest streams the export file at path. See IngestReader.
func (s *Source) Ingest(ctx context.Context, path string, batchSize int, onBatch driven.BatchHandler) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	return IngestReader(ctx, bufio.NewReaderSize(f, s.bufferSize), batchSize, s.bufferSize, onBatch)
}

// IngestFile streams the export file at path with the default buffer size.
func IngestFile(ctx context.Context, path string, batchSize int, onBatch driven.BatchHandler) (int, error) {
	return New().Ingest(ctx, path, batchSize, onBatch)
}

// IngestReader parses a single top-level JSON array from r without
// materialising it, handing elements to onBatch in batches of batchSize.
//
// Parsing is suspended while onBatch runs, so at most one batch of elements
// is held at a time. A trailing partial batch is flushed at end of stream;
// an empty one is not. The returned count equals the sum of all batch sizes.
//
// Malformed input fails with domain.ErrMalformedExport. An error from
// onBatch aborts the stream and is returned wrapped. Cancellation of ctx is
// observed between batches only.
func IngestReader(
	ctx context.Context,
	r io.Reader,
	batchSize int,
	bufferSize int,
	onBatch driven.BatchHandler,
) (int, error) {
	if batchSize < 1 {
		return 0, fmt.Errorf("%w: batch size must be positive, got %d", domain.ErrInvalidInput, batchSize)
	}
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	iter := jsoniter.Parse(jsoniter.ConfigCompatibleWithStandardLibrary, r, bufferSize)
	if next := iter.WhatIsNext(); next != jsoniter.ArrayValue {
		return 0, malformed(iter.Error, "root element is not an array")
	}

	var (
		total   int
		batches int
		batch   = make([]domain.RawElement, 0, batchSize)
	)

	flush := func() error {
		batches++
		logger.Debug("Flushing batch %d (%d records)", batches, len(batch))
		if err := onBatch(ctx, batch); err != nil {
			return fmt.Errorf("batch %d: %w", batches, err)
		}
		batch = make([]domain.RawElement, 0, batchSize)
		return nil
	}

	for iter.ReadArray() {
		elem := iter.SkipAndReturnBytes()
		if iter.Error != nil {
			return total, malformed(iter.Error, fmt.Sprintf("element %d", total))
		}

		batch = append(batch, domain.RawElement(elem))
		total++

		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
			if err := ctx.Err(); err != nil {
				return total, err
			}
		}
	}

	// ReadArray stops on the closing bracket with no error; any error here,
	// io.EOF included, means the array was never closed.
	if iter.Error != nil {
		return total, malformed(iter.Error, "unterminated array")
	}
	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue || !errors.Is(iter.Error, io.EOF) {
		return total, malformed(nil, "trailing data after array")
	}

	if len(batch) > 0 {
		if err := flush(); err != nil {
			return total, err
		}
	}

	logger.Debug("Ingested %d records in %d batches", total, batches)
	return total, nil
}

func malformed(cause error, msg string) error {
	if cause != nil && !errors.Is(cause, io.EOF) {
		return fmt.Errorf("%w: %s: %v", domain.ErrMalformedExport, msg, cause)
	}
	return fmt.Errorf("%w: %s", domain.ErrMalformedExport, msg)
}
