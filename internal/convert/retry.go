package convert

import (
	"context"
	"errors"

	"excelerate/internal/logging"
	"excelerate/internal/model"
)

const (
	// DefaultRetryAttempts is the per-file budget for memory-pressure retries.
	DefaultRetryAttempts = 3

	// MinChunkSize is the floor chunk halving never goes below.
	MinChunkSize = 500
)

// ErrRetryExhausted is the terminal failure after the retry budget is spent.
var ErrRetryExhausted = errors.New("exceeded retry attempts")

// ConvertWithRetry wraps the chunked converter with the memory-pressure
// retry loop. On resource exhaustion the job's chunk size is halved (floored
// at MinChunkSize) and the whole file is converted again from the start;
// chunk-level resumption is not supported, so a retry discards the previous
// attempt's partial output. Fatal results abort immediately without retry.
func ConvertWithRetry(
	ctx context.Context,
	converter *ChunkedConverter,
	job *model.ConversionJob,
	attempts int,
	log *logging.Logger,
) Result {
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		result := converter.Convert(ctx, job)
		if result.Status != StatusResourceExhausted {
			return result
		}

		next := job.ChunkSize / 2
		if next < MinChunkSize {
			next = MinChunkSize
		}
		log.Warn("⚠️ Memory pressure on %s: reducing chunk size %d -> %d (attempt %d/%d)",
			job.Source.Path, job.ChunkSize, next, attempt, attempts)
		job.ChunkSize = next
	}

	return fatal(ErrRetryExhausted)
}
