// Package pipeline orchestrates a conversion run: file discovery, a bounded
// worker pool converting one file per job, and the shared stats ledger.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"excelerate/internal/convert"
	"excelerate/internal/logging"
	"excelerate/internal/model"
	"excelerate/internal/store"
	"excelerate/pkg/utils"
)

// DefaultOutputDirName is the output subdirectory created under the base
// directory when the spec does not name one.
const DefaultOutputDirName = "excelerate"

// Run executes one batch conversion run. Files are dispatched to the pool
// in discovery order and may complete in any order; every discovered file
// records exactly one terminal outcome in stats before Run returns. A
// single file's failure never aborts its siblings.
func Run(ctx context.Context, runID string, spec model.RunSpec, log *logging.Logger, stats *Stats) error {
	start := time.Now()
	log.Info("🚀 Starting conversion run %s", runID)
	store.UpdateRunStatus(runID, "running")

	outputDirName := spec.OutputDirName
	if outputDirName == "" {
		outputDirName = DefaultOutputDirName
	}
	om := utils.NewOutputManager(filepath.Join(spec.BaseDir, outputDirName))
	if err := om.EnsureOutputDirExists(); err != nil {
		store.UpdateRunStatus(runID, "failed")
		store.SaveRunError(runID, err)
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	files, err := Discover(spec.BaseDir, spec.FilePrefix, outputDirName)
	if err != nil {
		store.UpdateRunStatus(runID, "failed")
		store.SaveRunError(runID, err)
		return fmt.Errorf("file discovery failed: %w", err)
	}

	stats.SetTotal(len(files))
	log.Info("🔍 Found %d files to process", len(files))

	// One chunk size for the whole run, from memory available right now.
	// Each job shrinks its own copy on retry.
	chunkSize := spec.ChunkSize
	if chunkSize <= 0 {
		chunkSize = convert.InitialChunkSize(utils.AvailableMemoryMB())
	}
	workers := spec.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log.Info("⚙️ Workers: %d, initial chunk size: %d rows", workers, chunkSize)

	converter := convert.NewChunkedConverter(nil)
	jobs := make(chan string)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			for path := range jobs {
				processFile(ctx, workerID, runID, path, om, converter, chunkSize, spec.RetryAttempts, log, stats)
			}
		}(i + 1)
	}

dispatch:
	for i, path := range files {
		select {
		case jobs <- path:
		case <-ctx.Done():
			// Undispatched files still need a terminal outcome.
			for _, rest := range files[i:] {
				stats.RecordFailure(rest, "run cancelled", 0)
				store.SaveFileResult(runID, model.FileResult{SourcePath: rest, Error: "run cancelled"})
			}
			log.Warn("⚠️ Run %s cancelled, %d files not dispatched", runID, len(files)-i)
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	store.UpdateRunStatus(runID, "completed")
	store.SaveRunSummary(runID, stats.Snapshot())
	log.Info("🏁 Run %s completed in %v", runID, time.Since(start).Round(time.Millisecond))
	return nil
}

// processFile handles one file end to end and records exactly one terminal
// outcome, whatever happens inside the conversion.
func processFile(
	ctx context.Context,
	workerID int,
	runID string,
	path string,
	om *utils.OutputManager,
	converter *convert.ChunkedConverter,
	chunkSize int,
	retryAttempts int,
	log *logging.Logger,
	stats *Stats,
) {
	start := time.Now()
	log.Info("➡️ Worker %d processing: %s", workerID, path)

	outputPath, err := convertOne(ctx, path, om, converter, chunkSize, retryAttempts, log)
	elapsed := time.Since(start)

	result := model.FileResult{SourcePath: path, Duration: elapsed}
	if err != nil {
		stats.RecordFailure(path, err.Error(), elapsed)
		result.Error = err.Error()
		log.Error("❌ Failed: %s (%v)", path, err)
	} else {
		stats.RecordSuccess(path, elapsed)
		result.Success = true
		result.OutputPath = outputPath
		log.Info("✅ Converted %s -> %s in %.2fs", path, filepath.Base(outputPath), elapsed.Seconds())
	}

	if err := store.SaveFileResult(runID, result); err != nil {
		log.Warn("⚠️ Could not persist result for %s: %v", path, err)
	}
}

// convertOne runs detector, validator and the retry-wrapped converter for a
// single file. A panic anywhere inside is converted to an "unexpected
// error" failure at this boundary, so the worker survives and the job still
// terminates with one recorded outcome.
func convertOne(
	ctx context.Context,
	path string,
	om *utils.OutputManager,
	converter *convert.ChunkedConverter,
	chunkSize int,
	retryAttempts int,
	log *logging.Logger,
) (outputPath string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error: %v", r)
		}
	}()

	delimiter, err := convert.DetectDelimiter(path)
	if err != nil {
		return "", err
	}

	if err := convert.ValidateSample(path, delimiter); err != nil {
		log.Warn("⚠️ %v: %s", err, path)
		return "", convert.ErrInvalidFile
	}

	job := &model.ConversionJob{
		Source:     model.SourceFile{Path: path, Delimiter: delimiter},
		OutputPath: om.WorkbookPath(path, time.Now()),
		ChunkSize:  chunkSize,
	}

	result := convert.ConvertWithRetry(ctx, converter, job, retryAttempts, log)
	if result.Status != convert.StatusOK {
		// A partial artifact is a failed artifact.
		os.Remove(job.OutputPath)
		return "", result.Err
	}
	return job.OutputPath, nil
}
