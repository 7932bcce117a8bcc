package pipeline

import (
	"sort"
	"sync"
	"time"

	"excelerate/internal/logging"
	"excelerate/internal/model"
	"excelerate/pkg/utils"
)

// Stats is the run-wide ledger of per-file outcomes. It is the only state
// shared across workers: every mutation goes through the mutex, and the
// final read happens after all workers have joined. It is passed by
// reference into the orchestrator, never kept as package-level state.
type Stats struct {
	mu           sync.Mutex
	totalFiles   int
	successCount int
	failureCount int
	timePerFile  map[string]time.Duration
	errors       map[string]string
}

// NewStats creates an empty stats collector.
func NewStats() *Stats {
	return &Stats{
		timePerFile: make(map[string]time.Duration),
		errors:      make(map[string]string),
	}
}

// SetTotal records the number of discovered files, once at run start.
func (s *Stats) SetTotal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalFiles = n
}

// RecordSuccess records one file's terminal success and its elapsed time.
func (s *Stats) RecordSuccess(path string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successCount++
	s.timePerFile[path] = elapsed
}

// RecordFailure records one file's terminal failure, its reason, and its
// elapsed time.
func (s *Stats) RecordFailure(path, reason string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failureCount++
	s.errors[path] = reason
	s.timePerFile[path] = elapsed
}

// Snapshot returns a copy of the ledger for the API and for assertions.
func (s *Stats) Snapshot() model.RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := model.RunSummary{
		TotalFiles:   s.totalFiles,
		SuccessCount: s.successCount,
		FailureCount: s.failureCount,
		TimePerFile:  make(map[string]time.Duration, len(s.timePerFile)),
		Errors:       make(map[string]string, len(s.errors)),
	}
	for path, elapsed := range s.timePerFile {
		summary.TimePerFile[path] = elapsed
	}
	for path, reason := range s.errors {
		summary.Errors[path] = reason
	}
	return summary
}

// LogSummary renders the final human-readable report: totals, every failed
// file with its reason, per-file timings, and a system memory snapshot.
func (s *Stats) LogSummary(log *logging.Logger) {
	summary := s.Snapshot()

	log.Info("📋 Processing Summary:")
	log.Info("Total files processed: %d", summary.TotalFiles)
	log.Info("Successful conversions: %d", summary.SuccessCount)
	log.Info("Failed conversions: %d", summary.FailureCount)

	for _, path := range sortedKeys(summary.Errors) {
		log.Info("  - Failed file: %s, Error: %s", path, summary.Errors[path])
	}
	for _, path := range sortedKeys(summary.TimePerFile) {
		log.Info("  - File: %s, Time taken: %.2f seconds", path, summary.TimePerFile[path].Seconds())
	}
	log.Info("%s", utils.MemorySnapshot())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
