package pipeline

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStatsConcurrentRecording(t *testing.T) {
	const files = 500
	const workers = 8

	stats := NewStats()
	stats.SetTotal(files)

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				path := fmt.Sprintf("file_%03d.csv", i)
				if i%5 == 0 {
					stats.RecordFailure(path, "validation failed", time.Millisecond)
				} else {
					stats.RecordSuccess(path, time.Millisecond)
				}
			}
		}()
	}
	for i := 0; i < files; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := stats.Snapshot()
	if summary.TotalFiles != files {
		t.Errorf("total = %d, want %d", summary.TotalFiles, files)
	}
	if summary.SuccessCount+summary.FailureCount != files {
		t.Errorf("success %d + failure %d != %d", summary.SuccessCount, summary.FailureCount, files)
	}
	if summary.FailureCount != files/5 {
		t.Errorf("failures = %d, want %d", summary.FailureCount, files/5)
	}
	if len(summary.TimePerFile) != files {
		t.Errorf("timings for %d files, want %d", len(summary.TimePerFile), files)
	}
	if len(summary.Errors) != files/5 {
		t.Errorf("error entries = %d, want %d", len(summary.Errors), files/5)
	}
}

func TestStatsSnapshotIsACopy(t *testing.T) {
	stats := NewStats()
	stats.RecordFailure("a.csv", "validation failed", time.Second)

	summary := stats.Snapshot()
	summary.Errors["a.csv"] = "mutated"
	summary.TimePerFile["a.csv"] = 0

	fresh := stats.Snapshot()
	if fresh.Errors["a.csv"] != "validation failed" {
		t.Error("snapshot mutation leaked into the ledger")
	}
	if fresh.TimePerFile["a.csv"] != time.Second {
		t.Error("timing mutation leaked into the ledger")
	}
}
