package convert

import (
	"context"
	"errors"
	"testing"

	"excelerate/internal/logging"
)

// recordingGuard denies the first denials reservations and records the chunk
// size of every request it sees.
type recordingGuard struct {
	denials int
	seen    []int
}

func (g *recordingGuard) Reserve(rows, cols int) bool {
	g.seen = append(g.seen, rows)
	if g.denials > 0 {
		g.denials--
		return false
	}
	return true
}

func TestConvertWithRetryHalvesChunkSize(t *testing.T) {
	guard := &recordingGuard{denials: 2}
	converter := NewChunkedConverter(guard)
	job := newTestJob(t, "id,name\n1,ann\n2,bob\n", ',', 8000)

	result := ConvertWithRetry(context.Background(), converter, job, 3, logging.NewConsole())
	if result.Status != StatusOK {
		t.Fatalf("status = %v, err = %v", result.Status, result.Err)
	}

	// First reservation per attempt carries that attempt's chunk size.
	if len(guard.seen) < 3 || guard.seen[0] != 8000 || guard.seen[1] != 4000 || guard.seen[2] != 2000 {
		t.Errorf("chunk size sequence = %v, want 8000, 4000, 2000", guard.seen)
	}
	if job.ChunkSize != 2000 {
		t.Errorf("final chunk size = %d, want 2000", job.ChunkSize)
	}
}

func TestConvertWithRetryExhaustsBudget(t *testing.T) {
	converter := NewChunkedConverter(guardFunc(func(rows, cols int) bool { return false }))
	job := newTestJob(t, "id,name\n1,ann\n", ',', 8000)

	result := ConvertWithRetry(context.Background(), converter, job, 3, logging.NewConsole())
	if result.Status != StatusFatal {
		t.Fatalf("status = %v, want StatusFatal", result.Status)
	}
	if !errors.Is(result.Err, ErrRetryExhausted) {
		t.Fatalf("err = %v, want ErrRetryExhausted", result.Err)
	}
}

func TestConvertWithRetryFloorsChunkSize(t *testing.T) {
	converter := NewChunkedConverter(guardFunc(func(rows, cols int) bool { return false }))
	job := newTestJob(t, "id,name\n1,ann\n", ',', 600)

	ConvertWithRetry(context.Background(), converter, job, 3, logging.NewConsole())
	if job.ChunkSize != MinChunkSize {
		t.Errorf("chunk size = %d, want floor %d", job.ChunkSize, MinChunkSize)
	}
}

func TestConvertWithRetryFatalAbortsImmediately(t *testing.T) {
	guard := &recordingGuard{}
	converter := NewChunkedConverter(guard)
	job := newTestJob(t, "id,name\n1,ann\n", ',', 8000)
	job.Source.Path += ".absent"

	result := ConvertWithRetry(context.Background(), converter, job, 3, logging.NewConsole())
	if result.Status != StatusFatal {
		t.Fatalf("status = %v, want StatusFatal", result.Status)
	}
	if errors.Is(result.Err, ErrRetryExhausted) {
		t.Fatal("fatal error should not be reported as retry exhaustion")
	}
	if job.ChunkSize != 8000 {
		t.Errorf("chunk size changed on fatal result: %d", job.ChunkSize)
	}
}

func TestConvertWithRetryDefaultsAttempts(t *testing.T) {
	guard := &recordingGuard{denials: 100}
	converter := NewChunkedConverter(guard)
	job := newTestJob(t, "id,name\n1,ann\n", ',', 8000)

	result := ConvertWithRetry(context.Background(), converter, job, 0, logging.NewConsole())
	if !errors.Is(result.Err, ErrRetryExhausted) {
		t.Fatalf("err = %v, want ErrRetryExhausted", result.Err)
	}
	if len(guard.seen) != DefaultRetryAttempts {
		t.Errorf("attempts = %d, want %d", len(guard.seen), DefaultRetryAttempts)
	}
}
