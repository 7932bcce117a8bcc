package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"excelerate/internal/logging"
	"excelerate/internal/model"
)

func writeCSV(t *testing.T, path string, dataRows int) {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("id,name,score\n")
	for i := 1; i <= dataRows; i++ {
		fmt.Fprintf(&sb, "%d,person_%d,%d\n", i, i, i*10)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	base := t.TempDir()
	writeCSV(t, filepath.Join(base, "data_1.csv"), 40)
	writeCSV(t, filepath.Join(base, "data_2.csv"), 5)
	writeCSV(t, filepath.Join(base, "data_3.csv"), 0) // header-only, still valid
	if err := os.WriteFile(filepath.Join(base, "data_bad.csv"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	writeCSV(t, filepath.Join(base, "skip.csv"), 3) // wrong prefix

	spec := model.RunSpec{
		BaseDir:    base,
		FilePrefix: "data_",
		Workers:    2,
		ChunkSize:  10,
	}
	stats := NewStats()

	if err := Run(context.Background(), "test-run", spec, logging.NewConsole(), stats); err != nil {
		t.Fatalf("Run: %v", err)
	}

	summary := stats.Snapshot()
	if summary.TotalFiles != 4 {
		t.Errorf("total = %d, want 4", summary.TotalFiles)
	}
	if summary.SuccessCount != 3 {
		t.Errorf("successes = %d, want 3", summary.SuccessCount)
	}
	if summary.FailureCount != 1 {
		t.Errorf("failures = %d, want 1", summary.FailureCount)
	}
	badPath := filepath.Join(base, "data_bad.csv")
	if reason := summary.Errors[badPath]; reason != "validation failed" {
		t.Errorf("failure reason = %q, want %q", reason, "validation failed")
	}
	if len(summary.TimePerFile) != 4 {
		t.Errorf("timings for %d files, want 4", len(summary.TimePerFile))
	}

	outDir := filepath.Join(base, DefaultOutputDirName)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	workbooks := 0
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".xlsx") {
			workbooks++
		}
	}
	if workbooks != 3 {
		t.Errorf("found %d workbooks, want 3", workbooks)
	}
}

func TestRunEveryFileGetsOneOutcome(t *testing.T) {
	base := t.TempDir()
	for i := 0; i < 12; i++ {
		writeCSV(t, filepath.Join(base, fmt.Sprintf("data_%02d.csv", i)), 3)
	}

	spec := model.RunSpec{BaseDir: base, FilePrefix: "data_", Workers: 4, ChunkSize: 10}
	stats := NewStats()

	if err := Run(context.Background(), "test-run", spec, logging.NewConsole(), stats); err != nil {
		t.Fatalf("Run: %v", err)
	}

	summary := stats.Snapshot()
	if summary.SuccessCount+summary.FailureCount != summary.TotalFiles {
		t.Errorf("outcomes %d+%d do not cover %d files",
			summary.SuccessCount, summary.FailureCount, summary.TotalFiles)
	}
	if summary.TotalFiles != 12 {
		t.Errorf("total = %d, want 12", summary.TotalFiles)
	}
}

func TestRunCancelledBeforeDispatch(t *testing.T) {
	base := t.TempDir()
	for i := 0; i < 6; i++ {
		writeCSV(t, filepath.Join(base, fmt.Sprintf("data_%d.csv", i)), 3)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spec := model.RunSpec{BaseDir: base, FilePrefix: "data_", Workers: 2, ChunkSize: 10}
	stats := NewStats()

	if err := Run(ctx, "test-run", spec, logging.NewConsole(), stats); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Dispatched files fail on the context check inside conversion,
	// undispatched ones are recorded as cancelled. Either way every file
	// terminates and none succeeds.
	summary := stats.Snapshot()
	if summary.SuccessCount != 0 {
		t.Errorf("successes = %d, want 0", summary.SuccessCount)
	}
	if summary.FailureCount != summary.TotalFiles {
		t.Errorf("failures = %d, want %d", summary.FailureCount, summary.TotalFiles)
	}
}

func TestRunBaseDirIsAFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "notadir")
	if err := os.WriteFile(base, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	spec := model.RunSpec{BaseDir: base}
	stats := NewStats()

	if err := Run(context.Background(), "test-run", spec, logging.NewConsole(), stats); err == nil {
		t.Fatal("expected setup error when the base directory is a file")
	}
}
