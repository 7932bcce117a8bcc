package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWorkbookPath(t *testing.T) {
	om := NewOutputManager("/data/out")
	now := time.Date(2026, 8, 25, 15, 4, 5, 0, time.UTC)

	got := om.WorkbookPath("/data/in/report.csv", now)
	want := filepath.Join("/data/out", "report_20260825150405.xlsx")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// No extension on the source still produces a clean name.
	got = om.WorkbookPath("/data/in/report", now)
	want = filepath.Join("/data/out", "report_20260825150405.xlsx")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnsureOutputDirExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "excelerate")
	om := NewOutputManager(dir)

	if err := om.EnsureOutputDirExists(); err != nil {
		t.Fatalf("EnsureOutputDirExists: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("output dir missing: %v", err)
	}

	// Idempotent on an existing directory.
	if err := om.EnsureOutputDirExists(); err != nil {
		t.Fatalf("second EnsureOutputDirExists: %v", err)
	}
}

func TestFileType(t *testing.T) {
	om := NewOutputManager("")
	tests := map[string]string{
		"a.csv":      "csv",
		"b.XLSX":     "excel",
		"c.xls":      "excel",
		"log.txt":    "text",
		"history.db": "database",
		"archive":    "unknown",
	}
	for name, want := range tests {
		if got := om.FileType(name); got != want {
			t.Errorf("FileType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDownloadURL(t *testing.T) {
	om := NewOutputManager("/data/out")
	got := om.DownloadURL("run-1", "/data/out/report_20260825150405.xlsx")
	want := "/api/v1/download/run-1/report_20260825150405.xlsx"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("12345"), 0644); err != nil {
		t.Fatal(err)
	}

	om := NewOutputManager("")
	size, err := om.FileSize(path)
	if err != nil {
		t.Fatalf("FileSize: %v", err)
	}
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
	if _, err := om.FileSize(path + ".absent"); err == nil {
		t.Error("expected error for missing file")
	}
}
