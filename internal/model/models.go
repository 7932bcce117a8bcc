package model

import "time"

// RunSpec defines a single batch conversion run.
type RunSpec struct {
	BaseDir       string `json:"baseDir"`       // root directory to scan for CSV files
	FilePrefix    string `json:"filePrefix"`    // required filename prefix ("" matches everything)
	OutputDirName string `json:"outputDirName"` // output subdirectory under BaseDir
	Workers       int    `json:"workers"`       // worker pool size (0 = logical CPU count)
	RetryAttempts int    `json:"retryAttempts"` // retry budget for memory-pressure failures (0 = default 3)
	ChunkSize     int    `json:"chunkSize"`     // initial rows per chunk (0 = size from available memory)
}

// SourceFile is one discovered CSV file after delimiter detection.
type SourceFile struct {
	Path      string `json:"path"`
	Delimiter rune   `json:"delimiter"`
}

// ConversionJob binds a source file to its output workbook path. ChunkSize
// is the job's own copy and shrinks on retry; the run-wide starting value
// is never touched.
type ConversionJob struct {
	Source     SourceFile `json:"source"`
	OutputPath string     `json:"outputPath"`
	ChunkSize  int        `json:"chunkSize"`
}

// FileResult is the terminal outcome of one file's conversion job.
type FileResult struct {
	SourcePath string        `json:"source_path"`
	OutputPath string        `json:"output_path,omitempty"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// RunSummary aggregates a finished run for the API and the final report.
type RunSummary struct {
	RunID        string                   `json:"run_id"`
	TotalFiles   int                      `json:"total_files"`
	SuccessCount int                      `json:"success_count"`
	FailureCount int                      `json:"failure_count"`
	TimePerFile  map[string]time.Duration `json:"time_per_file"`
	Errors       map[string]string        `json:"errors"`
}
