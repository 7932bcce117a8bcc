package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Timestamp layout for output workbook names: sortable, second resolution.
const outputTimestampLayout = "20060102150405"

// OutputManager handles the conversion output directory and workbook naming.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates an output manager rooted at baseOutputDir.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// EnsureOutputDirExists creates the output directory if it is missing.
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}

// WorkbookPath derives the output path for a source CSV file:
// <basename-without-extension>_<timestamp>.xlsx inside the output directory.
func (om *OutputManager) WorkbookPath(sourcePath string, now time.Time) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := fmt.Sprintf("%s_%s.xlsx", stem, now.Format(outputTimestampLayout))
	return filepath.Join(om.BaseOutputDir, name)
}

// LogPath returns the run log location inside the output directory.
func (om *OutputManager) LogPath() string {
	return filepath.Join(om.BaseOutputDir, "excelerate_log.txt")
}

// HistoryDBPath returns the run-history SQLite database location.
func (om *OutputManager) HistoryDBPath() string {
	return filepath.Join(om.BaseOutputDir, "excelerate.db")
}

// DownloadURL generates the API download URL for a converted workbook.
func (om *OutputManager) DownloadURL(runID, fileName string) string {
	return fmt.Sprintf("/api/v1/download/%s/%s", runID, filepath.Base(fileName))
}

// FileType classifies a file by extension for the API file listing.
func (om *OutputManager) FileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".xlsx", ".xls":
		return "excel"
	case ".txt":
		return "text"
	case ".db":
		return "database"
	default:
		return "unknown"
	}
}

// FileSize returns the size of a file in bytes.
func (om *OutputManager) FileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}
