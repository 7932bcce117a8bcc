package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"excelerate/internal/logging"
	"excelerate/internal/model"
	"excelerate/internal/pipeline"
	"excelerate/internal/store"
	"excelerate/pkg/utils"
)

// CreateRun starts a new batch conversion run
// @Summary Start a conversion run
// @Description Discover CSV files under the base directory and convert each to a workbook
// @Tags runs
// @Accept json
// @Produce json
// @Param run body model.RunSpec true "Run configuration"
// @Success 200 {object} map[string]interface{} "Run started"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func CreateRun(w http.ResponseWriter, r *http.Request) {
	var spec model.RunSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if spec.BaseDir == "" {
		http.Error(w, "baseDir is required", http.StatusBadRequest)
		return
	}
	if _, err := os.Stat(spec.BaseDir); err != nil {
		http.Error(w, "baseDir does not exist", http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	go func() {
		outputDirName := spec.OutputDirName
		if outputDirName == "" {
			outputDirName = pipeline.DefaultOutputDirName
		}
		om := utils.NewOutputManager(filepath.Join(spec.BaseDir, outputDirName))
		if err := om.EnsureOutputDirExists(); err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
			return
		}

		log := logging.New(om.LogPath())
		defer log.Close()

		stats := pipeline.NewStats()
		defer stats.LogSummary(log)

		if err := pipeline.Run(context.Background(), runID, spec, log, stats); err != nil {
			log.Error("Critical error in run %s: %v", runID, err)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Conversion run started",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListRuns retrieves all conversion runs
// @Summary List runs
// @Description Get all conversion runs with their current status
// @Tags runs
// @Produce json
// @Success 200 {array} map[string]interface{} "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetRun retrieves one run's spec, status and summary
// @Summary Get run
// @Description Retrieve details of a specific conversion run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func GetRun(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetRunFiles retrieves per-file outcomes for a run
// @Summary Get run files
// @Description Retrieve the per-file conversion results of a run, with download links for converted workbooks
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "File results"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/files [get]
func GetRunFiles(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	results, err := store.GetFileResults(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve file results", http.StatusInternalServerError)
		return
	}

	om := utils.NewOutputManager("")
	files := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		entry := map[string]interface{}{
			"source_path": res.SourcePath,
			"success":     res.Success,
			"duration_ms": res.Duration.Milliseconds(),
		}
		if res.Error != "" {
			entry["error"] = res.Error
		}
		if res.Success && res.OutputPath != "" {
			entry["output_path"] = res.OutputPath
			entry["file_type"] = om.FileType(res.OutputPath)
			entry["download_url"] = om.DownloadURL(runID, res.OutputPath)
			if size, err := om.FileSize(res.OutputPath); err == nil {
				entry["size_bytes"] = size
			}
		}
		files = append(files, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"files":  files,
		"count":  len(files),
	})
}

// GetRunErrors retrieves run-level errors
// @Summary Get run errors
// @Description Retrieve errors that occurred outside per-file conversion (discovery, setup)
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/errors [get]
func GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// DownloadFile serves a converted workbook
// @Summary Download workbook
// @Description Download a converted workbook produced by a run
// @Tags files
// @Produce application/octet-stream
// @Param runID path string true "Run ID"
// @Param filename path string true "Workbook file name"
// @Success 200 {file} file "File download"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{runID}/{filename} [get]
func DownloadFile(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	fileName := pathSegment(r, 4)
	if runID == "" || fileName == "" {
		http.Error(w, "Run ID and file name are required", http.StatusBadRequest)
		return
	}

	// Only files the run actually produced are served.
	results, err := store.GetFileResults(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	var filePath string
	for _, res := range results {
		if res.Success && filepath.Base(res.OutputPath) == fileName {
			filePath = res.OutputPath
			break
		}
	}
	if filePath == "" {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(filePath); err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}

// pathSegment returns the i-th segment of the request path (0-based after
// trimming slashes), e.g. /api/v1/runs/{id} has the id at index 3.
func pathSegment(r *http.Request, i int) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}
