// Package store persists run history to SQLite: run specs and statuses,
// per-file conversion results, and run-level errors. The pipeline works
// without a database attached (every write is a no-op then), which keeps
// one-shot CLI runs and tests free of setup.
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"excelerate/internal/model"
)

var db *sql.DB

// InitDB opens (or creates) the history database and its tables.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		summary TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	fileTable := `
	CREATE TABLE IF NOT EXISTS file_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		source_path TEXT,
		output_path TEXT,
		success INTEGER,
		error_message TEXT,
		duration_ms INTEGER,
		created_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, fileTable, errorTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CloseDB closes the database handle, if one is open.
func CloseDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveRun stores a new conversion run in "pending" state.
func SaveRun(runID string, spec model.RunSpec) error {
	if db == nil {
		return nil
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, specJSON, "pending", now, now)
	return err
}

// UpdateRunStatus updates a run's status.
func UpdateRunStatus(runID, status string) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records a run-level error (discovery failure, setup failure).
func SaveRunError(runID string, runErr error) error {
	if db == nil || runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), now)
	return err
}

// SaveFileResult records one file's terminal outcome.
func SaveFileResult(runID string, result model.FileResult) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO file_results (run_id, source_path, output_path, success, error_message, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, result.SourcePath, result.OutputPath, result.Success, result.Error,
		result.Duration.Milliseconds(), now)
	return err
}

// SaveRunSummary attaches the final summary to a run.
func SaveRunSummary(runID string, summary model.RunSummary) error {
	if db == nil {
		return nil
	}
	summary.RunID = runID
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`UPDATE runs SET summary = ?, updated_at = ? WHERE id = ?`, summaryJSON, now, runID)
	return err
}

// ListRuns returns all runs, newest first, with basic info.
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return runs, rows.Err()
}

// GetRun fetches a run's spec, status and summary (when the run finished).
func GetRun(runID string) (map[string]interface{}, error) {
	var specJSON, status string
	var summaryJSON sql.NullString
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, summary, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&specJSON, &status, &summaryJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.RunSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	run := map[string]interface{}{
		"id":        runID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}
	if summaryJSON.Valid && summaryJSON.String != "" {
		var summary model.RunSummary
		if err := json.Unmarshal([]byte(summaryJSON.String), &summary); err == nil {
			run["summary"] = summary
		}
	}
	return run, nil
}

// GetFileResults returns the per-file outcomes of a run in dispatch order.
func GetFileResults(runID string) ([]model.FileResult, error) {
	rows, err := db.Query(
		`SELECT source_path, output_path, success, error_message, duration_ms
		 FROM file_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.FileResult
	for rows.Next() {
		var r model.FileResult
		var durationMS int64
		if err := rows.Scan(&r.SourcePath, &r.OutputPath, &r.Success, &r.Error, &durationMS); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetRunErrors returns all run-level errors for a run.
func GetRunErrors(runID string) ([]string, error) {
	rows, err := db.Query(`SELECT error_message FROM run_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		errs = append(errs, msg)
	}
	return errs, rows.Err()
}
