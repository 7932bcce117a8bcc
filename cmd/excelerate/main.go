package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"excelerate/internal/logging"
	"excelerate/internal/model"
	"excelerate/internal/pipeline"
	"excelerate/internal/store"
	"excelerate/pkg/utils"
)

func main() {
	var (
		baseDir   = flag.String("dir", ".", "base directory to scan for CSV files")
		prefix    = flag.String("prefix", "", "only convert files whose name starts with this prefix")
		outDir    = flag.String("out", pipeline.DefaultOutputDirName, "name of the output subdirectory")
		workers   = flag.Int("workers", 0, "number of concurrent workers (0 = number of CPUs)")
		retries   = flag.Int("retries", 0, "retry attempts per file under memory pressure (0 = default)")
		chunkSize = flag.Int("chunk", 0, "rows per chunk (0 = derive from available memory)")
		noHistory = flag.Bool("no-history", false, "skip recording run history to the database")
	)
	flag.Parse()

	absDir, err := filepath.Abs(*baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid directory %q: %v\n", *baseDir, err)
		os.Exit(1)
	}
	if info, err := os.Stat(absDir); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "directory does not exist: %s\n", absDir)
		os.Exit(1)
	}

	spec := model.RunSpec{
		BaseDir:       absDir,
		FilePrefix:    *prefix,
		OutputDirName: *outDir,
		Workers:       *workers,
		RetryAttempts: *retries,
		ChunkSize:     *chunkSize,
	}

	om := utils.NewOutputManager(filepath.Join(absDir, *outDir))
	if err := om.EnsureOutputDirExists(); err != nil {
		fmt.Fprintf(os.Stderr, "cannot create output directory: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(om.LogPath())
	defer log.Close()

	if !*noHistory {
		if err := store.InitDB(om.HistoryDBPath()); err != nil {
			log.Warn("⚠️ Run history disabled: %v", err)
		} else {
			defer store.CloseDB()
		}
	}

	// Ctrl-C cancels dispatch; in-flight files finish and the summary
	// still prints.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.New().String()
	store.SaveRun(runID, spec)

	stats := pipeline.NewStats()
	defer stats.LogSummary(log)

	if err := pipeline.Run(ctx, runID, spec, log, stats); err != nil {
		log.Error("❌ Critical error: %v", err)
	}
}
