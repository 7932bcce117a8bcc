package main

import (
	"flag"
	"log"

	"excelerate/internal/api"
	"excelerate/internal/store"
)

// @title Excelerate API
// @version 1.0
// @description REST API for batch CSV to XLSX conversion runs.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	var (
		addr   = flag.String("addr", ":8080", "address to listen on")
		dbPath = flag.String("db", "excelerate.db", "path to the run history database")
	)
	flag.Parse()

	if err := store.InitDB(*dbPath); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer store.CloseDB()

	api.NewRouter().Start(*addr)
}
