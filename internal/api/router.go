// Package api wires the HTTP surface of the conversion service: run
// management endpoints, workbook downloads, and the swagger UI.
package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "excelerate/docs"
	"excelerate/internal/api/handler"
	"excelerate/pkg/router"
)

// NewRouter creates the router with all API routes registered.
func NewRouter() *router.Router {
	r := router.New()
	RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts every endpoint. Specific patterns go before the
// generic run route because the router matches in registration order.
func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/runs", handler.CreateRun)
	r.GET("/api/v1/runs", handler.ListRuns)
	r.GET("/api/v1/runs/*/files", handler.GetRunFiles)
	r.GET("/api/v1/runs/*/errors", handler.GetRunErrors)
	r.GET("/api/v1/runs/*", handler.GetRun)
	r.GET("/api/v1/download/*/*", handler.DownloadFile)
	r.GET("/swagger/*", httpSwagger.WrapHandler)
}
