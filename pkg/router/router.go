// Package router is a small method-aware HTTP router with wildcard path
// segments and colored request logging, enough for the run API without
// pulling in a framework.
package router

import (
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type route struct {
	method   string
	segments []string // path split on "/", "*" matches one segment, trailing "*" matches the rest
	handler  http.HandlerFunc
}

// Router dispatches requests to the first registered route whose method and
// pattern match. Registration order is match order, so register specific
// routes before generic ones.
type Router struct {
	routes []route
}

func New() *Router {
	return &Router{}
}

// Handle registers a handler for method and pattern.
func (r *Router) Handle(method, pattern string, handler http.HandlerFunc) {
	r.routes = append(r.routes, route{
		method:   method,
		segments: splitPath(pattern),
		handler:  handler,
	})
}

func (r *Router) GET(pattern string, h http.HandlerFunc)    { r.Handle(http.MethodGet, pattern, h) }
func (r *Router) POST(pattern string, h http.HandlerFunc)   { r.Handle(http.MethodPost, pattern, h) }
func (r *Router) DELETE(pattern string, h http.HandlerFunc) { r.Handle(http.MethodDelete, pattern, h) }

// ServeHTTP implements http.Handler with request logging around dispatch.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

	handler, methodMismatch := r.lookup(req.Method, req.URL.Path)
	switch {
	case handler != nil:
		handler(sw, req)
	case methodMismatch:
		http.Error(sw, "Method Not Allowed", http.StatusMethodNotAllowed)
	default:
		http.Error(sw, "Not Found", http.StatusNotFound)
	}

	log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
		colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
		methodColor(req.Method), req.Method, colorReset,
		req.URL.Path,
		statusColor(sw.status), sw.status, colorReset,
		colorBlue, time.Since(start), colorReset,
	)
}

// lookup returns the first matching handler. The second return is true when
// some route matched the path but not the method.
func (r *Router) lookup(method, path string) (http.HandlerFunc, bool) {
	segments := splitPath(path)
	pathMatched := false
	for _, rt := range r.routes {
		if !matchSegments(rt.segments, segments) {
			continue
		}
		if rt.method == method {
			return rt.handler, false
		}
		pathMatched = true
	}
	return nil, pathMatched
}

// Start runs the HTTP server on addr.
func (r *Router) Start(addr string) {
	log.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
	log.Fatal(http.ListenAndServe(addr, r))
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

// matchSegments matches a request path against a route pattern. "*" matches
// exactly one segment; a trailing "*" matches one or more remaining segments.
func matchSegments(pattern, path []string) bool {
	for i, seg := range pattern {
		last := i == len(pattern)-1
		if seg == "*" && last {
			return len(path) > i
		}
		if i >= len(path) {
			return false
		}
		if seg != "*" && seg != path[i] {
			return false
		}
	}
	return len(path) == len(pattern)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}
