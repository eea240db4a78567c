package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const slowRequestThreshold = 1 * time.Second

// RouteMetrics aggregates request counts and timings for one route
type RouteMetrics struct {
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	Count      int64         `json:"count"`
	ErrorCount int64         `json:"errorCount"`
	TotalTime  time.Duration `json:"totalTime"`
	AvgTime    time.Duration `json:"avgTime"`
	MaxTime    time.Duration `json:"maxTime"`
}

// MetricsCollector keeps per-route request metrics in memory. Recording is
// best-effort and must never slow a request down.
type MetricsCollector struct {
	mu     sync.RWMutex
	routes map[string]*RouteMetrics
}

var globalMetrics = &MetricsCollector{routes: map[string]*RouteMetrics{}}

// GetMetrics returns the process-wide metrics collector
func GetMetrics() *MetricsCollector {
	return globalMetrics
}

func (mc *MetricsCollector) record(method, path string, status int, duration time.Duration) {
	key := method + " " + path

	mc.mu.Lock()
	defer mc.mu.Unlock()

	m, ok := mc.routes[key]
	if !ok {
		m = &RouteMetrics{Method: method, Path: path}
		mc.routes[key] = m
	}
	m.Count++
	m.TotalTime += duration
	m.AvgTime = m.TotalTime / time.Duration(m.Count)
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
	if status >= 400 {
		m.ErrorCount++
	}
}

// Summary returns a copy of the per-route metrics
func (mc *MetricsCollector) Summary() []RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	out := make([]RouteMetrics, 0, len(mc.routes))
	for _, m := range mc.routes {
		out = append(out, *m)
	}
	return out
}

// MetricsSummaryHandler serves the in-memory route metrics
func MetricsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(GetMetrics().Summary())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write(b)
}

// MetricsMiddleware tracks request status and timing, and logs slow requests
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		GetMetrics().record(r.Method, routePattern(r), wrapped.statusCode, duration)

		if duration > slowRequestThreshold {
			zap.S().Warnw("Slow request detected",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", duration,
				"status", wrapped.statusCode)
		}
	})
}

// routePattern prefers the mux route template over the raw path so IDs do
// not explode the metric cardinality.
func routePattern(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack keeps connection upgrades working through the wrapper
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
}
