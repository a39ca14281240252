package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics: counter in-process untuk service riwayat
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	AnalysesSaved      uint64
	AnalysesDeleted    uint64
	ExportsTotal       uint64
	ReportsRendered    uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementSaved catat satu record riwayat tersimpan
func IncrementSaved() {
	atomic.AddUint64(&globalMetrics.AnalysesSaved, 1)
}

// IncrementDeleted catat n record terhapus
func IncrementDeleted(n int) {
	atomic.AddUint64(&globalMetrics.AnalysesDeleted, uint64(n))
}

// IncrementExports catat satu bundle ekspor dibuat
func IncrementExports() {
	atomic.AddUint64(&globalMetrics.ExportsTotal, 1)
}

// IncrementReports catat satu laporan HTML dirender
func IncrementReports() {
	atomic.AddUint64(&globalMetrics.ReportsRendered, 1)
}

// GetMetrics snapshot semua counter + statistik runtime
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"analyses_saved":       atomic.LoadUint64(&globalMetrics.AnalysesSaved),
		"analyses_deleted":     atomic.LoadUint64(&globalMetrics.AnalysesDeleted),
		"exports_total":        atomic.LoadUint64(&globalMetrics.ExportsTotal),
		"reports_rendered":     atomic.LoadUint64(&globalMetrics.ReportsRendered),
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware hitung request masuk dan hasilnya
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
		atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
		defer atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler expose counter sebagai JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
