package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	reportStartedTotal   atomic.Uint64
	reportCompletedTotal atomic.Uint64
	reportFailedTotal    atomic.Uint64

	reportJobsReceived             atomic.Uint64
	reportJobsCompleted            atomic.Uint64
	reportJobsFailed               atomic.Uint64
	reportJobsDeletedUnrecoverable atomic.Uint64

	bulkSessionsStartedTotal   atomic.Uint64
	bulkSessionsCompletedTotal atomic.Uint64
	bulkItemsCompletedTotal    atomic.Uint64
	bulkItemsFailedTotal       atomic.Uint64
	bulkRankingFallbackTotal   atomic.Uint64

	reportDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncReportStarted increments the started counter.
func IncReportStarted() {
	reportStartedTotal.Add(1)
}

// IncReportCompleted increments the completed counter.
func IncReportCompleted() {
	reportCompletedTotal.Add(1)
}

// IncReportFailed increments the failed counter.
func IncReportFailed() {
	reportFailedTotal.Add(1)
}

// IncReportJobsReceived increments the queue-jobs-received counter.
func IncReportJobsReceived() {
	reportJobsReceived.Add(1)
}

// IncReportJobsCompleted increments the queue-jobs-completed counter.
func IncReportJobsCompleted() {
	reportJobsCompleted.Add(1)
}

// IncReportJobsFailed increments the queue-jobs-failed counter.
func IncReportJobsFailed() {
	reportJobsFailed.Add(1)
}

// IncReportJobsDeletedUnrecoverable counts poison messages deleted without processing.
func IncReportJobsDeletedUnrecoverable() {
	reportJobsDeletedUnrecoverable.Add(1)
}

// IncBulkSessionStarted increments the bulk sessions started counter.
func IncBulkSessionStarted() {
	bulkSessionsStartedTotal.Add(1)
}

// IncBulkSessionCompleted increments the bulk sessions completed counter.
func IncBulkSessionCompleted() {
	bulkSessionsCompletedTotal.Add(1)
}

// IncBulkItemCompleted increments the bulk items completed counter.
func IncBulkItemCompleted() {
	bulkItemsCompletedTotal.Add(1)
}

// IncBulkItemFailed increments the bulk items failed counter.
func IncBulkItemFailed() {
	bulkItemsFailedTotal.Add(1)
}

// IncBulkRankingFallback increments the deterministic-ranking fallback counter.
func IncBulkRankingFallback() {
	bulkRankingFallbackTotal.Add(1)
}

// ObserveReportDurationMs records a diligence report duration in milliseconds.
func ObserveReportDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	reportDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "diligence_report_started_total", "Total diligence reports started", reportStartedTotal.Load())
	writeCounter(&buf, "diligence_report_completed_total", "Total diligence reports completed", reportCompletedTotal.Load())
	writeCounter(&buf, "diligence_report_failed_total", "Total diligence reports failed", reportFailedTotal.Load())
	writeCounter(&buf, "diligence_report_jobs_received_total", "Total diligence report queue jobs received", reportJobsReceived.Load())
	writeCounter(&buf, "diligence_report_jobs_completed_total", "Total diligence report queue jobs completed", reportJobsCompleted.Load())
	writeCounter(&buf, "diligence_report_jobs_failed_total", "Total diligence report queue jobs failed", reportJobsFailed.Load())
	writeCounter(&buf, "diligence_report_jobs_deleted_unrecoverable_total", "Total poison queue messages deleted", reportJobsDeletedUnrecoverable.Load())
	writeCounter(&buf, "bulk_sessions_started_total", "Total bulk diligence sessions started", bulkSessionsStartedTotal.Load())
	writeCounter(&buf, "bulk_sessions_completed_total", "Total bulk diligence sessions completed", bulkSessionsCompletedTotal.Load())
	writeCounter(&buf, "bulk_items_completed_total", "Total bulk items analyzed successfully", bulkItemsCompletedTotal.Load())
	writeCounter(&buf, "bulk_items_failed_total", "Total bulk items that failed analysis", bulkItemsFailedTotal.Load())
	writeCounter(&buf, "bulk_ranking_fallback_total", "Total bulk sessions ranked by the local fallback", bulkRankingFallbackTotal.Load())
	writeHistogram(&buf, "diligence_report_duration_ms", "Diligence report duration in milliseconds", reportDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
