package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	auditStartedTotal   atomic.Uint64
	auditGeneratedTotal atomic.Uint64

	failedMu    sync.Mutex
	failedByKey = map[string]uint64{}

	extractDuration  = newHistogram([]float64{10, 50, 100, 250, 500, 1000, 2500, 5000})
	generateDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncAuditStarted increments the started counter.
func IncAuditStarted() {
	auditStartedTotal.Add(1)
}

// IncAuditGenerated increments the generated counter.
func IncAuditGenerated() {
	auditGeneratedTotal.Add(1)
}

// IncAuditFailed increments the failure counter for the given failure kind.
func IncAuditFailed(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	failedMu.Lock()
	failedByKey[kind]++
	failedMu.Unlock()
}

// ObserveExtractMs records a document extraction duration in milliseconds.
func ObserveExtractMs(value float64) {
	extractDuration.Observe(clamp(value))
}

// ObserveGenerateMs records a remote generation duration in milliseconds.
func ObserveGenerateMs(value float64) {
	generateDuration.Observe(clamp(value))
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
	writeCounter(&buf, "audit_started_total", "Total audits started", auditStartedTotal.Load())
	writeCounter(&buf, "audit_generated_total", "Total audits that produced feedback", auditGeneratedTotal.Load())
	writeLabeledCounter(&buf, "audit_failed_total", "Total audits rejected or failed, by kind", "kind", failedSnapshot())
	writeHistogram(&buf, "audit_extract_duration_ms", "PDF extraction duration in milliseconds", extractDuration.Snapshot())
	writeHistogram(&buf, "audit_generate_duration_ms", "Remote generation duration in milliseconds", generateDuration.Snapshot())
	return buf.String()
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}

func failedSnapshot() map[string]uint64 {
	failedMu.Lock()
	defer failedMu.Unlock()
	out := make(map[string]uint64, len(failedByKey))
	for k, v := range failedByKey {
		out[k] = v
	}
	return out
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

// Observe counts value into the first bucket whose bound holds it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
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

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
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
