package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	compileStartedTotal   atomic.Uint64
	compileSucceededTotal atomic.Uint64
	compileFailedTotal    atomic.Uint64
	atsScoredTotal        atomic.Uint64
	atsFailedTotal        atomic.Uint64

	compileDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncCompileStarted counts a compile handed to the compiler.
func IncCompileStarted() {
	compileStartedTotal.Add(1)
}

// IncCompileSucceeded counts a compile that produced a PDF.
func IncCompileSucceeded() {
	compileSucceededTotal.Add(1)
}

// IncCompileFailed counts a compile that ended in a compiler error.
func IncCompileFailed() {
	compileFailedTotal.Add(1)
}

// IncATSScored counts a successful ATS score.
func IncATSScored() {
	atsScoredTotal.Add(1)
}

// IncATSFailed counts an ATS request that failed upstream.
func IncATSFailed() {
	atsFailedTotal.Add(1)
}

// ObserveCompileDuration records a compile's wall time.
func ObserveCompileDuration(d time.Duration) {
	value := float64(d.Microseconds()) / 1000.0
	if value < 0 {
		value = 0
	}
	compileDuration.Observe(value)
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
	writeCounter(&buf, "compile_started_total", "Total LaTeX compiles started", compileStartedTotal.Load())
	writeCounter(&buf, "compile_succeeded_total", "Total LaTeX compiles that produced a PDF", compileSucceededTotal.Load())
	writeCounter(&buf, "compile_failed_total", "Total LaTeX compiles that failed", compileFailedTotal.Load())
	writeCounter(&buf, "ats_scored_total", "Total ATS scores returned", atsScoredTotal.Load())
	writeCounter(&buf, "ats_failed_total", "Total ATS requests that failed", atsFailedTotal.Load())
	writeHistogram(&buf, "compile_duration_ms", "Compile duration in milliseconds", compileDuration.Snapshot())
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
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
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
