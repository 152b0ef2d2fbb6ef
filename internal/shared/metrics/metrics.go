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
	summariesTotal     atomic.Uint64
	questionsTotal     atomic.Uint64
	oracleFailedTotal  atomic.Uint64
	transcriptStaleTot atomic.Uint64

	oracleDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncSummaries increments the completed-summaries counter.
func IncSummaries() {
	summariesTotal.Add(1)
}

// IncQuestions increments the answered-questions counter.
func IncQuestions() {
	questionsTotal.Add(1)
}

// IncOracleFailed increments the failed-oracle-call counter.
func IncOracleFailed() {
	oracleFailedTotal.Add(1)
}

// IncTranscriptStale counts answers returned without a persisted transcript turn.
func IncTranscriptStale() {
	transcriptStaleTot.Add(1)
}

// ObserveOracleDurationMs records an oracle call duration in milliseconds.
func ObserveOracleDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	oracleDuration.Observe(value)
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
	writeCounter(&buf, "summaries_total", "Total summaries completed", summariesTotal.Load())
	writeCounter(&buf, "questions_total", "Total questions answered", questionsTotal.Load())
	writeCounter(&buf, "oracle_failed_total", "Total failed oracle calls", oracleFailedTotal.Load())
	writeCounter(&buf, "transcript_stale_total", "Total answers returned without a persisted turn", transcriptStaleTot.Load())
	writeHistogram(&buf, "oracle_duration_ms", "Oracle call duration in milliseconds", oracleDuration.Snapshot())
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
	counts := make([]uint64, len(h.counts))
	copy(counts, h.counts)
	buckets := make([]float64, len(h.buckets))
	copy(buckets, h.buckets)
	return histogramSnapshot{
		buckets: buckets,
		counts:  counts,
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
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=%q} %d\n", name, strconv.FormatFloat(bound, 'f', -1, 64), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %g\n", name, snap.sum)
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}
