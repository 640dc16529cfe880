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
	runsTotal             atomic.Uint64
	residentsPlannedTotal atomic.Uint64
	residentsSkippedTotal atomic.Uint64
	targetErrorsTotal     atomic.Uint64
	adjustedTotal         atomic.Uint64
	complianceFailsTotal  atomic.Uint64

	runDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncRuns increments the pipeline run counter.
func IncRuns() {
	runsTotal.Add(1)
}

// AddPlanned adds to the planned-residents counter.
func AddPlanned(n int) {
	residentsPlannedTotal.Add(uint64(n))
}

// AddSkipped adds to the skipped-residents counter.
func AddSkipped(n int) {
	residentsSkippedTotal.Add(uint64(n))
}

// AddTargetErrors adds to the target-error counter.
func AddTargetErrors(n int) {
	targetErrorsTotal.Add(uint64(n))
}

// AddAdjusted adds to the adjusted-meals counter.
func AddAdjusted(n int) {
	adjustedTotal.Add(uint64(n))
}

// AddComplianceFailures adds to the failed-nutrient counter.
func AddComplianceFailures(n int) {
	complianceFailsTotal.Add(uint64(n))
}

// ObserveRunDurationMs records a pipeline run duration in milliseconds.
func ObserveRunDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	runDuration.Observe(value)
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
	writeCounter(&buf, "mealplan_runs_total", "Total pipeline runs", runsTotal.Load())
	writeCounter(&buf, "mealplan_residents_planned_total", "Residents with a generated plan", residentsPlannedTotal.Load())
	writeCounter(&buf, "mealplan_residents_skipped_total", "Residents without a plan", residentsSkippedTotal.Load())
	writeCounter(&buf, "mealplan_target_errors_total", "Residents whose targets could not be computed", targetErrorsTotal.Load())
	writeCounter(&buf, "mealplan_adjusted_total", "Meals rescaled by the quantity adjuster", adjustedTotal.Load())
	writeCounter(&buf, "compliance_failures_total", "Nutrients failing the standard", complianceFailsTotal.Load())
	writeHistogram(&buf, "mealplan_run_duration_ms", "Pipeline run duration in milliseconds", runDuration.Snapshot())
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

// Observe counts value in the first bucket whose bound holds it.
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

// writeHistogram emits cumulative buckets; counts are stored per bucket.
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

// SinceMillis returns the elapsed milliseconds since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
