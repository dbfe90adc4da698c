package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gea",
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Total number of catalog import rows broken down by layout and outcome.",
	}, []string{"layout", "outcome"})

	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gea",
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Total number of external case sync runs broken down by result.",
	}, []string{"result"})

	syncRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gea",
		Subsystem: "sync",
		Name:      "records_total",
		Help:      "Total number of external case records broken down by outcome.",
	}, []string{"outcome"})

	casesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gea",
		Subsystem: "case",
		Name:      "completed_total",
		Help:      "Total number of cases transitioned to COMPLETED by the bulk action.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gea",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests broken down by method and status code.",
	}, []string{"method", "code"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gea",
		Subsystem: "http",
		Name:      "latency_seconds",
		Help:      "Latency distribution for HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func RecordImportRow(layout, outcome string) {
	importRows.WithLabelValues(layout, outcome).Inc()
}

func RecordSyncRun(ok bool) {
	result := "failed"
	if ok {
		result = "succeeded"
	}
	syncRuns.WithLabelValues(result).Inc()
}

func RecordSyncRecord(outcome string) {
	syncRecords.WithLabelValues(outcome).Inc()
}

func RecordCasesCompleted(n int) {
	if n <= 0 {
		return
	}
	casesCompleted.Add(float64(n))
}

func RecordHTTPRequest(method string, status int, latency time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method).Observe(latency.Seconds())
}
