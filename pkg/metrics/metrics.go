// Package metrics owns the Prometheus registry served on /metrics. Every
// collector lives under the "nepkart" namespace: infrastructure timings
// here, checkout and inventory counters in shop.go.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "nepkart"

// Registry is what Handler serves. It is separate from the prometheus
// default registry so tests see only nepkart collectors plus runtime ones.
var Registry = prometheus.NewRegistry()

func counter(subsystem, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help})
}

func counterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

func histogramVec(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

var (
	DBQueryDuration = histogramVec("db", "query_duration_seconds",
		"Duration of database queries by operation.",
		[]float64{.001, .005, .01, .025, .05, .1, .5, 1}, "operation")

	QueueJobs = counterVec("queue", "jobs_processed_total",
		"Queue jobs processed, by job type and outcome.", "job_type", "status")
	QueueJobDuration = histogramVec("queue", "job_duration_seconds",
		"Time spent handling a queue job including retries.",
		prometheus.DefBuckets, "job_type")

	CacheLookups = counterVec("cache", "lookups_total",
		"Product cache lookups by result.", "result")
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		DBQueryDuration, QueueJobs, QueueJobDuration, CacheLookups,
	)
}

// MustRegister adds collectors owned by other packages.
func MustRegister(c ...prometheus.Collector) {
	Registry.MustRegister(c...)
}

// ObserveDBQuery records the time since start for a gorm operation.
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordQueueJob records one finished job; status is "success" or "failed".
func RecordQueueJob(jobType, status string, start time.Time) {
	QueueJobs.WithLabelValues(jobType, status).Inc()
	QueueJobDuration.WithLabelValues(jobType).Observe(time.Since(start).Seconds())
}

// RecordCacheLookup counts a hit or a miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(result).Inc()
}
