// Package observability owns the prometheus collectors shared by the agenda
// components.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	storeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agenda",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Collection loads and saves, labeled by store operation, phase and outcome.",
	}, []string{"operation", "phase", "outcome"})

	storeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agenda",
		Subsystem: "store",
		Name:      "phase_duration_seconds",
		Help:      "Time spent loading or saving the whole activity collection.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"phase"})

	persistedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "agenda",
		Subsystem: "store",
		Name:      "last_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful collection write.",
	})

	collectionSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "agenda",
		Subsystem: "store",
		Name:      "activities",
		Help:      "Number of activities in the collection after the last write.",
	})

	exportsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agenda",
		Subsystem: "export",
		Name:      "documents_total",
		Help:      "Exported documents, labeled by format and outcome.",
	}, []string{"format", "outcome"})

	shareFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "agenda",
		Subsystem: "export",
		Name:      "share_failures_total",
		Help:      "Exports whose best-effort share hand-off failed.",
	})
)

func init() {
	prometheus.MustRegister(storeOperations, storeDuration, persistedGauge, collectionSize, exportsCounter, shareFailures)
}

// ObserveStoreOperation records one load or save performed for operation.
func ObserveStoreOperation(operation, phase string, start time.Time, err error) {
	storeOperations.WithLabelValues(operation, phase, outcome(err)).Inc()
	storeDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

// RecordCollectionPersisted updates the write watermark and collection size.
func RecordCollectionPersisted(ts time.Time, size int) {
	if !ts.IsZero() {
		persistedGauge.Set(float64(ts.Unix()))
	}
	collectionSize.Set(float64(size))
}

// RecordExport counts one export attempt.
func RecordExport(format string, err error) {
	exportsCounter.WithLabelValues(format, outcome(err)).Inc()
}

// RecordShareFailure counts a swallowed share error.
func RecordShareFailure() {
	shareFailures.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
