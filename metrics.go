package simidx

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    recordHistogram   prometheus.Histogram
//	    classifyHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRecord(count int, d time.Duration, err error) {
//	    p.recordHistogram.Observe(d.Seconds())
//	    // ... record error state, count, etc.
//	}
type MetricsCollector interface {
	// RecordRecord is called after each RECORD invocation. count is the
	// number of requests in the batch, d is the total time taken, err is
	// nil if successful.
	RecordRecord(count int, d time.Duration, err error)

	// RecordClassify is called after each CLASSIFY invocation. queries is
	// the number of queries in the batch, candidates is the number of
	// items that survived filtering, d is the total time taken, err is
	// nil if successful.
	RecordClassify(queries, candidates int, d time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRecord(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordClassify(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RecordCount        atomic.Int64
	RecordItems        atomic.Int64
	RecordErrors       atomic.Int64
	RecordTotalNanos   atomic.Int64
	ClassifyCount      atomic.Int64
	ClassifyQueries    atomic.Int64
	ClassifyCandidates atomic.Int64
	ClassifyErrors     atomic.Int64
	ClassifyTotalNanos atomic.Int64
}

// RecordRecord implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRecord(count int, d time.Duration, err error) {
	b.RecordCount.Add(1)
	b.RecordItems.Add(int64(count))
	b.RecordTotalNanos.Add(d.Nanoseconds())
	if err != nil {
		b.RecordErrors.Add(1)
	}
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(queries, candidates int, d time.Duration, err error) {
	b.ClassifyCount.Add(1)
	b.ClassifyQueries.Add(int64(queries))
	b.ClassifyCandidates.Add(int64(candidates))
	b.ClassifyTotalNanos.Add(d.Nanoseconds())
	if err != nil {
		b.ClassifyErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RecordCount:        b.RecordCount.Load(),
		RecordItems:        b.RecordItems.Load(),
		RecordErrors:       b.RecordErrors.Load(),
		RecordAvgNanos:     b.avgNanos(b.RecordTotalNanos.Load(), b.RecordCount.Load()),
		ClassifyCount:      b.ClassifyCount.Load(),
		ClassifyQueries:    b.ClassifyQueries.Load(),
		ClassifyCandidates: b.ClassifyCandidates.Load(),
		ClassifyErrors:     b.ClassifyErrors.Load(),
		ClassifyAvgNanos:   b.avgNanos(b.ClassifyTotalNanos.Load(), b.ClassifyCount.Load()),
	}
}

func (b *BasicMetricsCollector) avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RecordCount        int64
	RecordItems        int64
	RecordErrors       int64
	RecordAvgNanos     int64
	ClassifyCount      int64
	ClassifyQueries    int64
	ClassifyCandidates int64
	ClassifyErrors     int64
	ClassifyAvgNanos   int64
}
