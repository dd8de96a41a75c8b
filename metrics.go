package recgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    insertCounter  prometheus.Counter
//	    rangeHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordInsert(duration time.Duration, err error) {
//	    p.insertCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordUpdate is called after each update operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordRemove is called after each remove operation.
	// removed reports whether a record was actually deleted.
	RecordRemove(duration time.Duration, removed bool)

	// RecordRangeQuery is called after each indexed range query.
	// results is the number of records returned.
	RecordRangeQuery(results int, duration time.Duration)

	// RecordPathQuery is called after each shortest-path query.
	// found reports whether a path exists.
	RecordPathQuery(duration time.Duration, found bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)   {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)   {}
func (NoopMetricsCollector) RecordRemove(time.Duration, bool)    {}
func (NoopMetricsCollector) RecordRangeQuery(int, time.Duration) {}
func (NoopMetricsCollector) RecordPathQuery(time.Duration, bool) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	UpdateCount      atomic.Int64
	UpdateErrors     atomic.Int64
	RemoveCount      atomic.Int64
	RemoveMisses     atomic.Int64
	RangeCount       atomic.Int64
	RangeResults     atomic.Int64
	RangeTotalNanos  atomic.Int64
	PathCount        atomic.Int64
	PathNotFound     atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(duration time.Duration, removed bool) {
	b.RemoveCount.Add(1)
	if !removed {
		b.RemoveMisses.Add(1)
	}
}

// RecordRangeQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRangeQuery(results int, duration time.Duration) {
	b.RangeCount.Add(1)
	b.RangeResults.Add(int64(results))
	b.RangeTotalNanos.Add(duration.Nanoseconds())
}

// RecordPathQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPathQuery(duration time.Duration, found bool) {
	b.PathCount.Add(1)
	if !found {
		b.PathNotFound.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		InsertAvgNanos: b.getAvgInsertNanos(),
		UpdateCount:    b.UpdateCount.Load(),
		UpdateErrors:   b.UpdateErrors.Load(),
		RemoveCount:    b.RemoveCount.Load(),
		RemoveMisses:   b.RemoveMisses.Load(),
		RangeCount:     b.RangeCount.Load(),
		RangeResults:   b.RangeResults.Load(),
		RangeAvgNanos:  b.getAvgRangeNanos(),
		PathCount:      b.PathCount.Load(),
		PathNotFound:   b.PathNotFound.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgInsertNanos() int64 {
	count := b.InsertCount.Load()
	if count == 0 {
		return 0
	}
	return b.InsertTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgRangeNanos() int64 {
	count := b.RangeCount.Load()
	if count == 0 {
		return 0
	}
	return b.RangeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount    int64
	InsertErrors   int64
	InsertAvgNanos int64
	UpdateCount    int64
	UpdateErrors   int64
	RemoveCount    int64
	RemoveMisses   int64
	RangeCount     int64
	RangeResults   int64
	RangeAvgNanos  int64
	PathCount      int64
	PathNotFound   int64
}
