package cutoffgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus. This is in addition to the per-engine stats the engines keep
// themselves.
type MetricsCollector interface {
	// RecordIngest is called after each ingest operation.
	// count is the number of records attempted, err is nil if successful.
	RecordIngest(count int, duration time.Duration, err error)

	// RecordSearch is called after each record search operation.
	RecordSearch(duration time.Duration, err error)

	// RecordVectorSearch is called after each similarity search operation.
	RecordVectorSearch(duration time.Duration, err error)

	// RecordEmbedding is called after each embedding generation.
	RecordEmbedding(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIngest(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordSearch(time.Duration, error)       {}
func (NoopMetricsCollector) RecordVectorSearch(time.Duration, error) {}
func (NoopMetricsCollector) RecordEmbedding(time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IngestCount            atomic.Int64
	IngestRecords          atomic.Int64
	IngestErrors           atomic.Int64
	IngestTotalNanos       atomic.Int64
	SearchCount            atomic.Int64
	SearchErrors           atomic.Int64
	SearchTotalNanos       atomic.Int64
	VectorSearchCount      atomic.Int64
	VectorSearchErrors     atomic.Int64
	VectorSearchTotalNanos atomic.Int64
	EmbeddingCount         atomic.Int64
	EmbeddingTotalNanos    atomic.Int64
}

// RecordIngest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIngest(count int, duration time.Duration, err error) {
	b.IngestCount.Add(1)
	b.IngestRecords.Add(int64(count))
	b.IngestTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.IngestErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordVectorSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVectorSearch(duration time.Duration, err error) {
	b.VectorSearchCount.Add(1)
	b.VectorSearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.VectorSearchErrors.Add(1)
	}
}

// RecordEmbedding implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmbedding(duration time.Duration, err error) {
	b.EmbeddingCount.Add(1)
	b.EmbeddingTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IngestCount:        b.IngestCount.Load(),
		IngestRecords:      b.IngestRecords.Load(),
		IngestErrors:       b.IngestErrors.Load(),
		IngestAvgNanos:     avg(b.IngestTotalNanos.Load(), b.IngestCount.Load()),
		SearchCount:        b.SearchCount.Load(),
		SearchErrors:       b.SearchErrors.Load(),
		SearchAvgNanos:     avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		VectorSearchCount:  b.VectorSearchCount.Load(),
		VectorSearchErrors: b.VectorSearchErrors.Load(),
		VectorSearchAvgNanos: avg(
			b.VectorSearchTotalNanos.Load(), b.VectorSearchCount.Load()),
		EmbeddingCount:    b.EmbeddingCount.Load(),
		EmbeddingAvgNanos: avg(b.EmbeddingTotalNanos.Load(), b.EmbeddingCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IngestCount          int64
	IngestRecords        int64
	IngestErrors         int64
	IngestAvgNanos       int64
	SearchCount          int64
	SearchErrors         int64
	SearchAvgNanos       int64
	VectorSearchCount    int64
	VectorSearchErrors   int64
	VectorSearchAvgNanos int64
	EmbeddingCount       int64
	EmbeddingAvgNanos    int64
}
