package cutoffgo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/admitkit/cutoffgo/analytics"
	"github.com/admitkit/cutoffgo/codec"
	"github.com/admitkit/cutoffgo/compress"
	"github.com/admitkit/cutoffgo/record"
	"github.com/admitkit/cutoffgo/resource"
	"github.com/admitkit/cutoffgo/vector"
)

// Re-exported domain types, so boundary callers rarely need the inner
// packages directly.
type (
	CutoffRecord = record.CutoffRecord
	Filter       = record.Filter
	SearchResult = vector.SearchResult
)

// Engine is the boundary adapter over the record store and the similarity
// index. All JSON parsing happens here; the engines only ever see typed
// requests. An Engine is safe for concurrent use: each inner engine
// serializes its own operations, and the two engines are independent of
// each other.
type Engine struct {
	store      *record.Store
	vectors    *vector.Index
	compressor *compress.Processor
	tracker    *resource.Tracker
	codec      codec.Codec
	metrics    MetricsCollector
	logger     *Logger

	ingestedBytes atomic.Int64
}

// New creates an Engine with freshly constructed engines.
func New(optFns ...Option) (*Engine, error) {
	opts := applyOptions(optFns)

	compressor, err := compress.NewProcessor()
	if err != nil {
		return nil, err
	}

	return &Engine{
		store: record.New(func(o *record.Options) {
			o.Parallelism = opts.parallelism
		}),
		vectors: vector.New(func(o *vector.Options) {
			o.Parallelism = opts.parallelism
		}),
		compressor: compressor,
		tracker:    opts.tracker,
		codec:      opts.codec,
		metrics:    opts.metricsCollector,
		logger:     opts.logger,
	}, nil
}

// Store exposes the typed record store.
func (e *Engine) Store() *record.Store { return e.store }

// Vectors exposes the typed similarity index.
func (e *Engine) Vectors() *vector.Index { return e.vectors }

func (e *Engine) ready() error {
	if e == nil || e.store == nil || e.vectors == nil {
		return ErrNotInitialized
	}
	return nil
}

// ProcessCutoffData decodes a JSON array of cutoff records, ingests it, and
// returns the store's entire contents after the append as JSON. A decode
// failure leaves the store unmodified.
func (e *Engine) ProcessCutoffData(ctx context.Context, data []byte) ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	start := time.Now()

	var records []record.CutoffRecord
	if err := e.codec.Unmarshal(data, &records); err != nil {
		return nil, &DecodeError{Payload: "cutoff records", cause: err}
	}

	snapshot, err := e.store.Ingest(ctx, records)
	e.metrics.RecordIngest(len(records), time.Since(start), err)
	e.logger.LogIngest(ctx, len(records), len(snapshot), err)
	if err != nil {
		return nil, translateError(err)
	}

	if e.tracker != nil {
		total := e.ingestedBytes.Add(int64(len(data)))
		_ = e.tracker.Allocate("record_store", total)
	}

	out, err := e.codec.Marshal(snapshot)
	if err != nil {
		return nil, &SerializationError{cause: err}
	}
	return out, nil
}

// SearchCutoffs decodes a JSON filter object, searches the record store,
// and returns at most limit matches as JSON, ordered ascending by opening
// rank.
func (e *Engine) SearchCutoffs(ctx context.Context, filters []byte, limit int) ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	start := time.Now()

	var filter record.Filter
	if err := e.codec.Unmarshal(filters, &filter); err != nil {
		return nil, &DecodeError{Payload: "cutoff filters", cause: err}
	}

	results, err := e.store.Search(ctx, filter, limit)
	e.metrics.RecordSearch(time.Since(start), err)
	e.logger.LogSearch(ctx, limit, len(results), err)
	if err != nil {
		return nil, translateError(err)
	}

	out, err := e.codec.Marshal(results)
	if err != nil {
		return nil, &SerializationError{cause: err}
	}
	return out, nil
}

// AddVector upserts a vector and its metadata into the similarity index.
func (e *Engine) AddVector(ctx context.Context, id string, vec []float32, metadata map[string]string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.vectors.Add(id, vec, metadata)
	return nil
}

// SearchByVector scores every indexed vector against query and returns the
// top matches (id, similarity, metadata) as JSON, in descending similarity
// order.
func (e *Engine) SearchByVector(ctx context.Context, query []float32, limit int) ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	start := time.Now()

	results, err := e.vectors.Search(ctx, query, limit)
	e.metrics.RecordVectorSearch(time.Since(start), err)
	e.logger.LogVectorSearch(ctx, limit, len(results), err)
	if err != nil {
		return nil, translateError(err)
	}

	out, err := e.codec.Marshal(results)
	if err != nil {
		return nil, &SerializationError{cause: err}
	}
	return out, nil
}

// GenerateEmbedding produces the deterministic 384-dimension embedding of
// text.
func (e *Engine) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	embedding := e.vectors.GenerateEmbedding(text)
	e.metrics.RecordEmbedding(time.Since(start), nil)
	e.logger.LogEmbedding(ctx, len(text))

	return embedding, nil
}

// CalculateAnalytics decodes a JSON array of cutoff records and returns the
// distribution/aggregation report as JSON. It never touches stored state.
func (e *Engine) CalculateAnalytics(ctx context.Context, data []byte) ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []record.CutoffRecord
	if err := e.codec.Unmarshal(data, &records); err != nil {
		return nil, &DecodeError{Payload: "cutoff records", cause: err}
	}

	out, err := e.codec.Marshal(analytics.Calculate(records))
	if err != nil {
		return nil, &SerializationError{cause: err}
	}
	return out, nil
}

// CompressLZ4 compresses data with LZ4, pacing through the tracker's IO
// limiter when one is configured.
func (e *Engine) CompressLZ4(ctx context.Context, data []byte) ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := e.tracker.AwaitIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return e.compressor.CompressLZ4(data)
}

// DecompressLZ4 reverses CompressLZ4.
func (e *Engine) DecompressLZ4(ctx context.Context, block []byte) ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := e.tracker.AwaitIO(ctx, len(block)); err != nil {
		return nil, err
	}
	return e.compressor.DecompressLZ4(block)
}

// CompressZstd compresses data with zstd.
func (e *Engine) CompressZstd(ctx context.Context, data []byte) ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := e.tracker.AwaitIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return e.compressor.CompressZstd(data)
}

// DecompressZstd reverses CompressZstd.
func (e *Engine) DecompressZstd(ctx context.Context, block []byte) ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := e.tracker.AwaitIO(ctx, len(block)); err != nil {
		return nil, err
	}
	return e.compressor.DecompressZstd(block)
}

// MemoryUsage returns the usage tracker's snapshot as JSON. Without a
// configured tracker the snapshot is all zeros.
func (e *Engine) MemoryUsage() ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	out, err := e.codec.Marshal(e.tracker.Snapshot())
	if err != nil {
		return nil, &SerializationError{cause: err}
	}
	return out, nil
}

// PerformanceStats returns every component's counters as one JSON object
// with data_processing, vector_search, compression, and memory sections.
func (e *Engine) PerformanceStats() ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	stats := map[string]any{
		"data_processing": e.store.Stats(),
		"vector_search":   e.vectors.Stats(),
		"compression":     e.compressor.Stats(),
		"memory":          e.tracker.Snapshot(),
	}

	out, err := e.codec.Marshal(stats)
	if err != nil {
		return nil, &SerializationError{cause: err}
	}
	return out, nil
}

// Clear resets the record store, the similarity index, and the usage
// tracker. Compression counters survive, matching the narrow clear
// contract of the compression collaborator.
func (e *Engine) Clear(ctx context.Context) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.store.Clear()
	e.vectors.Clear()
	e.ingestedBytes.Store(0)
	if e.tracker != nil {
		e.tracker.Clear()
	}
	e.logger.LogClear(ctx)

	return nil
}

// String implements fmt.Stringer for debugging.
func (e *Engine) String() string {
	if e.ready() != nil {
		return "cutoffgo.Engine(uninitialized)"
	}
	return fmt.Sprintf("cutoffgo.Engine(records=%d, vectors=%d)", e.store.Len(), e.vectors.Len())
}
