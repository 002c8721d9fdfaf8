// Package vector implements the brute-force similarity index: vector
// upsert, ranked cosine search, and the deterministic text embedding
// generator.
package vector

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/admitkit/cutoffgo/metric"
)

// ErrInvalidLimit is returned when a search limit is negative.
var ErrInvalidLimit = errors.New("limit must be non-negative")

// SearchResult is one scored entry of a similarity search.
type SearchResult struct {
	ID         string            `json:"id"`
	Similarity float32           `json:"similarity"`
	Metadata   map[string]string `json:"metadata"`
}

// Options contains configuration options for the index.
type Options struct {
	// Parallelism caps the number of goroutines used to score vectors
	// during search. <= 0 means GOMAXPROCS.
	Parallelism int
}

// DefaultOptions contains the default configuration options for the index.
var DefaultOptions = Options{
	Parallelism: 0,
}

// Index maps record identifiers to embedding vectors and a side-table of
// string metadata. Search is intentionally exact: every stored vector is
// scored against the query.
//
// The index does not enforce a common vector length; similarity between
// vectors of differing length is defined to be 0, not an error.
type Index struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	metadata map[string]map[string]string
	counters counters
	opts     Options
}

// New creates a new empty index.
func New(optFns ...func(o *Options)) *Index {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}

	return &Index{
		vectors:  make(map[string][]float32),
		metadata: make(map[string]map[string]string),
		opts:     opts,
	}
}

// Add upserts a vector and its metadata under id. An existing entry is
// silently replaced: no merge, no versioning, no error. The indexed
// counter increments on every call, overwrites included; that counting
// behavior is deliberate.
func (ix *Index) Add(id string, vec []float32, md map[string]string) {
	v := make([]float32, len(vec))
	copy(v, vec)

	m := make(map[string]string, len(md))
	for k, val := range md {
		m[k] = val
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.vectors[id] = v
	ix.metadata[id] = m
	ix.counters.vectorsIndexed++
}

// Len returns the number of distinct identifiers in the index.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	return len(ix.vectors)
}

// Search scores every stored vector against query with cosine similarity
// and returns the top results in descending order, truncated to limit.
//
// Identifiers are scanned in sorted order before scoring, so equal scores
// (including any NaN pair, which the comparator treats as equal) break
// ascending by identifier. A limit of 0 returns an empty result.
func (ix *Index) Search(ctx context.Context, query []float32, limit int) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	start := time.Now()

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ids := make([]string, 0, len(ix.vectors))
	for id := range ix.vectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]SearchResult, len(ids))
	ix.scoreAll(ctx, query, ids, results)

	// NaN never orders before anything under >, so a pathological score
	// degrades to "equal" instead of corrupting the sort.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}

	ix.counters.searches++
	ix.counters.searchTotalNanos += time.Since(start).Nanoseconds()

	return results, nil
}

// scoreAll fills results[i] with the score for ids[i]. Each pair's score is
// independent, so large indexes are scored in parallel with an
// index-addressed gather; order is fixed by position, never by completion.
func (ix *Index) scoreAll(ctx context.Context, query []float32, ids []string, results []SearchResult) {
	if len(ids) < parallelScoreThreshold || ix.opts.Parallelism <= 1 {
		for i, id := range ids {
			results[i] = ix.score(query, id)
		}
		return
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(ix.opts.Parallelism)

	chunk := (len(ids) + ix.opts.Parallelism - 1) / ix.opts.Parallelism
	for lo := 0; lo < len(ids); lo += chunk {
		lo := lo
		hi := min(lo+chunk, len(ids))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				results[i] = ix.score(query, ids[i])
			}
			return nil
		})
	}

	_ = g.Wait()
}

func (ix *Index) score(query []float32, id string) SearchResult {
	md := make(map[string]string, len(ix.metadata[id]))
	for k, v := range ix.metadata[id] {
		md[k] = v
	}

	return SearchResult{
		ID:         id,
		Similarity: metric.CosineSimilarity(query, ix.vectors[id]),
		Metadata:   md,
	}
}

// parallelScoreThreshold is the index size below which parallel scoring
// costs more than it saves.
const parallelScoreThreshold = 2048

// Stats returns a snapshot of the index's performance counters.
func (ix *Index) Stats() Stats {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	return Stats{
		TotalSearches:            ix.counters.searches,
		TotalEmbeddingsGenerated: ix.counters.embeddings,
		AverageSearchTime:        ix.counters.averageSearchMillis(),
		AverageEmbeddingTime:     ix.counters.averageEmbeddingMillis(),
		TotalVectorsIndexed:      ix.counters.vectorsIndexed,
	}
}

// Clear removes all vectors and metadata and resets every counter to zero.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.vectors = make(map[string][]float32)
	ix.metadata = make(map[string]map[string]string)
	ix.counters.reset()
}
