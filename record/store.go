package record

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidLimit is returned when a search limit is negative.
var ErrInvalidLimit = errors.New("limit must be non-negative")

// Options contains configuration options for the store.
type Options struct {
	// Parallelism caps the number of goroutines used for the per-record
	// transform step during ingest. <= 0 means GOMAXPROCS.
	Parallelism int
}

// DefaultOptions contains the default configuration options for the store.
var DefaultOptions = Options{
	Parallelism: 0,
}

// Store is the growable collection of cutoff records.
//
// All public operations execute under the store's exclusive guard: only one
// operation is in progress at a time. The store is independent of the
// similarity index; there is no cross-engine ordering guarantee.
type Store struct {
	mu       sync.Mutex
	records  []CutoffRecord
	postings *postings
	counters counters
	opts     Options
}

// New creates a new empty store.
func New(optFns ...func(o *Options)) *Store {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}

	return &Store{
		postings: newPostings(),
		opts:     opts,
	}
}

// Ingest transforms each input record independently, appends the results in
// input order, and returns a copy of the store's entire contents after the
// append. Nothing deduplicates or validates identifier uniqueness.
func (s *Store) Ingest(ctx context.Context, records []CutoffRecord) ([]CutoffRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	transformed, err := s.transformAll(ctx, records)
	if err != nil {
		return nil, err
	}

	base := uint32(len(s.records))
	s.records = append(s.records, transformed...)
	for i := range transformed {
		s.postings.add(base+uint32(i), &transformed[i])
	}

	s.counters.recordsProcessed += uint64(len(records))
	s.counters.ingestCalls++
	s.counters.ingestTotalNanos += time.Since(start).Nanoseconds()

	return s.snapshotLocked(), nil
}

// Search evaluates the filter against every stored record and returns the
// survivors sorted ascending by opening rank, truncated to limit. Records
// with equal opening rank keep their relative store order (stable sort).
// A limit of 0 returns an empty result.
func (s *Store) Search(ctx context.Context, filter Filter, limit int) ([]CutoffRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []CutoffRecord
	if cands, ok := s.postings.candidates(filter); ok {
		it := cands.Iterator()
		for it.HasNext() {
			r := &s.records[it.Next()]
			if filter.Matches(r) {
				matched = append(matched, *r)
			}
		}
	} else {
		for i := range s.records {
			if filter.Matches(&s.records[i]) {
				matched = append(matched, s.records[i])
			}
		}
	}

	// Equal opening ranks must keep store order, so the sort has to be
	// stable here.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OpeningRank < matched[j].OpeningRank
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	if matched == nil {
		matched = []CutoffRecord{}
	}

	s.counters.searches++
	s.counters.searchTotalNanos += time.Since(start).Nanoseconds()

	return matched, nil
}

// Snapshot returns a copy of the store's current contents in append order.
func (s *Store) Snapshot() []CutoffRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []CutoffRecord {
	out := make([]CutoffRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// Stats returns a snapshot of the store's performance counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		TotalRecordsProcessed:  s.counters.recordsProcessed,
		TotalSearchesPerformed: s.counters.searches,
		AverageProcessingTime:  s.counters.averageIngestMillis(),
		AverageSearchTime:      s.counters.averageSearchMillis(),
		TotalRecordsIndexed:    uint64(len(s.records)),
	}
}

// Clear removes all records and resets every counter to zero.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.postings.clear()
	s.counters.reset()
}

// transformAll applies the per-record transform as an order-preserving
// parallel map: work is scattered across goroutines but each result lands
// at its input position, so the observable append order never changes.
func (s *Store) transformAll(ctx context.Context, in []CutoffRecord) ([]CutoffRecord, error) {
	out := make([]CutoffRecord, len(in))

	if len(in) < parallelTransformThreshold || s.opts.Parallelism <= 1 {
		for i := range in {
			out[i] = transformRecord(&in[i])
		}
		return out, nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallelism)

	chunk := (len(in) + s.opts.Parallelism - 1) / s.opts.Parallelism
	for lo := 0; lo < len(in); lo += chunk {
		lo := lo
		hi := min(lo+chunk, len(in))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out[i] = transformRecord(&in[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// parallelTransformThreshold is the batch size below which scattering work
// across goroutines costs more than it saves.
const parallelTransformThreshold = 256

// transformRecord is the per-record normalization seam. It is a pure
// function of a single record and must stay side-effect free so the
// parallel map above remains safe. Today it is the identity map.
func transformRecord(r *CutoffRecord) CutoffRecord {
	return *r
}
