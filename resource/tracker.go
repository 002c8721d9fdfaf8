// Package resource provides usage-counter bookkeeping for the engines.
//
// The tracker records labeled allocations and exposes a pressure snapshot.
// It is bookkeeping only; nothing in the engines depends on it for
// correctness. When a hard limit is configured the semaphore makes the
// limit real, and the optional IO limiter can be used to pace large
// payloads through the boundary.
package resource

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrLimitExceeded is returned by Allocate when the hard memory limit would
// be exceeded.
var ErrLimitExceeded = errors.New("memory limit exceeded")

// Config holds tracker limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for tracked memory.
	// If 0, no limit is enforced (tracking only).
	MemoryLimitBytes int64

	// IOLimitBytesPerSec paces AwaitIO callers. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Stats is a snapshot of the tracker's state.
type Stats struct {
	UsedMemory        int64   `json:"used_memory"`
	TotalMemory       int64   `json:"total_memory"`
	AvailableMemory   int64   `json:"available_memory"`
	MemoryPressure    float64 `json:"memory_pressure"`
	AllocationCount   uint64  `json:"allocation_count"`
	DeallocationCount uint64  `json:"deallocation_count"`
	ClearCount        uint64  `json:"clear_count"`
	LastClearTime     float64 `json:"last_clear_time"`
}

// Tracker tracks labeled memory usage.
type Tracker struct {
	cfg Config

	mu          sync.Mutex
	allocations map[string]int64
	used        int64

	allocationCount   uint64
	deallocationCount uint64
	clearCount        uint64
	lastClear         time.Time

	memSem    *semaphore.Weighted // nil if unlimited
	ioLimiter *rate.Limiter       // nil if unlimited
}

// NewTracker creates a tracker with the given limits.
func NewTracker(cfg Config) *Tracker {
	t := &Tracker{
		cfg:         cfg,
		allocations: make(map[string]int64),
	}

	if cfg.MemoryLimitBytes > 0 {
		t.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		t.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return t
}

// Allocate records size bytes under label. A label already present is
// released first, so re-allocating a label replaces rather than stacks.
// With a hard limit configured, Allocate fails without blocking when the
// limit would be exceeded.
func (t *Tracker) Allocate(label string, size int64) error {
	if t == nil || size < 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.allocations[label]; ok {
		t.releaseLocked(prev)
	}

	if t.memSem != nil && size > 0 {
		if !t.memSem.TryAcquire(size) {
			delete(t.allocations, label)
			return ErrLimitExceeded
		}
	}

	t.allocations[label] = size
	t.used += size
	t.allocationCount++
	return nil
}

// Deallocate releases the allocation recorded under label. The second
// return is false when the label is unknown.
func (t *Tracker) Deallocate(label string) (int64, bool) {
	if t == nil {
		return 0, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	size, ok := t.allocations[label]
	if !ok {
		return 0, false
	}

	delete(t.allocations, label)
	t.releaseLocked(size)
	t.deallocationCount++
	return size, true
}

func (t *Tracker) releaseLocked(size int64) {
	if t.memSem != nil && size > 0 {
		t.memSem.Release(size)
	}
	t.used -= size
}

// Snapshot returns the tracker's current state.
func (t *Tracker) Snapshot() Stats {
	if t == nil {
		return Stats{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := Stats{
		UsedMemory:        t.used,
		TotalMemory:       t.cfg.MemoryLimitBytes,
		AllocationCount:   t.allocationCount,
		DeallocationCount: t.deallocationCount,
		ClearCount:        t.clearCount,
	}
	if !t.lastClear.IsZero() {
		s.LastClearTime = float64(t.lastClear.UnixMilli())
	}
	if t.cfg.MemoryLimitBytes > 0 {
		s.AvailableMemory = t.cfg.MemoryLimitBytes - t.used
		s.MemoryPressure = float64(t.used) / float64(t.cfg.MemoryLimitBytes)
	}
	return s
}

// Len returns the number of live labeled allocations.
func (t *Tracker) Len() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.allocations)
}

// Clear drops every allocation and bumps the clear counter.
func (t *Tracker) Clear() {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for label, size := range t.allocations {
		delete(t.allocations, label)
		t.releaseLocked(size)
	}
	t.clearCount++
	t.lastClear = time.Now()
}

// AwaitIO blocks until the IO limiter admits n bytes, or returns the
// context error. A tracker without an IO limit admits immediately.
func (t *Tracker) AwaitIO(ctx context.Context, n int) error {
	if t == nil || t.ioLimiter == nil || n <= 0 {
		return nil
	}
	if n > t.ioLimiter.Burst() {
		n = t.ioLimiter.Burst()
	}
	return t.ioLimiter.WaitN(ctx, n)
}
