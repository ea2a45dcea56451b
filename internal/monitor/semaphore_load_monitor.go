package monitor

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// SemaphoreLoadMonitor implements LoadMonitor using a weighted semaphore.
// It tracks active work by counting acquisitions and releases.
type SemaphoreLoadMonitor struct {
	sem       *semaphore.Weighted
	maxWeight int64
	activeCnt atomic.Int64
}

// NewSemaphoreLoadMonitor creates a new semaphore-based load monitor.
// maxConcurrency is the maximum number of files processed at once; values
// below 1 are clamped to 1.
func NewSemaphoreLoadMonitor(maxConcurrency int64) *SemaphoreLoadMonitor {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	return &SemaphoreLoadMonitor{
		sem:       semaphore.NewWeighted(maxConcurrency),
		maxWeight: maxConcurrency,
	}
}

// GetMetrics returns current load statistics
func (m *SemaphoreLoadMonitor) GetMetrics() LoadMetrics {
	active := m.activeCnt.Load()
	loadPct := 0.0
	if m.maxWeight > 0 {
		loadPct = float64(active) / float64(m.maxWeight) * 100.0
	}

	return LoadMetrics{
		ActiveTasks:    active,
		MaxTasks:       m.maxWeight,
		LoadPercentage: loadPct,
	}
}

// CanAcceptTask returns true if a slot is free right now.
// It uses TryAcquire to check without blocking.
func (m *SemaphoreLoadMonitor) CanAcceptTask() bool {
	if m.sem.TryAcquire(1) {
		// Immediately release since we're just checking
		m.sem.Release(1)
		return true
	}
	return false
}

// Acquire blocks until a slot is free or ctx is done.
// The caller MUST call Release() when the work completes.
func (m *SemaphoreLoadMonitor) Acquire(ctx context.Context) error {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	m.activeCnt.Add(1)
	return nil
}

// TryAcquire attempts to acquire a slot without blocking. Returns true if
// successful. The caller MUST call Release() when the work completes.
func (m *SemaphoreLoadMonitor) TryAcquire() bool {
	if m.sem.TryAcquire(1) {
		m.activeCnt.Add(1)
		return true
	}
	return false
}

// Release releases a slot, allowing another task to run
func (m *SemaphoreLoadMonitor) Release() {
	m.activeCnt.Add(-1)
	m.sem.Release(1)
}

var _ LoadMonitor = (*SemaphoreLoadMonitor)(nil)
