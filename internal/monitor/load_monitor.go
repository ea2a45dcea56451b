package monitor

import "context"

// LoadMetrics represents current batch load statistics
type LoadMetrics struct {
	// ActiveTasks is the number of files being processed right now
	ActiveTasks int64
	// MaxTasks is the maximum number of concurrent files allowed
	MaxTasks int64
	// LoadPercentage is the current load as a percentage (0-100)
	LoadPercentage float64
}

// LoadMonitor bounds how many audio files are processed at once and exposes
// usage numbers for logging and readiness checks.
type LoadMonitor interface {
	// GetMetrics returns current load statistics
	GetMetrics() LoadMetrics

	// CanAcceptTask returns true if a slot is free right now
	CanAcceptTask() bool

	// Acquire blocks until a slot is free or ctx is done.
	// The caller MUST call Release() when the work completes.
	Acquire(ctx context.Context) error

	// TryAcquire attempts to acquire a slot without blocking. Returns true
	// if successful. The caller MUST call Release() when the work completes.
	TryAcquire() bool

	// Release releases a slot, allowing another task to run
	Release()
}
