package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrMemoryLimitExceeded is returned when a reservation would exceed the memory limit.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

	// ErrRunLimitExceeded is returned when every run slot is taken.
	ErrRunLimitExceeded = errors.New("concurrent run limit exceeded")
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for reserved scratch memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxConcurrentRuns is the maximum number of clustering runs in flight.
	// If 0, runs are not limited.
	MaxConcurrentRuns int64
}

// Controller manages resources shared by clustering runs.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Concurrency
	runSem *semaphore.Weighted // nil if unlimited
	active atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.MaxConcurrentRuns > 0 {
		c.runSem = semaphore.NewWeighted(cfg.MaxConcurrentRuns)
	}

	return c
}

// AcquireMemory reserves memory, blocking until it is available or ctx is
// canceled. Clustering runs never block; this is for callers that budget
// their own work against the same Controller.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves memory without blocking.
// Returns ErrMemoryLimitExceeded if the limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if bytes > c.cfg.MemoryLimitBytes || !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved memory in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireRun reserves a run slot, blocking until one is free or ctx is
// canceled. Like AcquireMemory, it serves callers that manage their own
// budget; clustering runs take slots through Reserve.
func (c *Controller) AcquireRun(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if c.runSem != nil {
		if err := c.runSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}

	c.active.Add(1)
	return nil
}

// TryAcquireRun reserves a run slot without blocking.
// Returns ErrRunLimitExceeded if every slot is taken.
func (c *Controller) TryAcquireRun() error {
	if c == nil {
		return nil
	}

	if c.runSem != nil && !c.runSem.TryAcquire(1) {
		return ErrRunLimitExceeded
	}

	c.active.Add(1)
	return nil
}

// ReleaseRun releases a run slot.
func (c *Controller) ReleaseRun() {
	if c == nil {
		return
	}

	if c.runSem != nil {
		c.runSem.Release(1)
	}
	c.active.Add(-1)
}

// ActiveRuns returns the number of runs currently holding a slot.
func (c *Controller) ActiveRuns() int64 {
	if c == nil {
		return 0
	}
	return c.active.Load()
}

// Reserve takes a run slot and bytes of memory without blocking. On
// success it returns a function that releases both.
func (c *Controller) Reserve(bytes int64) (func(), error) {
	if err := c.TryAcquireRun(); err != nil {
		return nil, err
	}

	if err := c.TryAcquireMemory(bytes); err != nil {
		c.ReleaseRun()
		return nil, err
	}

	return func() {
		c.ReleaseMemory(bytes)
		c.ReleaseRun()
	}, nil
}
