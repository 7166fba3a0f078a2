package executor

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Group runs each task on its own goroutine, with at most limit tasks in
// flight at a time.
//
// Submit and Wait on the Group itself form a single scope and must not be
// used by concurrent callers. Concurrent callers each take their own scope
// with Batch.
type Group struct {
	g     errgroup.Group
	limit int
	trap  panicTrap
}

// NewGroup returns a Group. A limit <= 0 uses runtime.GOMAXPROCS(0).
func NewGroup(limit int) *Group {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g := &Group{limit: limit}
	g.g.SetLimit(limit)

	return g
}

// Submit starts task, blocking while limit tasks are already running.
func (g *Group) Submit(task func()) error {
	g.g.Go(func() error {
		defer g.trap.capture()
		task()
		return nil
	})

	return nil
}

// Wait blocks until every submitted task has returned.
func (g *Group) Wait() {
	_ = g.g.Wait()
	g.trap.rethrow()
}

// Workers returns the concurrency limit.
func (g *Group) Workers() int {
	return g.limit
}

// Batch returns a fresh Group with the same limit. The limit applies to
// each batch separately.
func (g *Group) Batch() Executor {
	return NewGroup(g.limit)
}
