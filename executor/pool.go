package executor

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// PoolOptions configures a Pool.
type PoolOptions struct {
	// PreAlloc allocates the worker queue up front.
	PreAlloc bool

	// Nonblocking makes Submit fail instead of waiting when every worker
	// is busy.
	Nonblocking bool
}

// Pool is a fixed-size ants goroutine pool. It is meant to be created once
// and reused for many runs; Close releases the workers.
//
// Submit and Wait on the Pool itself form a single scope. Concurrent
// callers share the workers through Batch, which tracks their tasks
// separately.
type Pool struct {
	pool *ants.Pool
	def  *poolBatch
}

// NewPool creates a Pool with size workers. A size <= 0 uses
// runtime.GOMAXPROCS(0).
func NewPool(size int, optFns ...func(o *PoolOptions)) (*Pool, error) {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	opts := PoolOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	p, err := ants.NewPool(size,
		ants.WithPreAlloc(opts.PreAlloc),
		ants.WithNonblocking(opts.Nonblocking),
	)
	if err != nil {
		return nil, fmt.Errorf("executor: create pool: %w", err)
	}

	return &Pool{pool: p, def: &poolBatch{pool: p}}, nil
}

// Submit hands task to a pool worker. It returns ErrClosed after Close and
// the ants error when the pool rejects the task.
func (p *Pool) Submit(task func()) error {
	return p.def.Submit(task)
}

// Wait blocks until every task accepted by Submit has finished.
func (p *Pool) Wait() {
	p.def.Wait()
}

// Workers returns the pool capacity.
func (p *Pool) Workers() int {
	return p.pool.Cap()
}

// Batch returns a scope over the shared workers with its own task count
// and panic trap.
func (p *Pool) Batch() Executor {
	return &poolBatch{pool: p.pool}
}

// Close releases the pool workers. Tasks submitted afterwards are rejected.
func (p *Pool) Close() {
	p.pool.Release()
}

type poolBatch struct {
	pool *ants.Pool
	wg   sync.WaitGroup
	trap panicTrap
}

func (b *poolBatch) Submit(task func()) error {
	if b.pool.IsClosed() {
		return ErrClosed
	}

	b.wg.Add(1)
	err := b.pool.Submit(func() {
		defer b.wg.Done()
		defer b.trap.capture()
		task()
	})
	if err != nil {
		b.wg.Done()
		return err
	}

	return nil
}

func (b *poolBatch) Wait() {
	b.wg.Wait()
	b.trap.rethrow()
}

func (b *poolBatch) Workers() int {
	return b.pool.Cap()
}
