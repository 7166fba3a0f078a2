package executor

import (
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Submit after the executor has been closed.
var ErrClosed = errors.New("executor: closed")

// Executor runs units of work and waits for them.
type Executor interface {
	// Submit schedules task. A non-nil error means the task was not
	// accepted and will not run.
	Submit(task func()) error

	// Wait blocks until every accepted task has finished. If a task
	// panicked, Wait re-panics on the calling goroutine.
	Wait()
}

// Sizer is implemented by executors that know how many tasks they can run
// at once.
type Sizer interface {
	Workers() int
}

// Batcher is implemented by executors that can be shared by concurrent
// callers. Batch returns an Executor whose Wait only covers tasks submitted
// through it, so independent runs never wait on or receive panics from each
// other.
type Batcher interface {
	Batch() Executor
}

// Scope returns exec.Batch() when exec implements Batcher, and exec
// otherwise.
func Scope(exec Executor) Executor {
	if b, ok := exec.(Batcher); ok {
		return b.Batch()
	}
	return exec
}

// Inline runs every task synchronously inside Submit.
type Inline struct{}

// Submit runs task immediately.
func (Inline) Submit(task func()) error {
	task()
	return nil
}

// Wait is a no-op; all tasks already ran.
func (Inline) Wait() {}

// Workers reports a parallelism of one.
func (Inline) Workers() int { return 1 }

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("executor: task panicked: %v", e.Value)
}

// panicTrap records the first panic of a batch of tasks so it can be
// raised again on the goroutine calling Wait.
type panicTrap struct {
	mu  sync.Mutex
	err *PanicError
}

func (p *panicTrap) capture() {
	if v := recover(); v != nil {
		p.mu.Lock()
		if p.err == nil {
			p.err = &PanicError{Value: v}
		}
		p.mu.Unlock()
	}
}

func (p *panicTrap) rethrow() {
	p.mu.Lock()
	err := p.err
	p.err = nil
	p.mu.Unlock()

	if err != nil {
		panic(err)
	}
}
