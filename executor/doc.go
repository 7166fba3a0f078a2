// Package executor provides the worker abstraction used by the parallel
// clustering path.
//
// An Executor accepts units of work with Submit and blocks in Wait until
// every submitted unit has finished. The caller owns the executor and its
// sizing; the same executor is reused for every iteration of a run.
//
// Implementations:
//
//   - Inline: runs each task on the submitting goroutine
//   - Group: one goroutine per task, bounded by errgroup's limit
//   - Pool: a fixed ants goroutine pool
//
// Executors that know their parallelism implement Workers, which the
// clustering engine uses to pick the number of chunks.
//
// Group and Pool also implement Batcher. The clustering engine calls Scope
// once per run, so one Group or Pool can serve many concurrent runs while
// each run waits only for its own chunks.
package executor
