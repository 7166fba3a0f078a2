// Package resource implements the Controller for budgeting clustering runs.
//
// A Controller bounds two resources shared by every run that uses it:
//
//   - Memory: bytes of scratch space (seeding buffer, accumulators)
//   - Runs: number of clustering runs in flight at once
//
// The clustering engine only uses Reserve, built on the non-blocking Try
// variants, so a run that does not fit fails fast before touching its
// outputs. The blocking AcquireMemory and AcquireRun are for callers that
// manage their own budgets, such as buffers or jobs sharing the limit with
// clustering runs:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:  256 << 20,
//	    MaxConcurrentRuns: 2,
//	})
//
//	if err := rc.AcquireMemory(ctx, bufSize); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(bufSize)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional budgeting without nil checks everywhere.
package resource
