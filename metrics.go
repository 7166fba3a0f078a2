package vecclust

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting clustering metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Both methods are called on the goroutine that invoked the clustering call.
type MetricsCollector interface {
	// RecordRun is called once per clustering call. k and n are the
	// requested cluster count and batch size, iterations and stop are zero
	// when the call failed, err is nil on success.
	RecordRun(k, n, iterations int, stop StopReason, duration time.Duration, err error)

	// RecordIteration is called after every center update with the largest
	// center movement of that iteration.
	RecordIteration(iteration int, movement float32, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(int, int, int, StopReason, time.Duration, error) {}
func (NoopMetricsCollector) RecordIteration(int, float32, time.Duration)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount           atomic.Int64
	RunErrors          atomic.Int64
	RunTotalNanos      atomic.Int64
	ConvergedCount     atomic.Int64
	IterationCapCount  atomic.Int64
	IterationCount     atomic.Int64
	IterationTotalNano atomic.Int64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(k, n, iterations int, stop StopReason, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
		return
	}

	switch stop {
	case StopConverged:
		b.ConvergedCount.Add(1)
	case StopIterationCap:
		b.IterationCapCount.Add(1)
	}
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(iteration int, movement float32, duration time.Duration) {
	b.IterationCount.Add(1)
	b.IterationTotalNano.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RunCount:          b.RunCount.Load(),
		RunErrors:         b.RunErrors.Load(),
		RunAvgNanos:       avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		ConvergedCount:    b.ConvergedCount.Load(),
		IterationCapCount: b.IterationCapCount.Load(),
		IterationCount:    b.IterationCount.Load(),
		IterationAvgNanos: avg(b.IterationTotalNano.Load(), b.IterationCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RunCount          int64
	RunErrors         int64
	RunAvgNanos       int64
	ConvergedCount    int64
	IterationCapCount int64
	IterationCount    int64
	IterationAvgNanos int64
}
