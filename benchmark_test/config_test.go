package benchmark_test

import (
	"fmt"
	"testing"

	"github.com/hupe1980/vecclust"
	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/testutil"
)

// ============================================================================
// Benchmark Configuration
// ============================================================================

// Reference workload: an odd batch size so chunks are uneven.
const (
	benchBatch = 10_003
	benchDim   = 20
	benchK     = 10
	benchScale = 1000
)

// Seed for deterministic benchmarks - enables reproducible comparisons.
const benchSeed = 42

var benchCriteria = vecclust.TerminationCriteria{Epsilon: 1e-3, MaxIterations: 100}

var benchMetrics = []struct {
	name string
	dist distance.Func
}{
	{"L1", distance.L1},
	{"L2", distance.L2},
}

// ============================================================================
// Benchmark Helpers
// ============================================================================

// benchFixture holds a batch and the outputs a run writes into.
type benchFixture struct {
	space      *vecclust.Space
	batch      [][]float32
	centers    [][]float32
	assignment []int
}

func newFixture(b *testing.B, n, dim, k int) *benchFixture {
	b.Helper()

	space, err := vecclust.NewSpace(dim, vecclust.WithLogger(vecclust.NoopLogger()))
	if err != nil {
		b.Fatal(err)
	}

	return &benchFixture{
		space:      space,
		batch:      testutil.NewRNG(benchSeed).ScaledVectors(n, dim, benchScale),
		centers:    make([][]float32, k),
		assignment: make([]int, n),
	}
}

func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%dM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%dK", n/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatDim(dim int) string {
	return fmt.Sprintf("dim=%d", dim)
}
