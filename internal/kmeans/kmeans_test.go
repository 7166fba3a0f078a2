package kmeans

import (
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/executor"
	"github.com/hupe1980/vecclust/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns the given values in order, then repeats the last one.
func scripted(values ...float32) func() float32 {
	i := 0
	return func() float32 {
		v := values[min(i, len(values)-1)]
		i++
		return v
	}
}

func makeCenters(k, dim int) [][]float32 {
	centers := make([][]float32, k)
	for i := range centers {
		centers[i] = make([]float32, dim)
	}
	return centers
}

func TestSeedPlusPlus(t *testing.T) {
	batch := [][]float32{{0}, {1}, {10}, {11}}
	centers := makeCenters(2, 1)

	// First center: int(0 * 4) = 0.
	// Squared distances to {0}: 0, 1, 100, 121 -> cumulative 0, 1, 101, 222.
	// 0.5 * 222 = 111 -> first cumulative value > 111 is index 3.
	SeedPlusPlus(batch, centers, distance.L1, scripted(0, 0.5), nil)

	assert.Equal(t, []float32{0}, centers[0])
	assert.Equal(t, []float32{11}, centers[1])
}

func TestSeedPlusPlus_UpperBound(t *testing.T) {
	batch := [][]float32{{0}, {2}, {-2}}
	centers := makeCenters(2, 1)

	// cum = 0, 4, 8; 0.5 * 8 = 4 equals cum[1], so the first value strictly
	// greater is cum[2].
	SeedPlusPlus(batch, centers, distance.L1, scripted(0, 0.5), nil)

	assert.Equal(t, []float32{-2}, centers[1])
}

func TestSeedPlusPlus_MinOverChosenCenters(t *testing.T) {
	batch := [][]float32{{0}, {1}, {10}, {11}, {50}}
	centers := makeCenters(3, 1)

	// c0 = {0}; cum = 0,1,101,222,2722; 0.1*2722 = 272.2 -> index 4 ({50}).
	// Then min squared distances to {0},{50}: 0,1,100,121,0
	// cum = 0,1,101,222,222; 0.99*222 = 219.78 -> index 3 ({11}).
	SeedPlusPlus(batch, centers, distance.L1, scripted(0, 0.1, 0.99), make([]float64, 5))

	assert.Equal(t, [][]float32{{0}, {50}, {11}}, centers)
}

func TestSeedPlusPlus_FlatCumulative(t *testing.T) {
	batch := [][]float32{{7, 7}, {7, 7}, {7, 7}}
	centers := makeCenters(3, 2)

	SeedPlusPlus(batch, centers, distance.L2, scripted(0.4, 0.3, 0.9), nil)

	for _, c := range centers {
		assert.Equal(t, []float32{7, 7}, c)
	}
}

func TestSeedPlusPlus_ClampsFirstIndex(t *testing.T) {
	batch := [][]float32{{1}, {2}, {3}}
	centers := makeCenters(1, 1)

	SeedPlusPlus(batch, centers, distance.L1, scripted(1), nil)

	assert.Equal(t, []float32{3}, centers[0])
}

func TestSeedPlusPlus_PicksFromBatch(t *testing.T) {
	rng := testutil.NewRNG(7)
	batch := rng.UniformVectors(200, 4)
	centers := makeCenters(8, 4)

	SeedPlusPlus(batch, centers, distance.L2, rng.Float32, nil)

	for _, c := range centers {
		assert.Contains(t, batch, c)
	}
}

func TestNearest(t *testing.T) {
	centers := [][]float32{{0, 0}, {10, 10}, {20, 20}}

	assert.Equal(t, 0, Nearest([]float32{1, 1}, centers, distance.L2))
	assert.Equal(t, 2, Nearest([]float32{19, 19}, centers, distance.L2))

	// {5, 5} is equally far from the first two centers; lowest index wins.
	assert.Equal(t, 0, Nearest([]float32{5, 5}, centers, distance.L1))
}

func TestNearestN(t *testing.T) {
	centers := [][]float32{
		{0, 0},   // 0
		{10, 10}, // 1
		{20, 20}, // 2
	}

	res := NearestN([]float32{1, 1}, centers, 2, distance.SquaredL2)
	assert.Equal(t, []int{0, 1}, res)

	res = NearestN([]float32{19, 19}, centers, 1, distance.SquaredL2)
	assert.Equal(t, []int{2}, res)

	res = NearestN([]float32{10, 10}, centers, 10, distance.L1)
	assert.Equal(t, []int{1, 0, 2}, res)
}

func TestAccumulators(t *testing.T) {
	t.Run("RunningMean", func(t *testing.T) {
		acc := NewAccumulators(2, 2)
		acc.Add(0, []float32{1, 2})
		acc.Add(0, []float32{3, 4})
		acc.Add(0, []float32{5, 9})
		acc.Add(1, []float32{-1, -1})

		assert.Equal(t, 3, acc.Clusters[0].Count)
		assert.InDeltaSlice(t, []float32{3, 5}, acc.Clusters[0].Mean, 1e-5)
		assert.Equal(t, 1, acc.Clusters[1].Count)
		assert.InDeltaSlice(t, []float32{-1, -1}, acc.Clusters[1].Mean, 1e-6)

		acc.Reset()
		assert.Zero(t, acc.Clusters[0].Count)
		assert.Equal(t, []float32{0, 0}, acc.Clusters[0].Mean)
	})

	t.Run("Merge", func(t *testing.T) {
		a := NewAccumulators(2, 1)
		a.Add(0, []float32{1})
		a.Add(0, []float32{3})

		b := NewAccumulators(2, 1)
		b.Add(0, []float32{8})

		global := NewAccumulators(2, 1)
		global.Add(1, []float32{42}) // stale content must be discarded
		global.Merge([]*Accumulators{a, b})

		assert.Equal(t, 3, global.Clusters[0].Count)
		assert.InDeltaSlice(t, []float32{4}, global.Clusters[0].Mean, 1e-5)
		assert.Zero(t, global.Clusters[1].Count)
		assert.Equal(t, []float32{0}, global.Clusters[1].Mean)
	})
}

func TestChunkBounds(t *testing.T) {
	assert.Nil(t, ChunkBounds(0, 4))
	assert.Equal(t, []Bounds{{0, 5}}, ChunkBounds(5, 0))
	assert.Equal(t, []Bounds{{0, 1}, {1, 2}}, ChunkBounds(2, 8))
	assert.Equal(t, []Bounds{{0, 4}, {4, 7}, {7, 10}}, ChunkBounds(10, 3))

	// Bounds must tile [0, n) exactly.
	for _, tc := range []struct{ n, chunks int }{{1, 1}, {7, 2}, {10003, 8}, {64, 64}} {
		b := ChunkBounds(tc.n, tc.chunks)
		require.NotEmpty(t, b)
		assert.Equal(t, 0, b[0].Lo)
		assert.Equal(t, tc.n, b[len(b)-1].Hi)
		for i := 1; i < len(b); i++ {
			assert.Equal(t, b[i-1].Hi, b[i].Lo)
			assert.Greater(t, b[i].Hi, b[i].Lo)
		}
	}
}

func params(maxIter int, eps float32) Params {
	return Params{
		Epsilon:       eps,
		MaxIterations: maxIter,
		Distance:      distance.L2,
	}
}

func TestRefine(t *testing.T) {
	// 2 clusters: (0,0) and (10,10)
	batch := [][]float32{
		{0, 0}, {0, 1}, {1, 0},
		{10, 10}, {10, 11}, {11, 10},
	}
	centers := [][]float32{{0, 0}, {10, 10}}
	assignment := make([]int, len(batch))

	res := Refine(batch, centers, assignment, params(100, 1e-4))

	assert.Equal(t, StopConverged, res.Stop)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, assignment)
	assert.InDeltaSlice(t, []float32{1.0 / 3, 1.0 / 3}, centers[0], 1e-5)
	assert.InDeltaSlice(t, []float32{31.0 / 3, 31.0 / 3}, centers[1], 1e-5)
	assert.Less(t, res.MaxMovement, float32(1e-4))
}

func TestRefine_IterationCap(t *testing.T) {
	batch := [][]float32{{0}, {1}, {10}, {11}}
	centers := [][]float32{{0}, {1}}
	assignment := make([]int, len(batch))

	var calls []int
	p := params(1, 0)
	p.OnIteration = func(iteration int, movement float32, elapsed time.Duration) {
		calls = append(calls, iteration)
	}

	res := Refine(batch, centers, assignment, p)

	assert.Equal(t, StopIterationCap, res.Stop)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, []int{1}, calls)
	assert.Equal(t, []int{0, 1, 1, 1}, assignment)
	assert.InDeltaSlice(t, []float32{0}, centers[0], 1e-6)
	assert.InDeltaSlice(t, []float32{22.0 / 3}, centers[1], 1e-5)
}

func TestRefine_EmptyClusterPolicy(t *testing.T) {
	batch := [][]float32{{0, 0}, {1, 1}, {100, 100}, {101, 101}}

	t.Run("KeepCenter", func(t *testing.T) {
		centers := [][]float32{{0, 0}, {100, 100}, {1000, 1000}}
		assignment := make([]int, len(batch))

		res := Refine(batch, centers, assignment, params(1, 0))

		assert.Equal(t, []float32{1000, 1000}, centers[2])
		assert.InDelta(t, float32(0.70710677), res.MaxMovement, 1e-5)
	})

	t.Run("ZeroCenter", func(t *testing.T) {
		centers := [][]float32{{0, 0}, {100, 100}, {1000, 1000}}
		assignment := make([]int, len(batch))

		p := params(1, 0)
		p.EmptyPolicy = ZeroCenter
		res := Refine(batch, centers, assignment, p)

		assert.Equal(t, []float32{0, 0}, centers[2])
		assert.InDelta(t, float32(1414.2136), res.MaxMovement, 1e-2)
	})
}

func TestRefine_ConvergedIsStable(t *testing.T) {
	rng := testutil.NewRNG(42)
	batch := rng.BlockVectors(4, 50, 3, 100)
	centers := makeCenters(4, 3)
	assignment := make([]int, len(batch))

	SeedPlusPlus(batch, centers, distance.L2, rng.Float32, nil)
	Refine(batch, centers, assignment, params(1000, 1e-3))

	first := append([]int(nil), assignment...)
	res := Refine(batch, centers, assignment, params(1000, 1e-3))

	assert.Equal(t, 1, res.Iterations)
	assert.Less(t, res.MaxMovement, float32(1e-3))
	assert.Equal(t, first, assignment)
}

// rejecting refuses every task.
type rejecting struct{}

func (rejecting) Submit(func()) error { return errors.New("rejected") }
func (rejecting) Wait()               {}

func TestRefineParallel_MatchesSerial(t *testing.T) {
	rng := testutil.NewRNG(4711)
	batch := rng.BlockVectors(5, 101, 8, 100)

	seed := makeCenters(5, 8)
	SeedPlusPlus(batch, seed, distance.L1, rng.Float32, nil)

	clone := func() [][]float32 {
		out := make([][]float32, len(seed))
		for i, c := range seed {
			out[i] = append([]float32(nil), c...)
		}
		return out
	}

	serialCenters := clone()
	serialAssignment := make([]int, len(batch))
	serialRes := Refine(batch, serialCenters, serialAssignment, params(100, 1e-3))

	group := executor.NewGroup(4)
	pool, err := executor.NewPool(3)
	require.NoError(t, err)
	defer pool.Close()

	tests := []struct {
		name   string
		exec   executor.Executor
		chunks int
	}{
		{"Inline", executor.Inline{}, 1},
		{"Group", group, 4},
		{"GroupUneven", group, 7},
		{"Pool", pool, 3},
		{"Rejected", rejecting{}, 5},
		{"MoreChunksThanElements", group, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			centers := clone()
			assignment := make([]int, len(batch))

			res := RefineParallel(batch, centers, assignment, params(100, 1e-3), tt.exec, tt.chunks)

			assert.Equal(t, serialRes.Stop, res.Stop)
			assert.Equal(t, serialAssignment, assignment)
			for i := range centers {
				assert.InDeltaSlice(t, serialCenters[i], centers[i], 1e-3)
			}
		})
	}
}

func TestRefineParallel_EmptyClusterPolicy(t *testing.T) {
	batch := [][]float32{{0, 0}, {1, 1}, {100, 100}, {101, 101}}

	centers := [][]float32{{0, 0}, {100, 100}, {1000, 1000}}
	assignment := make([]int, len(batch))
	p := params(1, 0)
	p.EmptyPolicy = ZeroCenter
	RefineParallel(batch, centers, assignment, p, executor.NewGroup(2), 2)
	assert.Equal(t, []float32{0, 0}, centers[2])

	centers = [][]float32{{0, 0}, {100, 100}, {1000, 1000}}
	RefineParallel(batch, centers, assignment, params(1, 0), executor.NewGroup(2), 2)
	assert.Equal(t, []float32{1000, 1000}, centers[2])
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "keep", KeepCenter.String())
	assert.Equal(t, "zero", ZeroCenter.String())
	assert.Equal(t, "unknown", EmptyClusterPolicy(9).String())
	assert.Equal(t, "converged", StopConverged.String())
	assert.Equal(t, "iteration_cap", StopIterationCap.String())
	assert.Equal(t, "unknown", StopReason(0).String())
}
