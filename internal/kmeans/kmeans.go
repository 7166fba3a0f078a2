package kmeans

import (
	"math"
	"sort"
	"time"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/executor"
)

// EmptyClusterPolicy decides what happens to a cluster that received no
// elements during an iteration.
type EmptyClusterPolicy int

const (
	// KeepCenter leaves the center of a starved cluster where it was.
	KeepCenter EmptyClusterPolicy = iota
	// ZeroCenter replaces the center of a starved cluster with its empty
	// (all-zero) accumulator.
	ZeroCenter
)

func (p EmptyClusterPolicy) String() string {
	switch p {
	case KeepCenter:
		return "keep"
	case ZeroCenter:
		return "zero"
	default:
		return "unknown"
	}
}

// StopReason tells why the refinement loop ended.
type StopReason int

const (
	// StopConverged means the largest center movement fell below epsilon.
	StopConverged StopReason = iota + 1
	// StopIterationCap means the iteration limit was reached.
	StopIterationCap
)

func (r StopReason) String() string {
	switch r {
	case StopConverged:
		return "converged"
	case StopIterationCap:
		return "iteration_cap"
	default:
		return "unknown"
	}
}

// Params configures a refinement run.
type Params struct {
	Epsilon       float32
	MaxIterations int
	Distance      distance.Func
	EmptyPolicy   EmptyClusterPolicy

	// OnIteration, if set, is called on the calling goroutine after each
	// center update.
	OnIteration func(iteration int, movement float32, elapsed time.Duration)
}

// Result summarizes a finished refinement run.
type Result struct {
	Iterations  int
	MaxMovement float32
	Stop        StopReason
}

// SeedPlusPlus picks len(centers) initial centers from batch using kmeans++
// (D² weighting) and copies them into centers. Every centers[i] must already
// have the batch dimension. cum is scratch space of at least len(batch)
// entries; it is allocated when too short.
//
// The next center is the first element whose cumulative squared distance is
// strictly greater than the scaled draw. If no such element exists the last
// element is used.
func SeedPlusPlus(batch, centers [][]float32, dist distance.Func, rnd func() float32, cum []float64) {
	n := len(batch)
	if len(cum) < n {
		cum = make([]float64, n)
	}
	cum = cum[:n]

	first := int(rnd() * float32(n))
	if first >= n {
		first = n - 1
	}
	copy(centers[0], batch[first])

	for c := 1; c < len(centers); c++ {
		var total float64
		for i, vec := range batch {
			d := float64(dist(vec, centers[0]))
			best := d * d
			for j := 1; j < c; j++ {
				d = float64(dist(vec, centers[j]))
				if sq := d * d; sq < best {
					best = sq
				}
			}
			total += best
			cum[i] = total
		}

		r := float64(rnd()) * total
		idx := sort.Search(n, func(i int) bool { return cum[i] > r })
		if idx == n {
			idx = n - 1
		}
		copy(centers[c], batch[idx])
	}
}

// Nearest returns the index of the closest center to vec. Ties go to the
// lowest index.
func Nearest(vec []float32, centers [][]float32, dist distance.Func) int {
	best := 0
	minDist := float32(math.Inf(1))

	for j, center := range centers {
		if d := dist(vec, center); d < minDist {
			minDist = d
			best = j
		}
	}

	return best
}

type centerDist struct {
	id   int
	dist float32
}

// NearestN returns the indices of the n closest centers to vec, nearest
// first. Equal distances keep index order.
func NearestN(vec []float32, centers [][]float32, n int, dist distance.Func) []int {
	if n > len(centers) {
		n = len(centers)
	}

	dists := make([]centerDist, len(centers))
	for i, center := range centers {
		dists[i] = centerDist{id: i, dist: dist(vec, center)}
	}

	sort.SliceStable(dists, func(i, j int) bool {
		return dists[i].dist < dists[j].dist
	})

	result := make([]int, n)
	for i := range n {
		result[i] = dists[i].id
	}

	return result
}

// assign labels every vector of batch with its nearest center and folds it
// into acc. assignment must have the same length as batch.
func assign(batch, centers [][]float32, assignment []int, dist distance.Func, acc *Accumulators) {
	for i, vec := range batch {
		c := Nearest(vec, centers, dist)
		assignment[i] = c
		acc.Add(c, vec)
	}
}

// Refine runs Lloyd's algorithm on a single goroutine, starting from the
// given centers. centers and assignment are updated in place.
func Refine(batch, centers [][]float32, assignment []int, p Params) Result {
	acc := NewAccumulators(len(centers), len(batch[0]))

	return lloyd(centers, p, func() *Accumulators {
		acc.Reset()
		assign(batch, centers, assignment, p.Distance, acc)
		return acc
	})
}

// RefineParallel is Refine with the assignment pass split into contiguous
// chunks that run on exec. Each chunk owns its accumulators and its part of
// assignment; the calling goroutine waits for all chunks and reduces their
// accumulators before updating the centers.
//
// A chunk whose submission is rejected by exec runs on the calling
// goroutine instead.
func RefineParallel(batch, centers [][]float32, assignment []int, p Params, exec executor.Executor, chunks int) Result {
	k, dim := len(centers), len(batch[0])
	bounds := ChunkBounds(len(batch), chunks)

	parts := make([]*Accumulators, len(bounds))
	for i := range parts {
		parts[i] = NewAccumulators(k, dim)
	}
	global := NewAccumulators(k, dim)

	return lloyd(centers, p, func() *Accumulators {
		for i, b := range bounds {
			part := parts[i]
			task := func() {
				part.Reset()
				assign(batch[b.Lo:b.Hi], centers, assignment[b.Lo:b.Hi], p.Distance, part)
			}
			if err := exec.Submit(task); err != nil {
				task()
			}
		}
		exec.Wait()

		global.Merge(parts)
		return global
	})
}

// lloyd drives the assign/update/converge loop. assignFn performs one
// assignment pass and returns the filled accumulators.
func lloyd(centers [][]float32, p Params, assignFn func() *Accumulators) Result {
	var res Result

	for {
		start := time.Now()
		acc := assignFn()
		res.MaxMovement = update(centers, acc, p)
		res.Iterations++

		if p.OnIteration != nil {
			p.OnIteration(res.Iterations, res.MaxMovement, time.Since(start))
		}

		if res.Iterations >= p.MaxIterations {
			res.Stop = StopIterationCap
			return res
		}
		if res.MaxMovement < p.Epsilon {
			res.Stop = StopConverged
			return res
		}
	}
}

// update moves every center to its accumulated mean and returns the largest
// movement.
func update(centers [][]float32, acc *Accumulators, p Params) float32 {
	var maxMove float32

	for c := range centers {
		a := acc.Clusters[c]
		if a.Count == 0 && p.EmptyPolicy == KeepCenter {
			continue
		}
		if d := p.Distance(centers[c], a.Mean); d > maxMove {
			maxMove = d
		}
		copy(centers[c], a.Mean)
	}

	return maxMove
}

// Bounds is a half-open index range [Lo, Hi).
type Bounds struct {
	Lo, Hi int
}

// ChunkBounds splits [0, n) into at most chunks contiguous, non-empty
// ranges whose sizes differ by at most one.
func ChunkBounds(n, chunks int) []Bounds {
	if n <= 0 {
		return nil
	}
	if chunks < 1 {
		chunks = 1
	}
	if chunks > n {
		chunks = n
	}

	size, rem := n/chunks, n%chunks
	bounds := make([]Bounds, chunks)
	lo := 0
	for i := range bounds {
		hi := lo + size
		if i < rem {
			hi++
		}
		bounds[i] = Bounds{Lo: lo, Hi: hi}
		lo = hi
	}

	return bounds
}
