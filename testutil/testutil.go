package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/viterin/vek/vek32"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float32 {
	vectors := flatVectors(num, dimensions)
	for _, vec := range vectors {
		r.FillUniform(vec)
	}

	return vectors
}

// flatVectors allocates num zeroed vectors over one backing array.
func flatVectors(num, dimensions int) [][]float32 {
	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)
	for i := range vectors {
		vectors[i] = data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
	}

	return vectors
}

// ScaledVectors generates random vectors with values in range [0, scale).
func (r *RNG) ScaledVectors(num int, dimensions int, scale float32) [][]float32 {
	vectors := r.UniformVectors(num, dimensions)
	for _, vec := range vectors {
		vek32.MulNumber_Inplace(vec, scale)
	}
	return vectors
}

// UnitVectors generates L2-normalized random vectors (on the hypersphere).
func (r *RNG) UnitVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		var norm float64
		for j := range vec {
			v := r.rand.NormFloat64()
			vec[j] = float32(v)
			norm += v * v
		}

		if norm == 0 {
			norm = 1
		}

		vek32.MulNumber_Inplace(vec, float32(1.0/math.Sqrt(norm)))
		vectors[i] = vec
	}

	return vectors
}

// ClusteredVectors generates vectors clustered around random unit centroids
// with Gaussian noise of the given spread. Vector i belongs to centroid
// i % clusters.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float32) [][]float32 {
	centroids := r.UnitVectors(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dim)
	vectors := make([][]float32, num)

	for i := range num {
		centroid := centroids[i%clusters]
		vec := data[i*dim : (i+1)*dim : (i+1)*dim]

		for j := range dim {
			vec[j] = centroid[j] + float32(r.rand.NormFloat64())*spread
		}
		vectors[i] = vec
	}

	return vectors
}

// BlockVectors generates blocks*perBlock vectors laid out as contiguous
// blocks. Every coordinate of a vector in block b is step*b plus uniform
// noise in [0, 1), so blocks are well separated when step is large.
func (r *RNG) BlockVectors(blocks, perBlock, dim int, step float32) [][]float32 {
	vectors := flatVectors(blocks*perBlock, dim)
	for i, vec := range vectors {
		base := step * float32(i/perBlock)
		r.FillUniformRange(vec, base, base+1)
	}

	return vectors
}

// Partition groups element indices by label. Groups are ordered by the
// first element that carries each label, so two labelings of the same
// partition produce identical results.
func Partition(assignment []int) [][]int {
	order := make(map[int]int)
	var groups [][]int

	for i, label := range assignment {
		g, ok := order[label]
		if !ok {
			g = len(groups)
			order[label] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}

	return groups
}

// SamePartition reports whether a and b split the elements into the same
// groups, ignoring how the groups are numbered.
func SamePartition(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	ab := make(map[int]int)
	ba := make(map[int]int)
	for i := range a {
		if l, ok := ab[a[i]]; ok && l != b[i] {
			return false
		}
		if l, ok := ba[b[i]]; ok && l != a[i] {
			return false
		}
		ab[a[i]] = b[i]
		ba[b[i]] = a[i]
	}

	return true
}
