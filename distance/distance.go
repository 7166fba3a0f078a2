package distance

import (
	"fmt"

	"github.com/viterin/vek/vek32"
)

// L1 calculates the Manhattan distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func L1(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}

	return sum
}

// L2 calculates the Euclidean distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
// Uses SIMD acceleration when available.
func L2(a, b []float32) float32 {
	return vek32.Distance(a, b)
}

// SquaredL2 calculates the squared Euclidean distance between two vectors.
// It preserves the ordering of L2 without the square root.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return sum
}

// Metric identifies one of the built-in distance functions.
type Metric int

const (
	MetricL1 Metric = iota
	MetricL2
	MetricSquaredL2
)

func (m Metric) String() string {
	switch m {
	case MetricL1:
		return "L1"
	case MetricL2:
		return "L2"
	case MetricSquaredL2:
		return "SquaredL2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
//
// Implementations must be pure, symmetric and non-negative, and must return
// zero for identical vectors. They are called concurrently by the parallel
// clustering path.
type Func func(a, b []float32) float32

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricL1:
		return L1, nil
	case MetricL2:
		return L2, nil
	case MetricSquaredL2:
		return SquaredL2, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
