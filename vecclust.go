package vecclust

import (
	"github.com/hupe1980/vecclust/internal/kmeans"
)

// EmptyClusterPolicy decides what happens to a cluster that received no
// elements during an iteration.
type EmptyClusterPolicy = kmeans.EmptyClusterPolicy

const (
	// KeepCenter leaves the center of a starved cluster unchanged.
	KeepCenter = kmeans.KeepCenter
	// ZeroCenter moves the center of a starved cluster to the zero vector.
	ZeroCenter = kmeans.ZeroCenter
)

// StopReason tells why a clustering run stopped.
type StopReason = kmeans.StopReason

const (
	// StopConverged means no center moved by epsilon or more in the last iteration.
	StopConverged = kmeans.StopConverged
	// StopIterationCap means MaxIterations iterations were run.
	StopIterationCap = kmeans.StopIterationCap
)

// TerminationCriteria controls when refinement stops.
//
// A run stops after MaxIterations iterations, or earlier once the largest
// center movement of an iteration is below Epsilon. MaxIterations must be
// positive, and Epsilon must be positive whenever MaxIterations > 1.
type TerminationCriteria struct {
	Epsilon       float32
	MaxIterations int
}

func (tc TerminationCriteria) valid() bool {
	if tc.MaxIterations < 1 {
		return false
	}
	// !(x > 0) also rejects NaN.
	return tc.MaxIterations == 1 || tc.Epsilon > 0
}

// RandomSource yields uniformly distributed values in [0, 1).
//
// It is only called from the goroutine that invoked the clustering call.
// *math/rand.Rand and *testutil.RNG satisfy it.
type RandomSource interface {
	Float32() float32
}

// RandomFunc adapts a plain function to RandomSource.
type RandomFunc func() float32

// Float32 calls f.
func (f RandomFunc) Float32() float32 { return f() }

// Report describes how a clustering run ended.
type Report struct {
	// Iterations is the number of assign/update rounds that ran.
	Iterations int
	// MaxMovement is the largest center movement of the last iteration.
	MaxMovement float32
	// Stop is the condition that ended the run.
	Stop StopReason
}

// Space is a vector space of fixed dimension. Every vector passed to a
// Space must have exactly Dim components.
//
// A Space holds no per-run state and is safe for concurrent use.
type Space struct {
	dim  int
	opts options
}

// NewSpace creates a Space for vectors of dimension dim.
func NewSpace(dim int, optFns ...Option) (*Space, error) {
	if dim <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}

	return &Space{
		dim:  dim,
		opts: applyOptions(optFns),
	}, nil
}

// Dim returns the dimension of the space.
func (s *Space) Dim() int {
	return s.dim
}
