package vecclust

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned when the batch has no elements.
	ErrEmptyBatch = errors.New("batch is empty")

	// ErrInvalidTerminationCriteria is returned when MaxIterations is not
	// positive, or when more than one iteration is allowed without a
	// positive epsilon.
	ErrInvalidTerminationCriteria = errors.New("termination criteria is incorrect")

	// ErrInvalidClusterCount is returned when fewer than one center is requested.
	ErrInvalidClusterCount = errors.New("number of clusters is less than 1")

	// ErrAssignmentSizeMismatch is returned when the assignment slice is not
	// the same length as the batch.
	ErrAssignmentSizeMismatch = errors.New("assignment must be of the same size as batch")

	// ErrNilDistance is returned when no distance function is given.
	ErrNilDistance = errors.New("distance function is nil")

	// ErrNilRandomSource is returned when seeding is requested without a random source.
	ErrNilRandomSource = errors.New("random source is nil")

	// ErrNilExecutor is returned by the parallel entry points when no executor is given.
	ErrNilExecutor = errors.New("executor is nil")

	// ErrResourceExhausted is returned when the configured resource
	// controller cannot grant the memory or run slot a call needs.
	ErrResourceExhausted = errors.New("resource budget exhausted")
)

// ErrDimensionMismatch indicates a vector whose length differs from the
// dimension of the Space.
type ErrDimensionMismatch struct {
	// Field names the offending input: "batch", "centers" or "vector".
	Field string
	// Index is the position within Field, or -1 for a single vector.
	Index    int
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("dimension mismatch: %s: expected %d, got %d", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("dimension mismatch: %s[%d]: expected %d, got %d", e.Field, e.Index, e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}
