package vecclust

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/executor"
	"github.com/hupe1980/vecclust/internal/kmeans"
)

// Cluster partitions batch into len(centers) clusters.
//
// Centers are seeded with kmeans++ from rng and refined with Lloyd's
// algorithm until tc is met. On success centers[j] is set to newly
// allocated storage holding the final representative of cluster j, and
// assignment[i] is the cluster of batch[i]. Prior contents of centers and
// assignment are ignored; the slices previously held in centers are never
// written, so they may alias batch rows.
//
// Invalid input is reported with an error before centers or assignment are
// touched.
func (s *Space) Cluster(batch [][]float32, tc TerminationCriteria, dist distance.Func, rng RandomSource, centers [][]float32, assignment []int) (Report, error) {
	return s.run(request{
		batch:      batch,
		tc:         tc,
		dist:       dist,
		rng:        rng,
		centers:    centers,
		assignment: assignment,
		seed:       true,
	})
}

// ClusterParallel is Cluster with the assignment pass of every iteration
// split into contiguous chunks that run on exec. Seeding stays on the
// calling goroutine. exec is owned by the caller and may be reused. An
// exec that implements executor.Batcher (Group, Pool) may also be shared by
// concurrent calls; any other exec must serve one call at a time.
func (s *Space) ClusterParallel(batch [][]float32, tc TerminationCriteria, dist distance.Func, rng RandomSource, exec executor.Executor, centers [][]float32, assignment []int) (Report, error) {
	return s.run(request{
		batch:      batch,
		tc:         tc,
		dist:       dist,
		rng:        rng,
		exec:       exec,
		parallel:   true,
		centers:    centers,
		assignment: assignment,
		seed:       true,
	})
}

// Refine runs Lloyd's algorithm starting from the given centers, skipping
// seeding. Every center must be Dim long. Like Cluster, it replaces the
// slots of centers on success and never writes through the slices passed
// in, so centers may be taken directly from batch.
func (s *Space) Refine(batch [][]float32, tc TerminationCriteria, dist distance.Func, centers [][]float32, assignment []int) (Report, error) {
	return s.run(request{
		batch:      batch,
		tc:         tc,
		dist:       dist,
		centers:    centers,
		assignment: assignment,
	})
}

// RefineParallel is Refine with the assignment pass running on exec.
func (s *Space) RefineParallel(batch [][]float32, tc TerminationCriteria, dist distance.Func, exec executor.Executor, centers [][]float32, assignment []int) (Report, error) {
	return s.run(request{
		batch:      batch,
		tc:         tc,
		dist:       dist,
		exec:       exec,
		parallel:   true,
		centers:    centers,
		assignment: assignment,
	})
}

// Predict returns the index of the center closest to vec. Ties go to the
// lowest index.
func (s *Space) Predict(vec []float32, centers [][]float32, dist distance.Func) (int, error) {
	if err := s.checkQuery(vec, centers, dist); err != nil {
		return -1, err
	}

	return kmeans.Nearest(vec, centers, dist), nil
}

// NearestCenters returns the indices of the n centers closest to vec,
// nearest first. n is capped at len(centers).
func (s *Space) NearestCenters(vec []float32, centers [][]float32, n int, dist distance.Func) ([]int, error) {
	if err := s.checkQuery(vec, centers, dist); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}

	return kmeans.NearestN(vec, centers, n, dist), nil
}

func (s *Space) checkQuery(vec []float32, centers [][]float32, dist distance.Func) error {
	if len(centers) < 1 {
		return ErrInvalidClusterCount
	}
	if dist == nil {
		return ErrNilDistance
	}
	if len(vec) != s.dim {
		return &ErrDimensionMismatch{Field: "vector", Index: -1, Expected: s.dim, Actual: len(vec)}
	}
	for i, c := range centers {
		if len(c) != s.dim {
			return &ErrDimensionMismatch{Field: "centers", Index: i, Expected: s.dim, Actual: len(c)}
		}
	}

	return nil
}

type request struct {
	batch      [][]float32
	tc         TerminationCriteria
	dist       distance.Func
	rng        RandomSource
	exec       executor.Executor
	parallel   bool
	centers    [][]float32
	assignment []int
	seed       bool
}

// validate checks every precondition of r and returns the name of the
// failed check with its error. It never writes to r's outputs.
func (s *Space) validate(r *request) (string, error) {
	if len(r.batch) == 0 {
		return "batch", ErrEmptyBatch
	}
	if !r.tc.valid() {
		return "termination", fmt.Errorf("%w: epsilon=%v max_iterations=%d",
			ErrInvalidTerminationCriteria, r.tc.Epsilon, r.tc.MaxIterations)
	}
	if len(r.centers) < 1 {
		return "clusters", ErrInvalidClusterCount
	}
	if len(r.assignment) != len(r.batch) {
		return "assignment", fmt.Errorf("%w: got %d, want %d",
			ErrAssignmentSizeMismatch, len(r.assignment), len(r.batch))
	}
	if r.dist == nil {
		return "distance", ErrNilDistance
	}
	if r.seed && r.rng == nil {
		return "random", ErrNilRandomSource
	}
	if r.parallel && r.exec == nil {
		return "executor", ErrNilExecutor
	}
	for i, vec := range r.batch {
		if len(vec) != s.dim {
			return "dimension", &ErrDimensionMismatch{Field: "batch", Index: i, Expected: s.dim, Actual: len(vec)}
		}
	}
	if !r.seed {
		for i, c := range r.centers {
			if len(c) != s.dim {
				return "dimension", &ErrDimensionMismatch{Field: "centers", Index: i, Expected: s.dim, Actual: len(c)}
			}
		}
	}

	return "", nil
}

func (s *Space) run(r request) (Report, error) {
	start := time.Now()
	k, n := len(r.centers), len(r.batch)
	log := s.opts.logger.WithDimension(s.dim).WithK(k).WithCount(n)
	metrics := s.opts.metricsCollector

	if check, err := s.validate(&r); err != nil {
		log.LogValidation(check, err)
		metrics.RecordRun(k, n, 0, 0, time.Since(start), err)
		return Report{}, err
	}

	chunks := 0
	if r.parallel {
		chunks = s.chunks(r.exec, n)
	}

	release, err := s.opts.resources.Reserve(s.scratchBytes(k, n, chunks, r.seed))
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrResourceExhausted, err)
		log.LogRun(Report{}, time.Since(start), err)
		metrics.RecordRun(k, n, 0, 0, time.Since(start), err)
		return Report{}, err
	}
	defer release()

	// Work on private storage so center slots that alias batch rows never
	// write into the batch.
	work := newCenters(k, s.dim)
	if r.seed {
		kmeans.SeedPlusPlus(r.batch, work, r.dist, r.rng.Float32, nil)
	} else {
		for i, c := range r.centers {
			copy(work[i], c)
		}
	}

	p := kmeans.Params{
		Epsilon:       r.tc.Epsilon,
		MaxIterations: r.tc.MaxIterations,
		Distance:      r.dist,
		EmptyPolicy:   s.opts.emptyPolicy,
		OnIteration:   s.onIteration(log),
	}

	var res kmeans.Result
	if r.parallel {
		res = kmeans.RefineParallel(r.batch, work, r.assignment, p, executor.Scope(r.exec), chunks)
	} else {
		res = kmeans.Refine(r.batch, work, r.assignment, p)
	}
	copy(r.centers, work)

	report := Report(res)
	duration := time.Since(start)
	log.LogRun(report, duration, nil)
	metrics.RecordRun(k, n, report.Iterations, report.Stop, duration, nil)

	return report, nil
}

func (s *Space) onIteration(log *Logger) func(int, float32, time.Duration) {
	debug := log.iterationLogger()
	metrics := s.opts.metricsCollector

	return func(iteration int, movement float32, elapsed time.Duration) {
		metrics.RecordIteration(iteration, movement, elapsed)
		if debug != nil {
			debug(iteration, movement, elapsed)
		}
	}
}

// newCenters allocates k center slots of dimension dim over one backing
// array.
func newCenters(k, dim int) [][]float32 {
	data := make([]float32, k*dim)
	centers := make([][]float32, k)
	for i := range centers {
		centers[i] = data[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return centers
}

// chunks picks how many pieces the batch is split into for exec.
func (s *Space) chunks(exec executor.Executor, n int) int {
	c := s.opts.chunks
	if c <= 0 {
		if sz, ok := exec.(executor.Sizer); ok {
			c = sz.Workers()
		}
	}
	if c <= 0 {
		c = runtime.GOMAXPROCS(0)
	}

	return min(c, n)
}

// scratchBytes estimates the memory a run allocates besides its inputs:
// the center buffer, the kmeans++ cumulative distances, the global
// accumulator set and one set per chunk (chunks is 0 on the serial path).
func (s *Space) scratchBytes(k, n, chunks int, seed bool) int64 {
	total := int64(k*s.dim) * 4
	if seed && k > 1 {
		total += int64(n) * 8
	}

	sets := 1 + int64(chunks)
	perSet := int64(k*s.dim+s.dim)*4 + int64(k)*16

	return total + sets*perSet
}
