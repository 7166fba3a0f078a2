// Package vecclust partitions batches of float32 vectors with k-means.
//
// Centers are seeded with kmeans++ and refined with Lloyd's algorithm. The
// refinement loop can run on the calling goroutine or split its assignment
// pass across an injected executor.
//
// # Quick Start
//
//	space, _ := vecclust.NewSpace(128)
//
//	centers := make([][]float32, 16)
//	assignment := make([]int, len(batch))
//	report, err := space.Cluster(batch,
//	    vecclust.TerminationCriteria{Epsilon: 1e-3, MaxIterations: 100},
//	    distance.L2, rand.New(rand.NewSource(1)),
//	    centers, assignment)
//
// centers[j] is the mean of the elements labelled j, and assignment[i] is
// the label of batch[i].
//
// # Parallel Runs
//
// ClusterParallel takes an executor.Executor. The batch is split into
// contiguous chunks, each chunk is labelled by one task and the partial
// means are reduced on the calling goroutine:
//
//	group := executor.NewGroup(runtime.GOMAXPROCS(0))
//	report, err := space.ClusterParallel(batch, tc, distance.L1, rng, group, centers, assignment)
//
// Seeding is always sequential, so a given random source yields the same
// initial centers on both paths.
//
// # Termination
//
// A run stops after TerminationCriteria.MaxIterations iterations, or
// earlier once no center moved by Epsilon or more. The returned Report
// tells which condition ended the run.
//
// # Empty Clusters
//
// A center that attracts no elements stays where it was. Use
// WithEmptyClusterPolicy(ZeroCenter) to move it to the origin instead.
//
// # Observability
//
// Validation failures are logged at warn level through the configured
// Logger (slog.Default unless WithLogger is used). WithMetricsCollector
// receives one RecordRun per call and one RecordIteration per iteration.
//
// # Thread Safety
//
// A Space is safe for concurrent use. The slices passed to a call belong to
// that call until it returns. An executor.Group or executor.Pool may be shared
// by concurrent ClusterParallel calls; each call runs in its own batch.
package vecclust
