// Package testutil provides testing utilities for vecclust.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source, generators for clustered data and
// helpers for comparing partitions.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(1000, 20)         // uniform [0, 1)
//	blocks := rng.BlockVectors(10, 1000, 20, 100) // 10 well-separated blocks
//
// An *RNG also satisfies vecclust.RandomSource.
//
// # Partition Comparison
//
//	same := testutil.SamePartition(serialAssignment, parallelAssignment)
package testutil
