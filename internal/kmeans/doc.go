// Package kmeans implements the clustering engine behind vecclust:
// kmeans++ seeding and Lloyd refinement, serial and chunked-parallel.
//
// Inputs are assumed validated by the caller. Nothing in this package
// allocates its own random generator or worker pool.
package kmeans
