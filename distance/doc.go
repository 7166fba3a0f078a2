// Package distance provides vector distance calculations for clustering.
//
// # Supported Metrics
//
//   - MetricL1: Manhattan distance, sum of absolute differences
//   - MetricL2: Euclidean distance (SIMD accelerated)
//   - MetricSquaredL2: Squared Euclidean distance
//
// Any function matching Func can be used instead of the built-in metrics.
//
// # Usage
//
//	d := distance.L2(a, b)
//	fn, _ := distance.Provider(distance.MetricL1)
package distance
