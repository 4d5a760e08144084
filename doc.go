// Package lloyd partitions points in D-dimensional space into K clusters with
// Lloyd's algorithm, seeded by k-means++.
//
// # Quick Start
//
//	cfg := lloyd.Config{NumClusters: 3, NumPoints: len(points), NumDimensions: 2, MaxIterations: 100}
//	c, err := lloyd.New(cfg, lloyd.WithSeed(42))
//	res, err := c.Fit(ctx, points)
//	fmt.Println(res.Centroids, res.Labels)
//
// # Run Semantics
//
// A run seeds once and then performs exactly MaxIterations rounds of
// assignment (every point takes the label of its nearest centroid, lowest
// index on ties) followed by update (every centroid moves to the mean of its
// members). There is no convergence check unless WithEarlyStop is enabled,
// in which case the run ends at the first assignment that changes no label.
//
// A centroid whose cluster is empty during an update keeps its coordinates.
// When k-means++ finds every point coincident with a chosen centroid it
// selects point 0.
//
// # Errors
//
//   - *ConfigError (errors.Is(err, ErrInvalidConfig)): K, N or D not positive,
//     K > N, negative MaxIterations, or a dataset whose size differs from N.
//   - *ErrDimensionMismatch: a point without exactly D coordinates.
//   - ErrMemoryLimitExceeded: the run does not fit the resource controller.
//
// # Concurrency
//
// WithWorkers splits the assignment and update steps across goroutines.
// Labels are identical to a single-threaded run; centroids may differ in the
// last bits because partial sums are added in a different order.
//
// # Related Packages
//
//   - datagen: synthetic point sets
//   - results: text/JSON output, blob stores, SQLite, console report
//   - server: HTTP API
//   - metrics/prometheus: Prometheus MetricsCollector
package lloyd
