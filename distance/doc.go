// Package distance provides point distance calculations.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//
// Squared distances are used wherever only relative ordering matters
// (assignment, seeding). L2 returns the square-root form for reporting.
// Callers select a metric by name with ParseMetric and obtain its function
// from Provider.
//
// # Usage
//
//	d := distance.SquaredL2(a, b)
//	d, err := distance.SquaredL2Checked(a, b) // *ErrDimensionMismatch on length mismatch
package distance
