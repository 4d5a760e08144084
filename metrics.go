package lloyd

import (
	"math"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see package metrics/prometheus).
type MetricsCollector interface {
	// RecordSeed is called once per run after k-means++ seeding.
	RecordSeed(duration time.Duration)

	// RecordIteration is called after each completed assign/update round.
	// changed is the number of points whose label changed, empty the number
	// of clusters that had no members in the update step.
	RecordIteration(iteration, changed, empty int, duration time.Duration)

	// RecordRun is called when a run finishes. err is nil if successful.
	RecordRun(iterations int, inertia float64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSeed(time.Duration)                     {}
func (NoopMetricsCollector) RecordIteration(int, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordRun(int, float64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SeedCount       atomic.Int64
	SeedTotalNanos  atomic.Int64
	IterationCount  atomic.Int64
	IterationNanos  atomic.Int64
	LabelChanges    atomic.Int64
	EmptyClusters   atomic.Int64
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	RunTotalNanos   atomic.Int64
	lastInertiaBits atomic.Uint64
}

// RecordSeed implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSeed(duration time.Duration) {
	b.SeedCount.Add(1)
	b.SeedTotalNanos.Add(duration.Nanoseconds())
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(_, changed, empty int, duration time.Duration) {
	b.IterationCount.Add(1)
	b.IterationNanos.Add(duration.Nanoseconds())
	b.LabelChanges.Add(int64(changed))
	b.EmptyClusters.Add(int64(empty))
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ int, inertia float64, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
		return
	}
	b.lastInertiaBits.Store(math.Float64bits(inertia))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SeedCount:         b.SeedCount.Load(),
		IterationCount:    b.IterationCount.Load(),
		IterationAvgNanos: avg(b.IterationNanos.Load(), b.IterationCount.Load()),
		LabelChanges:      b.LabelChanges.Load(),
		EmptyClusters:     b.EmptyClusters.Load(),
		RunCount:          b.RunCount.Load(),
		RunErrors:         b.RunErrors.Load(),
		RunAvgNanos:       avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		LastInertia:       math.Float64frombits(b.lastInertiaBits.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SeedCount         int64
	IterationCount    int64
	IterationAvgNanos int64
	LabelChanges      int64
	EmptyClusters     int64
	RunCount          int64
	RunErrors         int64
	RunAvgNanos       int64
	LastInertia       float64
}
