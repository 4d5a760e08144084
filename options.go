package lloyd

import (
	"math/rand"

	"github.com/hupe1980/lloyd/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	rng              *rand.Rand
	workers          int
	earlyStop        bool
	resources        *resource.Controller
}

// Option configures a Clusterer.
type Option func(*options)

// WithLogger configures structured logging for clustering runs.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &lloyd.BasicMetricsCollector{}
//	c, _ := lloyd.New(cfg, lloyd.WithMetricsCollector(metrics))
//	res, _ := c.Fit(ctx, points)
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithSeed makes seeding deterministic.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies the random source used for k-means++ seeding.
// The Clusterer serializes its own access to r.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithWorkers sets how many goroutines the assignment and update steps use.
// Values <= 1 keep the run single-threaded (the default). Results match the
// single-threaded run: labels exactly, centroids up to summation order.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithEarlyStop ends the run as soon as an assignment step changes no label.
// Disabled by default: a run always performs exactly MaxIterations rounds.
func WithEarlyStop(enabled bool) Option {
	return func(o *options) {
		o.earlyStop = enabled
	}
}

// WithResourceController accounts each run's memory footprint against rc and
// bounds its worker goroutines by rc's worker slots.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}
