// Package prometheus exports clustering metrics through
// github.com/prometheus/client_golang.
//
//	reg := prometheus.NewRegistry()
//	mc := lloydprom.NewCollector(reg, "lloyd")
//	c, _ := lloyd.New(cfg, lloyd.WithMetricsCollector(mc))
package prometheus

import (
	"time"

	"github.com/hupe1980/lloyd"
	"github.com/prometheus/client_golang/prometheus"
)

var _ lloyd.MetricsCollector = (*Collector)(nil)

// Collector implements lloyd.MetricsCollector with Prometheus metrics.
type Collector struct {
	seedLatency      prometheus.Histogram
	iterationLatency prometheus.Histogram
	runLatency       prometheus.Histogram
	runs             *prometheus.CounterVec
	iterations       prometheus.Counter
	labelChanges     prometheus.Counter
	emptyClusters    prometheus.Counter
	lastInertia      prometheus.Gauge
	lastIterations   prometheus.Gauge
}

// NewCollector creates the metrics under namespace and registers them with
// reg. A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		seedLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "seed_duration_seconds",
			Help:      "Duration of k-means++ seeding",
			Buckets:   prometheus.DefBuckets,
		}),
		iterationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iteration_duration_seconds",
			Help:      "Duration of one assign/update round",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		runLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a clustering run",
			Buckets:   prometheus.DefBuckets,
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Clustering runs by outcome",
		}, []string{"status"}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Completed assign/update rounds",
		}),
		labelChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "label_changes_total",
			Help:      "Points whose label changed in an assignment step",
		}),
		emptyClusters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_clusters_total",
			Help:      "Clusters left without members in an update step",
		}),
		lastInertia: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_inertia",
			Help:      "Objective value of the last successful run",
		}),
		lastIterations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_iterations",
			Help:      "Rounds performed by the last successful run",
		}),
	}

	reg.MustRegister(
		c.seedLatency,
		c.iterationLatency,
		c.runLatency,
		c.runs,
		c.iterations,
		c.labelChanges,
		c.emptyClusters,
		c.lastInertia,
		c.lastIterations,
	)
	return c
}

// RecordSeed implements lloyd.MetricsCollector.
func (c *Collector) RecordSeed(d time.Duration) {
	c.seedLatency.Observe(d.Seconds())
}

// RecordIteration implements lloyd.MetricsCollector.
func (c *Collector) RecordIteration(_, changed, empty int, d time.Duration) {
	c.iterationLatency.Observe(d.Seconds())
	c.iterations.Inc()
	c.labelChanges.Add(float64(changed))
	c.emptyClusters.Add(float64(empty))
}

// RecordRun implements lloyd.MetricsCollector.
func (c *Collector) RecordRun(iterations int, inertia float64, d time.Duration, err error) {
	c.runLatency.Observe(d.Seconds())
	if err != nil {
		c.runs.WithLabelValues("error").Inc()
		return
	}
	c.runs.WithLabelValues("ok").Inc()
	c.lastInertia.Set(inertia)
	c.lastIterations.Set(float64(iterations))
}
