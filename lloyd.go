package lloyd

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/lloyd/distance"
	"github.com/hupe1980/lloyd/internal/kmeans"
	"github.com/hupe1980/lloyd/resource"
)

// Clusterer runs k-means++ seeded Lloyd iterations for one configuration.
// Fit may be called repeatedly and concurrently; every call is an
// independent run.
type Clusterer struct {
	cfg  Config
	opts options
	dist distance.Func

	rngMu sync.Mutex
}

// New validates cfg and returns a Clusterer.
func New(cfg Config, optFns ...Option) (*Clusterer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dist, err := cfg.distance()
	if err != nil {
		return nil, err
	}

	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		workers:          1,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Clusterer{cfg: cfg, opts: o, dist: dist}, nil
}

// Config returns the run configuration.
func (c *Clusterer) Config() Config { return c.cfg }

// Fit clusters points, which must hold exactly NumPoints rows of
// NumDimensions coordinates each.
//
// It seeds once, then performs exactly Config.Iterations() assign/update
// rounds (fewer only when early stop is enabled), and returns the final
// centroids and labels. ctx is checked between rounds.
func (c *Clusterer) Fit(ctx context.Context, points [][]float64) (res *Result, err error) {
	start := time.Now()
	log := c.opts.logger.WithK(c.cfg.NumClusters).WithDimension(c.cfg.NumDimensions).WithCount(len(points))

	var st runState
	defer func() {
		elapsed := time.Since(start)
		c.opts.metricsCollector.RecordRun(st.iterations, st.inertia, elapsed, err)
		log.LogRun(ctx, st.iterations, st.inertia, st.converged, elapsed, err)
	}()

	if len(points) != c.cfg.NumPoints {
		return nil, &ConfigError{
			Field:  "num_points",
			Value:  c.cfg.NumPoints,
			Reason: fmt.Sprintf("dataset has %d points", len(points)),
		}
	}

	footprint := resource.Footprint(c.cfg.NumPoints, c.cfg.NumClusters, c.cfg.NumDimensions)
	if err := c.opts.resources.AcquireMemory(footprint.Total()); err != nil {
		return nil, fmt.Errorf("reserve %d bytes: %w", footprint.Total(), err)
	}
	defer c.opts.resources.ReleaseMemory(footprint.Total())

	ds, err := kmeans.NewDataset(points, c.cfg.NumDimensions)
	if err != nil {
		return nil, translateError(err)
	}

	workers := c.opts.workers
	if workers > 1 {
		granted, err := c.opts.resources.AcquireWorkers(ctx, workers)
		if err != nil {
			return nil, err
		}
		defer c.opts.resources.ReleaseWorkers(granted)
		workers = granted
	}

	cs, seeds, err := c.run(ctx, log, ds, workers, &st)
	if err != nil {
		return nil, err
	}
	st.inertia = kmeans.Inertia(ds, cs)

	return &Result{
		Centroids:  cs.Rows(),
		Points:     ds.Rows(),
		Labels:     ds.Labels(),
		Inertia:    st.inertia,
		Iterations: st.iterations,
		Converged:  st.converged,
		Seeds:      seeds,
		Memory:     footprint,
		Elapsed:    time.Since(start),
	}, nil
}

type runState struct {
	iterations int
	inertia    float64
	converged  bool
}

func (c *Clusterer) run(ctx context.Context, log *Logger, ds *kmeans.Dataset, workers int, st *runState) (*kmeans.Clusters, []int, error) {
	seedStart := time.Now()
	c.rngMu.Lock()
	cs, seeds := kmeans.SeedWithDistance(ds, c.cfg.NumClusters, c.opts.rng, c.dist)
	c.rngMu.Unlock()
	c.opts.metricsCollector.RecordSeed(time.Since(seedStart))
	log.LogSeed(ctx, seeds, time.Since(seedStart))

	for iter := range c.cfg.Iterations() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		iterStart := time.Now()

		changed, err := c.assign(ctx, ds, cs, workers)
		if err != nil {
			return nil, nil, err
		}
		if c.opts.earlyStop && iter > 0 && changed == 0 {
			st.converged = true
			break
		}

		counts, err := c.update(ctx, ds, cs, workers)
		if err != nil {
			return nil, nil, err
		}
		st.iterations++

		empty := 0
		for _, n := range counts {
			if n == 0 {
				empty++
			}
		}
		c.opts.metricsCollector.RecordIteration(iter, changed, empty, time.Since(iterStart))
		log.LogIteration(ctx, iter, changed, empty)
	}

	return cs, seeds, nil
}

func (c *Clusterer) assign(ctx context.Context, ds *kmeans.Dataset, cs *kmeans.Clusters, workers int) (int, error) {
	if workers > 1 {
		return kmeans.AssignParallel(ctx, ds, cs, workers)
	}
	return kmeans.Assign(ds, cs), nil
}

func (c *Clusterer) update(ctx context.Context, ds *kmeans.Dataset, cs *kmeans.Clusters, workers int) ([]int, error) {
	if workers > 1 {
		return kmeans.UpdateParallel(ctx, ds, cs, workers)
	}
	return kmeans.Update(ds, cs), nil
}

// Fit is a convenience wrapper that derives N and D from points.
func Fit(ctx context.Context, points [][]float64, k, maxIterations int, optFns ...Option) (*Result, error) {
	dim := 0
	if len(points) > 0 {
		dim = len(points[0])
	}
	c, err := New(Config{
		NumClusters:   k,
		NumPoints:     len(points),
		NumDimensions: dim,
		MaxIterations: maxIterations,
	}, optFns...)
	if err != nil {
		return nil, err
	}
	return c.Fit(ctx, points)
}
