package lloyd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/hupe1980/lloyd/datagen"
	"github.com/hupe1980/lloyd/distance"
	"github.com/hupe1980/lloyd/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referencePoints() [][]float64 {
	return [][]float64{
		{1, 1}, {2, 1}, {4, 3}, {5, 4}, {3, 2.5},
		{8, 8}, {9, 8}, {8, 9}, {10, 8}, {9, 9},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"ZeroK", Config{NumClusters: 0, NumPoints: 5, NumDimensions: 2}, "num_clusters"},
		{"NegativeN", Config{NumClusters: 1, NumPoints: -1, NumDimensions: 2}, "num_points"},
		{"ZeroD", Config{NumClusters: 1, NumPoints: 5, NumDimensions: 0}, "num_dimensions"},
		{"KGreaterThanN", Config{NumClusters: 6, NumPoints: 5, NumDimensions: 2}, "num_clusters"},
		{"NegativeIterations", Config{NumClusters: 1, NumPoints: 5, NumDimensions: 2, MaxIterations: -1}, "max_iterations"},
		{"UnknownMetric", Config{NumClusters: 1, NumPoints: 5, NumDimensions: 2, Metric: "cosine"}, "metric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)

			_, err = New(tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("Valid", func(t *testing.T) {
		cfg := Config{NumClusters: 5, NumPoints: 5, NumDimensions: 1}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, DefaultMaxIterations, cfg.Iterations())

		cfg.MaxIterations = 7
		assert.Equal(t, 7, cfg.Iterations())
	})
}

// fitReference runs the reference dataset with the first rng seed whose
// k-means++ picks land in different natural clusters.
func fitReference(t *testing.T, iterations int) *Result {
	t.Helper()

	for seed := int64(0); seed < 50; seed++ {
		c, err := New(Config{NumClusters: 2, NumPoints: 10, NumDimensions: 2, MaxIterations: iterations}, WithSeed(seed))
		require.NoError(t, err)

		res, err := c.Fit(context.Background(), referencePoints())
		require.NoError(t, err)
		if (res.Seeds[0] < 5) != (res.Seeds[1] < 5) {
			return res
		}
	}
	t.Fatal("no seed split the reference clusters")
	return nil
}

func TestFit_ReferenceScenario(t *testing.T) {
	res := fitReference(t, 20)
	assert.Equal(t, 20, res.Iterations)
	assert.False(t, res.Converged)

	low, high := res.Labels[0], res.Labels[5]
	require.NotEqual(t, low, high)
	for i := range 5 {
		assert.Equal(t, low, res.Labels[i])
		assert.Equal(t, high, res.Labels[i+5])
	}

	assert.InDeltaSlice(t, []float64{3.0, 2.3}, res.Centroids[low], 1e-9)
	assert.InDeltaSlice(t, []float64{8.8, 8.4}, res.Centroids[high], 1e-9)
	assert.Equal(t, []int{5, 5}, res.Sizes())
	assert.Equal(t, referencePoints(), res.Points)
}

func TestFit_Boundaries(t *testing.T) {
	ctx := context.Background()

	t.Run("KEqualsN", func(t *testing.T) {
		res, err := Fit(ctx, referencePoints(), 10, 5, WithSeed(3))
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Inertia)
		for _, size := range res.Sizes() {
			assert.Equal(t, 1, size)
		}
	})

	t.Run("KEqualsOne", func(t *testing.T) {
		for _, iters := range []int{1, 2, 9} {
			res, err := Fit(ctx, referencePoints(), 1, iters, WithSeed(3))
			require.NoError(t, err)
			assert.InDeltaSlice(t, []float64{5.9, 5.35}, res.Centroids[0], 1e-9)
			for _, l := range res.Labels {
				assert.Zero(t, l)
			}
		}
	})

	t.Run("SinglePoint", func(t *testing.T) {
		res, err := Fit(ctx, [][]float64{{4, 2, 1}}, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{4, 2, 1}}, res.Centroids)
		assert.Equal(t, []int{0}, res.Labels)
	})
}

func TestFit_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("DimensionMismatch", func(t *testing.T) {
		c, err := New(Config{NumClusters: 1, NumPoints: 3, NumDimensions: 2})
		require.NoError(t, err)

		_, err = c.Fit(ctx, [][]float64{{1, 2}, {3, 4, 5}, {6, 7}})
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 1, dm.Index)
		assert.Equal(t, 2, dm.Expected)
		assert.Equal(t, 3, dm.Actual)
		assert.NotNil(t, errors.Unwrap(err))
	})

	t.Run("PointCountMismatch", func(t *testing.T) {
		c, err := New(Config{NumClusters: 1, NumPoints: 3, NumDimensions: 2})
		require.NoError(t, err)

		_, err = c.Fit(ctx, [][]float64{{1, 2}})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("EmptyDataset", func(t *testing.T) {
		_, err := Fit(ctx, nil, 1, 1)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Fit(cctx, referencePoints(), 2, 10, WithSeed(1))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("MemoryLimit", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})
		_, err := Fit(ctx, referencePoints(), 2, 10, WithResourceController(rc))
		assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
		assert.Zero(t, rc.MemoryUsage())
	})
}

func TestFit_FixedIterations(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	res, err := Fit(context.Background(), referencePoints(), 2, 37, WithSeed(1), WithMetricsCollector(metrics))
	require.NoError(t, err)
	assert.Equal(t, 37, res.Iterations)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.SeedCount)
	assert.Equal(t, int64(37), stats.IterationCount)
	assert.Equal(t, int64(1), stats.RunCount)
	assert.Zero(t, stats.RunErrors)
	assert.InDelta(t, res.Inertia, stats.LastInertia, 1e-12)
	// Every label changes on the first assignment.
	assert.GreaterOrEqual(t, stats.LabelChanges, int64(10))
}

func TestFit_EarlyStop(t *testing.T) {
	res, err := Fit(context.Background(), referencePoints(), 2, 1000, WithSeed(1), WithEarlyStop(true))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Less(t, res.Iterations, 1000)
	assert.GreaterOrEqual(t, res.Iterations, 1)

	full, err := Fit(context.Background(), referencePoints(), 2, 1000, WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, full.Labels, res.Labels)
	assert.InDeltaSlice(t, flatten(full.Centroids), flatten(res.Centroids), 1e-9)
}

func TestFit_Deterministic(t *testing.T) {
	points := datagen.NewRNG(7).UniformIntPoints(300, 3, datagen.DefaultLow, datagen.DefaultHigh)

	a, err := Fit(context.Background(), points, 6, 25, WithSeed(99))
	require.NoError(t, err)
	b, err := Fit(context.Background(), points, 6, 25, WithRand(rand.New(rand.NewSource(99))))
	require.NoError(t, err)

	assert.Equal(t, a.Seeds, b.Seeds)
	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Centroids, b.Centroids)
}

func TestFit_Parallel(t *testing.T) {
	points := datagen.NewRNG(13).UniformIntPoints(2000, 4, datagen.DefaultLow, datagen.DefaultHigh)
	rc := resource.NewController(resource.Config{MaxWorkers: 4})

	serial, err := Fit(context.Background(), points, 8, 15, WithSeed(5))
	require.NoError(t, err)
	parallel, err := Fit(context.Background(), points, 8, 15, WithSeed(5), WithWorkers(8), WithResourceController(rc))
	require.NoError(t, err)

	assert.Equal(t, serial.Labels, parallel.Labels)
	assert.InDeltaSlice(t, flatten(serial.Centroids), flatten(parallel.Centroids), 1e-9)
	assert.InDelta(t, serial.Inertia, parallel.Inertia, 1e-6)
	assert.Zero(t, rc.MemoryUsage())
}

func TestFit_ObjectiveMatchesLabels(t *testing.T) {
	points := datagen.NewRNG(17).Blobs([][]float64{{0, 0}, {20, 0}, {0, 20}}, 40, 1)
	res, err := Fit(context.Background(), points, 3, 30, WithSeed(17))
	require.NoError(t, err)

	var want float64
	for i, p := range res.Points {
		want += distance.SquaredL2(p, res.Centroids[res.Labels[i]])
	}
	assert.InDelta(t, want, res.Inertia, 1e-9)
	assert.Equal(t, int64(len(points)*2*8), res.Memory.PointsBytes)
}

func TestFit_Metric(t *testing.T) {
	base := Config{NumClusters: 3, NumPoints: 10, NumDimensions: 2, MaxIterations: 5}

	want, err := New(base, WithSeed(4))
	require.NoError(t, err)
	wantRes, err := want.Fit(context.Background(), referencePoints())
	require.NoError(t, err)

	for _, name := range []string{"L2", "euclidean"} {
		t.Run(name, func(t *testing.T) {
			cfg := base
			cfg.Metric = name
			c, err := New(cfg, WithSeed(4))
			require.NoError(t, err)

			res, err := c.Fit(context.Background(), referencePoints())
			require.NoError(t, err)
			assert.Equal(t, wantRes.Seeds, res.Seeds)
			assert.Equal(t, wantRes.Labels, res.Labels)
			assert.Equal(t, wantRes.Centroids, res.Centroids)
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		cfg := base
		cfg.Metric = "manhattan"
		_, err := New(cfg)
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "metric", ce.Field)
		assert.Equal(t, "manhattan", ce.Value)
	})
}

func TestFit_ConcurrentCalls(t *testing.T) {
	c, err := New(Config{NumClusters: 2, NumPoints: 10, NumDimensions: 2, MaxIterations: 10}, WithSeed(1))
	require.NoError(t, err)

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := c.Fit(context.Background(), referencePoints())
			errs <- err
		}()
	}
	for range 8 {
		assert.NoError(t, <-errs)
	}
}

func TestResult(t *testing.T) {
	res := fitReference(t, 10)

	low := res.Labels[0]
	members := res.Members(low)
	assert.Equal(t, uint64(5), members.GetCardinality())
	assert.True(t, members.Contains(4))
	assert.False(t, members.Contains(5))

	parts := res.Partition()
	require.Len(t, parts, 2)
	assert.Equal(t, uint64(10), parts[0].GetCardinality()+parts[1].GetCardinality())

	c, d, err := res.Predict([]float64{2, 2})
	require.NoError(t, err)
	assert.Equal(t, low, c)
	assert.InDelta(t, math.Sqrt(1+0.09), d, 1e-9)

	_, _, err = res.Predict([]float64{1})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, -1, dm.Index)
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 1, dm.Actual)
	var cause *distance.ErrDimensionMismatch
	assert.ErrorAs(t, err, &cause)

	_, _, err = (&Result{}).Predict(nil)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Fit(context.Background(), referencePoints(), 2, 3, WithSeed(1), WithLogger(logger.WithRunID("r1")))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"seeding completed"`)
	assert.Contains(t, out, `"msg":"iteration completed"`)
	assert.Contains(t, out, `"msg":"clustering completed"`)
	assert.Contains(t, out, `"run_id":"r1"`)
	assert.Contains(t, out, `"k":2`)

	buf.Reset()
	_, err = Fit(context.Background(), referencePoints()[:1], 2, 3, WithLogger(logger))
	require.Error(t, err)
	assert.Empty(t, buf.String(), "configuration errors are rejected before a run starts")
}

func flatten(rows [][]float64) []float64 {
	var out []float64
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
