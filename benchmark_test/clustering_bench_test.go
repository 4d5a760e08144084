package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/datagen"
	"github.com/hupe1980/lloyd/distance"
)

func formatDim(dim int) string   { return fmt.Sprintf("dim=%d", dim) }
func formatCount(n int) string   { return fmt.Sprintf("n=%d", n) }
func formatWorkers(w int) string { return fmt.Sprintf("workers=%d", w) }

// BenchmarkFit benchmarks a full run (seed + 10 rounds) across dimensions.
func BenchmarkFit(b *testing.B) {
	dimensions := []int{2, 16, 128}

	for _, dim := range dimensions {
		b.Run(formatDim(dim), func(b *testing.B) {
			points := datagen.NewRNG(1).UniformIntPoints(10_000, dim, datagen.DefaultLow, datagen.DefaultHigh)
			c, err := lloyd.New(lloyd.Config{
				NumClusters:   16,
				NumPoints:     len(points),
				NumDimensions: dim,
				MaxIterations: 10,
			}, lloyd.WithSeed(1))
			if err != nil {
				b.Fatal(err)
			}

			ctx := context.Background()
			b.ResetTimer()

			for b.Loop() {
				if _, err := c.Fit(ctx, points); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkFitWorkers benchmarks parallel assignment and update.
func BenchmarkFitWorkers(b *testing.B) {
	points := datagen.NewRNG(2).UniformIntPoints(50_000, 32, datagen.DefaultLow, datagen.DefaultHigh)

	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(formatWorkers(workers), func(b *testing.B) {
			c, err := lloyd.New(lloyd.Config{
				NumClusters:   32,
				NumPoints:     len(points),
				NumDimensions: 32,
				MaxIterations: 5,
			}, lloyd.WithSeed(2), lloyd.WithWorkers(workers))
			if err != nil {
				b.Fatal(err)
			}

			ctx := context.Background()
			b.ResetTimer()

			for b.Loop() {
				if _, err := c.Fit(ctx, points); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkFitPoints benchmarks scaling in the number of points.
func BenchmarkFitPoints(b *testing.B) {
	for _, n := range []int{1_000, 10_000, 100_000} {
		b.Run(formatCount(n), func(b *testing.B) {
			points := datagen.NewRNG(3).UniformIntPoints(n, 8, datagen.DefaultLow, datagen.DefaultHigh)
			ctx := context.Background()
			b.ResetTimer()

			for b.Loop() {
				if _, err := lloyd.Fit(ctx, points, 8, 5, lloyd.WithSeed(3)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSquaredL2 benchmarks the distance kernel.
func BenchmarkSquaredL2(b *testing.B) {
	for _, dim := range []int{2, 16, 128, 1024} {
		b.Run(formatDim(dim), func(b *testing.B) {
			rows := datagen.NewRNG(4).UniformPoints(2, dim, 0, 1)
			b.SetBytes(int64(dim * 8 * 2))
			b.ResetTimer()

			var sink float64
			for b.Loop() {
				sink += distance.SquaredL2(rows[0], rows[1])
			}
			_ = sink
		})
	}
}
