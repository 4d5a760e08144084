package kmeans

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Update moves each centroid to the coordinate-wise mean of the points
// labeled with its index and returns the member count per cluster.
//
// A cluster without members keeps its previous coordinates unchanged;
// empty clusters are neither reseeded nor reported as errors.
func Update(ds *Dataset, cs *Clusters) []int {
	sums := make([]float64, cs.Len()*cs.Dim())
	counts := make([]int, cs.Len())

	accumulate(ds, 0, ds.Len(), sums, counts)
	apply(cs, sums, counts)

	return counts
}

// UpdateParallel is Update with the accumulation split across workers.
// Partial sums are merged in span order, so the result does not depend on
// goroutine scheduling.
func UpdateParallel(ctx context.Context, ds *Dataset, cs *Clusters, workers int) ([]int, error) {
	spans := partition(ds.Len(), workers)
	if len(spans) <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Update(ds, cs), nil
	}

	width := cs.Len() * cs.Dim()
	partSums := make([][]float64, len(spans))
	partCounts := make([][]int, len(spans))

	g, ctx := errgroup.WithContext(ctx)
	for w, s := range spans {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sums := make([]float64, width)
			counts := make([]int, cs.Len())
			accumulate(ds, s.lo, s.hi, sums, counts)
			partSums[w] = sums
			partCounts[w] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sums := partSums[0]
	counts := partCounts[0]
	for w := 1; w < len(spans); w++ {
		for i, v := range partSums[w] {
			sums[i] += v
		}
		for c, v := range partCounts[w] {
			counts[c] += v
		}
	}

	apply(cs, sums, counts)
	return counts, nil
}

func accumulate(ds *Dataset, lo, hi int, sums []float64, counts []int) {
	dim := ds.dim
	for i := lo; i < hi; i++ {
		c := ds.labels[i]
		if c < 0 {
			continue
		}
		row := sums[c*dim : (c+1)*dim]
		for d, v := range ds.Point(i) {
			row[d] += v
		}
		counts[c]++
	}
}

func apply(cs *Clusters, sums []float64, counts []int) {
	dim := cs.dim
	for c, count := range counts {
		if count == 0 {
			continue
		}
		n := float64(count)
		centroid := cs.Centroid(c)
		for d := range centroid {
			centroid[d] = sums[c*dim+d] / n
		}
	}
}
