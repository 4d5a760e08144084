package kmeans

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Assign labels every point with the index of its nearest centroid and
// returns the number of labels that changed.
//
// Centroids are scanned in index order and a label is replaced only on a
// strict improvement, so ties go to the lowest index.
func Assign(ds *Dataset, cs *Clusters) int {
	return assignRange(ds, cs, 0, ds.Len())
}

// AssignParallel is Assign with points split across workers goroutines.
// Each label is written by exactly one goroutine; centroids are read-only.
func AssignParallel(ctx context.Context, ds *Dataset, cs *Clusters, workers int) (int, error) {
	spans := partition(ds.Len(), workers)
	if len(spans) <= 1 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return Assign(ds, cs), nil
	}

	changed := make([]int, len(spans))
	g, ctx := errgroup.WithContext(ctx)
	for w, s := range spans {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed[w] = assignRange(ds, cs, s.lo, s.hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, c := range changed {
		total += c
	}
	return total, nil
}

// Nearest returns the index of the centroid closest to p and its distance
// under the clusters' distance function, breaking ties by lowest index.
func Nearest(p []float64, cs *Clusters) (int, float64) {
	best := 0
	minDist := cs.Distance(p, 0)

	for j := 1; j < cs.Len(); j++ {
		if d := cs.Distance(p, j); d < minDist {
			minDist = d
			best = j
		}
	}
	return best, minDist
}

func assignRange(ds *Dataset, cs *Clusters, lo, hi int) int {
	changed := 0
	for i := lo; i < hi; i++ {
		best, _ := Nearest(ds.Point(i), cs)
		if ds.labels[i] != best {
			ds.labels[i] = best
			changed++
		}
	}
	return changed
}
