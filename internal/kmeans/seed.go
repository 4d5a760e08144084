package kmeans

import (
	"math/rand"

	"github.com/hupe1980/lloyd/distance"
)

// Seed chooses k initial centroids from ds using k-means++ and returns them
// together with the index of the point each centroid was copied from.
//
// The first centroid is a uniformly random point. Every further centroid is
// a point drawn with probability proportional to its squared distance to the
// nearest centroid chosen so far. If all remaining points coincide with
// chosen centroids (all weights zero), point 0 is selected.
//
// Requires 1 <= k and ds.Len() >= 1.
func Seed(ds *Dataset, k int, rng *rand.Rand) (*Clusters, []int) {
	return SeedWithDistance(ds, k, rng, distance.SquaredL2)
}

// SeedWithDistance is Seed with an explicit distance function, which is also
// attached to the returned clusters. dist must be non-negative.
func SeedWithDistance(ds *Dataset, k int, rng *rand.Rand, dist distance.Func) (*Clusters, []int) {
	n := ds.Len()
	cs := NewClustersWithDistance(k, ds.Dim(), dist)
	chosen := make([]int, k)

	chosen[0] = rng.Intn(n)
	cs.Set(0, ds.Point(chosen[0]))
	if k == 1 {
		return cs, chosen
	}

	// minDist[i] is the squared distance from point i to its nearest chosen
	// centroid; refreshed against each new centroid only.
	minDist := make([]float64, n)
	for i := range n {
		minDist[i] = cs.Distance(ds.Point(i), 0)
	}

	cum := &Cumulative{}
	for c := 1; c < k; c++ {
		cum.Reset(minDist)
		next := cum.Pick(rng.Float64())

		chosen[c] = next
		cs.Set(c, ds.Point(next))

		if c == k-1 {
			break
		}
		for i := range n {
			if d := cs.Distance(ds.Point(i), c); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return cs, chosen
}
