package lloyd

import (
	"errors"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/lloyd/distance"
	"github.com/hupe1980/lloyd/internal/kmeans"
	"github.com/hupe1980/lloyd/resource"
)

// ErrEmptyResult is returned by Predict on a Result without centroids.
var ErrEmptyResult = errors.New("result has no centroids")

// Result is the terminal state of a run: the final centroids and the fully
// labeled dataset.
type Result struct {
	// Centroids holds K rows of D coordinates.
	Centroids [][]float64 `json:"centroids"`

	// Points is a copy of the clustered dataset, in input order.
	Points [][]float64 `json:"points"`

	// Labels[i] is the cluster of Points[i], in [0, K).
	Labels []int `json:"labels"`

	// Inertia is the sum of squared distances from points to their centroid.
	Inertia float64 `json:"inertia"`

	// Iterations is the number of completed assign/update rounds.
	Iterations int `json:"iterations"`

	// Converged is true only when early stop ended the run.
	Converged bool `json:"converged"`

	// Seeds are the dataset indices the initial centroids were copied from.
	Seeds []int `json:"seeds"`

	Memory  resource.Report `json:"memory"`
	Elapsed time.Duration   `json:"elapsed"`
}

// K returns the number of clusters.
func (r *Result) K() int { return len(r.Centroids) }

// Dim returns the number of coordinates per point.
func (r *Result) Dim() int {
	if len(r.Centroids) == 0 {
		return 0
	}
	return len(r.Centroids[0])
}

// Sizes returns the number of points in each cluster.
func (r *Result) Sizes() []int {
	return kmeans.Sizes(r.Labels, r.K())
}

// Members returns the indices of the points labeled c.
func (r *Result) Members(c int) *roaring.Bitmap {
	bm := roaring.New()
	for i, label := range r.Labels {
		if label == c {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Partition returns one membership bitmap per cluster.
func (r *Result) Partition() []*roaring.Bitmap {
	out := make([]*roaring.Bitmap, r.K())
	for c := range out {
		out[c] = roaring.New()
	}
	for i, label := range r.Labels {
		if label >= 0 && label < len(out) {
			out[label].Add(uint32(i))
		}
	}
	return out
}

// Predict returns the cluster whose centroid is nearest to p and the
// Euclidean distance to it.
func (r *Result) Predict(p []float64) (int, float64, error) {
	if r.K() == 0 {
		return -1, 0, ErrEmptyResult
	}

	best, minDist := -1, 0.0
	for j, centroid := range r.Centroids {
		d, err := distance.SquaredL2Checked(centroid, p)
		if err != nil {
			return -1, 0, translateError(err)
		}
		if best < 0 || d < minDist {
			best, minDist = j, d
		}
	}
	return best, distance.L2(p, r.Centroids[best]), nil
}
