package kmeans

import "github.com/hupe1980/lloyd/distance"

// Clusters holds exactly K centroids of D coordinates in one flat buffer,
// together with the distance function points are compared with.
type Clusters struct {
	k      int
	dim    int
	coords []float64
	dist   distance.Func
}

// NewClusters allocates k zeroed centroids of dimension dim compared by
// squared Euclidean distance.
func NewClusters(k, dim int) *Clusters {
	return NewClustersWithDistance(k, dim, distance.SquaredL2)
}

// NewClustersWithDistance is NewClusters with an explicit distance function.
// A nil dist selects squared Euclidean distance.
func NewClustersWithDistance(k, dim int, dist distance.Func) *Clusters {
	if dist == nil {
		dist = distance.SquaredL2
	}
	return &Clusters{
		k:      k,
		dim:    dim,
		coords: make([]float64, k*dim),
		dist:   dist,
	}
}

// Len returns the number of centroids.
func (c *Clusters) Len() int { return c.k }

// Dim returns the number of coordinates per centroid.
func (c *Clusters) Dim() int { return c.dim }

// Centroid returns the coordinates of centroid j, aliasing the buffer.
func (c *Clusters) Centroid(j int) []float64 {
	off := j * c.dim
	return c.coords[off : off+c.dim : off+c.dim]
}

// Distance returns the distance from p to centroid j.
func (c *Clusters) Distance(p []float64, j int) float64 {
	return c.dist(p, c.Centroid(j))
}

// Set copies src into centroid j.
func (c *Clusters) Set(j int, src []float64) {
	copy(c.Centroid(j), src)
}

// Rows returns a copy of the centroids as one row per centroid.
func (c *Clusters) Rows() [][]float64 {
	return rows(c.coords, c.k, c.dim)
}
