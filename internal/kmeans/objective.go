package kmeans

// Inertia returns the sum over labeled points of the distance to their
// assigned centroid. Unassigned points contribute nothing.
func Inertia(ds *Dataset, cs *Clusters) float64 {
	var sum float64
	for i := range ds.Len() {
		c := ds.labels[i]
		if c < 0 {
			continue
		}
		sum += cs.Distance(ds.Point(i), c)
	}
	return sum
}

// Sizes returns the number of points carrying each label in [0, k).
func Sizes(labels []int, k int) []int {
	sizes := make([]int, k)
	for _, c := range labels {
		if c >= 0 && c < k {
			sizes[c]++
		}
	}
	return sizes
}
