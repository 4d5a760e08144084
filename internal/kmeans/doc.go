// Package kmeans implements the Lloyd iteration building blocks.
//
// A Dataset stores N points of D coordinates in a single flat buffer together
// with one label per point. Clusters stores K centroids the same way. Seed
// chooses the initial centroids with k-means++, Assign labels each point with
// its nearest centroid and Update moves every non-empty centroid to the mean of
// its members. The parallel variants partition points into contiguous chunks
// and produce the same labels and (up to floating-point summation order) the
// same centroids as their serial counterparts.
package kmeans
