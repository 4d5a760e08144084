// Package datagen generates synthetic point sets for clustering runs,
// tests and benchmarks.
//
//	rng := datagen.NewRNG(seed)
//	points := rng.UniformIntPoints(n, dim, datagen.DefaultLow, datagen.DefaultHigh)
//	blobs := rng.Blobs([][]float64{{0, 0}, {10, 10}}, 50, 0.5)
package datagen
