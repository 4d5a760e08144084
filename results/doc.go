// Package results persists and reports clustering runs.
//
// A saved run lives under "<run-id>/" in a blobstore.Store:
//
//	<run-id>/points.dat       one line per point: coordinates then label
//	<run-id>/clusters.dat     one line per centroid
//	<run-id>/result.<codec>   the full lloyd.Result
//	<run-id>/manifest.json    codec, compression and file sizes
//
// The .dat files use six-decimal fixed notation separated by spaces, and may
// carry a compression suffix (".lz4", ".zst"). SQLiteSink stores the same data
// relationally.
package results
