// Package blobstore provides the storage abstraction for persisted run
// results.
//
// Store is the interface for writing and reading named blobs. Names are
// slash-separated (e.g. "<run-id>/points.dat"). Implementations must be safe
// for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests
//   - LocalStore: local filesystem with atomic writes
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
//	type Store interface {
//	    Put(ctx, name, data) error     // Atomic write
//	    Get(ctx, name) ([]byte, error) // ErrNotFound if missing
//	    Delete(ctx, name) error        // Idempotent
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
