// Package blobstore provides the storage abstraction backing scope snapshot
// export and import (see package snapshot): a BlobStore holds the
// serialized, compressed Frequency Store hashes of one scope.
//
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and parallel uploads
//   - minio.Store: any S3-compatible object store via minio-go
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)             // Open for reading
//	    Create(ctx, name) (WritableBlob, error)   // Create for writing
//	    Put(ctx, name, data) error                // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
