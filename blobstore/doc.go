// Package blobstore abstracts access to immutable dataset objects.
//
// A Store hands out sequential readers for named objects, which is all
// the ingest layer needs to stream a dataset file into the record store.
// Implementations:
//
//   - LocalStore: objects are files under a root directory
//   - MemoryStore: objects live in process memory, for testing
//   - s3.Store: objects in an AWS S3 bucket (subpackage s3)
//   - minio.Store: objects in any S3-compatible store (subpackage minio)
//
// Compressed objects are handled a layer up; see the ingest package.
package blobstore
