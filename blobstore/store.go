package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a dataset object does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for reading immutable dataset objects from a
// backing location, such as a local directory, process memory or an
// S3-compatible object store. The ingest layer streams dataset files
// through this interface without caring where they live.
type Store interface {
	// Open opens the named object for sequential reading.
	// The caller owns the returned reader and must close it.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// List returns the object names under the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
