package ingest

import (
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// decompress wraps r in a decoder chosen by the object name's extension.
// Unrecognized extensions pass through unchanged. The returned closer
// releases decoder state only; the caller still closes the underlying
// reader.
func decompress(name string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz", ".gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}
