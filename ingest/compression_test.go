package ingest

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompressZstd(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte("user_id,age\n1,30\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	r, err := decompress("people.csv.zst", &buf)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "user_id,age\n1,30\n", string(data))
}

func TestDecompressLZ4(t *testing.T) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write([]byte("user_id,age\n1,30\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := decompress("people.csv.lz4", &buf)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "user_id,age\n1,30\n", string(data))
}

func TestDecompressPassthrough(t *testing.T) {
	r, err := decompress("people.csv", bytes.NewReader([]byte("plain")))
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(data))
}
