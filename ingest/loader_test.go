package ingest

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recgo"
	"github.com/hupe1980/recgo/blobstore"
	"github.com/hupe1980/recgo/model"
)

const sampleCSV = `user_id,gender,age,eye_color,education,languages,music,friends
1,female,34,brown,masters,en;de,"rock, jazz",2;16
2.0,male,28.5,blue,,en,,1
16,female,-3,green,phd,,,1;17.0
,male,40,,,,,
bogus,male,40,,,,,
17,male,,,,,classical,18
`

func TestLoadCSV(t *testing.T) {
	ctx := context.Background()
	source := blobstore.NewMemoryStore()
	require.NoError(t, source.Put(ctx, "people.csv", []byte(sampleCSV)))

	dst := recgo.New()
	stats, err := LoadCSV(ctx, source, "people.csv", dst)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, 4, stats.Loaded)
	assert.Equal(t, 2, stats.Skipped, "missing and unparsable ids are dropped")
	assert.Equal(t, 0, stats.Duplicates)
	assert.Equal(t, 4, dst.Len())

	r1, err := dst.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 34, r1.Age)
	assert.Equal(t, "masters", r1.Education)
	assert.Equal(t, "rock, jazz", r1.Music)
	assert.Equal(t, []model.RecordID{2, 16}, r1.Friends)

	// Float-written id and age are tolerated; the age truncates.
	r2, err := dst.Get(2)
	require.NoError(t, err)
	assert.Equal(t, 28, r2.Age)

	// Non-positive age loads as unknown and stays out of the index.
	r16, err := dst.Get(16)
	require.NoError(t, err)
	assert.False(t, r16.HasAge())
	assert.Equal(t, []model.RecordID{1, 17}, r16.Friends, "float friend ids are tolerated")

	// Forward reference 17 -> 18 survives even though 18 never loads.
	assert.Equal(t, []model.RecordID{18}, dst.Neighbors(17))
}

func TestLoadCSVDuplicates(t *testing.T) {
	ctx := context.Background()
	source := blobstore.NewMemoryStore()
	require.NoError(t, source.Put(ctx, "dup.csv", []byte(
		"user_id,age\n1,30\n1,31\n2,40\n")))

	dst := recgo.New()
	// One worker keeps row order deterministic so the first row wins.
	stats, err := LoadCSV(ctx, source, "dup.csv", dst, WithWorkers(1))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 2, stats.Loaded)
	assert.Equal(t, 1, stats.Duplicates)

	// First row wins.
	r, err := dst.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 30, r.Age)
}

func TestLoadCSVGzip(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("user_id,age\n1,30\n2,40\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	source := blobstore.NewMemoryStore()
	require.NoError(t, source.Put(ctx, "people.csv.gz", buf.Bytes()))

	dst := recgo.New()
	stats, err := LoadCSV(ctx, source, "people.csv.gz", dst)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Loaded)
	assert.Equal(t, 2, dst.Len())
}

func TestLoadCSVMissingObject(t *testing.T) {
	ctx := context.Background()
	dst := recgo.New()

	_, err := LoadCSV(ctx, blobstore.NewMemoryStore(), "missing.csv", dst)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLoadCSVLargeParallel(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	buf.WriteString("user_id,age,friends\n")
	for i := 1; i <= 5000; i++ {
		buf.WriteString(strconv.Itoa(i))
		buf.WriteByte(',')
		buf.WriteString(strconv.Itoa(18 + i%60))
		buf.WriteByte(',')
		buf.WriteString(strconv.Itoa(i%5000 + 1))
		buf.WriteByte('\n')
	}

	source := blobstore.NewMemoryStore()
	require.NoError(t, source.Put(ctx, "big.csv", buf.Bytes()))

	dst := recgo.New()
	stats, err := LoadCSV(ctx, source, "big.csv", dst, WithWorkers(4))
	require.NoError(t, err)

	assert.Equal(t, 5000, stats.Loaded)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 5000, dst.Len())
	require.NoError(t, dst.Verify())
}

func TestParseFriends(t *testing.T) {
	assert.Nil(t, parseFriends(""))
	assert.Equal(t, []model.RecordID{1, 2}, parseFriends("1;2"))
	assert.Equal(t, []model.RecordID{1, 2}, parseFriends(" 1 ; 2.0 ; ; junk "))
}

func TestParseAge(t *testing.T) {
	assert.Equal(t, model.AgeUnknown, parseAge(""))
	assert.Equal(t, model.AgeUnknown, parseAge("-1"))
	assert.Equal(t, model.AgeUnknown, parseAge("n/a"))
	assert.Equal(t, 27, parseAge("27.9"))
}
