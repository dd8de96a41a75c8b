package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recgo"
	"github.com/hupe1980/recgo/model"
)

func seedStore(t *testing.T) *recgo.Store {
	t.Helper()
	ctx := context.Background()
	s := recgo.New()

	records := []model.Record{
		{ID: 1, Gender: "female", Age: 30, Education: "masters", Music: "rock, jazz", Friends: []model.RecordID{2, 3, 4}},
		{ID: 2, Gender: "male", Age: 40, Education: "masters", Music: "rock", Friends: []model.RecordID{1}},
		{ID: 3, Gender: "female", Age: 20, Education: "phd", Music: "jazz", Friends: []model.RecordID{1}},
		{ID: 4, Gender: "male", Age: model.AgeUnknown, Music: "rock"},
		{ID: 5, Age: 50},
	}
	for _, r := range records {
		require.NoError(t, s.Insert(ctx, r))
	}
	return s
}

func TestCountByGender(t *testing.T) {
	s := seedStore(t)

	assert.Equal(t, map[string]int{
		"female":  2,
		"male":    2,
		"Unknown": 1,
	}, CountByGender(s))
}

func TestAverageAgeByGender(t *testing.T) {
	s := seedStore(t)

	got := AverageAgeByGender(s)
	require.Len(t, got, 3)
	assert.InDelta(t, 25.0, got["female"], 1e-9)
	assert.InDelta(t, 40.0, got["male"], 1e-9, "unknown ages are excluded")
	assert.InDelta(t, 50.0, got["Unknown"], 1e-9)
}

func TestTopEducations(t *testing.T) {
	s := seedStore(t)

	got := TopEducations(s, 10)
	require.Len(t, got, 2, "records without education are skipped")
	assert.Equal(t, CountEntry{Label: "masters", Count: 2}, got[0])
	assert.Equal(t, CountEntry{Label: "phd", Count: 1}, got[1])

	assert.Len(t, TopEducations(s, 1), 1)
}

func TestTopMusic(t *testing.T) {
	s := seedStore(t)

	got := TopMusic(s, 10)
	require.Len(t, got, 2)
	assert.Equal(t, CountEntry{Label: "rock", Count: 3}, got[0], "comma lists are split")
	assert.Equal(t, CountEntry{Label: "jazz", Count: 2}, got[1])
}

func TestConnectivity(t *testing.T) {
	s := seedStore(t)

	most := MostConnected(s, 2)
	require.Len(t, most, 2)
	assert.Equal(t, ConnectivityEntry{ID: 1, Degree: 3}, most[0])
	assert.Equal(t, ConnectivityEntry{ID: 2, Degree: 1}, most[1], "degree ties break by id")

	least := LeastConnected(s, 2)
	require.Len(t, least, 2)
	assert.Equal(t, ConnectivityEntry{ID: 4, Degree: 0}, least[0])
	assert.Equal(t, ConnectivityEntry{ID: 5, Degree: 0}, least[1])
}

func TestDegreeSummaries(t *testing.T) {
	s := seedStore(t)

	assert.InDelta(t, 1.0, AverageDegree(s), 1e-9) // (3+1+1+0+0)/5
	assert.Equal(t, 1, MedianDegree(s))
	assert.Equal(t, map[int]int{0: 2, 1: 2, 3: 1}, DegreeDistribution(s))
}

func TestEmptyStore(t *testing.T) {
	s := recgo.New()

	assert.Empty(t, CountByGender(s))
	assert.Empty(t, AverageAgeByGender(s))
	assert.Empty(t, TopEducations(s, 5))
	assert.Zero(t, AverageDegree(s))
	assert.Zero(t, MedianDegree(s))
	assert.Empty(t, MostConnected(s, 5))
}

func TestTopNonPositiveK(t *testing.T) {
	s := seedStore(t)

	assert.NotPanics(t, func() {
		assert.Empty(t, TopEducations(s, 0))
		assert.Empty(t, TopEducations(s, -1))
		assert.Empty(t, TopMusic(s, -3))
		assert.Empty(t, MostConnected(s, -1))
		assert.Empty(t, LeastConnected(s, 0))
	})
}
