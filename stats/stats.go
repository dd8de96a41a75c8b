package stats

import (
	"sort"
	"strings"

	"github.com/hupe1980/recgo"
	"github.com/hupe1980/recgo/model"
)

// unknownLabel buckets records whose attribute is empty.
const unknownLabel = "Unknown"

// CountEntry is one labelled bucket of a distribution.
type CountEntry struct {
	Label string
	Count int
}

// ConnectivityEntry pairs a record identifier with its relation count.
type ConnectivityEntry struct {
	ID     model.RecordID
	Degree int
}

// CountByGender counts records per gender. Records without a gender fall
// into the Unknown bucket.
func CountByGender(s *recgo.Store) map[string]int {
	counts := make(map[string]int)
	for r := range s.Records() {
		counts[labelOrUnknown(r.Gender)]++
	}
	return counts
}

// AverageAgeByGender returns the mean known age per gender. Records with
// unknown age are excluded; genders with no aged records are absent from
// the result.
func AverageAgeByGender(s *recgo.Store) map[string]float64 {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for r := range s.Records() {
		if !r.HasAge() {
			continue
		}
		g := labelOrUnknown(r.Gender)
		sums[g] += r.Age
		counts[g]++
	}

	out := make(map[string]float64, len(sums))
	for g, sum := range sums {
		out[g] = float64(sum) / float64(counts[g])
	}
	return out
}

// TopEducations returns the k most common education values, descending
// by count. Ties break by label so the result is deterministic. Records
// without an education value are skipped. A k below one yields an empty
// result.
func TopEducations(s *recgo.Store, k int) []CountEntry {
	counts := make(map[string]int)
	for r := range s.Records() {
		if r.Education != "" {
			counts[r.Education]++
		}
	}
	return topK(counts, k)
}

// TopMusic returns the k most common music preferences, descending by
// count. The music attribute is a comma-separated list; each entry
// counts once per record.
func TopMusic(s *recgo.Store, k int) []CountEntry {
	counts := make(map[string]int)
	for r := range s.Records() {
		for _, m := range strings.Split(r.Music, ",") {
			if m = strings.TrimSpace(m); m != "" {
				counts[m]++
			}
		}
	}
	return topK(counts, k)
}

// MostConnected returns the k records with the most forward relations,
// descending by degree, ties broken by ascending identifier.
func MostConnected(s *recgo.Store, k int) []ConnectivityEntry {
	return takeByDegree(connectivity(s), k, true)
}

// LeastConnected returns the k records with the fewest forward
// relations, ascending by degree, ties broken by ascending identifier.
func LeastConnected(s *recgo.Store, k int) []ConnectivityEntry {
	return takeByDegree(connectivity(s), k, false)
}

// AverageDegree returns the mean forward relation count over all
// records, 0 for an empty store.
func AverageDegree(s *recgo.Store) float64 {
	entries := connectivity(s)
	if len(entries) == 0 {
		return 0
	}
	total := 0
	for _, e := range entries {
		total += e.Degree
	}
	return float64(total) / float64(len(entries))
}

// MedianDegree returns the median forward relation count over all
// records, 0 for an empty store. For an even count the lower middle
// value is used.
func MedianDegree(s *recgo.Store) int {
	entries := connectivity(s)
	if len(entries) == 0 {
		return 0
	}
	degrees := make([]int, len(entries))
	for i, e := range entries {
		degrees[i] = e.Degree
	}
	sort.Ints(degrees)
	return degrees[(len(degrees)-1)/2]
}

// DegreeDistribution returns how many records have each forward relation
// count.
func DegreeDistribution(s *recgo.Store) map[int]int {
	dist := make(map[int]int)
	for _, e := range connectivity(s) {
		dist[e.Degree]++
	}
	return dist
}

func connectivity(s *recgo.Store) []ConnectivityEntry {
	ids := make([]model.RecordID, 0, s.Len())
	for r := range s.Records() {
		ids = append(ids, r.ID)
	}

	// Degree takes the store lock per call, so it runs outside the
	// Records iteration.
	entries := make([]ConnectivityEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, ConnectivityEntry{ID: id, Degree: s.Degree(id)})
	}
	return entries
}

func takeByDegree(entries []ConnectivityEntry, k int, descending bool) []ConnectivityEntry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Degree != entries[j].Degree {
			if descending {
				return entries[i].Degree > entries[j].Degree
			}
			return entries[i].Degree < entries[j].Degree
		}
		return entries[i].ID < entries[j].ID
	})
	if k = max(k, 0); k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

func topK(counts map[string]int, k int) []CountEntry {
	entries := make([]CountEntry, 0, len(counts))
	for label, count := range counts {
		entries = append(entries, CountEntry{Label: label, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	if k = max(k, 0); k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

func labelOrUnknown(label string) string {
	if label == "" {
		return unknownLabel
	}
	return label
}
