package avl

import (
	"cmp"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recgo/model"
)

// checkInvariants walks the whole tree and fails the test on any balance,
// ordering, height-cache or empty-set violation.
func checkInvariants[K cmp.Ordered](t *testing.T, tr *Tree[K]) {
	t.Helper()

	var walk func(n *node[K]) int
	walk = func(n *node[K]) int {
		if n == nil {
			return 0
		}
		hl := walk(n.left)
		hr := walk(n.right)

		require.Equal(t, 1+max(hl, hr), n.height, "stale cached height at key %v", n.key)
		require.LessOrEqual(t, hl-hr, 1, "left-heavy violation at key %v", n.key)
		require.GreaterOrEqual(t, hl-hr, -1, "right-heavy violation at key %v", n.key)
		require.False(t, n.ids.IsEmpty(), "empty identifier set at key %v", n.key)

		if n.left != nil {
			require.Less(t, n.left.key, n.key)
		}
		if n.right != nil {
			require.Greater(t, n.right.key, n.key)
		}
		return n.height
	}
	walk(tr.root)
}

func TestTreeInsertLookup(t *testing.T) {
	tr := New[int]()

	require.True(t, tr.Insert(25, 3))
	require.True(t, tr.Insert(20, 1))
	require.True(t, tr.Insert(22, 2))

	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 3, tr.Entries())
	assert.Equal(t, []model.RecordID{1}, tr.Lookup(20))
	assert.Equal(t, []model.RecordID{2}, tr.Lookup(22))
	assert.Nil(t, tr.Lookup(99))

	checkInvariants(t, tr)
}

func TestTreeMultiValueKey(t *testing.T) {
	tr := New[int]()

	require.True(t, tr.Insert(30, 7))
	require.True(t, tr.Insert(30, 5))
	require.False(t, tr.Insert(30, 7), "duplicate (key,id) must be a no-op")

	assert.Equal(t, 1, tr.Len(), "ties share one node")
	assert.Equal(t, 2, tr.Entries())
	assert.Equal(t, []model.RecordID{5, 7}, tr.Lookup(30))

	// Removing one id from a multi-id key is not a structural delete.
	require.True(t, tr.Remove(30, 5))
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, []model.RecordID{7}, tr.Lookup(30))

	// Draining the set removes the node.
	require.True(t, tr.Remove(30, 7))
	assert.Equal(t, 0, tr.Len())
	assert.Nil(t, tr.Lookup(30))
	checkInvariants(t, tr)
}

func TestTreeRemoveMissing(t *testing.T) {
	tr := New[int]()
	tr.Insert(10, 1)

	assert.False(t, tr.Remove(11, 1), "absent key")
	assert.False(t, tr.Remove(10, 2), "absent id")
	assert.Equal(t, 1, tr.Entries())
	checkInvariants(t, tr)
}

func TestTreeRange(t *testing.T) {
	tr := New[int]()
	tr.Insert(20, 1)
	tr.Insert(22, 2)
	tr.Insert(25, 3)

	assert.Equal(t, []model.RecordID{1, 2}, tr.Range(20, 22))
	assert.Equal(t, []model.RecordID{1, 2, 3}, tr.Range(0, 100))
	assert.Empty(t, tr.Range(26, 30))

	// Reversed bounds are normalized, not rejected.
	assert.Equal(t, []model.RecordID{1, 2}, tr.Range(22, 20))

	// Single-point range.
	assert.Equal(t, []model.RecordID{3}, tr.Range(25, 25))
}

func TestTreeRangeAscendingKeyOrder(t *testing.T) {
	tr := New[int]()
	keys := []int{50, 20, 80, 10, 30, 70, 90, 25, 35}
	for i, k := range keys {
		tr.Insert(k, model.RecordID(i))
	}

	got := tr.Range(10, 90)
	// The walk yields ids grouped by ascending key.
	want := []model.RecordID{3, 1, 7, 4, 8, 0, 5, 2, 6}
	assert.Equal(t, want, got)
}

func TestTreeRotations(t *testing.T) {
	cases := []struct {
		name string
		keys []int
	}{
		{"LeftLeft", []int{30, 20, 10}},
		{"LeftRight", []int{30, 10, 20}},
		{"RightRight", []int{10, 20, 30}},
		{"RightLeft", []int{10, 30, 20}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := New[int]()
			for i, k := range tc.keys {
				tr.Insert(k, model.RecordID(i))
			}
			checkInvariants(t, tr)
			require.Equal(t, 20, tr.root.key, "rotation must hoist the middle key")
			assert.Equal(t, 2, tr.Height())
		})
	}
}

func TestTreeSequentialInsertStaysBalanced(t *testing.T) {
	tr := New[int]()
	const n = 1 << 12
	for i := range n {
		tr.Insert(i, model.RecordID(i))
	}
	checkInvariants(t, tr)

	// A balanced tree over 4096 keys must stay close to log2(n).
	assert.LessOrEqual(t, tr.Height(), 20)
	assert.Equal(t, n, tr.Len())
}

func TestTreeRandomizedAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(4711))
	tr := New[int]()
	ref := make(map[int]map[model.RecordID]struct{})

	refInsert := func(k int, id model.RecordID) {
		if ref[k] == nil {
			ref[k] = make(map[model.RecordID]struct{})
		}
		ref[k][id] = struct{}{}
	}
	refRemove := func(k int, id model.RecordID) {
		if s := ref[k]; s != nil {
			delete(s, id)
			if len(s) == 0 {
				delete(ref, k)
			}
		}
	}

	const ops = 20000
	for range ops {
		k := rng.Intn(120)
		id := model.RecordID(rng.Intn(400))
		if rng.Intn(3) == 0 {
			tr.Remove(k, id)
			refRemove(k, id)
		} else {
			tr.Insert(k, id)
			refInsert(k, id)
		}
	}
	checkInvariants(t, tr)

	require.Equal(t, len(ref), tr.Len())
	for k, s := range ref {
		got := tr.Lookup(k)
		require.Len(t, got, len(s), "key %d", k)
		for _, id := range got {
			_, ok := s[id]
			require.True(t, ok, "key %d id %d", k, id)
		}
	}

	// Range over random windows must equal a reference scan.
	for range 50 {
		lo := rng.Intn(120)
		hi := rng.Intn(120)
		got := tr.Range(lo, hi)

		if hi < lo {
			lo, hi = hi, lo
		}
		var want []model.RecordID
		for k := lo; k <= hi; k++ {
			if s := ref[k]; s != nil {
				ids := make([]model.RecordID, 0, len(s))
				for id := range s {
					ids = append(ids, id)
				}
				slices.Sort(ids)
				want = append(want, ids...)
			}
		}
		require.Equal(t, want, got, "range [%d,%d]", lo, hi)
	}
}

func TestTreeDeleteRebalances(t *testing.T) {
	tr := New[int]()
	for i := range 64 {
		tr.Insert(i, model.RecordID(i))
	}
	// Carve out one side to force rebalancing rotations on the way up.
	for i := range 48 {
		require.True(t, tr.Remove(i, model.RecordID(i)))
		checkInvariants(t, tr)
	}
	assert.Equal(t, 16, tr.Len())

	minKey, ok := tr.Min()
	require.True(t, ok)
	assert.Equal(t, 48, minKey)
	maxKey, ok := tr.Max()
	require.True(t, ok)
	assert.Equal(t, 63, maxKey)
}

func TestTreeEmpty(t *testing.T) {
	tr := New[int]()

	assert.Nil(t, tr.Lookup(1))
	assert.Empty(t, tr.Range(0, 10))
	assert.False(t, tr.Remove(1, 1))
	assert.Equal(t, 0, tr.Height())

	_, ok := tr.Min()
	assert.False(t, ok)
	_, ok = tr.Max()
	assert.False(t, ok)
}

func BenchmarkTreeInsert(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	tr := New[int]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Insert(rng.Intn(1<<20), model.RecordID(i))
	}
}

func BenchmarkTreeRange(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	tr := New[int]()
	for i := range 1 << 16 {
		tr.Insert(rng.Intn(100), model.RecordID(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lo := rng.Intn(100)
		_ = tr.Range(lo, lo+10)
	}
}
