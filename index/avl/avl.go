package avl

import (
	"cmp"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/recgo/model"
)

// node is a tree node. Height is cached so the balance factor of a node
// is computable in O(1) during rebalancing.
//
// Invariant: ids is never empty. A key whose identifier set drains is
// structurally removed from the tree.
type node[K cmp.Ordered] struct {
	key    K
	ids    *roaring.Bitmap
	left   *node[K]
	right  *node[K]
	height int
}

// Tree is a height-balanced ordered index from keys to sets of record
// identifiers. The zero value is not usable; create trees with New.
//
// Tree is not safe for concurrent use. The owning store serializes
// writers and guards readers (see the recgo package).
type Tree[K cmp.Ordered] struct {
	root    *node[K]
	keys    int
	entries int
}

// New creates an empty tree.
func New[K cmp.Ordered]() *Tree[K] {
	return &Tree[K]{}
}

// Len returns the number of distinct keys in the tree.
func (t *Tree[K]) Len() int {
	return t.keys
}

// Entries returns the total number of (key, id) pairs in the tree.
func (t *Tree[K]) Entries() int {
	return t.entries
}

// Height returns the height of the tree (0 for an empty tree).
func (t *Tree[K]) Height() int {
	return height(t.root)
}

// pathEntry records one step of a root-to-node descent. dir is the child
// link that was followed, so rotations can be reparented without parent
// pointers.
type pathEntry[K cmp.Ordered] struct {
	n   *node[K]
	dir int8 // dirLeft or dirRight
}

const (
	dirLeft  int8 = -1
	dirRight int8 = 1
)

// Insert adds id under key. Inserting an id that is already present under
// the same key is a no-op. It reports whether the (key, id) pair was
// newly added.
func (t *Tree[K]) Insert(key K, id model.RecordID) bool {
	if t.root == nil {
		t.root = newLeaf(key, id)
		t.keys++
		t.entries++
		return true
	}

	path := make([]pathEntry[K], 0, t.Height()+1)
	n := t.root
	for {
		switch {
		case key < n.key:
			path = append(path, pathEntry[K]{n, dirLeft})
			if n.left == nil {
				n.left = newLeaf(key, id)
				t.keys++
				t.entries++
				t.rebalancePath(path)
				return true
			}
			n = n.left
		case key > n.key:
			path = append(path, pathEntry[K]{n, dirRight})
			if n.right == nil {
				n.right = newLeaf(key, id)
				t.keys++
				t.entries++
				t.rebalancePath(path)
				return true
			}
			n = n.right
		default:
			// Equal key: one node holds all ids for the key. No heights
			// change, so no rebalancing is needed.
			if n.ids.CheckedAdd(uint32(id)) {
				t.entries++
				return true
			}
			return false
		}
	}
}

// Lookup returns the identifiers stored under key in ascending id order,
// or nil if the key is absent.
func (t *Tree[K]) Lookup(key K) []model.RecordID {
	n := t.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return toIDs(n.ids)
		}
	}
	return nil
}

// Contains reports whether id is stored under key.
func (t *Tree[K]) Contains(key K, id model.RecordID) bool {
	n := t.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n.ids.Contains(uint32(id))
		}
	}
	return false
}

// Range returns all identifiers whose key lies in [min, max], ascending
// by key (ascending by id within a key). Bounds given in the wrong order
// are swapped, not rejected.
//
// The walk is a bound-pruned in-order traversal: subtrees that cannot
// intersect the range are never visited, so the cost is O(log N + K)
// where K is the number of nodes visited.
func (t *Tree[K]) Range(minKey, maxKey K) []model.RecordID {
	if maxKey < minKey {
		minKey, maxKey = maxKey, minKey
	}

	var out []model.RecordID
	stack := make([]*node[K], 0, t.Height()+1)

	// Descend the left spine, skipping subtrees entirely below minKey.
	descend := func(n *node[K]) {
		for n != nil {
			stack = append(stack, n)
			if minKey < n.key {
				n = n.left
			} else {
				n = nil
			}
		}
	}

	descend(t.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if minKey <= n.key && n.key <= maxKey {
			out = append(out, toIDs(n.ids)...)
		}
		if maxKey > n.key {
			descend(n.right)
		}
	}
	return out
}

// Remove deletes id from key's identifier set. When the set drains, the
// node is removed and the tree rebalanced. It reports whether the
// (key, id) pair existed; an absent key or id leaves the tree unchanged.
func (t *Tree[K]) Remove(key K, id model.RecordID) bool {
	path := make([]pathEntry[K], 0, t.Height()+1)
	n := t.root
	for n != nil {
		if key < n.key {
			path = append(path, pathEntry[K]{n, dirLeft})
			n = n.left
			continue
		}
		if key > n.key {
			path = append(path, pathEntry[K]{n, dirRight})
			n = n.right
			continue
		}
		break
	}
	if n == nil {
		return false
	}
	if !n.ids.CheckedRemove(uint32(id)) {
		return false
	}
	t.entries--
	if !n.ids.IsEmpty() {
		// Other ids still share the key: no structural change.
		return true
	}
	t.keys--
	t.removeNode(n, path)
	return true
}

// Min returns the smallest key in the tree.
func (t *Tree[K]) Min() (K, bool) {
	var zero K
	n := t.root
	if n == nil {
		return zero, false
	}
	for n.left != nil {
		n = n.left
	}
	return n.key, true
}

// Max returns the largest key in the tree.
func (t *Tree[K]) Max() (K, bool) {
	var zero K
	n := t.root
	if n == nil {
		return zero, false
	}
	for n.right != nil {
		n = n.right
	}
	return n.key, true
}

// removeNode unlinks n (whose identifier set is empty) and rebalances
// every ancestor on path bottom-up.
func (t *Tree[K]) removeNode(n *node[K], path []pathEntry[K]) {
	if n.left != nil && n.right != nil {
		// Two children: move the in-order successor's payload into n,
		// then unlink the successor, which has no left child.
		path = append(path, pathEntry[K]{n, dirRight})
		s := n.right
		for s.left != nil {
			path = append(path, pathEntry[K]{s, dirLeft})
			s = s.left
		}
		n.key, n.ids = s.key, s.ids
		n = s
	}

	child := n.left
	if child == nil {
		child = n.right
	}
	if len(path) == 0 {
		t.root = child
	} else {
		p := path[len(path)-1]
		if p.dir == dirLeft {
			p.n.left = child
		} else {
			p.n.right = child
		}
	}
	t.rebalancePath(path)
}

// rebalancePath recomputes heights and repairs balance from the deepest
// path entry up to the root. Rotations start at the lowest violated
// ancestor; each level costs O(1).
func (t *Tree[K]) rebalancePath(path []pathEntry[K]) {
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i].n
		updateHeight(n)
		r := rebalance(n)
		if r == n {
			continue
		}
		if i == 0 {
			t.root = r
		} else if p := path[i-1]; p.dir == dirLeft {
			p.n.left = r
		} else {
			p.n.right = r
		}
	}
}

// rebalance repairs a single node whose subtrees differ in height by more
// than one. The rotation (single or double) is chosen from the sign of
// the heavier child's balance factor: LL/RR take one rotation, LR/RL two.
func rebalance[K cmp.Ordered](n *node[K]) *node[K] {
	switch bf := balance(n); {
	case bf > 1:
		if balance(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if balance(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	default:
		return n
	}
}

func rotateLeft[K cmp.Ordered](z *node[K]) *node[K] {
	y := z.right
	z.right = y.left
	y.left = z
	updateHeight(z)
	updateHeight(y)
	return y
}

func rotateRight[K cmp.Ordered](z *node[K]) *node[K] {
	y := z.left
	z.left = y.right
	y.right = z
	updateHeight(z)
	updateHeight(y)
	return y
}

func newLeaf[K cmp.Ordered](key K, id model.RecordID) *node[K] {
	n := &node[K]{key: key, ids: roaring.New(), height: 1}
	n.ids.Add(uint32(id))
	return n
}

func height[K cmp.Ordered](n *node[K]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func updateHeight[K cmp.Ordered](n *node[K]) {
	n.height = 1 + max(height(n.left), height(n.right))
}

func balance[K cmp.Ordered](n *node[K]) int {
	return height(n.left) - height(n.right)
}

func toIDs(bm *roaring.Bitmap) []model.RecordID {
	out := make([]model.RecordID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, model.RecordID(it.Next()))
	}
	return out
}
