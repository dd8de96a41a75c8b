// Package avl implements a height-balanced (AVL) ordered index mapping
// scalar keys to sets of record identifiers.
//
// The tree is the ordered secondary index of the store: each distinct key
// owns a single node holding a roaring bitmap of record identifiers, so
// ties never split into multiple nodes. Point lookups are O(log N) and
// range lookups are O(log N + K) via a bound-pruned in-order walk.
//
// All operations are iterative with explicit path stacks. There are no
// parent pointers and no recursion, so stack usage is bounded regardless
// of key distribution.
package avl
