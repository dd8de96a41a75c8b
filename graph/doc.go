// Package graph implements the relation graph of the store: a directed
// adjacency structure over record identifiers with breadth-first shortest
// paths, iterative depth-first traversal and per-node statistics.
//
// Forward adjacency is kept twice per node: an insertion-ordered slice
// that preserves the order edges were added in (traversals visit
// neighbors in that order), and a roaring bitmap for O(1) membership
// checks. A reverse-adjacency bitmap view makes node removal O(degree)
// instead of a full scan.
//
// Graphs are directed by default; WithUndirected mirrors every edge on
// insertion. Traversals are iterative with explicit frontiers, so stack
// usage is bounded on arbitrarily deep graphs.
package graph
