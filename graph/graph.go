package graph

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/recgo/model"
)

// Order selects the order in which traversals visit the neighbors of a
// node.
type Order int

const (
	// OrderInsertion visits neighbors in the order their edges were added.
	OrderInsertion Order = iota
	// OrderAscending visits neighbors in ascending identifier order.
	OrderAscending
	// OrderDescending visits neighbors in descending identifier order.
	OrderDescending
)

// Options for the graph.
type Options struct {
	// Undirected mirrors every edge on insertion so relations become
	// symmetric. The default is a directed graph.
	Undirected bool

	// TraversalOrder is the neighbor visit policy for DFSOrder.
	// BFS-based operations always use insertion order so that shortest
	// paths are reproducible.
	TraversalOrder Order
}

// Option is a function type that modifies graph options.
type Option func(*Options)

// WithUndirected mirrors every added edge.
func WithUndirected() Option {
	return func(o *Options) {
		o.Undirected = true
	}
}

// WithTraversalOrder sets the neighbor visit policy for depth-first
// traversal.
func WithTraversalOrder(order Order) Option {
	return func(o *Options) {
		o.TraversalOrder = order
	}
}

// Graph is a directed adjacency structure over record identifiers.
//
// Graph is not safe for concurrent use. The owning store serializes
// writers and guards readers (see the recgo package).
type Graph struct {
	opts  Options
	nodes *roaring.Bitmap

	// adj preserves edge insertion order and may contain duplicates;
	// fwd is its distinct-membership view. rev holds incoming edges so
	// RemoveNode touches only the affected adjacency lists.
	adj map[model.RecordID][]model.RecordID
	fwd map[model.RecordID]*roaring.Bitmap
	rev map[model.RecordID]*roaring.Bitmap

	edges int
}

// New creates an empty graph.
func New(optFns ...Option) *Graph {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Graph{
		opts:  opts,
		nodes: roaring.New(),
		adj:   make(map[model.RecordID][]model.RecordID),
		fwd:   make(map[model.RecordID]*roaring.Bitmap),
		rev:   make(map[model.RecordID]*roaring.Bitmap),
	}
}

// AddNode registers id as a node without edges. Adding an existing node
// is a no-op. It reports whether the node was newly added.
func (g *Graph) AddNode(id model.RecordID) bool {
	return g.nodes.CheckedAdd(uint32(id))
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id model.RecordID) bool {
	return g.nodes.Contains(uint32(id))
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return int(g.nodes.GetCardinality())
}

// EdgeCount returns the number of distinct directed edges. In an
// undirected graph each relation counts twice, once per direction.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Nodes returns all node identifiers in ascending order.
func (g *Graph) Nodes() []model.RecordID {
	out := make([]model.RecordID, 0, g.nodes.GetCardinality())
	it := g.nodes.Iterator()
	for it.HasNext() {
		out = append(out, model.RecordID(it.Next()))
	}
	return out
}

// AddEdge adds the directed edge from -> to, registering both endpoints
// as nodes. In an undirected graph the mirror edge is added as well.
// Repeated insertions append to the adjacency list but leave the
// distinct edge count unchanged.
func (g *Graph) AddEdge(from, to model.RecordID) {
	g.nodes.Add(uint32(from))
	g.nodes.Add(uint32(to))

	g.addArc(from, to)
	if g.opts.Undirected && from != to {
		g.addArc(to, from)
	}
}

func (g *Graph) addArc(from, to model.RecordID) {
	g.adj[from] = append(g.adj[from], to)
	if g.membership(from).CheckedAdd(uint32(to)) {
		g.edges++
	}
	g.incoming(to).Add(uint32(from))
}

// HasEdge reports whether the directed edge from -> to exists.
func (g *Graph) HasEdge(from, to model.RecordID) bool {
	bm, ok := g.fwd[from]
	return ok && bm.Contains(uint32(to))
}

// Neighbors returns the forward neighbors of id in edge insertion order,
// duplicates included. The returned slice is a copy.
func (g *Graph) Neighbors(id model.RecordID) []model.RecordID {
	return slices.Clone(g.adj[id])
}

// Degree returns the length of id's forward adjacency list.
func (g *Graph) Degree(id model.RecordID) int {
	return len(g.adj[id])
}

// RemoveEdge deletes every occurrence of the directed edge from -> to
// (and the mirror edge in an undirected graph). It reports whether the
// edge existed. The endpoints stay registered as nodes.
func (g *Graph) RemoveEdge(from, to model.RecordID) bool {
	ok := g.removeArc(from, to)
	if g.opts.Undirected && from != to {
		ok = g.removeArc(to, from) || ok
	}
	return ok
}

func (g *Graph) removeArc(from, to model.RecordID) bool {
	bm, ok := g.fwd[from]
	if !ok || !bm.CheckedRemove(uint32(to)) {
		return false
	}
	g.edges--
	g.adj[from] = slices.DeleteFunc(g.adj[from], func(v model.RecordID) bool {
		return v == to
	})
	if in, ok := g.rev[to]; ok {
		in.Remove(uint32(from))
	}
	return true
}

// RemoveNode deletes id together with every incident edge, in either
// direction. Removing an unknown node is a no-op. The cost is
// proportional to the degree of id, not to the size of the graph.
func (g *Graph) RemoveNode(id model.RecordID) bool {
	if !g.nodes.CheckedRemove(uint32(id)) {
		return false
	}

	// Outgoing: drop id from every successor's incoming view.
	if out, ok := g.fwd[id]; ok {
		g.edges -= int(out.GetCardinality())
		it := out.Iterator()
		for it.HasNext() {
			to := model.RecordID(it.Next())
			if in, ok := g.rev[to]; ok {
				in.Remove(uint32(id))
			}
		}
	}

	// Incoming: strip all occurrences of id from each predecessor's list.
	if in, ok := g.rev[id]; ok {
		it := in.Iterator()
		for it.HasNext() {
			from := model.RecordID(it.Next())
			if from == id {
				continue // self-loop, already handled above
			}
			if bm, ok := g.fwd[from]; ok && bm.CheckedRemove(uint32(id)) {
				g.edges--
			}
			g.adj[from] = slices.DeleteFunc(g.adj[from], func(v model.RecordID) bool {
				return v == id
			})
		}
	}

	delete(g.adj, id)
	delete(g.fwd, id)
	delete(g.rev, id)
	return true
}

// ShortestPath returns a minimum-hop path from -> to, endpoints included,
// found by breadth-first search over forward edges. When several shortest
// paths exist, the one through the first-discovered parents wins, which
// makes the result deterministic for a given edge insertion order.
// It returns ok == false when either endpoint is unknown or no path
// exists. A node reaches itself by the single-element path [from].
func (g *Graph) ShortestPath(from, to model.RecordID) ([]model.RecordID, bool) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return nil, false
	}
	if from == to {
		return []model.RecordID{from}, true
	}

	parent := map[model.RecordID]model.RecordID{from: from}
	queue := []model.RecordID{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range g.adj[cur] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			if next == to {
				return buildPath(parent, from, to), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

// buildPath walks the parent links back from to and reverses the result.
func buildPath(parent map[model.RecordID]model.RecordID, from, to model.RecordID) []model.RecordID {
	path := []model.RecordID{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

// PathToRoot follows incoming edges upward from id until it reaches a
// node with no predecessors, returning the chain root first, id last.
// When a node has several predecessors the smallest identifier is
// followed. The walk stops at the first revisited node, so cycles
// terminate with the partial chain collected so far. An unknown id
// yields nil; a root yields the single-element chain [id].
func (g *Graph) PathToRoot(id model.RecordID) []model.RecordID {
	if !g.HasNode(id) {
		return nil
	}

	seen := roaring.New()
	seen.Add(uint32(id))
	path := []model.RecordID{id}

	for cur := id; ; {
		in, ok := g.rev[cur]
		if !ok || in.IsEmpty() {
			break
		}
		parent := model.RecordID(in.Minimum())
		if !seen.CheckedAdd(uint32(parent)) {
			break
		}
		path = append(path, parent)
		cur = parent
	}

	slices.Reverse(path)
	return path
}

// BFSOrder returns the nodes reachable from start in breadth-first
// discovery order, neighbors visited in edge insertion order. An unknown
// start yields nil.
func (g *Graph) BFSOrder(start model.RecordID) []model.RecordID {
	if !g.HasNode(start) {
		return nil
	}

	seen := roaring.New()
	seen.Add(uint32(start))
	order := []model.RecordID{start}
	queue := []model.RecordID{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range g.adj[cur] {
			if !seen.CheckedAdd(uint32(next)) {
				continue
			}
			order = append(order, next)
			queue = append(queue, next)
		}
	}
	return order
}

// DFSOrder returns the nodes reachable from start in depth-first
// pre-order, using an explicit stack. Neighbors are visited according to
// the graph's traversal order policy. An unknown start yields nil.
func (g *Graph) DFSOrder(start model.RecordID) []model.RecordID {
	if !g.HasNode(start) {
		return nil
	}

	seen := roaring.New()
	var order []model.RecordID
	stack := []model.RecordID{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !seen.CheckedAdd(uint32(cur)) {
			continue
		}
		order = append(order, cur)

		// Push in reverse so neighbors pop in policy order.
		next := g.orderedNeighbors(cur)
		for i := len(next) - 1; i >= 0; i-- {
			if !seen.Contains(uint32(next[i])) {
				stack = append(stack, next[i])
			}
		}
	}
	return order
}

// ClusteringCoefficient returns the local clustering coefficient of id:
// the fraction of distinct neighbor pairs connected by an edge in either
// direction. Nodes with fewer than two distinct neighbors score 0.
func (g *Graph) ClusteringCoefficient(id model.RecordID) float64 {
	bm, ok := g.fwd[id]
	if !ok {
		return 0
	}

	hood := make([]model.RecordID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		n := model.RecordID(it.Next())
		if n != id {
			hood = append(hood, n)
		}
	}

	k := len(hood)
	if k < 2 {
		return 0
	}

	links := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if g.HasEdge(hood[i], hood[j]) || g.HasEdge(hood[j], hood[i]) {
				links++
			}
		}
	}
	return float64(2*links) / float64(k*(k-1))
}

func (g *Graph) orderedNeighbors(id model.RecordID) []model.RecordID {
	next := g.adj[id]
	switch g.opts.TraversalOrder {
	case OrderAscending:
		next = slices.Clone(next)
		slices.Sort(next)
	case OrderDescending:
		next = slices.Clone(next)
		slices.Sort(next)
		slices.Reverse(next)
	}
	return next
}

func (g *Graph) membership(id model.RecordID) *roaring.Bitmap {
	bm, ok := g.fwd[id]
	if !ok {
		bm = roaring.New()
		g.fwd[id] = bm
	}
	return bm
}

func (g *Graph) incoming(id model.RecordID) *roaring.Bitmap {
	bm, ok := g.rev[id]
	if !ok {
		bm = roaring.New()
		g.rev[id] = bm
	}
	return bm
}
