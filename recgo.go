// Package recgo provides an embedded record store for Go.
//
// A Store keeps three structures mutually consistent under every
// mutation:
//
//   - the primary map from record identifier to record
//   - an ordered age index (height-balanced tree, see index/avl)
//   - a relation graph over record identifiers (see graph)
//
// Records are fixed-shape entities (see model.Record) whose age
// attribute, when known, is indexed for O(log N + K) range queries.
// Relations declared at insert time become graph edges and power
// shortest-path, traversal and clustering queries.
//
// # Quick Start
//
//	ctx := context.Background()
//	store := recgo.New()
//
//	err := store.Insert(ctx, model.Record{
//	    ID:      1,
//	    Gender:  "female",
//	    Age:     34,
//	    Friends: []model.RecordID{2, 16},
//	})
//	if err != nil {
//	    panic(err)
//	}
//
//	adults := store.RangeQuery(ctx, 18, 65)
//	path, ok := store.ShortestPath(ctx, 1, 18)
//
// A Store is safe for concurrent use: readers run in parallel, writers
// take an exclusive lock over the whole triad so no reader ever observes
// the map, index and graph in a mutually inconsistent state.
package recgo

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/recgo/graph"
	"github.com/hupe1980/recgo/index/avl"
	"github.com/hupe1980/recgo/model"
)

// Store is the coordinator over the primary record map, the ordered age
// index and the relation graph.
type Store struct {
	mu        sync.RWMutex
	records   map[model.RecordID]model.Record
	ages      *avl.Tree[int]
	relations *graph.Graph
	metrics   MetricsCollector
	logger    *Logger
}

// New creates an empty store.
func New(optFns ...Option) *Store {
	opts := applyOptions(optFns)

	return &Store{
		records:   make(map[model.RecordID]model.Record),
		ages:      avl.New[int](),
		relations: graph.New(opts.graphOptions...),
		metrics:   opts.metricsCollector,
		logger:    opts.logger,
	}
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// IndexedLen returns the number of records with a known age, i.e. the
// number of entries in the ordered index.
func (s *Store) IndexedLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ages.Entries()
}

// Insert stores a new record. The record's age, when known, is entered
// into the ordered index, and every identifier in Friends becomes a
// forward edge in the relation graph. Friends may reference records that
// have not been inserted yet; such dangling references are accepted and
// resolve once the referenced record arrives.
//
// Insert returns ErrDuplicateID when the identifier already exists.
func (s *Store) Insert(ctx context.Context, record model.Record) error {
	start := time.Now()
	err := s.insert(record)
	s.metrics.RecordInsert(time.Since(start), err)
	s.logger.LogInsert(ctx, record.ID, err)

	return err
}

func (s *Store) insert(record model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; ok {
		return duplicateIDError(record.ID)
	}

	s.records[record.ID] = record.Clone()
	if record.HasAge() {
		s.ages.Insert(record.Age, record.ID)
	}

	s.relations.AddNode(record.ID)
	for _, friend := range record.Friends {
		s.relations.AddEdge(record.ID, friend)
	}
	return nil
}

// Update overwrites the record's attributes with the non-nil fields of
// changes and returns the result. When the age changes, the record is
// relocated in the ordered index in the same logical step, so no reader
// ever sees it under neither or both keys.
//
// Update returns ErrNotFound when the identifier is absent.
func (s *Store) Update(ctx context.Context, id model.RecordID, changes model.Changes) (model.Record, error) {
	start := time.Now()
	record, relocated, err := s.update(id, changes)
	s.metrics.RecordUpdate(time.Since(start), err)
	s.logger.LogUpdate(ctx, id, relocated, err)

	return record, err
}

func (s *Store) update(id model.RecordID, changes model.Changes) (model.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.records[id]
	if !ok {
		return model.Record{}, false, notFoundError(id)
	}
	if changes.IsZero() {
		return cur.Clone(), false, nil
	}

	next := changes.Apply(cur)

	relocated := cur.Age != next.Age
	if relocated {
		if cur.HasAge() {
			s.ages.Remove(cur.Age, id)
		}
		if next.HasAge() {
			s.ages.Insert(next.Age, id)
		}
	}

	s.records[id] = next
	return next.Clone(), relocated, nil
}

// Remove deletes the record, its index entry and every incident graph
// edge, including edges other records hold toward it. It reports whether
// a record was removed; removing an unknown identifier is a no-op.
func (s *Store) Remove(ctx context.Context, id model.RecordID) bool {
	start := time.Now()
	removed := s.remove(id)
	s.metrics.RecordRemove(time.Since(start), removed)
	s.logger.LogRemove(ctx, id, removed)

	return removed
}

func (s *Store) remove(id model.RecordID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return false
	}

	delete(s.records, id)
	if record.HasAge() {
		s.ages.Remove(record.Age, id)
	}
	s.relations.RemoveNode(id)
	return true
}

// Get returns a copy of the record, or ErrNotFound if the identifier is
// absent.
func (s *Store) Get(id model.RecordID) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return model.Record{}, notFoundError(id)
	}
	return record.Clone(), nil
}

// GetMany returns copies of the records for the given identifiers,
// preserving input order. Unknown identifiers are silently skipped.
func (s *Store) GetMany(ids []model.RecordID) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getMany(ids)
}

// getMany materializes records under a held read lock.
func (s *Store) getMany(ids []model.RecordID) []model.Record {
	out := make([]model.Record, 0, len(ids))
	for _, id := range ids {
		if record, ok := s.records[id]; ok {
			out = append(out, record.Clone())
		}
	}
	return out
}

// Records returns an iterator over copies of all stored records, in
// unspecified order. The read lock is held for the duration of the
// iteration; do not mutate the store from inside the loop.
func (s *Store) Records() iter.Seq[model.Record] {
	return func(yield func(model.Record) bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		for _, record := range s.records {
			if !yield(record.Clone()) {
				return
			}
		}
	}
}

// RangeQuery returns the records whose age lies in [minAge, maxAge],
// ascending by age, via the ordered index. Bounds given in the wrong
// order are swapped. Records with unknown age are never returned.
func (s *Store) RangeQuery(ctx context.Context, minAge, maxAge int) []model.Record {
	start := time.Now()

	s.mu.RLock()
	out := s.getMany(s.ages.Range(minAge, maxAge))
	s.mu.RUnlock()

	s.metrics.RecordRangeQuery(len(out), time.Since(start))
	s.logger.LogRangeQuery(ctx, minAge, maxAge, len(out))
	return out
}

// LinearScanRange returns the same set of records as RangeQuery by
// scanning the full primary map, ordered by identifier rather than age.
// It exists to benchmark and cross-check the indexed path.
func (s *Store) LinearScanRange(ctx context.Context, minAge, maxAge int) []model.Record {
	if maxAge < minAge {
		minAge, maxAge = maxAge, minAge
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Record
	for _, record := range s.records {
		if record.HasAge() && minAge <= record.Age && record.Age <= maxAge {
			out = append(out, record.Clone())
		}
	}
	slices.SortFunc(out, func(a, b model.Record) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// AddRelation adds a forward edge between two existing records. Unlike
// the dangling references tolerated by Insert, both endpoints must be
// stored; otherwise ErrNotFound is returned.
func (s *Store) AddRelation(ctx context.Context, from, to model.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[from]; !ok {
		return notFoundError(from)
	}
	if _, ok := s.records[to]; !ok {
		return notFoundError(to)
	}
	s.relations.AddEdge(from, to)
	return nil
}

// RemoveRelation deletes the forward edge between two records. It
// reports whether the edge existed.
func (s *Store) RemoveRelation(ctx context.Context, from, to model.RecordID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.relations.RemoveEdge(from, to)
}

// ShortestPath returns the records along a minimum-hop path between two
// identifiers, endpoints included. ok is false when either endpoint is
// unknown or no path exists.
func (s *Store) ShortestPath(ctx context.Context, from, to model.RecordID) ([]model.Record, bool) {
	start := time.Now()

	s.mu.RLock()
	ids, ok := s.relations.ShortestPath(from, to)
	out := s.getMany(ids)
	s.mu.RUnlock()

	hops := 0
	if ok {
		hops = len(ids) - 1
	}
	s.metrics.RecordPathQuery(time.Since(start), ok)
	s.logger.LogShortestPath(ctx, from, to, hops, ok)
	if !ok {
		return nil, false
	}
	return out, true
}

// Neighbors returns the forward relation targets of id in edge insertion
// order, empty if id is unknown.
func (s *Store) Neighbors(id model.RecordID) []model.RecordID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.relations.Neighbors(id)
}

// Degree returns the number of forward relations of id.
func (s *Store) Degree(id model.RecordID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.relations.Degree(id)
}

// ClusteringCoefficient returns the local clustering coefficient of id:
// the fraction of its distinct neighbor pairs connected by a relation in
// either direction. Identifiers with fewer than two neighbors score 0.
func (s *Store) ClusteringCoefficient(id model.RecordID) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.relations.ClusteringCoefficient(id)
}

// BFSOrder returns the identifiers reachable from start in breadth-first
// discovery order, nil if start is unknown.
func (s *Store) BFSOrder(start model.RecordID) []model.RecordID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.relations.BFSOrder(start)
}

// DFSOrder returns the identifiers reachable from start in depth-first
// pre-order, nil if start is unknown. The neighbor visit policy is set
// with WithTraversalOrder.
func (s *Store) DFSOrder(start model.RecordID) []model.RecordID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.relations.DFSOrder(start)
}

// PathToRoot returns the chain of identifiers from the topmost ancestor
// of id down to id itself, following incoming relations. See
// graph.PathToRoot for the predecessor choice and cycle handling.
func (s *Store) PathToRoot(id model.RecordID) []model.RecordID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.relations.PathToRoot(id)
}

// AgeBounds returns the smallest and largest indexed age. ok is false
// when no record carries a known age.
func (s *Store) AgeBounds() (minAge, maxAge int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	minAge, ok = s.ages.Min()
	if !ok {
		return 0, 0, false
	}
	maxAge, _ = s.ages.Max()
	return minAge, maxAge, true
}

// Verify cross-checks the primary map against the index and the graph
// and returns the first inconsistency found, or nil. An inconsistency
// indicates a defect in the store's write path; Verify exists for tests
// and health checks, not for regular operation.
func (s *Store) Verify() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexed := 0
	for id, record := range s.records {
		if record.HasAge() {
			indexed++
			if !s.ages.Contains(record.Age, id) {
				return &ErrInvariantViolation{ID: id, Detail: "record age missing from index"}
			}
		}
		if !s.relations.HasNode(id) {
			return &ErrInvariantViolation{ID: id, Detail: "record missing from relation graph"}
		}
	}
	if got := s.ages.Entries(); got != indexed {
		return &ErrInvariantViolation{Detail: "index entry count does not match aged record count"}
	}
	return nil
}
