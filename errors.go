package recgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/recgo/model"
)

var (
	// ErrNotFound is returned when an operation references an absent record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when inserting a record whose identifier
	// already exists.
	ErrDuplicateID = errors.New("duplicate record id")
)

// ErrInvariantViolation indicates that the primary map, the ordered index
// and the relation graph disagree about a record. It signals a defect in
// the store's write path, never bad caller input, and should not be seen
// outside of tests.
type ErrInvariantViolation struct {
	ID     model.RecordID
	Detail string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation for %s: %s", e.ID, e.Detail)
}

func notFoundError(id model.RecordID) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func duplicateIDError(id model.RecordID) error {
	return fmt.Errorf("%w: %s", ErrDuplicateID, id)
}
