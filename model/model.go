package model

import (
	"fmt"
	"slices"
)

// RecordID is the stable, user-facing identifier of a record.
// It never changes during a record's lifetime.
type RecordID uint32

// String returns a string representation of the RecordID.
func (id RecordID) String() string {
	return fmt.Sprintf("Record(%d)", uint32(id))
}

// AgeUnknown marks a record whose age attribute is absent.
// Records with Age <= 0 are not entered into the age index.
const AgeUnknown = 0

// Record is a fixed-shape entity record.
//
// Age is the indexed attribute: values <= 0 mean "unknown" and keep the
// record out of the ordered index. Friends lists the related record
// identifiers supplied at creation time; entries may reference records
// that do not exist yet (forward references are reconciled by the store).
type Record struct {
	ID        RecordID
	Gender    string
	Age       int
	EyeColor  string
	Education string
	Languages string
	Music     string
	Friends   []RecordID
}

// HasAge reports whether the record carries a known age.
func (r Record) HasAge() bool {
	return r.Age > AgeUnknown
}

// Clone returns a deep copy of the record.
// The store returns clones so callers cannot desynchronize the index or
// graph by mutating a shared Friends slice.
func (r Record) Clone() Record {
	c := r
	c.Friends = slices.Clone(r.Friends)
	return c
}

// Changes is a partial update for Record. Nil fields are left untouched;
// non-nil fields overwrite the current value. Setting Age to a value
// <= 0 marks the age as unknown and removes the record from the index.
//
// The identifier and the relation list are immutable through Changes:
// relations are owned by the graph and edited there.
type Changes struct {
	Gender    *string
	Age       *int
	EyeColor  *string
	Education *string
	Languages *string
	Music     *string
}

// IsZero reports whether the change set contains no changes.
func (c Changes) IsZero() bool {
	return c.Gender == nil && c.Age == nil && c.EyeColor == nil &&
		c.Education == nil && c.Languages == nil && c.Music == nil
}

// Apply overwrites the record's attributes with the non-nil fields of the
// change set and returns the result. The receiver is not modified.
func (c Changes) Apply(r Record) Record {
	out := r.Clone()
	if c.Gender != nil {
		out.Gender = *c.Gender
	}
	if c.Age != nil {
		out.Age = *c.Age
	}
	if c.EyeColor != nil {
		out.EyeColor = *c.EyeColor
	}
	if c.Education != nil {
		out.Education = *c.Education
	}
	if c.Languages != nil {
		out.Languages = *c.Languages
	}
	if c.Music != nil {
		out.Music = *c.Music
	}
	return out
}
