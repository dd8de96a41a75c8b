// Package model defines core types used throughout recgo.
//
// # Identity
//
//   - RecordID: stable, user-facing record identifier (uint32)
//
// # Data Types
//
//   - Record: a fixed-shape entity record with scalar attributes and a
//     list of related record identifiers
//   - Changes: a partial update applied to an existing record
//
// Records are value types. The store hands out deep copies so that callers
// can never mutate indexed state through a shared reference.
package model
