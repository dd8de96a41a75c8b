// Package ingest streams CSV datasets from a blobstore.Store into a
// recgo.Store.
//
// Rows are parsed by a pool of workers; a single applier goroutine owns
// all store writes, so the store's writer lock is never contended during
// a bulk load. Malformed rows are counted and skipped, never fatal, and
// compressed datasets (.gz, .zst, .lz4) are decompressed transparently
// based on the object name.
package ingest
