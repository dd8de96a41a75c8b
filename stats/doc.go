// Package stats computes read-only aggregations over a record store:
// attribute distributions, per-gender breakdowns and connectivity
// summaries derived from the relation graph. Nothing in this package
// mutates the store.
package stats
