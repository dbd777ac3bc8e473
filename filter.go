package iceberg

import (
	"context"
)

// Decision is the outcome of evaluating the filter against one row group,
// with counters describing the work performed.
type Decision struct {
	// ShouldRead is false only when the group provably contains no
	// matching row.
	ShouldRead bool `json:"should_read"`
	// ColumnsConsulted is the number of distinct referenced columns whose
	// status was computed.
	ColumnsConsulted int `json:"columns_consulted"`
	// DictionariesRead is the number of dictionary pages fetched from the
	// store.
	DictionariesRead int `json:"dictionaries_read"`
}

// RowGroupFilter decides whether a row group could contain rows matching a
// predicate. A false answer is authoritative; a true answer is conservative.
//
// A single filter instance is safe for concurrent use as long as each call
// supplies its own row-group inputs; no mutable state is retained between
// calls.
type RowGroupFilter interface {
	// ShouldRead binds the filter's predicate against the supplied
	// physical schema, materializes dictionaries for the referenced
	// columns of the row group, and reports whether any row could match.
	ShouldRead(ctx context.Context, phys PhysicalSchema, rg RowGroupMetadata, store DictionaryStore) (bool, error)
	// Decide is ShouldRead plus per-call counters.
	Decide(ctx context.Context, phys PhysicalSchema, rg RowGroupMetadata, store DictionaryStore) (Decision, error)
}
