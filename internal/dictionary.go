package internal

import (
	"context"

	"go.uber.org/zap"

	"github.com/spogiri123/iceberg"
)

// ColumnStatusKind classifies what the dictionary tells us about a column
// in one row group.
type ColumnStatusKind int

const (
	// ColumnDict means the column is fully dictionary-encoded; Values is
	// the complete set of distinct non-null values in the group.
	ColumnDict ColumnStatusKind = iota
	// ColumnNotDict means at least one data page does not reference the
	// dictionary, or the dictionary is too large to materialize.
	ColumnNotDict
	// ColumnAbsent means the column does not exist in this file or group.
	ColumnAbsent
)

func (k ColumnStatusKind) String() string {
	switch k {
	case ColumnDict:
		return "dict"
	case ColumnNotDict:
		return "not_dict"
	case ColumnAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// ColumnStatus is the materialized dictionary state of one column. Values
// holds logical-typed entries and is only meaningful for ColumnDict. The
// dictionary never records nulls; KnownNoNulls is true only when the chunk
// metadata records a null count of zero.
type ColumnStatus struct {
	Kind         ColumnStatusKind
	Values       []any
	KnownNoNulls bool
}

// Materializer computes and memoizes per-column dictionary status for one
// row group. It lives for a single filter invocation and is discarded on
// return.
type Materializer struct {
	store      iceberg.DictionaryStore
	maxEntries int

	chunks map[string]iceberg.ColumnChunkMetadata
	cache  map[string]ColumnStatus
	reads  int
}

// NewMaterializer indexes the row group's column chunks by path and wraps
// the dictionary store for memoized access.
func NewMaterializer(rg iceberg.RowGroupMetadata, store iceberg.DictionaryStore, maxEntries int) *Materializer {
	chunks := make(map[string]iceberg.ColumnChunkMetadata)
	if rg != nil {
		for _, chunk := range rg.Columns() {
			chunks[chunk.Descriptor().Path.String()] = chunk
		}
	}
	return &Materializer{
		store:      store,
		maxEntries: maxEntries,
		chunks:     chunks,
		cache:      make(map[string]ColumnStatus),
	}
}

// DictionariesRead returns the number of dictionary pages fetched so far.
func (m *Materializer) DictionariesRead() int {
	return m.reads
}

// ColumnsConsulted returns the number of distinct columns whose status has
// been computed.
func (m *Materializer) ColumnsConsulted() int {
	return len(m.cache)
}

// Status resolves the dictionary status for a bound reference. Results are
// memoized by column path. I/O errors from the store propagate unchanged;
// missing information degrades to ColumnNotDict or ColumnAbsent, never an
// error.
func (m *Materializer) Status(ctx context.Context, ref BoundReference) (ColumnStatus, error) {
	if ref.Absent {
		return ColumnStatus{Kind: ColumnAbsent}, nil
	}

	key := ref.Column.Path.String()
	if st, ok := m.cache[key]; ok {
		return st, nil
	}

	st, err := m.materialize(ctx, ref)
	if err != nil {
		return ColumnStatus{}, err
	}
	m.cache[key] = st
	return st, nil
}

func (m *Materializer) materialize(ctx context.Context, ref BoundReference) (ColumnStatus, error) {
	chunk, ok := m.chunks[ref.Column.Path.String()]
	if !ok {
		return ColumnStatus{Kind: ColumnAbsent}, nil
	}

	if !chunk.HasOnlyDictionaryEncodedPages() {
		return ColumnStatus{Kind: ColumnNotDict}, nil
	}

	nullCount, nullCountKnown := chunk.NullCount()
	noNulls := nullCountKnown && nullCount == 0

	page, err := m.store.ReadDictionary(ctx, ref.Column)
	if err != nil {
		return ColumnStatus{}, err
	}
	m.reads++

	if page == nil {
		// A fully dictionary-encoded column with no dictionary page holds
		// no non-null values at all.
		return ColumnStatus{Kind: ColumnDict, KnownNoNulls: noNulls}, nil
	}

	if m.maxEntries > 0 && page.NumValues() > m.maxEntries {
		zap.S().Debugw("dictionary exceeds materialization limit, falling back to read",
			"column", ref.Column.Path.String(),
			"entries", page.NumValues(),
			"max", m.maxEntries)
		return ColumnStatus{Kind: ColumnNotDict}, nil
	}

	raw, err := page.Decode()
	if err != nil {
		return ColumnStatus{}, err
	}
	if m.maxEntries > 0 && len(raw) > m.maxEntries {
		return ColumnStatus{Kind: ColumnNotDict}, nil
	}

	values := make([]any, 0, len(raw))
	for _, entry := range raw {
		v, err := PromotePhysical(entry, ref.Column.PhysicalType, ref.Field.Type)
		if err != nil {
			return ColumnStatus{}, iceberg.NewDictionaryDecodeError(ref.Column.Path.String(), err)
		}
		values = append(values, v)
	}
	return ColumnStatus{Kind: ColumnDict, Values: values, KnownNoNulls: noNulls}, nil
}
