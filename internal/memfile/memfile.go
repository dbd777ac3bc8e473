// Package memfile provides in-memory stand-ins for the file reader
// collaborators: a physical schema, row-group metadata and a dictionary
// store backed by plain slices. It is used by tests and by the demo mode of
// cmd/prune.
package memfile

import (
	"context"
	"fmt"

	"github.com/spogiri123/iceberg"
)

// Column describes one physical column of the in-memory file, including the
// dictionary state the filter will observe.
type Column struct {
	Descriptor iceberg.ColumnDescriptor
	// DictionaryEncoded reports whether every data page references the
	// dictionary.
	DictionaryEncoded bool
	// HasDictionaryPage controls whether the store returns a page at all.
	// A fully dictionary-encoded column with no page models an all-null
	// column.
	HasDictionaryPage bool
	// Dictionary holds the raw physical entries: bool, int32, int64,
	// float32, float64 or []byte.
	Dictionary []any
	// NullCount is the chunk's recorded null count; it is only reported
	// when NullCountKnown is set.
	NullCount      int64
	NullCountKnown bool
}

// Col is a convenience constructor for a single-element column path.
func Col(name string, phys iceberg.PhysicalType) iceberg.ColumnDescriptor {
	return iceberg.ColumnDescriptor{Path: iceberg.NewColumnPath(name), PhysicalType: phys}
}

// File is an in-memory columnar file with a single row group. It implements
// PhysicalSchema, RowGroupMetadata and DictionaryStore.
type File struct {
	numRows int64
	columns []Column
	byPath  map[string]int
	// ReadCount tracks dictionary store reads, keyed by column path.
	ReadCount map[string]int
}

// NewFile builds a file over the given columns.
func NewFile(numRows int64, columns ...Column) *File {
	f := &File{
		numRows:   numRows,
		columns:   columns,
		byPath:    make(map[string]int, len(columns)),
		ReadCount: make(map[string]int),
	}
	for i, c := range columns {
		f.byPath[c.Descriptor.Path.String()] = i
	}
	return f
}

// Lookup implements iceberg.PhysicalSchema; logical names map to
// single-element column paths.
func (f *File) Lookup(name string) (iceberg.ColumnDescriptor, bool) {
	i, ok := f.byPath[name]
	if !ok {
		return iceberg.ColumnDescriptor{}, false
	}
	return f.columns[i].Descriptor, true
}

// NumRows implements iceberg.RowGroupMetadata.
func (f *File) NumRows() int64 {
	return f.numRows
}

// Columns implements iceberg.RowGroupMetadata.
func (f *File) Columns() []iceberg.ColumnChunkMetadata {
	chunks := make([]iceberg.ColumnChunkMetadata, 0, len(f.columns))
	for i := range f.columns {
		chunks = append(chunks, &chunk{col: &f.columns[i]})
	}
	return chunks
}

// ReadDictionary implements iceberg.DictionaryStore.
func (f *File) ReadDictionary(_ context.Context, column iceberg.ColumnDescriptor) (iceberg.DictionaryPage, error) {
	key := column.Path.String()
	f.ReadCount[key]++
	i, ok := f.byPath[key]
	if !ok {
		return nil, nil
	}
	col := &f.columns[i]
	if !col.HasDictionaryPage {
		return nil, nil
	}
	return &page{entries: col.Dictionary}, nil
}

type chunk struct {
	col *Column
}

func (c *chunk) Descriptor() iceberg.ColumnDescriptor {
	return c.col.Descriptor
}

func (c *chunk) Encodings() []iceberg.Encoding {
	if c.col.DictionaryEncoded {
		return []iceberg.Encoding{iceberg.EncodingRLEDictionary, iceberg.EncodingRLE}
	}
	return []iceberg.Encoding{iceberg.EncodingPlain, iceberg.EncodingRLE}
}

func (c *chunk) HasOnlyDictionaryEncodedPages() bool {
	return c.col.DictionaryEncoded
}

func (c *chunk) NullCount() (int64, bool) {
	return c.col.NullCount, c.col.NullCountKnown
}

type page struct {
	entries []any
}

func (p *page) NumValues() int {
	return len(p.entries)
}

func (p *page) Decode() ([]any, error) {
	out := make([]any, len(p.entries))
	copy(out, p.entries)
	return out, nil
}

// FailingStore returns the configured error from every read. It exercises
// the I/O propagation path.
type FailingStore struct {
	Err error
}

// ReadDictionary implements iceberg.DictionaryStore.
func (s *FailingStore) ReadDictionary(_ context.Context, column iceberg.ColumnDescriptor) (iceberg.DictionaryPage, error) {
	return nil, fmt.Errorf("read dictionary for %s: %w", column.Path, s.Err)
}
