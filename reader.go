package iceberg

import (
	"context"
	"strings"
)

// PhysicalType is the on-disk primitive type of a column chunk.
type PhysicalType string

const (
	PhysBoolean           PhysicalType = "BOOLEAN"
	PhysInt32             PhysicalType = "INT32"
	PhysInt64             PhysicalType = "INT64"
	PhysFloat             PhysicalType = "FLOAT"
	PhysDouble            PhysicalType = "DOUBLE"
	PhysByteArray         PhysicalType = "BYTE_ARRAY"
	PhysFixedLenByteArray PhysicalType = "FIXED_LEN_BYTE_ARRAY"
)

// Encoding is a data page encoding hint reported by the file reader.
type Encoding string

const (
	EncodingPlain             Encoding = "PLAIN"
	EncodingPlainDictionary   Encoding = "PLAIN_DICTIONARY"
	EncodingRLE               Encoding = "RLE"
	EncodingRLEDictionary     Encoding = "RLE_DICTIONARY"
	EncodingDeltaBinaryPacked Encoding = "DELTA_BINARY_PACKED"
	EncodingDeltaByteArray    Encoding = "DELTA_BYTE_ARRAY"
)

// IsDictionary reports whether data pages with this encoding reference the
// dictionary page.
func (e Encoding) IsDictionary() bool {
	return e == EncodingPlainDictionary || e == EncodingRLEDictionary
}

// ColumnPath addresses a physical column inside the file's column tree.
type ColumnPath []string

// NewColumnPath builds a path from its parts.
func NewColumnPath(parts ...string) ColumnPath {
	return ColumnPath(parts)
}

func (p ColumnPath) String() string {
	return strings.Join(p, ".")
}

// ColumnDescriptor describes one physical column: its path, primitive type
// and, for fixed-width binary, the value width in bytes.
type ColumnDescriptor struct {
	Path         ColumnPath   `json:"path"`
	PhysicalType PhysicalType `json:"physical_type"`
	TypeLength   int          `json:"type_length,omitempty"`
}

// ColumnChunkMetadata exposes the per-row-group encoding information the
// filter needs about one column chunk.
type ColumnChunkMetadata interface {
	// Descriptor returns the column's descriptor.
	Descriptor() ColumnDescriptor
	// Encodings returns the encodings used by the chunk's pages.
	Encodings() []Encoding
	// HasOnlyDictionaryEncodedPages reports whether every data page in the
	// chunk references the dictionary. A single fallback page makes the
	// dictionary useless for pruning.
	HasOnlyDictionaryEncodedPages() bool
	// NullCount returns the chunk's null count when the file metadata
	// records one. known is false when the count is missing or truncated;
	// the filter then assumes nulls may be present.
	NullCount() (count int64, known bool)
}

// RowGroupMetadata is the opaque row-group handle produced by the file reader.
type RowGroupMetadata interface {
	// NumRows returns the number of rows in the group.
	NumRows() int64
	// Columns returns the group's column chunks in file order.
	Columns() []ColumnChunkMetadata
}

// PhysicalSchema resolves logical field names to physical columns. The
// name-matching rule is pre-arranged by the caller; the filter only needs
// the lookup.
type PhysicalSchema interface {
	// Lookup resolves a logical field name to a column descriptor. The
	// second return is false when the column is not present in the file.
	Lookup(name string) (ColumnDescriptor, bool)
}

// DictionaryPage is one decoded-on-demand dictionary page handle.
type DictionaryPage interface {
	// NumValues returns the number of entries in the page.
	NumValues() int
	// Decode materializes every entry as a raw physical value: bool, int32,
	// int64, float32, float64 or []byte depending on the column's physical
	// type.
	Decode() ([]any, error)
}

// DictionaryStore reads dictionary pages for column chunks. Implementations
// may perform blocking I/O; reads are synchronous from the filter's
// viewpoint.
type DictionaryStore interface {
	// ReadDictionary returns the dictionary page for the column, or a nil
	// page when the column has no dictionary page in this group.
	ReadDictionary(ctx context.Context, column ColumnDescriptor) (DictionaryPage, error)
}
