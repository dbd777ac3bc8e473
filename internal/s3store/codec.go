package s3store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spogiri123/iceberg"
)

// Page layout: a 4-byte little-endian entry count, then the entries in
// PLAIN encoding. Fixed-width values are little-endian; booleans are one
// byte each; BYTE_ARRAY entries carry a 4-byte little-endian length prefix;
// FIXED_LEN_BYTE_ARRAY entries are raw slices of the column's type length.

const headerSize = 4

func splitHeader(data []byte) (int, []byte, error) {
	if len(data) < headerSize {
		return 0, nil, fmt.Errorf("dictionary page too short: %d bytes", len(data))
	}
	count := int(binary.LittleEndian.Uint32(data[:headerSize]))
	return count, data[headerSize:], nil
}

// EncodePlain serializes raw physical values into the page layout.
func EncodePlain(column iceberg.ColumnDescriptor, values []any) ([]byte, error) {
	buf := make([]byte, headerSize, headerSize+len(values)*8)
	binary.LittleEndian.PutUint32(buf, uint32(len(values)))

	for i, value := range values {
		switch column.PhysicalType {
		case iceberg.PhysBoolean:
			v, ok := value.(bool)
			if !ok {
				return nil, encodeTypeError(column, i, value)
			}
			b := byte(0)
			if v {
				b = 1
			}
			buf = append(buf, b)

		case iceberg.PhysInt32:
			v, ok := value.(int32)
			if !ok {
				return nil, encodeTypeError(column, i, value)
			}
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))

		case iceberg.PhysInt64:
			v, ok := value.(int64)
			if !ok {
				return nil, encodeTypeError(column, i, value)
			}
			buf = binary.LittleEndian.AppendUint64(buf, uint64(v))

		case iceberg.PhysFloat:
			v, ok := value.(float32)
			if !ok {
				return nil, encodeTypeError(column, i, value)
			}
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))

		case iceberg.PhysDouble:
			v, ok := value.(float64)
			if !ok {
				return nil, encodeTypeError(column, i, value)
			}
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))

		case iceberg.PhysByteArray:
			v, ok := toBytes(value)
			if !ok {
				return nil, encodeTypeError(column, i, value)
			}
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v)))
			buf = append(buf, v...)

		case iceberg.PhysFixedLenByteArray:
			v, ok := toBytes(value)
			if !ok {
				return nil, encodeTypeError(column, i, value)
			}
			if len(v) != column.TypeLength {
				return nil, fmt.Errorf("column '%s': fixed entry %d has %d bytes, want %d",
					column.Path, i, len(v), column.TypeLength)
			}
			buf = append(buf, v...)

		default:
			return nil, fmt.Errorf("column '%s': unsupported physical type %s", column.Path, column.PhysicalType)
		}
	}
	return buf, nil
}

// DecodePlain deserializes count entries from the page payload.
func DecodePlain(column iceberg.ColumnDescriptor, count int, data []byte) ([]any, error) {
	values := make([]any, 0, count)
	offset := 0

	for i := 0; i < count; i++ {
		switch column.PhysicalType {
		case iceberg.PhysBoolean:
			if offset+1 > len(data) {
				return nil, truncatedError(column, i)
			}
			values = append(values, data[offset] != 0)
			offset++

		case iceberg.PhysInt32:
			if offset+4 > len(data) {
				return nil, truncatedError(column, i)
			}
			values = append(values, int32(binary.LittleEndian.Uint32(data[offset:])))
			offset += 4

		case iceberg.PhysInt64:
			if offset+8 > len(data) {
				return nil, truncatedError(column, i)
			}
			values = append(values, int64(binary.LittleEndian.Uint64(data[offset:])))
			offset += 8

		case iceberg.PhysFloat:
			if offset+4 > len(data) {
				return nil, truncatedError(column, i)
			}
			values = append(values, math.Float32frombits(binary.LittleEndian.Uint32(data[offset:])))
			offset += 4

		case iceberg.PhysDouble:
			if offset+8 > len(data) {
				return nil, truncatedError(column, i)
			}
			values = append(values, math.Float64frombits(binary.LittleEndian.Uint64(data[offset:])))
			offset += 8

		case iceberg.PhysByteArray:
			if offset+4 > len(data) {
				return nil, truncatedError(column, i)
			}
			n := int(binary.LittleEndian.Uint32(data[offset:]))
			offset += 4
			if offset+n > len(data) {
				return nil, truncatedError(column, i)
			}
			entry := make([]byte, n)
			copy(entry, data[offset:offset+n])
			values = append(values, entry)
			offset += n

		case iceberg.PhysFixedLenByteArray:
			n := column.TypeLength
			if n <= 0 {
				return nil, fmt.Errorf("column '%s': fixed type requires a positive type length", column.Path)
			}
			if offset+n > len(data) {
				return nil, truncatedError(column, i)
			}
			entry := make([]byte, n)
			copy(entry, data[offset:offset+n])
			values = append(values, entry)
			offset += n

		default:
			return nil, fmt.Errorf("column '%s': unsupported physical type %s", column.Path, column.PhysicalType)
		}
	}
	return values, nil
}

func toBytes(value any) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

func encodeTypeError(column iceberg.ColumnDescriptor, index int, value any) error {
	return fmt.Errorf("column '%s': entry %d has type %T, incompatible with %s",
		column.Path, index, value, column.PhysicalType)
}

func truncatedError(column iceberg.ColumnDescriptor, index int) error {
	return fmt.Errorf("column '%s': dictionary page truncated at entry %d", column.Path, index)
}
