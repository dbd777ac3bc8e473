package s3store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spogiri123/iceberg"
)

func col(phys iceberg.PhysicalType, typeLength int) iceberg.ColumnDescriptor {
	return iceberg.ColumnDescriptor{
		Path:         iceberg.NewColumnPath("c"),
		PhysicalType: phys,
		TypeLength:   typeLength,
	}
}

func TestPlainCodec_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		column iceberg.ColumnDescriptor
		values []any
	}{
		{name: "booleans", column: col(iceberg.PhysBoolean, 0), values: []any{true, false, true}},
		{name: "int32", column: col(iceberg.PhysInt32, 0), values: []any{int32(-1), int32(0), int32(1 << 30)}},
		{name: "int64", column: col(iceberg.PhysInt64, 0), values: []any{int64(-1 << 62), int64(42)}},
		{name: "float", column: col(iceberg.PhysFloat, 0), values: []any{float32(1.5), float32(-0.25)}},
		{name: "double", column: col(iceberg.PhysDouble, 0), values: []any{3.14159, -2.5}},
		{name: "byte arrays", column: col(iceberg.PhysByteArray, 0), values: []any{[]byte("a"), []byte(""), []byte("longer value")}},
		{name: "fixed width", column: col(iceberg.PhysFixedLenByteArray, 4), values: []any{[]byte{1, 2, 3, 4}, []byte{5, 6, 7, 8}}},
		{name: "empty dictionary", column: col(iceberg.PhysInt64, 0), values: []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodePlain(tt.column, tt.values)
			require.NoError(t, err)

			count, payload, err := splitHeader(data)
			require.NoError(t, err)
			assert.Equal(t, len(tt.values), count)

			decoded, err := DecodePlain(tt.column, count, payload)
			require.NoError(t, err)
			assert.Equal(t, len(tt.values), len(decoded))
			for i := range tt.values {
				assert.Equal(t, tt.values[i], decoded[i])
			}
		})
	}
}

func TestEncodePlain_RejectsWrongKinds(t *testing.T) {
	_, err := EncodePlain(col(iceberg.PhysInt64, 0), []any{"text"})
	require.Error(t, err)

	_, err = EncodePlain(col(iceberg.PhysFixedLenByteArray, 4), []any{[]byte{1, 2}})
	require.Error(t, err)
}

func TestDecodePlain_Truncated(t *testing.T) {
	data, err := EncodePlain(col(iceberg.PhysInt64, 0), []any{int64(1), int64(2)})
	require.NoError(t, err)

	count, payload, err := splitHeader(data)
	require.NoError(t, err)

	_, err = DecodePlain(col(iceberg.PhysInt64, 0), count, payload[:len(payload)-1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestSplitHeader_TooShort(t *testing.T) {
	_, _, err := splitHeader([]byte{0x01})
	require.Error(t, err)
}
