package internal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spogiri123/iceberg"
)

func TestCoerceLiteral(t *testing.T) {
	sampleUUID := uuid.MustParse("f79c3e09-677c-4bbd-a479-3f349cb785e7")

	tests := []struct {
		name    string
		value   any
		typ     iceberg.LogicalType
		want    any
		wantErr bool
	}{
		{name: "int to int64", value: 42, typ: iceberg.Primitive(iceberg.TypeInt64), want: int64(42)},
		{name: "int32 widened", value: int32(7), typ: iceberg.Primitive(iceberg.TypeInt64), want: int64(7)},
		{name: "integral json number to int64", value: float64(80), typ: iceberg.Primitive(iceberg.TypeInt64), want: int64(80)},
		{name: "fractional json number rejected for int64", value: 1.5, typ: iceberg.Primitive(iceberg.TypeInt64), wantErr: true},
		{name: "string rejected for int64", value: "thirty", typ: iceberg.Primitive(iceberg.TypeInt64), wantErr: true},
		{name: "int widened to float64", value: 3, typ: iceberg.Primitive(iceberg.TypeFloat64), want: float64(3)},
		{name: "float32 widened", value: float32(1.5), typ: iceberg.Primitive(iceberg.TypeFloat32), want: float64(1.5)},
		{name: "string stays string", value: "req", typ: iceberg.Primitive(iceberg.TypeString), want: "req"},
		{name: "int rejected for string", value: 1, typ: iceberg.Primitive(iceberg.TypeString), wantErr: true},
		{name: "string to binary", value: "abc", typ: iceberg.Primitive(iceberg.TypeBinary), want: []byte("abc")},
		{name: "date from days", value: 19000, typ: iceberg.Primitive(iceberg.TypeDate), want: int64(19000)},
		{name: "date from iso string", value: "1970-01-02", typ: iceberg.Primitive(iceberg.TypeDate), want: int64(1)},
		{name: "malformed date rejected", value: "01/02/1970", typ: iceberg.Primitive(iceberg.TypeDate), wantErr: true},
		{name: "timestamp from rfc3339", value: "1970-01-01T00:00:01Z", typ: iceberg.Primitive(iceberg.TypeTimestamp), want: int64(1_000_000)},
		{name: "bool stays bool", value: true, typ: iceberg.Primitive(iceberg.TypeBoolean), want: true},
		{name: "uuid from string", value: sampleUUID.String(), typ: iceberg.Primitive(iceberg.TypeUUID), want: sampleUUID},
		{name: "uuid from value", value: sampleUUID, typ: iceberg.Primitive(iceberg.TypeUUID), want: sampleUUID},
		{name: "garbage uuid rejected", value: "not-a-uuid", typ: iceberg.Primitive(iceberg.TypeUUID), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceLiteral("f", tt.value, tt.typ)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, iceberg.IsTypeMismatchError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceLiteral_Decimal(t *testing.T) {
	typ := iceberg.DecimalOf(9, 2)
	cmp, err := ComparatorFor(typ)
	require.NoError(t, err)

	fromString, err := CoerceLiteral("d", "12.34", typ)
	require.NoError(t, err)
	fromFloat, err := CoerceLiteral("d", 12.34, typ)
	require.NoError(t, err)

	got, ok := cmp(fromString, fromFloat)
	assert.True(t, ok)
	assert.Equal(t, 0, got)
}

func TestPromotePhysical(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		phys    iceberg.PhysicalType
		typ     iceberg.LogicalType
		want    any
		wantErr bool
	}{
		{name: "int32 widened to int64", raw: int32(5), phys: iceberg.PhysInt32, typ: iceberg.Primitive(iceberg.TypeInt64), want: int64(5)},
		{name: "int32 as int32 column", raw: int32(5), phys: iceberg.PhysInt32, typ: iceberg.Primitive(iceberg.TypeInt32), want: int64(5)},
		{name: "int32 as date", raw: int32(19000), phys: iceberg.PhysInt32, typ: iceberg.Primitive(iceberg.TypeDate), want: int64(19000)},
		{name: "int64 as timestamp", raw: int64(99), phys: iceberg.PhysInt64, typ: iceberg.Primitive(iceberg.TypeTimestamp), want: int64(99)},
		{name: "float widened", raw: float32(1.5), phys: iceberg.PhysFloat, typ: iceberg.Primitive(iceberg.TypeFloat64), want: float64(1.5)},
		{name: "double", raw: float64(2.5), phys: iceberg.PhysDouble, typ: iceberg.Primitive(iceberg.TypeFloat64), want: float64(2.5)},
		{name: "byte array to string", raw: []byte("some"), phys: iceberg.PhysByteArray, typ: iceberg.Primitive(iceberg.TypeString), want: "some"},
		{name: "byte array stays binary", raw: []byte{0x01}, phys: iceberg.PhysByteArray, typ: iceberg.Primitive(iceberg.TypeBinary), want: []byte{0x01}},
		{name: "int64 rejected for string column", raw: int64(1), phys: iceberg.PhysInt64, typ: iceberg.Primitive(iceberg.TypeString), wantErr: true},
		{name: "wrong raw kind rejected", raw: "text", phys: iceberg.PhysInt64, typ: iceberg.Primitive(iceberg.TypeInt64), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PromotePhysical(tt.raw, tt.phys, tt.typ)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromotePhysical_UUIDFromFixed(t *testing.T) {
	id := uuid.MustParse("f79c3e09-677c-4bbd-a479-3f349cb785e7")
	raw := make([]byte, 16)
	copy(raw, id[:])

	got, err := PromotePhysical(raw, iceberg.PhysFixedLenByteArray, iceberg.Primitive(iceberg.TypeUUID))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestPromotePhysical_DecimalUnscaled(t *testing.T) {
	typ := iceberg.DecimalOf(9, 2)
	cmp, err := ComparatorFor(typ)
	require.NoError(t, err)

	t.Run("from int64 unscaled", func(t *testing.T) {
		got, err := PromotePhysical(int64(1234), iceberg.PhysInt64, typ)
		require.NoError(t, err)
		c, ok := cmp(got, mustDecimal(t, "12.34"))
		assert.True(t, ok)
		assert.Equal(t, 0, c)
	})

	t.Run("from big-endian bytes", func(t *testing.T) {
		got, err := PromotePhysical([]byte{0x04, 0xd2}, iceberg.PhysByteArray, typ)
		require.NoError(t, err)
		c, ok := cmp(got, mustDecimal(t, "12.34"))
		assert.True(t, ok)
		assert.Equal(t, 0, c)
	})

	t.Run("negative two's complement", func(t *testing.T) {
		got, err := PromotePhysical([]byte{0xfb, 0x2e}, iceberg.PhysByteArray, typ)
		require.NoError(t, err)
		c, ok := cmp(got, mustDecimal(t, "-12.34"))
		assert.True(t, ok)
		assert.Equal(t, 0, c)
	})
}
