package internal

import (
	"bytes"
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"github.com/spogiri123/iceberg"
)

// Comparator orders two logical values of the same type. ok is false when
// the pair is incomparable, which only happens for IEEE-754 NaN operands;
// incomparable pairs satisfy no comparison operator, equality included.
type Comparator func(a, b any) (cmp int, ok bool)

// ComparatorFor returns the comparator for a logical type. The lookup
// happens once at bind time, not per dictionary entry.
func ComparatorFor(t iceberg.LogicalType) (Comparator, error) {
	switch t.ID {
	case iceberg.TypeBoolean:
		return compareBool, nil
	case iceberg.TypeInt32, iceberg.TypeInt64, iceberg.TypeDate, iceberg.TypeTimestamp:
		return compareInt64, nil
	case iceberg.TypeFloat32, iceberg.TypeFloat64:
		return compareFloat64, nil
	case iceberg.TypeString:
		return compareString, nil
	case iceberg.TypeBinary:
		return compareBinary, nil
	case iceberg.TypeDecimal:
		return compareDecimal, nil
	case iceberg.TypeUUID:
		return compareUUID, nil
	default:
		return nil, iceberg.NewInvalidSchemaError(fmt.Sprintf("no comparator for type %s", t))
	}
}

func compareBool(a, b any) (int, bool) {
	x, y := a.(bool), b.(bool)
	switch {
	case x == y:
		return 0, true
	case !x:
		return -1, true
	default:
		return 1, true
	}
}

func compareInt64(a, b any) (int, bool) {
	x, y := a.(int64), b.(int64)
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	default:
		return 0, true
	}
}

func compareFloat64(a, b any) (int, bool) {
	x, y := a.(float64), b.(float64)
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, false
	}
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	default:
		return 0, true
	}
}

// compareString orders by the byte representation of the UTF-8 encoding.
func compareString(a, b any) (int, bool) {
	x, y := a.(string), b.(string)
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	default:
		return 0, true
	}
}

func compareBinary(a, b any) (int, bool) {
	return bytes.Compare(a.([]byte), b.([]byte)), true
}

func compareDecimal(a, b any) (int, bool) {
	return a.(*apd.Decimal).Cmp(b.(*apd.Decimal)), true
}

func compareUUID(a, b any) (int, bool) {
	x, y := a.(uuid.UUID), b.(uuid.UUID)
	return bytes.Compare(x[:], y[:]), true
}
