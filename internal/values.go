package internal

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"github.com/spogiri123/iceberg"
)

const (
	dateLayout    = "2006-01-02"
	secondsPerDay = 86400
)

// CoerceLiteral converts a raw literal value to the in-memory representation
// of the given logical type. Integer widening, JSON numbers and string forms
// of date, timestamp, decimal and uuid are accepted; anything else is a type
// mismatch.
func CoerceLiteral(field string, value any, t iceberg.LogicalType) (any, error) {
	switch t.ID {
	case iceberg.TypeBoolean:
		if v, ok := value.(bool); ok {
			return v, nil
		}

	case iceberg.TypeInt32, iceberg.TypeInt64:
		if v, ok := toInt64(value); ok {
			return v, nil
		}

	case iceberg.TypeFloat32, iceberg.TypeFloat64:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}

	case iceberg.TypeDate:
		if v, ok := toInt64(value); ok {
			return v, nil
		}
		if s, ok := value.(string); ok {
			day, err := time.Parse(dateLayout, s)
			if err == nil {
				return day.Unix() / secondsPerDay, nil
			}
		}

	case iceberg.TypeTimestamp:
		if v, ok := toInt64(value); ok {
			return v, nil
		}
		if s, ok := value.(string); ok {
			ts, err := time.Parse(time.RFC3339Nano, s)
			if err == nil {
				return ts.UnixMicro(), nil
			}
		}

	case iceberg.TypeString:
		if v, ok := value.(string); ok {
			return v, nil
		}

	case iceberg.TypeBinary:
		switch v := value.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}

	case iceberg.TypeDecimal:
		if d, ok := toDecimal(value); ok {
			return d, nil
		}

	case iceberg.TypeUUID:
		if u, ok := toUUID(value); ok {
			return u, nil
		}
	}

	return nil, iceberg.NewTypeMismatchError(field, t, value)
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		// JSON numbers decode as float64; accept integral values only.
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), true
		}
	}
	return 0, false
}

func toDecimal(value any) (*apd.Decimal, bool) {
	switch v := value.(type) {
	case *apd.Decimal:
		return v, true
	case apd.Decimal:
		return &v, true
	case string:
		d, _, err := apd.NewFromString(v)
		return d, err == nil
	case int:
		return apd.New(int64(v), 0), true
	case int32:
		return apd.New(int64(v), 0), true
	case int64:
		return apd.New(v, 0), true
	case float64:
		d, _, err := apd.NewFromString(strconv.FormatFloat(v, 'f', -1, 64))
		return d, err == nil
	}
	return nil, false
}

func toUUID(value any) (uuid.UUID, bool) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, true
	case *uuid.UUID:
		return *v, true
	case string:
		u, err := uuid.Parse(v)
		return u, err == nil
	case [16]byte:
		return uuid.UUID(v), true
	case []byte:
		// 16 bytes is a raw UUID; anything else may be its string form.
		if len(v) == 16 {
			u, err := uuid.FromBytes(v)
			return u, err == nil
		}
		u, err := uuid.Parse(string(v))
		return u, err == nil
	default:
		return uuid.Nil, false
	}
}

// PromotePhysical converts one raw dictionary entry from its physical
// representation to the logical type of the bound field. Widening casts
// (int32 -> int64, float -> float64) follow the standard promotion rules.
func PromotePhysical(raw any, phys iceberg.PhysicalType, t iceberg.LogicalType) (any, error) {
	switch phys {
	case iceberg.PhysBoolean:
		if v, ok := raw.(bool); ok && t.ID == iceberg.TypeBoolean {
			return v, nil
		}

	case iceberg.PhysInt32:
		v, ok := raw.(int32)
		if !ok {
			break
		}
		switch t.ID {
		case iceberg.TypeInt32, iceberg.TypeInt64, iceberg.TypeDate:
			return int64(v), nil
		case iceberg.TypeDecimal:
			return decimalFromUnscaled(big.NewInt(int64(v)), t.Scale), nil
		}

	case iceberg.PhysInt64:
		v, ok := raw.(int64)
		if !ok {
			break
		}
		switch t.ID {
		case iceberg.TypeInt64, iceberg.TypeTimestamp:
			return v, nil
		case iceberg.TypeDecimal:
			return decimalFromUnscaled(big.NewInt(v), t.Scale), nil
		}

	case iceberg.PhysFloat:
		if v, ok := raw.(float32); ok {
			switch t.ID {
			case iceberg.TypeFloat32, iceberg.TypeFloat64:
				return float64(v), nil
			}
		}

	case iceberg.PhysDouble:
		if v, ok := raw.(float64); ok && t.ID == iceberg.TypeFloat64 {
			return v, nil
		}

	case iceberg.PhysByteArray, iceberg.PhysFixedLenByteArray:
		v, ok := raw.([]byte)
		if !ok {
			break
		}
		switch t.ID {
		case iceberg.TypeString:
			return string(v), nil
		case iceberg.TypeBinary:
			return v, nil
		case iceberg.TypeUUID:
			if len(v) == 16 {
				u, err := uuid.FromBytes(v)
				if err != nil {
					return nil, err
				}
				return u, nil
			}
		case iceberg.TypeDecimal:
			return decimalFromUnscaledBytes(v, t.Scale), nil
		}
	}

	return nil, fmt.Errorf("cannot promote %s value %T to %s", phys, raw, t)
}

// decimalFromUnscaledBytes interprets data as a big-endian two's-complement
// unscaled integer, the layout used by fixed and binary decimal storage.
func decimalFromUnscaledBytes(data []byte, scale int) *apd.Decimal {
	unscaled := new(big.Int).SetBytes(data)
	if len(data) > 0 && data[0]&0x80 != 0 {
		shift := new(big.Int).Lsh(big.NewInt(1), uint(len(data)*8))
		unscaled.Sub(unscaled, shift)
	}
	return decimalFromUnscaled(unscaled, scale)
}

func decimalFromUnscaled(unscaled *big.Int, scale int) *apd.Decimal {
	d, _, err := apd.NewFromString(unscaled.String())
	if err != nil {
		// unreachable: big.Int.String always yields a valid integer
		d = apd.New(0, 0)
	}
	d.Exponent = int32(-scale)
	return d
}
