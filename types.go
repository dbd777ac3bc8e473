package iceberg

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
)

// TypeID identifies a logical column type.
type TypeID string

const (
	TypeBoolean   TypeID = "boolean"
	TypeInt32     TypeID = "int32"
	TypeInt64     TypeID = "int64"
	TypeFloat32   TypeID = "float32"
	TypeFloat64   TypeID = "float64"
	TypeDate      TypeID = "date"      // days since 1970-01-01
	TypeTimestamp TypeID = "timestamp" // microseconds since 1970-01-01T00:00:00Z
	TypeString    TypeID = "string"
	TypeBinary    TypeID = "binary"
	TypeDecimal   TypeID = "decimal"
	TypeUUID      TypeID = "uuid"
)

// LogicalType is the full type of a logical field. Precision and Scale are
// only meaningful for decimal.
type LogicalType struct {
	ID        TypeID `json:"id"`
	Precision int    `json:"precision,omitempty"`
	Scale     int    `json:"scale,omitempty"`
}

// Primitive returns the logical type for a non-parameterized type id.
func Primitive(id TypeID) LogicalType {
	return LogicalType{ID: id}
}

// DecimalOf returns a decimal logical type with the given precision and scale.
func DecimalOf(precision, scale int) LogicalType {
	return LogicalType{ID: TypeDecimal, Precision: precision, Scale: scale}
}

func (t LogicalType) String() string {
	if t.ID == TypeDecimal {
		return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	}
	return string(t.ID)
}

// LogicalField is a single named column of the logical schema.
// IDs are the sole stable identity; names are display only.
type LogicalField struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Required bool        `json:"required"`
	Type     LogicalType `json:"type"`
}

// Schema is an ordered collection of logical fields with unique ids and names.
type Schema struct {
	fields []LogicalField
	byName map[string]int
	byID   map[int]int
}

// NewSchema builds a schema from the given fields. Duplicate field ids or
// names are rejected.
func NewSchema(fields ...LogicalField) (*Schema, error) {
	s := &Schema{
		fields: make([]LogicalField, len(fields)),
		byName: make(map[string]int, len(fields)),
		byID:   make(map[int]int, len(fields)),
	}
	copy(s.fields, fields)
	for i, f := range s.fields {
		if f.Name == "" {
			return nil, NewInvalidSchemaError(fmt.Sprintf("field id %d has an empty name", f.ID))
		}
		if _, ok := s.byName[f.Name]; ok {
			return nil, NewInvalidSchemaError(fmt.Sprintf("duplicate field name '%s'", f.Name))
		}
		if _, ok := s.byID[f.ID]; ok {
			return nil, NewInvalidSchemaError(fmt.Sprintf("duplicate field id %d", f.ID))
		}
		s.byName[f.Name] = i
		s.byID[f.ID] = i
	}
	return s, nil
}

// Fields returns the fields in schema order. The returned slice is shared and
// must not be modified.
func (s *Schema) Fields() []LogicalField {
	return s.fields
}

// FieldByName looks up a field by its display name.
func (s *Schema) FieldByName(name string) (LogicalField, bool) {
	i, ok := s.byName[name]
	if !ok {
		return LogicalField{}, false
	}
	return s.fields[i], true
}

// FieldByID looks up a field by its stable id.
func (s *Schema) FieldByID(id int) (LogicalField, bool) {
	i, ok := s.byID[id]
	if !ok {
		return LogicalField{}, false
	}
	return s.fields[i], true
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Literal is a constant predicate operand. The zero Literal is null.
//
// Accepted value kinds are the Go representations of the logical types:
// bool, int/int32/int64, float32/float64, string, []byte, *apd.Decimal and
// uuid.UUID, plus strings that the binder coerces for date, timestamp,
// decimal and uuid columns. Coercion to the referenced column's logical
// type happens at bind time.
type Literal struct {
	value any
}

// NewLiteral wraps a raw value. A nil value produces the null literal.
func NewLiteral(value any) Literal {
	return Literal{value: value}
}

// IsNull reports whether the literal carries no value.
func (l Literal) IsNull() bool {
	return l.value == nil
}

// Value returns the raw wrapped value.
func (l Literal) Value() any {
	return l.value
}

func (l Literal) String() string {
	if l.IsNull() {
		return "null"
	}
	switch v := l.value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case *apd.Decimal:
		return v.Text('f')
	case uuid.UUID:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
