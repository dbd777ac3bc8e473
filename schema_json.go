package iceberg

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
)

// schemaDocument mirrors the subset of a JSON Schema document used to author
// logical schemas. Field identity and decimal parameters ride on x-prefixed
// extension keywords.
type schemaDocument struct {
	Type       string                  `json:"type"`
	Properties map[string]*fieldSchema `json:"properties"`
	Required   []string                `json:"required"`
}

// fieldSchema defines the schema for a single field.
type fieldSchema struct {
	Type      string `json:"type"` // "string", "integer", "number", "boolean"
	Format    string `json:"format,omitempty"`
	FieldID   int    `json:"x-field-id"`
	Precision int    `json:"x-precision,omitempty"`
	Scale     int    `json:"x-scale,omitempty"`
}

// SchemaFromJSON parses a logical schema authored as a JSON Schema document.
// The document is first resolved as a JSON Schema to catch structural
// mistakes, then mapped onto logical fields:
//
//	"boolean"                          -> boolean
//	"integer"                          -> int64 ("int32" format narrows)
//	"number"                           -> float64 ("float" format narrows,
//	                                      "decimal" uses x-precision/x-scale)
//	"string"                           -> string ("date", "date-time",
//	                                      "uuid", "binary" formats map to
//	                                      the corresponding logical types)
//
// Every property must carry a unique x-field-id; names listed in "required"
// become required fields. Fields are ordered by id.
func SchemaFromJSON(data []byte) (*Schema, error) {
	var js jsonschema.Schema
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, NewInvalidSchemaError("failed to unmarshal into jsonschema.Schema").WithCause(err)
	}
	if _, err := js.Resolve(&jsonschema.ResolveOptions{}); err != nil {
		return nil, NewInvalidSchemaError("failed to resolve JSON schema").WithCause(err)
	}

	var doc schemaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewInvalidSchemaError("failed to unmarshal schema document").WithCause(err)
	}
	if doc.Type != "" && doc.Type != "object" {
		return nil, NewInvalidSchemaError(fmt.Sprintf("schema document must describe an object, got type '%s'", doc.Type))
	}
	if len(doc.Properties) == 0 {
		return nil, NewInvalidSchemaError("schema document has no properties")
	}

	required := make(map[string]bool, len(doc.Required))
	for _, name := range doc.Required {
		required[name] = true
	}

	fields := make([]LogicalField, 0, len(doc.Properties))
	for name, prop := range doc.Properties {
		if prop == nil {
			return nil, NewInvalidSchemaError(fmt.Sprintf("property '%s' has no schema", name))
		}
		if prop.FieldID == 0 {
			return nil, NewInvalidSchemaError(fmt.Sprintf("property '%s' is missing x-field-id", name))
		}
		lt, err := logicalTypeFromProperty(name, prop)
		if err != nil {
			return nil, err
		}
		fields = append(fields, LogicalField{
			ID:       prop.FieldID,
			Name:     name,
			Required: required[name],
			Type:     lt,
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })

	return NewSchema(fields...)
}

func logicalTypeFromProperty(name string, prop *fieldSchema) (LogicalType, error) {
	switch prop.Type {
	case "boolean":
		return Primitive(TypeBoolean), nil
	case "integer":
		switch prop.Format {
		case "", "int64":
			return Primitive(TypeInt64), nil
		case "int32":
			return Primitive(TypeInt32), nil
		default:
			return LogicalType{}, NewInvalidSchemaError(fmt.Sprintf("property '%s': unsupported integer format '%s'", name, prop.Format))
		}
	case "number":
		switch prop.Format {
		case "", "double", "float64":
			return Primitive(TypeFloat64), nil
		case "float", "float32":
			return Primitive(TypeFloat32), nil
		case "decimal":
			if prop.Precision <= 0 {
				return LogicalType{}, NewInvalidSchemaError(fmt.Sprintf("property '%s': decimal requires a positive x-precision", name))
			}
			return DecimalOf(prop.Precision, prop.Scale), nil
		default:
			return LogicalType{}, NewInvalidSchemaError(fmt.Sprintf("property '%s': unsupported number format '%s'", name, prop.Format))
		}
	case "string":
		switch prop.Format {
		case "":
			return Primitive(TypeString), nil
		case "date":
			return Primitive(TypeDate), nil
		case "date-time":
			return Primitive(TypeTimestamp), nil
		case "uuid":
			return Primitive(TypeUUID), nil
		case "binary", "byte":
			return Primitive(TypeBinary), nil
		default:
			return LogicalType{}, NewInvalidSchemaError(fmt.Sprintf("property '%s': unsupported string format '%s'", name, prop.Format))
		}
	default:
		return LogicalType{}, NewInvalidSchemaError(fmt.Sprintf("property '%s': unsupported type '%s'", name, prop.Type))
	}
}
