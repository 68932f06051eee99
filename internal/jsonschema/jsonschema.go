// Package jsonschema holds the JSON-schema structure used to declare tool
// parameters, plus a reflection-based generator so tools can be described
// from plain Go types.
package jsonschema

import (
	"reflect"
	"strings"
)

// Schema represents the subset of JSON Schema used for function-calling
// parameter declarations. It is marshaled verbatim into each vendor's tool
// definition format.
type Schema struct {
	// Type specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of the arguments, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// Enum contains the list of allowed values for the parameter
	Enum []any `json:"enum,omitempty"`
	// AdditionalProperties controls whether undeclared properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
}

// EmptyObject returns the minimal valid parameter schema. Some vendors
// require a schema on every tool even when the function takes no arguments.
func EmptyObject() *Schema {
	return &Schema{Type: "object", Properties: map[string]*Schema{}}
}

// Generate builds a Schema from the exported fields of T. Field names follow
// the json tag when present; a "description" struct tag populates the field
// description. All fields are marked required unless their json tag carries
// omitempty.
func Generate[T any]() *Schema {
	return fromType(reflect.TypeFor[T]())
}

func fromType(t reflect.Type) *Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		schema := &Schema{Type: "object", Properties: map[string]*Schema{}}
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			name := field.Name
			optional := false
			if tag := field.Tag.Get("json"); tag != "" {
				parts := strings.Split(tag, ",")
				if parts[0] == "-" {
					continue
				}
				if parts[0] != "" {
					name = parts[0]
				}
				for _, opt := range parts[1:] {
					if opt == "omitempty" {
						optional = true
					}
				}
			}

			fieldSchema := fromType(field.Type)
			if desc := field.Tag.Get("description"); desc != "" {
				fieldSchema.Description = desc
			}
			schema.Properties[name] = fieldSchema
			if !optional {
				schema.Required = append(schema.Required, name)
			}
		}
		return schema

	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: fromType(t.Elem())}

	case reflect.Map:
		return &Schema{Type: "object"}

	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	default:
		// Interfaces and anything else degrade to an unconstrained value.
		return &Schema{}
	}
}
