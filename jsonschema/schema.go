package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	// Nullable follows the OpenAPI 3.0 convention.
	Nullable bool `json:"nullable,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// MinMicroversion marks fields that only exist from a given microversion on.
	MinMicroversion string `json:"x-openstack-min-microversion,omitempty"`
	// MaxMicroversion is the first microversion that no longer carries the field.
	MaxMicroversion string `json:"x-openstack-max-microversion,omitempty"`
}

// Describer is implemented by adapters that can project themselves.
type Describer interface {
	JSONSchema() *Schema
}

// Of returns the projection of v when it implements Describer, an empty
// schema otherwise.
func Of(v any) *Schema {
	if d, ok := v.(Describer); ok {
		if s := d.JSONSchema(); s != nil {
			return s
		}
	}
	return &Schema{}
}
