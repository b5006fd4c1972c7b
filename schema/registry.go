package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/internal/jsonx"
	js "github.com/reoring/osproto/jsonschema"
)

// Entry is the type-erased view of a Schema held by a Registry.
type Entry interface {
	Name() string
	Fields() []Descriptor
	JSONSchema() *js.Schema
	DecodeAny(ctx context.Context, wire any) (any, error)
	EncodeAny(ctx context.Context, v any) (any, error)
}

// ErrUnknownSchema is returned for names that are not registered.
var ErrUnknownSchema = errors.New("schema: unknown schema")

// Registry is an immutable name-to-schema table. It is built explicitly and
// passed to whoever needs it; there is no package-level registry.
type Registry struct {
	entries map[string]Entry
	names   []string
}

// NewRegistry builds a registry. Duplicate names are an error.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e == nil {
			return nil, errors.New("schema: nil registry entry")
		}
		if _, dup := r.entries[e.Name()]; dup {
			return nil, fmt.Errorf("schema: %q registered twice", e.Name())
		}
		r.entries[e.Name()] = e
		r.names = append(r.names, e.Name())
	}
	sort.Strings(r.names)
	return r, nil
}

// MustRegistry is NewRegistry that panics.
func MustRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names lists registered schema names in sorted order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

// DecodeAny decodes a bare JSON object with the schema called name.
func (r *Registry) DecodeAny(ctx context.Context, name string, data []byte) (any, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	wire, err := jsonx.Decode(data)
	if err != nil {
		return nil, osproto.ParseFailure(err)
	}
	return e.DecodeAny(ctx, wire)
}

// JSONSchema returns the projection of the schema called name.
func (r *Registry) JSONSchema(name string) (*js.Schema, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.JSONSchema(), true
}
