package schema

import (
	"context"
	"fmt"
	"sort"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/internal/jsonx"
	js "github.com/reoring/osproto/jsonschema"
	"github.com/reoring/osproto/logging"
)

// Schema is the bound Field Descriptor table of record type R. It satisfies
// osproto.Adapter[R], so schemas nest inside other schemas and containers.
type Schema[R any] struct {
	name   string
	fields []fieldMember[R]
	descs  []Descriptor
	extras *ExtrasDef[R]
	rules  []*RefineDef[R]
}

var _ osproto.Adapter[struct{}] = (*Schema[struct{}])(nil)

// Bind validates the declaration and returns the schema. name is the
// resource name used for envelopes ("server", "volume").
func Bind[R any](name string, members ...Member[R]) (*Schema[R], error) {
	s := &Schema[R]{name: name}
	for _, m := range members {
		switch m := m.(type) {
		case *ExtrasDef[R]:
			if s.extras != nil {
				return nil, osproto.Issues{invalid(name, "extras declared twice")}
			}
			s.extras = m
		case *RefineDef[R]:
			if m.fn == nil {
				return nil, osproto.Issues{invalid(name, "nil rule "+m.name)}
			}
			s.rules = append(s.rules, m)
		case fieldMember[R]:
			s.fields = append(s.fields, m)
			s.descs = append(s.descs, m.descriptor())
		case nil:
			return nil, osproto.Issues{invalid(name, "nil member")}
		default:
			return nil, osproto.Issues{invalid(name, fmt.Sprintf("unsupported member %T", m))}
		}
	}
	if err := validateTable(name, s.descs); err != nil {
		return nil, err
	}
	return s, nil
}

// MustBind is Bind that panics. Intended for package-level schema tables.
func MustBind[R any](name string, members ...Member[R]) *Schema[R] {
	s, err := Bind[R](name, members...)
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return s
}

// Nested returns s as an adapter for embedded records, e.g.
// codec.List(schema.Nested(Address)).
func Nested[R any](s *Schema[R]) osproto.Adapter[R] { return s }

func (s *Schema[R]) Name() string { return s.name }

// Fields returns a copy of the descriptor table in declaration order.
func (s *Schema[R]) Fields() []Descriptor {
	out := make([]Descriptor, len(s.descs))
	copy(out, s.descs)
	return out
}

// Decode decodes one JSON object. Issues are collected for every field
// unless fail-fast is set on ctx.
func (s *Schema[R]) Decode(ctx context.Context, wire any) (R, error) {
	var r, zero R
	m, ok := jsonx.AsMap(wire)
	if !ok {
		return zero, osproto.Mismatch("object", wire)
	}
	mv := osproto.MicroversionFrom(ctx)
	log := logging.FromContext(ctx)
	consumed := make(map[string]bool, len(s.fields))
	var iss osproto.Issues
	for i, f := range s.fields {
		d := s.descs[i]
		if d.Gated(mv) {
			if _, present := m[d.Wire]; present {
				log.Debug("microversion-gated field kept as extra", "schema", s.name, "field", d.Wire, "since", d.Since.String(), "until", d.Until.String(), "microversion", mv.String())
			}
			f.absentInto(&r)
			continue
		}
		key, val, found := lookup(m, d, mv, consumed)
		if !found {
			if d.Required {
				at := osproto.Root().Key(d.Wire)
				iss = append(iss, osproto.IssueAt(at, osproto.CodeMissingField, map[string]any{"field": d.Typed}))
				if osproto.IsFailFast(ctx) {
					return zero, iss
				}
				continue
			}
			f.absentInto(&r)
			continue
		}
		at := osproto.Root().Key(key).String()
		if err := f.decodeInto(osproto.ScopeIssues(ctx, at), &r, val); err != nil {
			iss = osproto.AppendIssues(iss, osproto.ToIssues(at, err)...)
			if osproto.IsFailFast(ctx) {
				return zero, iss
			}
		}
	}
	if len(iss) > 0 {
		return zero, iss
	}
	for _, rule := range s.rules {
		if found := rule.fn(ctx, r); len(found) > 0 {
			iss = osproto.AppendIssues(iss, found...)
			if osproto.IsFailFast(ctx) {
				break
			}
		}
	}
	if len(iss) > 0 {
		return zero, iss
	}

	var rest []string
	for k := range m {
		if !consumed[k] {
			rest = append(rest, k)
		}
	}
	if len(rest) > 0 {
		sort.Strings(rest)
		if s.extras == nil {
			log.Debug("dropping undeclared keys", "schema", s.name, "keys", rest)
		} else {
			extra := make(map[string]any, len(rest))
			for _, k := range rest {
				extra[k] = m[k]
			}
			*s.extras.get(&r) = extra
			log.Debug("preserved extra keys", "schema", s.name, "keys", rest)
		}
	}
	return r, nil
}

// lookup finds the primary key or the first alias active at mv. Every
// accepted spelling found in m is marked consumed; inactive aliases stay for
// the extras.
func lookup(m map[string]any, d Descriptor, mv osproto.Microversion, consumed map[string]bool) (string, any, bool) {
	keys := []string{d.Wire}
	for _, a := range d.Aliases {
		if a.Active(mv) {
			keys = append(keys, a.Key)
		}
	}
	key, found := "", false
	var val any
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		consumed[k] = true
		if !found {
			key, val, found = k, v, true
		}
	}
	return key, val, found
}

// Encode renders r as an ordered JSON object: declared fields first, in
// declaration order, then extras sorted by key.
func (s *Schema[R]) Encode(ctx context.Context, r R) any {
	mv := osproto.MicroversionFrom(ctx)
	obj := jsonx.NewObject(len(s.fields))
	for i, f := range s.fields {
		if s.descs[i].Gated(mv) {
			continue
		}
		if v, ok := f.encodeFrom(ctx, &r); ok {
			obj.Set(s.descs[i].Wire, v)
		}
	}
	if s.extras != nil {
		extra := *s.extras.get(&r)
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, taken := obj.Get(k); taken {
				continue
			}
			obj.Set(k, extra[k])
		}
	}
	return obj
}

// DecodeJSON decodes raw JSON bytes holding one bare (unwrapped) object.
func (s *Schema[R]) DecodeJSON(ctx context.Context, data []byte) (R, error) {
	wire, err := jsonx.Decode(data)
	if err != nil {
		var zero R
		return zero, osproto.ParseFailure(err)
	}
	return s.Decode(ctx, wire)
}

// EncodeJSON encodes r as JSON bytes.
func (s *Schema[R]) EncodeJSON(ctx context.Context, r R) ([]byte, error) {
	return jsonx.Marshal(s.Encode(ctx, r))
}

// JSONSchema projects the descriptor table. Gated fields carry
// x-openstack-min/max-microversion and are never listed as required.
func (s *Schema[R]) JSONSchema() *js.Schema {
	out := &js.Schema{Type: "object", Description: s.name, Properties: make(map[string]*js.Schema, len(s.fields))}
	for i, f := range s.fields {
		d := s.descs[i]
		p := f.jsonSchema()
		if !d.Since.IsZero() {
			p.MinMicroversion = d.Since.String()
		}
		if !d.Until.IsZero() {
			p.MaxMicroversion = d.Until.String()
		}
		out.Properties[d.Wire] = p
		if d.Required && d.Since.IsZero() && d.Until.IsZero() {
			out.Required = append(out.Required, d.Wire)
		}
	}
	if s.extras != nil {
		out.AdditionalProperties = true
	}
	return out
}

// DecodeAny is Decode with a type-erased result, for Registry.
func (s *Schema[R]) DecodeAny(ctx context.Context, wire any) (any, error) {
	r, err := s.Decode(ctx, wire)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeAny accepts R or *R.
func (s *Schema[R]) EncodeAny(ctx context.Context, v any) (any, error) {
	switch r := v.(type) {
	case R:
		return s.Encode(ctx, r), nil
	case *R:
		if r == nil {
			return nil, fmt.Errorf("schema %s: nil record", s.name)
		}
		return s.Encode(ctx, *r), nil
	default:
		return nil, fmt.Errorf("schema %s: cannot encode %T", s.name, v)
	}
}
