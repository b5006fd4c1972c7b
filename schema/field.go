package schema

import (
	"context"
	"reflect"
	"strings"

	"github.com/reoring/osproto"
	js "github.com/reoring/osproto/jsonschema"
)

// Member is one entry of a schema declaration: a field or the extras slot.
type Member[R any] interface {
	member(R)
}

// fieldMember is implemented by FieldDef and OptFieldDef.
type fieldMember[R any] interface {
	Member[R]
	descriptor() Descriptor
	// decodeInto is called when the wire key is present.
	decodeInto(ctx context.Context, r *R, wire any) error
	// absentInto is called when the key is missing or gated.
	absentInto(r *R)
	// encodeFrom returns the wire value and whether to emit the key.
	encodeFrom(ctx context.Context, r *R) (any, bool)
	jsonSchema() *js.Schema
}

// FieldDef declares a plain field: the record holds a T.
type FieldDef[R, T any] struct {
	desc    Descriptor
	adapter osproto.Adapter[T]
	get     func(*R) *T
	def     T
}

// Field declares a field stored in a plain T. Absent optional fields decode
// to the default (or T's zero value) and zero values without a default are
// omitted on encode.
func Field[R, T any](wire, typed string, adapter osproto.Adapter[T], get func(*R) *T) *FieldDef[R, T] {
	return &FieldDef[R, T]{desc: Descriptor{Wire: wire, Typed: typed}, adapter: adapter, get: get}
}

// Required marks the field as required.
func (f *FieldDef[R, T]) Required() *FieldDef[R, T] { f.desc.Required = true; return f }

// Default sets the value used when the key is absent.
func (f *FieldDef[R, T]) Default(v T) *FieldDef[R, T] {
	f.def = v
	f.desc.HasDefault = true
	f.desc.Default = v
	return f
}

// Alias adds decode-only alternative wire keys, tried in order after the
// primary key.
func (f *FieldDef[R, T]) Alias(keys ...string) *FieldDef[R, T] {
	f.desc.addAliases(osproto.Microversion{}, osproto.Microversion{}, keys)
	return f
}

// AliasSince adds alternative wire keys accepted from microversion mv on.
func (f *FieldDef[R, T]) AliasSince(mv osproto.Microversion, keys ...string) *FieldDef[R, T] {
	f.desc.addAliases(mv, osproto.Microversion{}, keys)
	return f
}

// AliasUntil adds alternative wire keys accepted below microversion mv.
func (f *FieldDef[R, T]) AliasUntil(mv osproto.Microversion, keys ...string) *FieldDef[R, T] {
	f.desc.addAliases(osproto.Microversion{}, mv, keys)
	return f
}

// Since gates the field on microversion mv.
func (f *FieldDef[R, T]) Since(mv osproto.Microversion) *FieldDef[R, T] {
	f.desc.Since = mv
	return f
}

// Until removes the field from microversion mv on.
func (f *FieldDef[R, T]) Until(mv osproto.Microversion) *FieldDef[R, T] {
	f.desc.Until = mv
	return f
}

func (f *FieldDef[R, T]) member(R)               {}
func (f *FieldDef[R, T]) descriptor() Descriptor { return f.desc }

func (f *FieldDef[R, T]) decodeInto(ctx context.Context, r *R, wire any) error {
	v, err := f.adapter.Decode(ctx, wire)
	if err != nil {
		return err
	}
	*f.get(r) = v
	return nil
}

func (f *FieldDef[R, T]) absentInto(r *R) {
	if f.desc.HasDefault {
		*f.get(r) = f.def
	}
}

func (f *FieldDef[R, T]) encodeFrom(ctx context.Context, r *R) (any, bool) {
	v := *f.get(r)
	if !f.desc.Required && !f.desc.HasDefault && reflect.ValueOf(&v).Elem().IsZero() {
		return nil, false
	}
	return f.adapter.Encode(ctx, v), true
}

func (f *FieldDef[R, T]) jsonSchema() *js.Schema {
	s := *js.Of(f.adapter)
	if f.desc.HasDefault {
		s.Default = f.adapter.Encode(context.Background(), f.def)
	}
	return &s
}

// OptFieldDef declares a tri-state field: the record holds an osproto.Opt[T].
type OptFieldDef[R, T any] struct {
	desc    Descriptor
	adapter osproto.Adapter[T]
	get     func(*R) *osproto.Opt[T]
	def     T
}

// OptField declares a tri-state field. Absent decodes to Unset, null to
// Null and anything else through adapter. Encoding emits exactly the
// matching wire shape.
func OptField[R, T any](wire, typed string, adapter osproto.Adapter[T], get func(*R) *osproto.Opt[T]) *OptFieldDef[R, T] {
	return &OptFieldDef[R, T]{desc: Descriptor{Wire: wire, Typed: typed, Optional: true}, adapter: adapter, get: get}
}

// Default makes an absent key decode to Some(v) instead of Unset.
func (f *OptFieldDef[R, T]) Default(v T) *OptFieldDef[R, T] {
	f.def = v
	f.desc.HasDefault = true
	f.desc.Default = v
	return f
}

func (f *OptFieldDef[R, T]) Alias(keys ...string) *OptFieldDef[R, T] {
	f.desc.addAliases(osproto.Microversion{}, osproto.Microversion{}, keys)
	return f
}

func (f *OptFieldDef[R, T]) AliasSince(mv osproto.Microversion, keys ...string) *OptFieldDef[R, T] {
	f.desc.addAliases(mv, osproto.Microversion{}, keys)
	return f
}

func (f *OptFieldDef[R, T]) AliasUntil(mv osproto.Microversion, keys ...string) *OptFieldDef[R, T] {
	f.desc.addAliases(osproto.Microversion{}, mv, keys)
	return f
}

func (f *OptFieldDef[R, T]) Since(mv osproto.Microversion) *OptFieldDef[R, T] {
	f.desc.Since = mv
	return f
}

func (f *OptFieldDef[R, T]) Until(mv osproto.Microversion) *OptFieldDef[R, T] {
	f.desc.Until = mv
	return f
}

// EmptyAsNull treats an empty (or blank) wire string as null. Nova sends
// "image": "" for volume-backed servers. Such fields have no present blank
// state: a value encoding to a blank string is emitted as null, so Some("")
// normalizes to Null.
func (f *OptFieldDef[R, T]) EmptyAsNull() *OptFieldDef[R, T] {
	f.desc.EmptyAsNull = true
	return f
}

func (f *OptFieldDef[R, T]) member(R)               {}
func (f *OptFieldDef[R, T]) descriptor() Descriptor { return f.desc }

func (f *OptFieldDef[R, T]) decodeInto(ctx context.Context, r *R, wire any) error {
	if wire == nil {
		*f.get(r) = osproto.Cleared[T]()
		return nil
	}
	if s, ok := wire.(string); ok && f.desc.EmptyAsNull && strings.TrimSpace(s) == "" {
		*f.get(r) = osproto.Cleared[T]()
		return nil
	}
	v, err := f.adapter.Decode(ctx, wire)
	if err != nil {
		return err
	}
	*f.get(r) = osproto.Some(v)
	return nil
}

func (f *OptFieldDef[R, T]) absentInto(r *R) {
	if f.desc.HasDefault {
		*f.get(r) = osproto.Some(f.def)
		return
	}
	*f.get(r) = osproto.NotSet[T]()
}

func (f *OptFieldDef[R, T]) encodeFrom(ctx context.Context, r *R) (any, bool) {
	o := *f.get(r)
	switch o.State() {
	case osproto.Null:
		return nil, true
	case osproto.Present:
		v, _ := o.Get()
		w := f.adapter.Encode(ctx, v)
		if s, ok := w.(string); ok && f.desc.EmptyAsNull && strings.TrimSpace(s) == "" {
			return nil, true
		}
		return w, true
	default:
		return nil, false
	}
}

func (f *OptFieldDef[R, T]) jsonSchema() *js.Schema {
	s := *js.Of(f.adapter)
	s.Nullable = true
	if f.desc.HasDefault {
		s.Default = f.adapter.Encode(context.Background(), f.def)
	}
	return &s
}

// ExtrasDef declares where undeclared wire keys are kept.
type ExtrasDef[R any] struct {
	get func(*R) *map[string]any
}

// Extras declares the record's side mapping for undeclared keys. Values are
// kept as decoded (numbers stay textual) and re-emitted unchanged.
func Extras[R any](get func(*R) *map[string]any) *ExtrasDef[R] {
	return &ExtrasDef[R]{get: get}
}

func (e *ExtrasDef[R]) member(R) {}

// RefineDef is a record-level rule run after every field decoded cleanly.
type RefineDef[R any] struct {
	name string
	fn   func(ctx context.Context, r R) []osproto.Issue
}

// Refine declares a cross-field rule, such as "exactly one of id or name".
// Issue paths are relative to the record.
func Refine[R any](name string, fn func(ctx context.Context, r R) []osproto.Issue) *RefineDef[R] {
	return &RefineDef[R]{name: name, fn: fn}
}

func (d *RefineDef[R]) member(R) {}
