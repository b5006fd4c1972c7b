package codec

import (
	"context"
	"sort"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/internal/jsonx"
	js "github.com/reoring/osproto/jsonschema"
)

// List decodes a JSON array whose elements are governed by elem. Element
// issues are rebased under [i].
func List[T any](elem osproto.Adapter[T]) osproto.Adapter[[]T] { return listAdapter[T]{elem: elem} }

type listAdapter[T any] struct {
	elem osproto.Adapter[T]
}

func (a listAdapter[T]) Decode(ctx context.Context, wire any) ([]T, error) {
	items, ok := jsonx.AsList(wire)
	if !ok {
		return nil, osproto.Mismatch("array", wire)
	}
	out := make([]T, 0, len(items))
	var iss osproto.Issues
	for i, item := range items {
		at := osproto.Root().Index(i).String()
		v, err := a.elem.Decode(osproto.ScopeIssues(ctx, at), item)
		if err != nil {
			iss = osproto.AppendIssues(iss, osproto.ToIssues(at, err)...)
			if osproto.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out = append(out, v)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (a listAdapter[T]) Encode(ctx context.Context, v []T) any {
	out := make([]any, len(v))
	for i, item := range v {
		out[i] = a.elem.Encode(ctx, item)
	}
	return out
}

func (a listAdapter[T]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "array", Items: js.Of(a.elem)}
}

// Map decodes a JSON object with arbitrary keys whose values are governed by
// elem (metadata, addresses keyed by network name). Encoding sorts the keys.
func Map[T any](elem osproto.Adapter[T]) osproto.Adapter[map[string]T] {
	return mapAdapter[T]{elem: elem}
}

type mapAdapter[T any] struct {
	elem osproto.Adapter[T]
}

func (a mapAdapter[T]) Decode(ctx context.Context, wire any) (map[string]T, error) {
	m, ok := jsonx.AsMap(wire)
	if !ok {
		return nil, osproto.Mismatch("object", wire)
	}
	out := make(map[string]T, len(m))
	var iss osproto.Issues
	for _, k := range sortedKeys(m) {
		at := osproto.Root().Key(k).String()
		v, err := a.elem.Decode(osproto.ScopeIssues(ctx, at), m[k])
		if err != nil {
			iss = osproto.AppendIssues(iss, osproto.ToIssues(at, err)...)
			if osproto.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[k] = v
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (a mapAdapter[T]) Encode(ctx context.Context, v map[string]T) any {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	obj := jsonx.NewObject(len(keys))
	for _, k := range keys {
		obj.Set(k, a.elem.Encode(ctx, v[k]))
	}
	return obj
}

func (a mapAdapter[T]) JSONSchema() *js.Schema {
	return &js.Schema{Type: "object", AdditionalProperties: js.Of(a.elem)}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
