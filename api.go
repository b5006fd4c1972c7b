package osproto

import "context"

// Adapter converts between one decoded JSON value and a typed Go value.
//
// Decode receives the generic value produced by the JSON decoder (string,
// bool, json.Number, nil, []any, map[string]any) and reports failures as
// Issues with paths relative to that value. Encode returns a value the JSON
// encoder can marshal. Encode does not fail for values that satisfy the data
// model.
type Adapter[T any] interface {
	Decode(ctx context.Context, wire any) (T, error)
	Encode(ctx context.Context, v T) any
}

// AdapterFuncs builds an Adapter from a pair of functions.
func AdapterFuncs[T any](dec func(context.Context, any) (T, error), enc func(context.Context, T) any) Adapter[T] {
	return funcAdapter[T]{dec: dec, enc: enc}
}

type funcAdapter[T any] struct {
	dec func(context.Context, any) (T, error)
	enc func(context.Context, T) any
}

func (f funcAdapter[T]) Decode(ctx context.Context, wire any) (T, error) { return f.dec(ctx, wire) }
func (f funcAdapter[T]) Encode(ctx context.Context, v T) any            { return f.enc(ctx, v) }
