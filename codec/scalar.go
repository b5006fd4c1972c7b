package codec

import (
	"context"

	"github.com/reoring/osproto"
	js "github.com/reoring/osproto/jsonschema"
)

// String decodes JSON strings.
func String() osproto.Adapter[string] { return stringAdapter{} }

type stringAdapter struct{}

func (stringAdapter) Decode(_ context.Context, wire any) (string, error) {
	s, ok := wire.(string)
	if !ok {
		return "", osproto.Mismatch("string", wire)
	}
	return s, nil
}

func (stringAdapter) Encode(_ context.Context, v string) any { return v }

func (stringAdapter) JSONSchema() *js.Schema { return &js.Schema{Type: "string"} }

// Raw passes any JSON value through untouched (numbers stay textual).
func Raw() osproto.Adapter[any] { return rawAdapter{} }

type rawAdapter struct{}

func (rawAdapter) Decode(_ context.Context, wire any) (any, error) { return wire, nil }
func (rawAdapter) Encode(_ context.Context, v any) any             { return v }
func (rawAdapter) JSONSchema() *js.Schema                          { return &js.Schema{} }
