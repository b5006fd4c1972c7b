// Package jsonx holds the JSON plumbing shared by the normalization packages:
// number-preserving decode into generic values and order-preserving objects
// for encode.
package jsonx

import (
	"bytes"
	"errors"
	"io"

	json "github.com/goccy/go-json"
)

// Number is the decoded representation of every JSON number.
type Number = json.Number

// Decode parses a single JSON document into generic values (map[string]any,
// []any, string, bool, Number, nil). Numbers keep their textual form so that
// integers beyond 2^53 survive.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty body")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// Marshal encodes v. *Object values keep their key order.
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// AsMap views v as a JSON object. It accepts decoded maps and *Object.
func AsMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case *Object:
		if t == nil {
			return nil, false
		}
		return t.Map(), true
	default:
		return nil, false
	}
}

// AsList views v as a JSON array.
func AsList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// Plain converts a value tree built from *Object into plain maps, the shape
// Decode would have produced for the same document.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		out := make(map[string]any, t.Len())
		for _, k := range t.keys {
			out[k] = Plain(t.values[k])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Plain(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Plain(val)
		}
		return out
	default:
		return v
	}
}
