package codec

import (
	"context"
	"strings"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/internal/jsonx"
	js "github.com/reoring/osproto/jsonschema"
)

// Bool decodes booleans sent as true, "true", "True", "1", "yes", "on" or 1
// (and their negatives). It encodes as a JSON boolean.
func Bool() osproto.Adapter[bool] { return boolAdapter{} }

// BoolString decodes like Bool but encodes as "true"/"false", the form
// Cinder uses for bootable.
func BoolString() osproto.Adapter[bool] { return boolAdapter{quoted: true} }

type boolAdapter struct {
	quoted bool
}

func (boolAdapter) Decode(_ context.Context, wire any) (bool, error) {
	switch w := wire.(type) {
	case bool:
		return w, nil
	case string:
		if b, ok := parseBool(w); ok {
			return b, nil
		}
	case jsonx.Number:
		switch string(w) {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
	}
	return false, osproto.Mismatch("boolean", wire)
}

func (a boolAdapter) Encode(_ context.Context, v bool) any {
	if !a.quoted {
		return v
	}
	if v {
		return "true"
	}
	return "false"
}

func (a boolAdapter) JSONSchema() *js.Schema {
	if a.quoted {
		return &js.Schema{Type: "string", Enum: []any{"true", "false"}}
	}
	return &js.Schema{Type: "boolean"}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on", "y", "t":
		return true, true
	case "false", "0", "no", "off", "n", "f":
		return false, true
	}
	return false, false
}
