package codec

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/internal/jsonx"
	js "github.com/reoring/osproto/jsonschema"
)

// Int decodes integers sent either as JSON numbers or as quoted strings
// ("512"). It encodes as a JSON number.
func Int() osproto.Adapter[int] {
	return intAdapter[int]{}
}

// Int64 is Int for 64-bit values.
func Int64() osproto.Adapter[int64] {
	return intAdapter[int64]{}
}

// IntString decodes like Int but encodes as a quoted string, for services
// that expect the string form back.
func IntString() osproto.Adapter[int] {
	return intAdapter[int]{quoted: true}
}

type intAdapter[T int | int64] struct {
	quoted bool
}

func (a intAdapter[T]) Decode(_ context.Context, wire any) (T, error) {
	var text string
	switch w := wire.(type) {
	case jsonx.Number:
		text = string(w)
	case string:
		text = strings.TrimSpace(w)
	case float64:
		text = strconv.FormatFloat(w, 'f', -1, 64)
	default:
		return 0, osproto.Mismatch("integer", wire)
	}
	n, ok, inRange := parseInteger(text)
	if !ok {
		return 0, osproto.Mismatch("integer", wire)
	}
	if !inRange || int64(T(n)) != n {
		return 0, osproto.Malformed("integer in range", wire, nil)
	}
	return T(n), nil
}

func (a intAdapter[T]) Encode(_ context.Context, v T) any {
	s := strconv.FormatInt(int64(v), 10)
	if a.quoted {
		return s
	}
	return jsonx.Number(s)
}

func (a intAdapter[T]) JSONSchema() *js.Schema {
	if a.quoted {
		return &js.Schema{Type: "string", Format: "integer"}
	}
	return &js.Schema{Type: "integer"}
}

// parseInteger accepts "42", "-7" and integral floats such as "42.0".
// inRange is false for integral values outside int64.
func parseInteger(s string) (n int64, ok, inRange bool) {
	if s == "" {
		return 0, false, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n, true, true
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, true, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, so compare against 2^63 directly.
	if f >= 1<<63 || f < -(1<<63) {
		return 0, true, false
	}
	return int64(f), true, true
}

// Float decodes numbers sent as JSON numbers or quoted strings ("1.0").
func Float() osproto.Adapter[float64] { return floatAdapter{} }

type floatAdapter struct{}

func (floatAdapter) Decode(_ context.Context, wire any) (float64, error) {
	var text string
	switch w := wire.(type) {
	case jsonx.Number:
		text = string(w)
	case string:
		text = strings.TrimSpace(w)
	case float64:
		return w, nil
	default:
		return 0, osproto.Mismatch("number", wire)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, osproto.Mismatch("number", wire)
	}
	return f, nil
}

func (floatAdapter) Encode(_ context.Context, v float64) any {
	return jsonx.Number(strconv.FormatFloat(v, 'f', -1, 64))
}

func (floatAdapter) JSONSchema() *js.Schema { return &js.Schema{Type: "number"} }
