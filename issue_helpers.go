package osproto

import (
	"fmt"

	"github.com/reoring/osproto/i18n"
	"github.com/reoring/osproto/internal/jsonx"
)

// IssueAt creates an Issue at the given path with a catalog message for code.
func IssueAt(p Path, code string, params map[string]any) Issue {
	return Issue{Path: p.String(), Code: code, Message: i18n.T(code, stringParams(params)), Params: params}
}

// Mismatch reports a wire value of the wrong JSON type.
func Mismatch(expected string, got any) Issues {
	params := map[string]any{"expected": expected, "got": WireType(got)}
	return Issues{{
		Code:    CodeTypeMismatch,
		Message: i18n.T(CodeTypeMismatch, stringParams(params)),
		Hint:    "expected " + expected,
		Params:  params,
	}}
}

// Malformed reports a value of the right JSON type that failed to parse.
func Malformed(what string, raw any, cause error) Issues {
	params := map[string]any{"expected": what, "got": fmt.Sprint(raw)}
	return Issues{{
		Code:    CodeMalformedValue,
		Message: i18n.T(CodeMalformedValue, stringParams(params)),
		Hint:    what,
		Cause:   cause,
		Params:  params,
	}}
}

// WireType names the JSON type of a decoded wire value.
func WireType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any, *jsonx.Object:
		return "object"
	case []any:
		return "array"
	case jsonx.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// ParseFailure reports a body that is not a single JSON value.
func ParseFailure(err error) Issues {
	it := IssueAt(Root(), CodeParseError, nil)
	it.Cause = err
	if err != nil {
		it.Hint = err.Error()
	}
	return Issues{it}
}
