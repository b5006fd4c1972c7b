package osproto

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeMissingField       = "missing_field"
	CodeMalformedValue     = "malformed_value"
	CodeTypeMismatch       = "type_mismatch"
	CodeUnexpectedEnvelope = "unexpected_envelope"
	CodeParseError         = "parse_error"
	// Non-fatal: reported through DecodeOpt.OnIssue, never returned.
	CodeUnknownAlias = "unknown_alias"
	// Schema construction only.
	CodeInvalidDescriptor = "invalid_descriptor"
)

// Sentinels usable with errors.Is against any Issues value.
var (
	ErrMissingField       = errors.New(CodeMissingField)
	ErrMalformedValue     = errors.New(CodeMalformedValue)
	ErrTypeMismatch       = errors.New(CodeTypeMismatch)
	ErrUnexpectedEnvelope = errors.New(CodeUnexpectedEnvelope)
	ErrParse              = errors.New(CodeParseError)
	ErrInvalidDescriptor  = errors.New(CodeInvalidDescriptor)
)

var _sentinelByCode = map[string]error{
	CodeMissingField:       ErrMissingField,
	CodeMalformedValue:     ErrMalformedValue,
	CodeTypeMismatch:       ErrTypeMismatch,
	CodeUnexpectedEnvelope: ErrUnexpectedEnvelope,
	CodeParseError:         ErrParse,
	CodeInvalidDescriptor:  ErrInvalidDescriptor,
}

// Issue is a single decode failure or warning.
type Issue struct {
	Path    string // Dotted field path (for example: server.addresses[0].addr).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected type, accepted formats, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"got":"string"}) for i18n
	// and observability.
	Params map[string]any
}

func (it Issue) String() string {
	if it.Path == "" {
		return it.Code
	}
	return it.Code + " at " + it.Path
}

// Issues is a collection of decode errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. missing_field at server.id: required field missing
		b.WriteString(it.String())
		if it.Message != "" {
			b.WriteString(": ")
			b.WriteString(it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is matches the code sentinels (ErrMissingField, ...) against any contained issue.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if s, ok := _sentinelByCode[it.Code]; ok && s == target {
			return true
		}
	}
	return false
}

// Has reports whether any issue carries the given code.
func (iss Issues) Has(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// Under returns a copy of iss with every path rebased below prefix.
func (iss Issues) Under(prefix string) Issues {
	if prefix == "" || len(iss) == 0 {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Path = JoinPath(prefix, it.Path)
		out[i] = it
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ToIssues converts any error into Issues, wrapping foreign errors as
// malformed values at path.
func ToIssues(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss.Under(path)
	}
	return Issues{{Path: path, Code: CodeMalformedValue, Message: err.Error(), Cause: err}}
}
