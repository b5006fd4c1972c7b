package errorbody

import (
	"fmt"
	"net/http"
	"strings"
)

// Class is a coarse classification of an error by HTTP status.
type Class string

const (
	ClassBadRequest   Class = "bad_request"
	ClassUnauthorized Class = "unauthorized"
	ClassForbidden    Class = "forbidden"
	ClassNotFound     Class = "not_found"
	ClassConflict     Class = "conflict"
	ClassRateLimited  Class = "rate_limited"
	ClassServerError  Class = "server_error"
	ClassUnavailable  Class = "unavailable"
	ClassOther        Class = "other"
)

// Error makes a Class usable as an errors.Is target: errors.Is(err, errorbody.ClassNotFound).
func (c Class) Error() string { return string(c) }

// Classify maps an HTTP status to its Class.
func Classify(status int) Class {
	switch {
	case status == http.StatusBadRequest:
		return ClassBadRequest
	case status == http.StatusUnauthorized:
		return ClassUnauthorized
	case status == http.StatusForbidden:
		return ClassForbidden
	case status == http.StatusNotFound:
		return ClassNotFound
	case status == http.StatusConflict:
		return ClassConflict
	case status == http.StatusTooManyRequests, status == http.StatusRequestEntityTooLarge:
		// Nova reports quota overLimit as 413.
		return ClassRateLimited
	case status == http.StatusServiceUnavailable:
		return ClassUnavailable
	case status >= 500 && status < 600:
		return ClassServerError
	default:
		return ClassOther
	}
}

// Shape names the body shape a Record was read from.
type Shape string

const (
	ShapeFlat    Shape = "flat"
	ShapeNested  Shape = "nested"
	ShapeList    Shape = "list"
	ShapeUnknown Shape = "unknown"
)

// CodeUnknown is the machine code of records built from unrecognized bodies.
const CodeUnknown = "unknown"

// Record is the canonical error record.
type Record struct {
	Code      string
	Message   string
	Service   string
	RequestID string
	Status    int
	// Details carries extra text some shapes provide (Neutron detail,
	// Nova fault details, Heat traceback).
	Details string
	// Raw is the body verbatim. Always set for ShapeUnknown.
	Raw   string
	Shape Shape
	// Errors holds every entry of a list-shaped body.
	Errors []Record
}

// Class classifies the record by its HTTP status.
func (r Record) Class() Class { return Classify(r.Status) }

func (r Record) Error() string {
	b := &strings.Builder{}
	if r.Service != "" {
		b.WriteString(r.Service)
		b.WriteString(": ")
	}
	b.WriteString(r.Code)
	if r.Status != 0 {
		fmt.Fprintf(b, " (HTTP %d)", r.Status)
	}
	if r.Message != "" {
		b.WriteString(": ")
		b.WriteString(r.Message)
	}
	if r.RequestID != "" {
		b.WriteString(" [")
		b.WriteString(r.RequestID)
		b.WriteString("]")
	}
	return b.String()
}

// Is matches Class targets against the record's classification.
func (r Record) Is(target error) bool {
	c, ok := target.(Class)
	return ok && c == r.Class()
}
