package errorbody

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/reoring/osproto/logging"
)

// Decoder decodes error bodies of one service. The zero value is usable.
type Decoder struct {
	// Service is copied into every record. When empty, a service implied by
	// the body (NeutronError) is used instead.
	Service string
	Logger  logging.Logger
}

// Headers carrying the request id, in lookup order.
var _requestIDHeaders = []string{"X-Openstack-Request-Id", "X-Compute-Request-Id", "Openstack-Request-Id"}

var _serviceByKey = map[string]string{"NeutronError": "network"}

type matcher func(root gjson.Result) (Record, bool)

var _shapes = []struct {
	shape Shape
	match matcher
}{
	{ShapeFlat, matchFlat},
	{ShapeNested, matchNested},
	{ShapeList, matchList},
}

// Decode decodes raw with the zero Decoder.
func Decode(status int, raw []byte) Record { return Decoder{}.Decode(status, raw) }

// DecodeResponse decodes raw with the zero Decoder, taking the request id
// from header when the body carries none.
func DecodeResponse(status int, header http.Header, raw []byte) Record {
	return Decoder{}.DecodeResponse(status, header, raw)
}

// DecodeResponse is Decode plus the request id headers.
func (d Decoder) DecodeResponse(status int, header http.Header, raw []byte) Record {
	rec := d.Decode(status, raw)
	if rec.RequestID == "" {
		for _, h := range _requestIDHeaders {
			if id := header.Get(h); id != "" {
				rec.RequestID = id
				break
			}
		}
	}
	return rec
}

// Decode tries each known shape in order; the first match wins. It never
// fails.
func (d Decoder) Decode(status int, raw []byte) (rec Record) {
	defer func() {
		if p := recover(); p != nil {
			d.logger().Debug("error body decoder panicked", "panic", p)
			rec = d.fallback(status, raw)
		}
	}()
	if !gjson.ValidBytes(raw) {
		return d.fallback(status, raw)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return d.fallback(status, raw)
	}
	for _, s := range _shapes {
		r, ok := s.match(root)
		if !ok {
			continue
		}
		r.Shape = s.shape
		if status != 0 {
			r.Status = status
		}
		if d.Service != "" {
			r.Service = d.Service
		}
		if r.Code == "" {
			r.Code = CodeUnknown
		}
		return r
	}
	return d.fallback(status, raw)
}

func (d Decoder) fallback(status int, raw []byte) Record {
	d.logger().Debug("unrecognized error body", "service", d.Service, "status", status, "bytes", len(raw))
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return Record{
		Code:    CodeUnknown,
		Message: msg,
		Service: d.Service,
		Status:  status,
		Raw:     string(raw),
		Shape:   ShapeUnknown,
	}
}

func (d Decoder) logger() logging.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.FromContext(context.Background())
}

// matchFlat: {"code": 400, "message": "...", "request_id": "..."}.
func matchFlat(root gjson.Result) (Record, bool) {
	msg := root.Get("message")
	if msg.Type != gjson.String {
		return Record{}, false
	}
	return Record{
		Code:      firstString(root, "code", "title", "type"),
		Message:   msg.String(),
		RequestID: root.Get("request_id").String(),
		Details:   firstString(root, "details", "detail"),
	}, true
}

// matchNested: the first top-level key whose value is an object with a
// message, or Ironic's error_message.
func matchNested(root gjson.Result) (rec Record, ok bool) {
	root.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if key == "error_message" {
			rec, ok = ironicFault(v)
			return !ok
		}
		if !v.IsObject() || v.Get("message").Type != gjson.String {
			return true
		}
		rec = Record{
			Message:   v.Get("message").String(),
			Service:   _serviceByKey[key],
			RequestID: firstString(v, "request_id"),
			Details:   firstString(v, "detail", "details", "traceback"),
		}
		rec.Code = firstString(v, "type")
		if rec.Code == "" && key != "error" {
			rec.Code = key
		}
		if rec.Code == "" {
			rec.Code = firstString(v, "title", "code")
		}
		if rec.RequestID == "" {
			rec.RequestID = root.Get("request_id").String()
		}
		ok = true
		return false
	})
	return rec, ok
}

// ironicFault reads {"faultstring", "faultcode", "debuginfo"}, either
// JSON-encoded in a string or as an object.
func ironicFault(v gjson.Result) (Record, bool) {
	fault := v
	if v.Type == gjson.String {
		if !gjson.Valid(v.Str) {
			if v.Str == "" {
				return Record{}, false
			}
			return Record{Message: v.Str}, true
		}
		fault = gjson.Parse(v.Str)
	}
	if !fault.IsObject() || fault.Get("faultstring").Type != gjson.String {
		return Record{}, false
	}
	return Record{
		Code:    fault.Get("faultcode").String(),
		Message: fault.Get("faultstring").String(),
		Details: fault.Get("debuginfo").String(),
	}, true
}

// matchList: {"errors": [{"status": 404, "code": "...", "title": "...", "detail": "..."}]}.
func matchList(root gjson.Result) (Record, bool) {
	errs := root.Get("errors")
	if !errs.IsArray() {
		return Record{}, false
	}
	var out []Record
	errs.ForEach(func(_, e gjson.Result) bool {
		if !e.IsObject() {
			return true
		}
		out = append(out, Record{
			Code:      firstString(e, "code", "title"),
			Message:   firstString(e, "detail", "title", "message"),
			RequestID: e.Get("request_id").String(),
			Status:    int(e.Get("status").Int()),
		})
		return true
	})
	if len(out) == 0 {
		return Record{}, false
	}
	rec := out[0]
	rec.Errors = out
	return rec, true
}

func firstString(v gjson.Result, keys ...string) string {
	for _, k := range keys {
		r := v.Get(k)
		if r.Exists() && r.Type != gjson.Null {
			if s := r.String(); s != "" {
				return s
			}
		}
	}
	return ""
}
