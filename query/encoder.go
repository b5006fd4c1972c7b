package query

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iancoleman/strcase"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/logging"
)

// Style selects how non-equality operators are rendered.
type Style int

const (
	// StyleSuffix renders key__op=value (Nova, Neutron, Ironic).
	StyleSuffix Style = iota
	// StylePrefix renders key=op:value (Glance).
	StylePrefix
)

// SortStyle selects how sort keys are rendered.
type SortStyle int

const (
	// StyleSortPairs renders sort_key=a&sort_dir=asc, repeated per key.
	StyleSortPairs SortStyle = iota
	// StyleSortCombined renders sort=a:asc,b:desc (Cinder, Glance v2).
	StyleSortCombined
)

var _prefixNames = map[Operator]string{OpNe: "neq"}

// Encoder renders Specs. The zero value uses a comma separator, StyleSuffix
// and StyleSortPairs.
type Encoder struct {
	Separator string
	Style     Style
	SortStyle SortStyle
	Logger    logging.Logger
}

// Param is one rendered query parameter.
type Param struct{ Key, Value string }

// Encode renders s for a service negotiated at mv. Parameters whose
// minimum microversion exceeds mv are omitted; a zero mv is the service's
// base version and therefore omits every gated parameter.
func (e Encoder) Encode(s Spec, mv osproto.Microversion) string {
	params := e.Params(s, mv)
	b := &strings.Builder{}
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Values is Encode as url.Values. url.Values.Encode sorts keys, so use
// Encode when declaration order matters.
func (e Encoder) Values(s Spec, mv osproto.Microversion) url.Values {
	out := url.Values{}
	for _, p := range e.Params(s, mv) {
		out.Add(p.Key, p.Value)
	}
	return out
}

// Params returns the rendered (key, value) pairs in output order.
func (e Encoder) Params(s Spec, mv osproto.Microversion) []Param {
	var out []Param
	for _, f := range s.Filters {
		if gated(f.Since, mv) {
			e.logger().Debug("omitting gated query parameter", "key", f.Key, "since", f.Since.String(), "microversion", mv.String())
			continue
		}
		out = append(out, e.filter(f))
	}
	out = append(out, e.sort(s.Sort, mv)...)
	if s.Limit > 0 {
		out = append(out, Param{"limit", strconv.Itoa(s.Limit)})
	}
	if s.Marker != "" {
		out = append(out, Param{"marker", s.Marker})
	}
	if s.Offset > 0 {
		out = append(out, Param{"offset", strconv.Itoa(s.Offset)})
	}
	return out
}

func gated(since, mv osproto.Microversion) bool {
	if since.IsZero() {
		return false
	}
	return mv.IsZero() || mv.Less(since)
}

func (e Encoder) filter(f Filter) Param {
	key := WireKey(f.Key)
	value := e.render(f.Value)
	op := f.Op
	if op == "" || op == OpEq {
		return Param{key, value}
	}
	if e.Style == StylePrefix {
		name, ok := _prefixNames[op]
		if !ok {
			name = string(op)
		}
		return Param{key, name + ":" + value}
	}
	if op == OpIn {
		return Param{key, value}
	}
	return Param{key + "__" + string(op), value}
}

func (e Encoder) sort(keys []SortKey, mv osproto.Microversion) []Param {
	var live []SortKey
	for _, k := range keys {
		if gated(k.Since, mv) {
			e.logger().Debug("omitting gated sort key", "key", k.Key, "since", k.Since.String())
			continue
		}
		live = append(live, k)
	}
	if len(live) == 0 {
		return nil
	}
	if e.SortStyle == StyleSortCombined {
		parts := make([]string, len(live))
		for i, k := range live {
			parts[i] = WireKey(k.Key)
			if k.Dir != "" {
				parts[i] += ":" + string(k.Dir)
			}
		}
		return []Param{{"sort", strings.Join(parts, e.separator())}}
	}
	var out []Param
	for _, k := range live {
		out = append(out, Param{"sort_key", WireKey(k.Key)})
		if k.Dir != "" {
			out = append(out, Param{"sort_dir", string(k.Dir)})
		}
	}
	return out
}

func (e Encoder) separator() string {
	if e.Separator == "" {
		return ","
	}
	return e.Separator
}

func (e Encoder) logger() logging.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.FromContext(context.Background())
}

// render turns a filter value into its wire text.
func (e Encoder) render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return codec.FormatTimestamp(t)
	case fmt.Stringer:
		return t.String()
	case []byte:
		return string(t)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = e.render(rv.Index(i).Interface())
		}
		return strings.Join(parts, e.separator())
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
		return e.render(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

// WireKey maps Go-style keys ("ChangesSince", "projectID") to snake_case.
// Keys that are already lower case are returned unchanged, so wire keys
// such as "changes-since" or "all_tenants" pass through.
func WireKey(key string) string {
	for _, r := range key {
		if unicode.IsUpper(r) {
			return strcase.ToSnake(key)
		}
	}
	return key
}

// Encode renders s with the zero Encoder.
func Encode(s Spec, mv osproto.Microversion) string { return Encoder{}.Encode(s, mv) }
