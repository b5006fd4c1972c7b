package codec

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/reoring/osproto"
	js "github.com/reoring/osproto/jsonschema"
	"github.com/reoring/osproto/logging"
)

// Enum is a decoded lenient enum: either one canonical variant or
// Unknown(raw) for spellings outside the alias table. Enum values are
// comparable with ==.
type Enum[V ~string] struct {
	variant V
	raw     string
	unknown bool
}

// Variant returns the known variant v.
func Variant[V ~string](v V) Enum[V] { return Enum[V]{variant: v} }

// Unknown returns the catch-all variant carrying the raw wire spelling.
func Unknown[V ~string](raw string) Enum[V] { return Enum[V]{raw: raw, unknown: true} }

// Get returns the canonical variant and true, or the zero variant and false
// for Unknown.
func (e Enum[V]) Get() (V, bool) {
	if e.unknown {
		var zero V
		return zero, false
	}
	return e.variant, true
}

// Is reports whether e is the known variant v.
func (e Enum[V]) Is(v V) bool { return !e.unknown && e.variant == v }

func (e Enum[V]) IsUnknown() bool      { return e.unknown }
func (e Enum[V]) UnknownValue() string { return e.raw }
func (e Enum[V]) IsZero() bool         { return !e.unknown && e.variant == "" }

// String returns the canonical spelling, or the raw spelling for Unknown.
func (e Enum[V]) String() string {
	if e.unknown {
		return e.raw
	}
	return string(e.variant)
}

// GoString makes %#v output readable in test failures.
func (e Enum[V]) GoString() string {
	if e.unknown {
		return fmt.Sprintf("Unknown(%q)", e.raw)
	}
	return fmt.Sprintf("Variant(%q)", string(e.variant))
}

// Aliases is the fixed alias-to-variant table of one enum. Each variant's
// canonical spelling is its own string value; aliases are extra spellings
// accepted on decode. Matching is exact first, then case-insensitive.
type Aliases[V ~string] struct {
	name     string
	variants []V
	exact    map[string]V
	folded   map[string]V
}

// NewAliases builds a table. An alias claimed by two variants is an error.
func NewAliases[V ~string](name string, table map[V][]string) (*Aliases[V], error) {
	a := &Aliases[V]{
		name:   name,
		exact:  make(map[string]V),
		folded: make(map[string]V),
	}
	for v := range table {
		a.variants = append(a.variants, v)
	}
	sort.Slice(a.variants, func(i, j int) bool { return a.variants[i] < a.variants[j] })
	for _, v := range a.variants {
		spellings := append([]string{string(v)}, table[v]...)
		for _, s := range spellings {
			if prev, ok := a.exact[s]; ok && prev != v {
				return nil, fmt.Errorf("codec: enum %s: spelling %q maps to both %q and %q", name, s, prev, v)
			}
			a.exact[s] = v
			f := fold(s)
			if prev, ok := a.folded[f]; ok && prev != v {
				return nil, fmt.Errorf("codec: enum %s: spelling %q folds onto both %q and %q", name, s, prev, v)
			}
			a.folded[f] = v
		}
	}
	return a, nil
}

// MustAliases is NewAliases that panics. Intended for package-level tables.
func MustAliases[V ~string](name string, table map[V][]string) *Aliases[V] {
	a, err := NewAliases(name, table)
	if err != nil {
		panic(err)
	}
	return a
}

// LoadAliases reads the table called name from a YAML document of the form
//
//	server_status:
//	  ACTIVE: []
//	  SHUTOFF: [SHUTDOWN, STOPPED]
func LoadAliases[V ~string](data []byte, name string) (*Aliases[V], error) {
	var doc map[string]map[string][]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: alias tables: %w", err)
	}
	raw, ok := doc[name]
	if !ok {
		return nil, fmt.Errorf("codec: alias table %q not found", name)
	}
	table := make(map[V][]string, len(raw))
	for k, v := range raw {
		table[V(k)] = v
	}
	return NewAliases(name, table)
}

// MustLoadAliases is LoadAliases that panics.
func MustLoadAliases[V ~string](data []byte, name string) *Aliases[V] {
	a, err := LoadAliases[V](data, name)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the table name.
func (a *Aliases[V]) Name() string { return a.name }

// Variants returns the canonical variants in sorted order.
func (a *Aliases[V]) Variants() []V { return append([]V(nil), a.variants...) }

// Resolve maps a wire spelling to its enum value. It never fails.
func (a *Aliases[V]) Resolve(s string) Enum[V] {
	if v, ok := a.exact[s]; ok {
		return Variant(v)
	}
	if v, ok := a.folded[fold(s)]; ok {
		return Variant(v)
	}
	return Unknown[V](s)
}

func fold(s string) string {
	// cases.Caser is stateful; build one per call.
	return cases.Fold().String(s)
}

// Lenient returns the adapter for an enum governed by table. Unknown
// spellings decode to Unknown(raw) instead of failing; the schema layer
// reports them as unknown_alias warnings.
func Lenient[V ~string](table *Aliases[V]) osproto.Adapter[Enum[V]] {
	return enumAdapter[V]{table: table}
}

type enumAdapter[V ~string] struct {
	table *Aliases[V]
}

func (a enumAdapter[V]) Decode(ctx context.Context, wire any) (Enum[V], error) {
	s, ok := wire.(string)
	if !ok {
		return Enum[V]{}, osproto.Mismatch("string", wire)
	}
	e := a.table.Resolve(s)
	if e.IsUnknown() {
		params := map[string]any{"enum": a.table.name, "got": s}
		osproto.ReportIssue(ctx, osproto.IssueAt(osproto.Root(), osproto.CodeUnknownAlias, params))
		logging.FromContext(ctx).Debug("unknown enum value", "enum", a.table.name, "value", s)
	}
	return e, nil
}

func (a enumAdapter[V]) Encode(_ context.Context, v Enum[V]) any { return v.String() }

func (a enumAdapter[V]) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "string", Description: "enum " + a.table.name + " (unknown values tolerated)"}
	for _, v := range a.table.variants {
		s.Enum = append(s.Enum, string(v))
	}
	return s
}
