package envelope

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/tidwall/gjson"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/internal/jsonx"
	"github.com/reoring/osproto/logging"
	"github.com/reoring/osproto/schema"
)

// Shape identifies the wrapper convention of a body.
type Shape int

const (
	// Single is {"<name>": {...}}.
	Single Shape = iota
	// Collection is {"<plural>": [...]} without pagination metadata.
	Collection
	// Paged is a collection whose pagination links are interpreted.
	Paged
)

func (s Shape) String() string {
	switch s {
	case Single:
		return "single"
	case Collection:
		return "collection"
	case Paged:
		return "paged"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Envelope is an unwrapped body.
type Envelope[R any] struct {
	Shape Shape
	// Key is the wrapper key that held the payload.
	Key string
	// Item is set for Single, Items for Collection and Paged.
	Item  R
	Items []R
	Page  Page
	// Extra holds top-level keys other than the payload and the pagination
	// keys interpreted into Page.
	Extra map[string]any
}

// Adapter unwraps and wraps bodies for one resource schema.
type Adapter[R any] struct {
	schema *schema.Schema[R]
	key    string
	plural string
	style  LinkStyle
}

// Option configures an Adapter.
type Option func(*config)

type config struct {
	key    string
	plural string
	style  LinkStyle
}

// WithKey overrides the single-resource wrapper key (default: schema name).
func WithKey(key string) Option { return func(c *config) { c.key = key } }

// WithCollectionKey overrides the collection wrapper key (default: plural of
// the single key).
func WithCollectionKey(key string) Option { return func(c *config) { c.plural = key } }

// WithLinkStyle sets the pagination convention Wrap emits for pages built
// by hand.
func WithLinkStyle(style LinkStyle) Option { return func(c *config) { c.style = style } }

// New returns the envelope adapter for s.
func New[R any](s *schema.Schema[R], opts ...Option) *Adapter[R] {
	c := config{key: s.Name()}
	for _, o := range opts {
		o(&c)
	}
	if c.plural == "" {
		c.plural = inflection.Plural(c.key)
	}
	return &Adapter[R]{schema: s, key: c.key, plural: c.plural, style: c.style}
}

func (a *Adapter[R]) Key() string           { return a.key }
func (a *Adapter[R]) CollectionKey() string { return a.plural }

// Unwrap decodes raw as the expected shape. A missing wrapper key fails
// with unexpected_envelope; payload issues are rebased under the key.
func (a *Adapter[R]) Unwrap(ctx context.Context, raw []byte, shape Shape) (Envelope[R], error) {
	var env Envelope[R]
	wire, err := jsonx.Decode(raw)
	if err != nil {
		return env, osproto.ParseFailure(err)
	}
	top, ok := jsonx.AsMap(wire)
	if !ok {
		return env, unexpected(a.keyFor(shape), wire)
	}
	env.Shape = shape
	env.Key = a.keyFor(shape)
	payload, ok := top[env.Key]
	if !ok {
		return env, unexpected(env.Key, wire)
	}
	at := osproto.Root().Key(env.Key).String()
	sub := osproto.ScopeIssues(ctx, at)
	switch shape {
	case Single:
		env.Item, err = a.schema.Decode(sub, payload)
	case Collection, Paged:
		env.Items, err = codec.List[R](a.schema).Decode(sub, payload)
	default:
		return env, fmt.Errorf("envelope: unknown shape %v", shape)
	}
	if err != nil {
		return Envelope[R]{}, osproto.ToIssues(at, err)
	}

	consumed := map[string]bool{env.Key: true}
	if shape == Paged {
		env.Page = a.probePage(raw, consumed)
		if !env.Page.HasMore() {
			logging.FromContext(ctx).Debug("pagination terminated", "collection", a.plural)
		}
	}
	for k, v := range top {
		if consumed[k] {
			continue
		}
		if env.Extra == nil {
			env.Extra = make(map[string]any)
		}
		env.Extra[k] = v
	}
	return env, nil
}

func (a *Adapter[R]) keyFor(shape Shape) string {
	if shape == Single {
		return a.key
	}
	return a.plural
}

func unexpected(key string, wire any) osproto.Issues {
	var got []string
	if m, ok := jsonx.AsMap(wire); ok {
		for k := range m {
			got = append(got, k)
		}
		sort.Strings(got)
	}
	params := map[string]any{"expected": key, "got": strings.Join(got, ",")}
	if len(got) == 0 {
		params["got"] = osproto.WireType(wire)
	}
	return osproto.Issues{osproto.IssueAt(osproto.Root(), osproto.CodeUnexpectedEnvelope, params)}
}

// probePage reads the pagination conventions off the raw body.
func (a *Adapter[R]) probePage(raw []byte, consumed map[string]bool) Page {
	p := Page{State: NoMorePages}
	linksKey := a.plural + "_links"
	switch res := gjson.GetBytes(raw, escape(linksKey)); {
	case res.IsArray():
		p.Style = LinkArray
		consumed[linksKey] = true
		res.ForEach(func(_, l gjson.Result) bool {
			p.Links = append(p.Links, Link{Rel: l.Get("rel").String(), Href: l.Get("href").String()})
			return true
		})
	case gjson.GetBytes(raw, "links").IsObject():
		p.Style = LinkObject
		consumed["links"] = true
		gjson.GetBytes(raw, "links").ForEach(func(k, v gjson.Result) bool {
			p.Links = append(p.Links, Link{Rel: k.String(), Href: v.String()})
			return true
		})
	case gjson.GetBytes(raw, "next").Type == gjson.String:
		p.Style = LinkNext
		consumed["next"] = true
		p.Links = []Link{{Rel: "next", Href: gjson.GetBytes(raw, "next").String()}}
	}

	if next := p.Link("next"); next != "" {
		p.State = HasMore
		p.Token = tokenOf(next)
	}
	if c := gjson.GetBytes(raw, "count"); c.Type == gjson.Number {
		p.Total = osproto.Some(int(c.Int()))
		consumed["count"] = true
	} else if c := gjson.GetBytes(raw, "metadata.total_count"); c.Type == gjson.Number {
		p.Total = osproto.Some(int(c.Int()))
		p.TotalFrom = TotalMetadata
	}
	return p
}

// tokenOf extracts the marker query parameter, falling back to the link.
func tokenOf(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if m := u.Query().Get("marker"); m != "" {
		return m
	}
	return href
}

// escape quotes gjson path metacharacters in a literal key.
func escape(key string) string {
	b := &strings.Builder{}
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Wrap renders env. Collections always emit an array (possibly empty);
// Paged envelopes emit their links in Page.Style, or the adapter's style
// when the page was built by hand.
func (a *Adapter[R]) Wrap(ctx context.Context, env Envelope[R]) ([]byte, error) {
	obj := jsonx.NewObject(2 + len(env.Extra))
	key := env.Key
	if key == "" {
		key = a.keyFor(env.Shape)
	}
	switch env.Shape {
	case Single:
		obj.Set(key, a.schema.Encode(ctx, env.Item))
	case Collection, Paged:
		items := make([]any, len(env.Items))
		for i, it := range env.Items {
			items[i] = a.schema.Encode(ctx, it)
		}
		obj.Set(key, items)
	default:
		return nil, fmt.Errorf("envelope: unknown shape %v", env.Shape)
	}
	if env.Shape == Paged {
		a.wrapPage(obj, env.Page)
	}
	keys := make([]string, 0, len(env.Extra))
	for k := range env.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, taken := obj.Get(k); !taken {
			obj.Set(k, env.Extra[k])
		}
	}
	return jsonx.Marshal(obj)
}

func (a *Adapter[R]) wrapPage(obj *jsonx.Object, p Page) {
	links := p.Links
	if p.HasMore() && p.Link("next") == "" {
		links = append(append([]Link(nil), links...), Link{Rel: "next", Href: p.Token})
	}
	style := p.Style
	if style == LinkDefault {
		style = a.style
	}
	switch style {
	case LinkObject:
		m := jsonx.NewObject(len(links))
		for _, l := range links {
			if l.Href == "" {
				m.Set(l.Rel, nil)
			} else {
				m.Set(l.Rel, l.Href)
			}
		}
		obj.Set("links", m)
	case LinkNext:
		if next := linkHref(links, "next"); next != "" {
			obj.Set("next", next)
		}
	default:
		if len(links) > 0 {
			out := make([]any, len(links))
			for i, l := range links {
				o := jsonx.NewObject(2)
				o.Set("href", l.Href)
				o.Set("rel", l.Rel)
				out[i] = o
			}
			obj.Set(a.plural+"_links", out)
		}
	}
	if total, ok := p.Total.Get(); ok && p.TotalFrom == TotalCount {
		obj.Set("count", total)
	}
}
