// Package common holds the records shared by every service: links and
// id/name references.
package common

import (
	"net/url"

	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/schema"
)

// Link is a link to a resource.
type Link struct {
	Href url.URL
	Rel  string
	// Type is the media type some links carry (Nova bookmark links to images).
	Type  string
	Extra map[string]any
}

var LinkSchema = schema.MustBind[Link]("link",
	schema.Field("href", "Href", codec.URL(), func(l *Link) *url.URL { return &l.Href }).Required(),
	schema.Field("rel", "Rel", codec.String(), func(l *Link) *string { return &l.Rel }).Required(),
	schema.Field("type", "Type", codec.String(), func(l *Link) *string { return &l.Type }),
	schema.Extras(func(l *Link) *map[string]any { return &l.Extra }),
)

// Links decodes a list of links.
var Links = codec.List(schema.Nested(LinkSchema))

// FindLink returns the href of the first link with rel.
func FindLink(links []Link, rel string) (url.URL, bool) {
	for _, l := range links {
		if l.Rel == rel {
			return l.Href, true
		}
	}
	return url.URL{}, false
}

// IdAndName is a reference to an ID and name.
type IdAndName struct {
	ID    string
	Name  string
	Extra map[string]any
}

var IdAndNameSchema = schema.MustBind[IdAndName]("id_and_name",
	schema.Field("id", "ID", codec.String(), func(r *IdAndName) *string { return &r.ID }).Required(),
	schema.Field("name", "Name", codec.String(), func(r *IdAndName) *string { return &r.Name }).Required(),
	schema.Extras(func(r *IdAndName) *map[string]any { return &r.Extra }),
)

// Ref is a reference by ID with links, the way Nova embeds images and
// pre-2.47 flavors.
type Ref struct {
	ID    string
	Links []Link
	Extra map[string]any
}

var RefSchema = schema.MustBind[Ref]("ref",
	schema.Field("id", "ID", codec.String(), func(r *Ref) *string { return &r.ID }).Required(),
	schema.Field("links", "Links", Links, func(r *Ref) *[]Link { return &r.Links }),
	schema.Extras(func(r *Ref) *map[string]any { return &r.Extra }),
)

// Schemas lists the schemas of this package for registry assembly.
func Schemas() []schema.Entry {
	return []schema.Entry{LinkSchema, IdAndNameSchema, RefSchema}
}
