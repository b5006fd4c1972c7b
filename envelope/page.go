package envelope

import (
	"fmt"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/query"
)

// PageState tells whether a collection continues.
type PageState int

const (
	NoMorePages PageState = iota
	HasMore
)

func (s PageState) String() string {
	if s == HasMore {
		return "has_more"
	}
	return "no_more_pages"
}

// LinkStyle is a pagination link convention.
type LinkStyle int

const (
	// LinkDefault defers to the adapter's configured style (LinkArray
	// unless WithLinkStyle says otherwise).
	LinkDefault LinkStyle = iota
	LinkArray
	LinkObject
	LinkNext
)

// Link is one pagination link. An empty Href is a link the service sent
// as null.
type Link struct {
	Rel  string
	Href string
}

// TotalSource names the key a total-count hint came from.
type TotalSource int

const (
	TotalCount    TotalSource = iota // top-level "count" (Cinder with_count)
	TotalMetadata                    // "metadata.total_count", left in Extra
)

// Page is the pagination metadata of a collection.
type Page struct {
	State PageState
	// Token is the marker of the next page, or the whole next link when it
	// carries no marker parameter.
	Token string
	Links []Link
	// Total is the total-count hint, when the service sent one.
	Total osproto.Opt[int]
	// TotalFrom records where Total was read. Wrap emits a top-level count
	// only for TotalCount.
	TotalFrom TotalSource
	// Style records which convention the links were read from.
	Style LinkStyle
}

// More returns a page continuing at token.
func More(token string) Page { return Page{State: HasMore, Token: token} }

func (p Page) HasMore() bool { return p.State == HasMore }

// Link returns the href of the link with rel, or "".
func (p Page) Link(rel string) string { return linkHref(p.Links, rel) }

// Next returns q continued on the next page. It reports false on the last
// page.
func (p Page) Next(q query.Spec) (query.Spec, bool) {
	if !p.HasMore() {
		return q, false
	}
	return q.WithMarker(p.Token), true
}

func (p Page) String() string {
	if p.HasMore() {
		return fmt.Sprintf("HasMore(%s)", p.Token)
	}
	return "NoMorePages"
}

func linkHref(links []Link, rel string) string {
	for _, l := range links {
		if l.Rel == rel {
			return l.Href
		}
	}
	return ""
}
