package codec

import (
	"context"
	"errors"
	"net/url"

	"github.com/reoring/osproto"
	js "github.com/reoring/osproto/jsonschema"
)

// URL decodes absolute URLs such as link hrefs and catalog endpoints.
func URL() osproto.Adapter[url.URL] { return urlAdapter{} }

type urlAdapter struct{}

var errRelativeURL = errors.New("relative URL")

func (urlAdapter) Decode(_ context.Context, wire any) (url.URL, error) {
	s, ok := wire.(string)
	if !ok {
		return url.URL{}, osproto.Mismatch("URL string", wire)
	}
	u, err := url.Parse(s)
	if err != nil {
		return url.URL{}, osproto.Malformed("absolute URL", s, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return url.URL{}, osproto.Malformed("absolute URL", s, errRelativeURL)
	}
	return *u, nil
}

func (urlAdapter) Encode(_ context.Context, v url.URL) any { return v.String() }

func (urlAdapter) JSONSchema() *js.Schema { return &js.Schema{Type: "string", Format: "uri"} }
