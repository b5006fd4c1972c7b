package identity

import (
	_ "embed"
	"time"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/resources/common"
	"github.com/reoring/osproto/schema"
)

//go:embed aliases.yaml
var _aliases []byte

// Interface is the visibility of a catalog endpoint.
type Interface string

const (
	InterfacePublic   Interface = "public"
	InterfaceInternal Interface = "internal"
	InterfaceAdmin    Interface = "admin"
)

// Interfaces accepts the v2 spellings (publicURL, ...) as aliases.
var Interfaces = codec.MustLoadAliases[Interface](_aliases, "interface")

// Endpoint is a single service endpoint of the catalog.
type Endpoint struct {
	ID        string
	Interface codec.Enum[Interface]
	Region    string
	RegionID  string
	URL       string
	Extra     map[string]any
}

var EndpointSchema = schema.MustBind[Endpoint]("endpoint",
	schema.Field("id", "ID", codec.String(), func(e *Endpoint) *string { return &e.ID }),
	schema.Field("interface", "Interface", codec.Lenient(Interfaces), func(e *Endpoint) *codec.Enum[Interface] { return &e.Interface }).Required(),
	schema.Field("region", "Region", codec.String(), func(e *Endpoint) *string { return &e.Region }),
	schema.Field("region_id", "RegionID", codec.String(), func(e *Endpoint) *string { return &e.RegionID }),
	schema.Field("url", "URL", codec.String(), func(e *Endpoint) *string { return &e.URL }).Required(),
	schema.Extras(func(e *Endpoint) *map[string]any { return &e.Extra }),
)

// CatalogRecord is one service of the catalog.
type CatalogRecord struct {
	ServiceType string
	ID          string
	Name        string
	Endpoints   []Endpoint
	Extra       map[string]any
}

var CatalogRecordSchema = schema.MustBind[CatalogRecord]("catalog_record",
	schema.Field("type", "ServiceType", codec.String(), func(c *CatalogRecord) *string { return &c.ServiceType }).Required(),
	schema.Field("id", "ID", codec.String(), func(c *CatalogRecord) *string { return &c.ID }),
	schema.Field("name", "Name", codec.String(), func(c *CatalogRecord) *string { return &c.Name }),
	schema.Field("endpoints", "Endpoints", codec.List(schema.Nested(EndpointSchema)),
		func(c *CatalogRecord) *[]Endpoint { return &c.Endpoints }).Required(),
	schema.Extras(func(c *CatalogRecord) *map[string]any { return &c.Extra }),
)

// Find returns the first endpoint of the given interface. An empty region
// matches any region.
func (c CatalogRecord) Find(iface Interface, region string) (Endpoint, bool) {
	for _, ep := range c.Endpoints {
		if !ep.Interface.Is(iface) {
			continue
		}
		if region == "" || ep.Region == region || ep.RegionID == region {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// CatalogRoot is the body of GET /v3/auth/catalog.
type CatalogRoot struct {
	Catalog []CatalogRecord
	Extra   map[string]any
}

var CatalogRootSchema = schema.MustBind[CatalogRoot]("catalog_root",
	schema.Field("catalog", "Catalog", codec.List(schema.Nested(CatalogRecordSchema)),
		func(c *CatalogRoot) *[]CatalogRecord { return &c.Catalog }).Required(),
	schema.Extras(func(c *CatalogRoot) *map[string]any { return &c.Extra }),
)

// Token is a Keystone v3 token as returned by POST /v3/auth/tokens.
type Token struct {
	Methods   []string
	Roles     []common.IdAndName
	ExpiresAt time.Time
	IssuedAt  osproto.Opt[time.Time]
	Catalog   []CatalogRecord
	User      osproto.Opt[common.IdAndName]
	Project   osproto.Opt[common.IdAndName]
	Domain    osproto.Opt[common.IdAndName]
	AuditIDs  []string
	Extra     map[string]any
}

var TokenSchema = schema.MustBind[Token]("token",
	schema.Field("methods", "Methods", codec.List(codec.String()), func(t *Token) *[]string { return &t.Methods }),
	schema.Field("roles", "Roles", codec.List(schema.Nested(common.IdAndNameSchema)), func(t *Token) *[]common.IdAndName { return &t.Roles }),
	schema.Field("expires_at", "ExpiresAt", codec.Timestamp(), func(t *Token) *time.Time { return &t.ExpiresAt }).Required(),
	schema.OptField("issued_at", "IssuedAt", codec.Timestamp(), func(t *Token) *osproto.Opt[time.Time] { return &t.IssuedAt }),
	schema.Field("catalog", "Catalog", codec.List(schema.Nested(CatalogRecordSchema)), func(t *Token) *[]CatalogRecord { return &t.Catalog }),
	schema.OptField("user", "User", schema.Nested(common.IdAndNameSchema), func(t *Token) *osproto.Opt[common.IdAndName] { return &t.User }),
	schema.OptField("project", "Project", schema.Nested(common.IdAndNameSchema), func(t *Token) *osproto.Opt[common.IdAndName] { return &t.Project }),
	schema.OptField("domain", "Domain", schema.Nested(common.IdAndNameSchema), func(t *Token) *osproto.Opt[common.IdAndName] { return &t.Domain }),
	schema.Field("audit_ids", "AuditIDs", codec.List(codec.String()), func(t *Token) *[]string { return &t.AuditIDs }),
	schema.Extras(func(t *Token) *map[string]any { return &t.Extra }),
)

// Endpoint looks up the catalog entry for serviceType and returns its
// endpoint of the given interface.
func (t Token) Endpoint(serviceType string, iface Interface, region string) (Endpoint, bool) {
	for _, rec := range t.Catalog {
		if rec.ServiceType == serviceType {
			return rec.Find(iface, region)
		}
	}
	return Endpoint{}, false
}

// TokenRoot is the body returned with a new token.
type TokenRoot struct {
	Token Token
	Extra map[string]any
}

var TokenRootSchema = schema.MustBind[TokenRoot]("token_root",
	schema.Field("token", "Token", schema.Nested(TokenSchema), func(t *TokenRoot) *Token { return &t.Token }).Required(),
	schema.Extras(func(t *TokenRoot) *map[string]any { return &t.Extra }),
)

// Schemas lists the identity schemas for registry assembly.
func Schemas() []schema.Entry {
	return []schema.Entry{
		IdOrNameSchema, UserAndPasswordSchema, PasswordAuthSchema, IdentitySchema,
		ProjectSchema, ScopeSchema, AuthSchema, AuthRootSchema,
		EndpointSchema, CatalogRecordSchema, CatalogRootSchema, TokenSchema, TokenRootSchema,
	}
}
