// Package identity declares the Identity v3 (Keystone) request and token
// schemas.
package identity

import (
	"context"
	"slices"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/schema"
)

// IdOrName references a resource by its ID or by its name.
type IdOrName struct {
	ID    string
	Name  string
	Extra map[string]any
}

func ByID(id string) IdOrName { return IdOrName{ID: id} }
func ByName(name string) IdOrName { return IdOrName{Name: name} }

func requireIdOrName(path string, ref IdOrName) []osproto.Issue {
	if ref.ID != "" || ref.Name != "" {
		return nil
	}
	return []osproto.Issue{osproto.IssueAt(osproto.Root().Field(path).Field("id"), osproto.CodeMissingField,
		map[string]any{"field": "id or name"})}
}

var IdOrNameSchema = schema.MustBind[IdOrName]("id_or_name",
	schema.Field("id", "ID", codec.String(), func(r *IdOrName) *string { return &r.ID }),
	schema.Field("name", "Name", codec.String(), func(r *IdOrName) *string { return &r.Name }),
	schema.Extras(func(r *IdOrName) *map[string]any { return &r.Extra }),
	schema.Refine("id_or_name", func(_ context.Context, r IdOrName) []osproto.Issue { return requireIdOrName("", r) }),
)

// UserAndPassword identifies a user for password authentication. The user
// reference is flattened into the object: {"id": ..., "password": ...}.
type UserAndPassword struct {
	User     IdOrName
	Password string
	Domain   osproto.Opt[IdOrName]
	Extra    map[string]any
}

var UserAndPasswordSchema = schema.MustBind[UserAndPassword]("user_and_password",
	schema.Field("id", "User.ID", codec.String(), func(u *UserAndPassword) *string { return &u.User.ID }),
	schema.Field("name", "User.Name", codec.String(), func(u *UserAndPassword) *string { return &u.User.Name }),
	schema.Field("password", "Password", codec.String(), func(u *UserAndPassword) *string { return &u.Password }).Required(),
	schema.OptField("domain", "Domain", schema.Nested(IdOrNameSchema),
		func(u *UserAndPassword) *osproto.Opt[IdOrName] { return &u.Domain }),
	schema.Extras(func(u *UserAndPassword) *map[string]any { return &u.Extra }),
	schema.Refine("user", func(_ context.Context, u UserAndPassword) []osproto.Issue { return requireIdOrName("", u.User) }),
)

// PasswordAuth is the "password" section of an identity.
type PasswordAuth struct {
	User  UserAndPassword
	Extra map[string]any
}

var PasswordAuthSchema = schema.MustBind[PasswordAuth]("password_auth",
	schema.Field("user", "User", schema.Nested(UserAndPasswordSchema), func(p *PasswordAuth) *UserAndPassword { return &p.User }).Required(),
	schema.Extras(func(p *PasswordAuth) *map[string]any { return &p.Extra }),
)

// Authentication methods.
const (
	MethodPassword = "password"
	MethodToken    = "token"
)

// Identity is the authentication identity: a password or a token.
type Identity struct {
	Methods  []string
	Password osproto.Opt[PasswordAuth]
	Token    osproto.Opt[IdOrName]
	Extra    map[string]any
}

// PasswordIdentity authenticates with a user and a password.
func PasswordIdentity(user UserAndPassword) Identity {
	return Identity{Methods: []string{MethodPassword}, Password: osproto.Some(PasswordAuth{User: user})}
}

// TokenIdentity authenticates with an existing token.
func TokenIdentity(id string) Identity {
	return Identity{Methods: []string{MethodToken}, Token: osproto.Some(ByID(id))}
}

func checkMethods(_ context.Context, id Identity) []osproto.Issue {
	var iss []osproto.Issue
	if slices.Contains(id.Methods, MethodPassword) && !id.Password.IsPresent() {
		iss = append(iss, osproto.IssueAt(osproto.Root().Field(MethodPassword), osproto.CodeMissingField, map[string]any{"field": "Password"}))
	}
	if slices.Contains(id.Methods, MethodToken) && !id.Token.IsPresent() {
		iss = append(iss, osproto.IssueAt(osproto.Root().Field(MethodToken), osproto.CodeMissingField, map[string]any{"field": "Token"}))
	}
	return iss
}

var IdentitySchema = schema.MustBind[Identity]("identity",
	schema.Field("methods", "Methods", codec.List(codec.String()), func(i *Identity) *[]string { return &i.Methods }).Required(),
	schema.OptField("password", "Password", schema.Nested(PasswordAuthSchema), func(i *Identity) *osproto.Opt[PasswordAuth] { return &i.Password }),
	schema.OptField("token", "Token", schema.Nested(IdOrNameSchema), func(i *Identity) *osproto.Opt[IdOrName] { return &i.Token }),
	schema.Extras(func(i *Identity) *map[string]any { return &i.Extra }),
	schema.Refine("methods", checkMethods),
)

// Project is a project reference in a domain, flattened like UserAndPassword.
type Project struct {
	Project IdOrName
	Domain  osproto.Opt[IdOrName]
	Extra   map[string]any
}

var ProjectSchema = schema.MustBind[Project]("project_scope",
	schema.Field("id", "Project.ID", codec.String(), func(p *Project) *string { return &p.Project.ID }),
	schema.Field("name", "Project.Name", codec.String(), func(p *Project) *string { return &p.Project.Name }),
	schema.OptField("domain", "Domain", schema.Nested(IdOrNameSchema), func(p *Project) *osproto.Opt[IdOrName] { return &p.Domain }),
	schema.Extras(func(p *Project) *map[string]any { return &p.Extra }),
	schema.Refine("project", func(_ context.Context, p Project) []osproto.Issue { return requireIdOrName("", p.Project) }),
)

// Scope is a project or a domain scope. Exactly one is present.
type Scope struct {
	Project osproto.Opt[Project]
	Domain  osproto.Opt[IdOrName]
	Extra   map[string]any
}

func ProjectScope(p Project) Scope { return Scope{Project: osproto.Some(p)} }
func DomainScope(d IdOrName) Scope { return Scope{Domain: osproto.Some(d)} }
func (s Scope) IsProject() bool { return s.Project.IsPresent() }
func (s Scope) IsDomain() bool { return s.Domain.IsPresent() }

var ScopeSchema = schema.MustBind[Scope]("scope",
	schema.OptField("project", "Project", schema.Nested(ProjectSchema), func(s *Scope) *osproto.Opt[Project] { return &s.Project }),
	schema.OptField("domain", "Domain", schema.Nested(IdOrNameSchema), func(s *Scope) *osproto.Opt[IdOrName] { return &s.Domain }),
	schema.Extras(func(s *Scope) *map[string]any { return &s.Extra }),
	schema.Refine("one_scope", func(_ context.Context, s Scope) []osproto.Issue {
		if s.IsProject() != s.IsDomain() {
			return nil
		}
		return []osproto.Issue{osproto.IssueAt(osproto.Root(), osproto.CodeMalformedValue,
			map[string]any{"expected": "exactly one of project or domain"})}
	}),
)

// Auth is an authentication request.
type Auth struct {
	Identity Identity
	Scope    osproto.Opt[Scope]
	Extra    map[string]any
}

var AuthSchema = schema.MustBind[Auth]("auth",
	schema.Field("identity", "Identity", schema.Nested(IdentitySchema), func(a *Auth) *Identity { return &a.Identity }).Required(),
	schema.OptField("scope", "Scope", schema.Nested(ScopeSchema), func(a *Auth) *osproto.Opt[Scope] { return &a.Scope }),
	schema.Extras(func(a *Auth) *map[string]any { return &a.Extra }),
)

// AuthRoot is the body of POST /v3/auth/tokens.
type AuthRoot struct {
	Auth  Auth
	Extra map[string]any
}

var AuthRootSchema = schema.MustBind[AuthRoot]("auth_root",
	schema.Field("auth", "Auth", schema.Nested(AuthSchema), func(a *AuthRoot) *Auth { return &a.Auth }).Required(),
	schema.Extras(func(a *AuthRoot) *map[string]any { return &a.Extra }),
)
