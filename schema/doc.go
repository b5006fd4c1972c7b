// Package schema declares Resource Schemas: explicit, data-only Field
// Descriptor tables bound to a Go record type.
//
// A schema is built once at startup and is read-only afterwards:
//
//	var Server = schema.MustBind[Server]("server",
//		schema.Field("id", "ID", codec.String(), func(s *Server) *string { return &s.ID }).Required(),
//		schema.OptField("metadata", "Metadata", codec.Map(codec.String()),
//			func(s *Server) *osproto.Opt[map[string]string] { return &s.Metadata }),
//		schema.Extras(func(s *Server) *map[string]any { return &s.Extra }),
//	)
//
// Decoding looks up every declared wire key, fails with missing_field for
// absent required fields, applies defaults or Unset for absent optional ones
// and keeps undeclared keys in the record's extras. Encoding mirrors it:
// Unset fields are omitted, Null fields are emitted as null and extras are
// re-emitted after the declared fields.
package schema
