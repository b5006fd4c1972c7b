package schema_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/i18n"
	"github.com/reoring/osproto/internal/jsonx"
	"github.com/reoring/osproto/schema"
)

type status string

const (
	statusActive status = "ACTIVE"
	statusError  status = "ERROR"
)

var statuses = codec.MustAliases("status", map[status][]string{
	statusActive: nil,
	statusError:  {"FAILED"},
})

type addr struct {
	Addr    string
	Version int
}

var addrSchema = schema.MustBind[addr]("address",
	schema.Field("addr", "Addr", codec.String(), func(a *addr) *string { return &a.Addr }).Required(),
	schema.Field("version", "Version", codec.Int(), func(a *addr) *int { return &a.Version }).Default(4),
)

type server struct {
	ID        string
	Status    codec.Enum[status]
	Metadata  osproto.Opt[map[string]string]
	Image     osproto.Opt[string]
	ProjectID string
	Locked    bool
	Created   osproto.Opt[time.Time]
	Addresses []addr
	Tags      osproto.Opt[[]string]
	Extra     map[string]any
}

var serverSchema = schema.MustBind[server]("server",
	schema.Field("id", "ID", codec.String(), func(s *server) *string { return &s.ID }).Required(),
	schema.Field("status", "Status", codec.Lenient(statuses), func(s *server) *codec.Enum[status] { return &s.Status }),
	schema.OptField("metadata", "Metadata", codec.Map(codec.String()), func(s *server) *osproto.Opt[map[string]string] { return &s.Metadata }),
	schema.OptField("image", "Image", codec.String(), func(s *server) *osproto.Opt[string] { return &s.Image }).EmptyAsNull(),
	schema.Field("project_id", "ProjectID", codec.String(), func(s *server) *string { return &s.ProjectID }).Alias("tenant_id"),
	schema.Field("locked", "Locked", codec.Bool(), func(s *server) *bool { return &s.Locked }),
	schema.OptField("created", "Created", codec.Timestamp(), func(s *server) *osproto.Opt[time.Time] { return &s.Created }),
	schema.Field("addresses", "Addresses", codec.List(schema.Nested(addrSchema)), func(s *server) *[]addr { return &s.Addresses }),
	schema.OptField("tags", "Tags", codec.List(codec.String()), func(s *server) *osproto.Opt[[]string] { return &s.Tags }).Since(osproto.MV(2, 26)),
	schema.Extras(func(s *server) *map[string]any { return &s.Extra }),
)

func decode(t *testing.T, ctx context.Context, body string) (server, error) {
	t.Helper()
	return serverSchema.DecodeJSON(ctx, []byte(body))
}

func encode(t *testing.T, ctx context.Context, s server) string {
	t.Helper()
	b, err := serverSchema.EncodeJSON(ctx, s)
	require.NoError(t, err)
	return string(b)
}

func TestSchema_Decode(t *testing.T) {
	ctx := context.Background()

	t.Run("Should decode declared fields", func(t *testing.T) {
		got, err := decode(t, ctx, `{"id":"abc","status":"ACTIVE","metadata":{"a":"1"},"locked":"True",
			"created":"2012-08-20T21:11:09.000000","addresses":[{"addr":"10.0.0.1"}]}`)
		require.NoError(t, err)
		want := server{
			ID:        "abc",
			Status:    codec.Variant(statusActive),
			Metadata:  osproto.Some(map[string]string{"a": "1"}),
			Locked:    true,
			Created:   osproto.Some(time.Date(2012, 8, 20, 21, 11, 9, 0, time.UTC)),
			Addresses: []addr{{Addr: "10.0.0.1", Version: 4}},
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty(), cmp.AllowUnexported(codec.Enum[status]{})); diff != "" {
			t.Fatalf("decode mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Should keep absent and null distinct", func(t *testing.T) {
		absent, err := decode(t, ctx, `{"id":"a"}`)
		require.NoError(t, err)
		null, err := decode(t, ctx, `{"id":"a","metadata":null}`)
		require.NoError(t, err)
		assert.True(t, absent.Metadata.IsUnset())
		assert.True(t, null.Metadata.IsNull())
		assert.False(t, absent.Metadata.Equal(null.Metadata))

		assert.JSONEq(t, `{"id":"a"}`, encode(t, ctx, absent))
		assert.JSONEq(t, `{"id":"a","metadata":null}`, encode(t, ctx, null))
	})

	t.Run("Should report missing required fields with their path", func(t *testing.T) {
		_, err := decode(t, ctx, `{"addresses":[{"version":6}]}`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, osproto.ErrMissingField))
		iss, ok := osproto.AsIssues(err)
		require.True(t, ok)
		var paths []string
		for _, it := range iss {
			paths = append(paths, it.Path)
		}
		assert.ElementsMatch(t, []string{"id", "addresses[0].addr"}, paths)
	})

	t.Run("Should stop at the first issue when failing fast", func(t *testing.T) {
		ctx := osproto.DecodeOpt{FailFast: true}.Apply(ctx)
		_, err := decode(t, ctx, `{"locked":"maybe"}`)
		iss, ok := osproto.AsIssues(err)
		require.True(t, ok)
		assert.Len(t, iss, 1)
	})

	t.Run("Should tag adapter errors with the field path", func(t *testing.T) {
		_, err := decode(t, ctx, `{"id":"a","addresses":[{"addr":"x"},{"addr":7}]}`)
		iss, ok := osproto.AsIssues(err)
		require.True(t, ok)
		require.Len(t, iss, 1)
		assert.Equal(t, "addresses[1].addr", iss[0].Path)
		assert.Equal(t, osproto.CodeTypeMismatch, iss[0].Code)
	})

	t.Run("Should decode unknown enum values without failing", func(t *testing.T) {
		var warned []osproto.Issue
		ctx := osproto.DecodeOpt{OnIssue: func(it osproto.Issue) { warned = append(warned, it) }}.Apply(ctx)
		got, err := decode(t, ctx, `{"id":"a","status":"thatvalue"}`)
		require.NoError(t, err)
		assert.Equal(t, codec.Unknown[status]("thatvalue"), got.Status)
		require.Len(t, warned, 1)
		assert.Equal(t, "status", warned[0].Path)
		assert.JSONEq(t, `{"id":"a","status":"thatvalue"}`, encode(t, ctx, got))
	})

	t.Run("Should treat empty strings as null when configured", func(t *testing.T) {
		got, err := decode(t, ctx, `{"id":"a","image":""}`)
		require.NoError(t, err)
		assert.True(t, got.Image.IsNull())
	})

	t.Run("Should normalize a present blank to null on encode", func(t *testing.T) {
		out := encode(t, ctx, server{ID: "a", Image: osproto.Some(" ")})
		assert.JSONEq(t, `{"id":"a","image":null}`, out)
		got, err := decode(t, ctx, out)
		require.NoError(t, err)
		assert.True(t, got.Image.IsNull())
		assert.JSONEq(t, out, encode(t, ctx, got))
	})

	t.Run("Should accept aliases and emit the primary key", func(t *testing.T) {
		got, err := decode(t, ctx, `{"id":"a","tenant_id":"p1"}`)
		require.NoError(t, err)
		assert.Equal(t, "p1", got.ProjectID)
		assert.Empty(t, got.Extra)
		assert.JSONEq(t, `{"id":"a","project_id":"p1"}`, encode(t, ctx, got))
	})

	t.Run("Should reject non-objects", func(t *testing.T) {
		_, err := decode(t, ctx, `[1]`)
		assert.True(t, errors.Is(err, osproto.ErrTypeMismatch))
	})

	t.Run("Should report parse errors", func(t *testing.T) {
		_, err := decode(t, ctx, `{"id":`)
		assert.True(t, errors.Is(err, osproto.ErrParse))
	})
}

func TestSchema_ExtrasAndGating(t *testing.T) {
	ctx := context.Background()

	t.Run("Should preserve undeclared keys unchanged", func(t *testing.T) {
		in := `{"id":"a","OS-EXT-STS:vm_state":"active","progress":0,"nested":{"x":[1,2.50]}}`
		got, err := decode(t, ctx, in)
		require.NoError(t, err)
		assert.Len(t, got.Extra, 3)
		assert.Equal(t, jsonx.Number("0"), got.Extra["progress"])
		out := encode(t, ctx, got)
		assert.True(t, jsonpatch.Equal([]byte(in), []byte(out)), out)
	})

	t.Run("Should keep fields gated above the microversion as extras", func(t *testing.T) {
		old := osproto.DecodeOpt{Microversion: osproto.MV(2, 1)}.Apply(ctx)
		got, err := decode(t, old, `{"id":"a","tags":["x"]}`)
		require.NoError(t, err)
		assert.True(t, got.Tags.IsUnset())
		assert.Equal(t, []any{"x"}, got.Extra["tags"])

		recent := osproto.DecodeOpt{Microversion: osproto.MV(2, 26)}.Apply(ctx)
		got, err = decode(t, recent, `{"id":"a","tags":["x"]}`)
		require.NoError(t, err)
		tags, ok := got.Tags.Get()
		require.True(t, ok)
		assert.Equal(t, []string{"x"}, tags)
		assert.Empty(t, got.Extra)
	})

	t.Run("Should not emit gated fields below their microversion", func(t *testing.T) {
		old := osproto.DecodeOpt{Microversion: osproto.MV(2, 1)}.Apply(ctx)
		s := server{ID: "a", Tags: osproto.Some([]string{"x"})}
		assert.JSONEq(t, `{"id":"a"}`, encode(t, old, s))
		assert.JSONEq(t, `{"id":"a","tags":["x"]}`, encode(t, ctx, s))
	})
}

func TestSchema_VersionedKeys(t *testing.T) {
	type node struct {
		Host   string
		Legacy string
		Extra  map[string]any
	}
	s := schema.MustBind[node]("node",
		schema.Field("host", "Host", codec.String(), func(n *node) *string { return &n.Host }).
			AliasUntil(osproto.MV(2, 53), "hypervisor_hostname").
			AliasSince(osproto.MV(2, 60), "node_name"),
		schema.Field("legacy", "Legacy", codec.String(), func(n *node) *string { return &n.Legacy }).Until(osproto.MV(2, 53)),
		schema.Extras(func(n *node) *map[string]any { return &n.Extra }),
	)
	at := func(major, minor int) context.Context {
		return osproto.WithMicroversion(context.Background(), osproto.MV(major, minor))
	}

	t.Run("Should accept an alias below its upper bound only", func(t *testing.T) {
		got, err := s.DecodeJSON(at(2, 52), []byte(`{"hypervisor_hostname": "h1"}`))
		require.NoError(t, err)
		assert.Equal(t, "h1", got.Host)
		assert.Empty(t, got.Extra)

		got, err = s.DecodeJSON(at(2, 53), []byte(`{"hypervisor_hostname": "h1"}`))
		require.NoError(t, err)
		assert.Empty(t, got.Host)
		assert.Equal(t, "h1", got.Extra["hypervisor_hostname"])
	})

	t.Run("Should accept an alias from its lower bound on", func(t *testing.T) {
		got, err := s.DecodeJSON(at(2, 59), []byte(`{"node_name": "n1"}`))
		require.NoError(t, err)
		assert.Empty(t, got.Host)
		assert.Contains(t, got.Extra, "node_name")

		got, err = s.DecodeJSON(at(2, 60), []byte(`{"node_name": "n1"}`))
		require.NoError(t, err)
		assert.Equal(t, "n1", got.Host)
	})

	t.Run("Should drop a field from its upper bound on", func(t *testing.T) {
		got, err := s.DecodeJSON(at(2, 52), []byte(`{"legacy": "x"}`))
		require.NoError(t, err)
		assert.Equal(t, "x", got.Legacy)

		got, err = s.DecodeJSON(at(2, 53), []byte(`{"legacy": "x"}`))
		require.NoError(t, err)
		assert.Empty(t, got.Legacy)
		assert.Equal(t, "x", got.Extra["legacy"])

		out, err := s.EncodeJSON(at(2, 53), node{Host: "h", Legacy: "x"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"host": "h"}`, string(out))
	})
}

func TestSchema_RoundTrip(t *testing.T) {
	ctx := context.Background()
	records := []server{
		{ID: "a"},
		{ID: "b", Metadata: osproto.Cleared[map[string]string](), Image: osproto.Cleared[string]()},
		{
			ID:        "c",
			Status:    codec.Variant(statusError),
			Metadata:  osproto.Some(map[string]string{"k": "v"}),
			Image:     osproto.Some("img"),
			ProjectID: "p",
			Locked:    true,
			Created:   osproto.Some(time.Date(2024, 2, 29, 12, 0, 0, 5000, time.UTC)),
			Addresses: []addr{{Addr: "::1", Version: 6}, {Addr: "10.0.0.1", Version: 4}},
			Tags:      osproto.Some([]string{}),
			Extra:     map[string]any{"OS-DCF:diskConfig": "MANUAL"},
		},
	}
	for _, r := range records {
		first := encode(t, ctx, r)
		got, err := decode(t, ctx, first)
		require.NoError(t, err, first)
		if diff := cmp.Diff(r, got, cmpopts.EquateEmpty(), cmp.AllowUnexported(codec.Enum[status]{})); diff != "" {
			t.Fatalf("round trip mismatch for %s (-want +got):\n%s", first, diff)
		}
		second := encode(t, ctx, got)
		assert.True(t, jsonpatch.Equal([]byte(first), []byte(second)), "%s != %s", first, second)
	}
}

func TestBind_InvalidDescriptors(t *testing.T) {
	type rec struct{ A, B string }
	a := func(r *rec) *string { return &r.A }
	b := func(r *rec) *string { return &r.B }

	cases := map[string][]schema.Member[rec]{
		"duplicate wire name": {
			schema.Field("x", "A", codec.String(), a),
			schema.Field("x", "B", codec.String(), b),
		},
		"duplicate typed name": {
			schema.Field("a", "A", codec.String(), a),
			schema.Field("b", "A", codec.String(), b),
		},
		"empty wire name": {
			schema.Field("", "A", codec.String(), a),
		},
		"required with default": {
			schema.Field("a", "A", codec.String(), a).Required().Default("x"),
		},
		"bounds out of order": {
			schema.Field("a", "A", codec.String(), a).Since(osproto.MV(2, 50)).Until(osproto.MV(2, 40)),
		},
		"alias shadowing a wire key": {
			schema.Field("a", "A", codec.String(), a).Alias("b"),
			schema.Field("b", "B", codec.String(), b),
		},
	}
	for name, members := range cases {
		t.Run("Should reject "+name, func(t *testing.T) {
			_, err := schema.Bind[rec]("rec", members...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, osproto.ErrInvalidDescriptor), err.Error())
		})
	}
}

func TestSchema_Refine(t *testing.T) {
	type ref struct{ ID, Name string }
	calls := 0
	s := schema.MustBind[ref]("ref",
		schema.Field("id", "ID", codec.String(), func(r *ref) *string { return &r.ID }),
		schema.Field("name", "Name", codec.String(), func(r *ref) *string { return &r.Name }),
		schema.Refine("id_or_name", func(_ context.Context, r ref) []osproto.Issue {
			calls++
			if (r.ID == "") == (r.Name == "") {
				return []osproto.Issue{osproto.IssueAt(osproto.Root(), osproto.CodeMalformedValue, nil)}
			}
			return nil
		}),
	)
	ctx := context.Background()

	t.Run("Should accept exactly one of the pair", func(t *testing.T) {
		got, err := s.DecodeJSON(ctx, []byte(`{"name": "demo"}`))
		require.NoError(t, err)
		assert.Equal(t, ref{Name: "demo"}, got)
	})

	t.Run("Should reject none or both", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"id": "1", "name": "demo"}`} {
			_, err := s.DecodeJSON(ctx, []byte(body))
			assert.True(t, errors.Is(err, osproto.ErrMalformedValue), body)
		}
	})

	t.Run("Should skip rules when fields already failed", func(t *testing.T) {
		calls = 0
		_, err := s.DecodeJSON(ctx, []byte(`{"id": 5}`))
		assert.True(t, errors.Is(err, osproto.ErrTypeMismatch))
		assert.Zero(t, calls)
	})

	t.Run("Should reject a nil rule", func(t *testing.T) {
		_, err := schema.Bind[ref]("ref", schema.Refine[ref]("nil", nil))
		assert.True(t, errors.Is(err, osproto.ErrInvalidDescriptor))
	})
}

func TestSchema_JSONSchema(t *testing.T) {
	s := serverSchema.JSONSchema()
	assert.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"id"}, s.Required)
	assert.Equal(t, "2.26", s.Properties["tags"].MinMicroversion)
	assert.True(t, s.Properties["metadata"].Nullable)
	assert.Equal(t, "date-time", s.Properties["created"].Format)
	assert.Equal(t, "array", s.Properties["addresses"].Type)
	assert.Equal(t, []string{"addr"}, s.Properties["addresses"].Items.Required)
	assert.Equal(t, true, s.AdditionalProperties)
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	reg, err := schema.NewRegistry(serverSchema, addrSchema)
	require.NoError(t, err)
	assert.Equal(t, []string{"address", "server"}, reg.Names())

	got, err := reg.DecodeAny(ctx, "address", []byte(`{"addr":"10.0.0.1","version":"6"}`))
	require.NoError(t, err)
	assert.Equal(t, addr{Addr: "10.0.0.1", Version: 6}, got)

	_, err = reg.DecodeAny(ctx, "nope", []byte(`{}`))
	assert.True(t, errors.Is(err, schema.ErrUnknownSchema))

	e, ok := reg.Lookup("address")
	require.True(t, ok)
	wire, err := e.EncodeAny(ctx, &addr{Addr: "x", Version: 4})
	require.NoError(t, err)
	b, err := jsonx.Marshal(wire)
	require.NoError(t, err)
	assert.JSONEq(t, `{"addr":"x","version":4}`, string(b))

	_, err = schema.NewRegistry(addrSchema, addrSchema)
	require.Error(t, err)
}

func TestSchema_DecodeWhileSwitchingLanguage(t *testing.T) {
	defer i18n.SetLanguage("en")
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			i18n.SetLanguage([]string{"ja", "en"}[i%2])
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, err := serverSchema.DecodeJSON(context.Background(), []byte(`{"status":"ACTIVE"}`))
			if !errors.Is(err, osproto.ErrMissingField) {
				t.Errorf("want missing_field, got %v", err)
				return
			}
		}
	}()
	wg.Wait()
}
