package compute_test

import (
	"context"
	"errors"
	"testing"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/envelope"
	"github.com/reoring/osproto/resources/compute"
)

const serverBody = `{"server": {
	"id": "9168b536-cd40-4630-b43f-b259807c6e87",
	"name": "new-server-test",
	"status": "ACTIVE",
	"tenant_id": "6f70656e737461636b20342065766572",
	"user_id": "fake",
	"hostId": "2091634baaccdc4c5a1d57069c833e402921df696b7f970791b12ec6",
	"created": "2013-09-03T04:01:32Z",
	"updated": "2013-09-03T04:01:33Z",
	"accessIPv4": "",
	"accessIPv6": "",
	"addresses": {"private": [
		{"addr": "192.168.0.3", "version": 4, "OS-EXT-IPS:type": "fixed", "OS-EXT-IPS-MAC:mac_addr": "aa:bb:cc:dd:ee:ff"}
	]},
	"metadata": {"My Server Name": "Apache1"},
	"image": "",
	"flavor": {"ephemeral": 0, "ram": 512, "original_name": "m1.tiny", "vcpus": 1, "extra_specs": {}, "swap": 0, "disk": 1},
	"links": [{"href": "http://openstack.example.com/v2.1/servers/9168b536", "rel": "self"}],
	"key_name": null,
	"config_drive": "",
	"progress": 0,
	"OS-EXT-AZ:availability_zone": "nova",
	"OS-EXT-STS:power_state": 1,
	"OS-EXT-STS:task_state": null,
	"OS-EXT-STS:vm_state": "active",
	"OS-SRV-USG:launched_at": "2013-09-03T04:01:32.000000",
	"locked": false,
	"description": null,
	"tags": [],
	"trusted_image_certificates": null
}}`

var servers = envelope.New(compute.ServerSchema)

func TestServer_Decode(t *testing.T) {
	ctx := osproto.DecodeOpt{Microversion: osproto.MV(2, 63)}.Apply(context.Background())
	env, err := servers.Unwrap(ctx, []byte(serverBody), envelope.Single)
	require.NoError(t, err)
	s := env.Item

	assert.True(t, s.Status.Is(compute.StatusActive))
	assert.Equal(t, time.Date(2013, 9, 3, 4, 1, 32, 0, time.UTC), s.Created)
	assert.True(t, s.AccessIPv4.IsNull())
	assert.True(t, s.Image.IsNull(), "volume-backed servers send image as an empty string")
	assert.True(t, s.KeyName.IsNull())
	assert.True(t, s.ConfigDrive.IsNull())
	assert.True(t, s.Description.IsNull())
	assert.Equal(t, osproto.Some(false), s.Locked)
	assert.Equal(t, osproto.Some(1), s.PowerState)

	require.Len(t, s.Addresses["private"], 1)
	addr := s.Addresses["private"][0]
	assert.Equal(t, "192.168.0.3", addr.Addr)
	assert.Equal(t, osproto.Some(codec.Variant(compute.AddressFixed)), addr.Type)

	flavor, ok := s.Flavor.Get()
	require.True(t, ok)
	assert.Equal(t, "m1.tiny", flavor.OriginalName)
	assert.Equal(t, 512, flavor.RAM)

	assert.Contains(t, s.Extra, "OS-SRV-USG:launched_at")
	assert.Contains(t, s.Extra, "trusted_image_certificates")
}

func TestServer_MicroversionSkew(t *testing.T) {
	ctx := osproto.DecodeOpt{Microversion: osproto.MV(2, 1)}.Apply(context.Background())
	env, err := servers.Unwrap(ctx, []byte(serverBody), envelope.Single)
	require.NoError(t, err)
	s := env.Item

	assert.True(t, s.Locked.IsUnset())
	assert.Nil(t, s.Tags)
	for _, k := range []string{"locked", "description", "tags"} {
		assert.Contains(t, s.Extra, k)
	}
	flavor, _ := s.Flavor.Get()
	assert.Empty(t, flavor.OriginalName)
	assert.Contains(t, flavor.Extra, "original_name")
}

func TestFlavorRef_Microversions(t *testing.T) {
	const ref = `{"id": "1", "links": [{"href": "http://openstack.example.com/flavors/1", "rel": "bookmark"}]}`

	t.Run("Should read the reference before 2.47", func(t *testing.T) {
		ctx := osproto.WithMicroversion(context.Background(), osproto.MV(2, 46))
		f, err := compute.FlavorRefSchema.DecodeJSON(ctx, []byte(ref))
		require.NoError(t, err)
		assert.Equal(t, "1", f.ID)
		require.Len(t, f.Links, 1)
		assert.Empty(t, f.Extra)

		out, err := compute.FlavorRefSchema.EncodeJSON(ctx, f)
		require.NoError(t, err)
		assert.True(t, jsonpatch.Equal([]byte(ref), out), string(out))
	})

	t.Run("Should keep id and links as extras from 2.47 on", func(t *testing.T) {
		ctx := osproto.WithMicroversion(context.Background(), osproto.MV(2, 47))
		f, err := compute.FlavorRefSchema.DecodeJSON(ctx, []byte(ref))
		require.NoError(t, err)
		assert.Empty(t, f.ID)
		assert.Nil(t, f.Links)
		assert.Contains(t, f.Extra, "id")
		assert.Contains(t, f.Extra, "links")
	})

	t.Run("Should not emit id or links from 2.47 on", func(t *testing.T) {
		ctx := osproto.WithMicroversion(context.Background(), osproto.MV(2, 47))
		out, err := compute.FlavorRefSchema.EncodeJSON(ctx, compute.FlavorRef{ID: "1", OriginalName: "m1.tiny", VCPUs: 1})
		require.NoError(t, err)
		assert.JSONEq(t, `{"original_name": "m1.tiny", "vcpus": 1}`, string(out))
	})

	t.Run("Should publish the bounds", func(t *testing.T) {
		js := compute.FlavorRefSchema.JSONSchema()
		assert.Equal(t, "2.47", js.Properties["id"].MaxMicroversion)
		assert.Equal(t, "2.47", js.Properties["vcpus"].MinMicroversion)
	})
}

func TestServer_IssuePath(t *testing.T) {
	body := `{"server": {"id": "a", "addresses": {"private": [{"addr": "10.0.0.1"}, {"version": 4}]}}}`
	_, err := servers.Unwrap(context.Background(), []byte(body), envelope.Single)
	require.True(t, errors.Is(err, osproto.ErrMissingField))
	iss, _ := osproto.AsIssues(err)
	require.Len(t, iss, 1)
	assert.Equal(t, "server.addresses.private[1].addr", iss[0].Path)
}

func TestServer_RoundTrip(t *testing.T) {
	ctx := context.Background()
	env, err := servers.Unwrap(ctx, []byte(serverBody), envelope.Single)
	require.NoError(t, err)
	first, err := servers.Wrap(ctx, env)
	require.NoError(t, err)

	again, err := servers.Unwrap(ctx, first, envelope.Single)
	require.NoError(t, err)
	second, err := servers.Wrap(ctx, again)
	require.NoError(t, err)
	assert.True(t, jsonpatch.Equal(first, second), "%s\n%s", first, second)
}

func TestServerCreate_Encode(t *testing.T) {
	create := envelope.New(compute.ServerCreateSchema, envelope.WithKey("server"))
	req := compute.ServerCreate{
		Name:        "web",
		ImageRef:    osproto.Some("70a599e0"),
		FlavorRef:   "1",
		Networks:    "auto",
		Description: osproto.Cleared[string](),
		Tags:        []string{"a"},
	}

	t.Run("Should drop fields the microversion does not know", func(t *testing.T) {
		ctx := osproto.WithMicroversion(context.Background(), osproto.MV(2, 37))
		out, err := create.Wrap(ctx, envelope.Envelope[compute.ServerCreate]{Item: req})
		require.NoError(t, err)
		assert.JSONEq(t, `{"server": {"name": "web", "imageRef": "70a599e0", "flavorRef": "1", "networks": "auto", "description": null}}`, string(out))
	})

	t.Run("Should emit gated fields at their microversion", func(t *testing.T) {
		ctx := osproto.WithMicroversion(context.Background(), osproto.MV(2, 52))
		out, err := create.Wrap(ctx, envelope.Envelope[compute.ServerCreate]{Item: req})
		require.NoError(t, err)
		assert.JSONEq(t, `{"server": {"name": "web", "imageRef": "70a599e0", "flavorRef": "1", "networks": "auto", "description": null, "tags": ["a"]}}`, string(out))
	})
}

func TestFlavorAndKeypair(t *testing.T) {
	ctx := context.Background()

	t.Run("Should apply flavor defaults and empty swap", func(t *testing.T) {
		f, err := compute.FlavorSchema.DecodeJSON(ctx, []byte(`{"id": "1", "name": "m1.tiny", "ram": "512", "swap": ""}`))
		require.NoError(t, err)
		assert.True(t, f.IsPublic)
		assert.Equal(t, 1.0, f.RxTxFactor)
		assert.Equal(t, 512, f.RAM)
		assert.True(t, f.Swap.IsNull())
	})

	t.Run("Should default the keypair type before 2.2", func(t *testing.T) {
		old := osproto.WithMicroversion(ctx, osproto.MV(2, 1))
		k, err := compute.KeypairSchema.DecodeJSON(old, []byte(`{"name": "k", "public_key": "ssh-rsa AAA"}`))
		require.NoError(t, err)
		assert.True(t, k.Type.Is(compute.KeypairSSH))

		k, err = compute.KeypairSchema.DecodeJSON(ctx, []byte(`{"name": "k", "type": "X509"}`))
		require.NoError(t, err)
		assert.True(t, k.Type.Is(compute.KeypairX509))
	})

	t.Run("Should tolerate new server statuses", func(t *testing.T) {
		e := compute.ServerStatuses.Resolve("HIBERNATED")
		assert.True(t, e.IsUnknown())
		assert.True(t, compute.ServerStatuses.Resolve("stopped").Is(compute.StatusShutoff))
	})
}
