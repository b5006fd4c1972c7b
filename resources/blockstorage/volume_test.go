package blockstorage_test

import (
	"context"
	"testing"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/envelope"
	"github.com/reoring/osproto/query"
	"github.com/reoring/osproto/resources/blockstorage"
)

const listBody = `{
	"volumes": [
		{
			"id": "6edbc2f4-1507-44f8-ac0d-eed1d2608d38",
			"name": "test-volume-attachments",
			"status": "in_use",
			"size": "2",
			"availability_zone": "nova",
			"bootable": "false",
			"encrypted": false,
			"multiattach": false,
			"volume_type": "lvmdriver-1",
			"description": null,
			"snapshot_id": null,
			"source_volid": null,
			"metadata": {},
			"created_at": "2017-02-10T16:44:33.000000",
			"updated_at": null,
			"attachments": [{
				"server_id": "f4fda93b-06e0-4743-8117-bc8bcecd651b",
				"attachment_id": "3b8b6631-1cf7-4fd7-9afb-c01e541a073c",
				"attached_at": "2017-02-10T16:44:34.000000",
				"host_name": null,
				"volume_id": "6edbc2f4-1507-44f8-ac0d-eed1d2608d38",
				"device": "/dev/vdb",
				"id": "6edbc2f4-1507-44f8-ac0d-eed1d2608d38"
			}],
			"os-vol-tenant-attr:tenant_id": "bab7d5c60cd041a0a36f7c4b6e1dd978",
			"user_id": "5c6a13e2a1a14f7c9e9e8d5d4d2c3f5e",
			"links": [{"href": "http://localhost:8776/v3/vol/6edbc2f4", "rel": "self"}],
			"group_id": null,
			"replication_status": "disabled"
		}
	],
	"volumes_links": [{"href": "http://localhost:8776/v3/volumes/detail?limit=1&marker=6edbc2f4-1507-44f8-ac0d-eed1d2608d38", "rel": "next"}],
	"count": 12
}`

var volumes = envelope.New(blockstorage.VolumeSchema)

func TestVolumeList(t *testing.T) {
	ctx := osproto.DecodeOpt{Microversion: osproto.MV(3, 45)}.Apply(context.Background())
	env, err := volumes.Unwrap(ctx, []byte(listBody), envelope.Paged)
	require.NoError(t, err)
	require.Len(t, env.Items, 1)
	v := env.Items[0]

	assert.True(t, v.Status.Is(blockstorage.VolumeInUse))
	assert.Equal(t, "in-use", v.Status.String())
	assert.Equal(t, 2, v.Size)
	assert.False(t, v.Bootable)
	assert.True(t, v.Description.IsNull())
	assert.True(t, v.UpdatedAt.IsNull())
	assert.True(t, v.GroupID.IsNull())
	assert.Equal(t, "disabled", v.Extra["replication_status"])

	require.Len(t, v.Attachments, 1)
	at, ok := v.Attachments[0].AttachedAt.Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2017, 2, 10, 16, 44, 34, 0, time.UTC), at)
	assert.True(t, v.Attachments[0].HostName.IsNull())

	assert.Equal(t, "6edbc2f4-1507-44f8-ac0d-eed1d2608d38", env.Page.Token)
	assert.Equal(t, osproto.Some(12), env.Page.Total)

	next, more := env.Page.Next(query.New(query.Eq("status", "in-use")).WithLimit(1))
	require.True(t, more)
	assert.Equal(t, "status=in-use&limit=1&marker=6edbc2f4-1507-44f8-ac0d-eed1d2608d38", query.Encode(next, osproto.MV(3, 45)))
}

func TestVolume_BootableEncoding(t *testing.T) {
	ctx := context.Background()
	out, err := blockstorage.VolumeSchema.EncodeJSON(ctx, blockstorage.Volume{ID: "v", Size: 1, Bootable: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "v", "size": 1, "bootable": "true"}`, string(out))
}

func TestVolume_RoundTrip(t *testing.T) {
	ctx := context.Background()
	env, err := volumes.Unwrap(ctx, []byte(listBody), envelope.Paged)
	require.NoError(t, err)
	first, err := volumes.Wrap(ctx, env)
	require.NoError(t, err)
	again, err := volumes.Unwrap(ctx, first, envelope.Paged)
	require.NoError(t, err)
	second, err := volumes.Wrap(ctx, again)
	require.NoError(t, err)
	assert.True(t, jsonpatch.Equal(first, second), "%s\n%s", first, second)
	assert.Equal(t, env.Page.Token, again.Page.Token)
}
