// Package blockstorage declares the Block Storage (Cinder) resource schemas.
package blockstorage

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

// VolumeStatus is the status of a volume.
type VolumeStatus string

const (
	VolumeAvailable VolumeStatus = "available"
	VolumeCreating  VolumeStatus = "creating"
	VolumeDeleting  VolumeStatus = "deleting"
	VolumeError     VolumeStatus = "error"
	VolumeInUse     VolumeStatus = "in-use"
	VolumeExtending VolumeStatus = "extending"
	VolumeReserved  VolumeStatus = "reserved"
)

// AttachStatus is the attach_status of a volume.
type AttachStatus string

const (
	Attached AttachStatus = "attached"
	Detached AttachStatus = "detached"
)

var (
	VolumeStatuses = codec.MustLoadAliases[VolumeStatus](_aliases, "volume_status")
	AttachStatuses = codec.MustLoadAliases[AttachStatus](_aliases, "attach_status")
)

// Attachment is one entry of a volume's attachments.
type Attachment struct {
	ID           string
	AttachmentID string
	ServerID     string
	VolumeID     string
	HostName     osproto.Opt[string]
	Device       string
	AttachedAt   osproto.Opt[time.Time]
	Extra        map[string]any
}

var AttachmentSchema = schema.MustBind[Attachment]("attachment",
	schema.Field("id", "ID", codec.String(), func(a *Attachment) *string { return &a.ID }),
	schema.Field("attachment_id", "AttachmentID", codec.String(), func(a *Attachment) *string { return &a.AttachmentID }),
	schema.Field("server_id", "ServerID", codec.String(), func(a *Attachment) *string { return &a.ServerID }),
	schema.Field("volume_id", "VolumeID", codec.String(), func(a *Attachment) *string { return &a.VolumeID }),
	schema.OptField("host_name", "HostName", codec.String(), func(a *Attachment) *osproto.Opt[string] { return &a.HostName }),
	schema.Field("device", "Device", codec.String(), func(a *Attachment) *string { return &a.Device }),
	schema.OptField("attached_at", "AttachedAt", codec.Timestamp(), func(a *Attachment) *osproto.Opt[time.Time] { return &a.AttachedAt }),
	schema.Extras(func(a *Attachment) *map[string]any { return &a.Extra }),
)

// Volume is a block storage volume.
type Volume struct {
	ID               string
	Name             osproto.Opt[string]
	Status           codec.Enum[VolumeStatus]
	AttachStatus     osproto.Opt[codec.Enum[AttachStatus]]
	Size             int
	AvailabilityZone string
	Bootable         bool
	Encrypted        bool
	Multiattach      bool
	VolumeType       osproto.Opt[string]
	Description      osproto.Opt[string]
	SnapshotID       osproto.Opt[string]
	SourceVolID      osproto.Opt[string]
	Metadata         map[string]string
	CreatedAt        time.Time
	UpdatedAt        osproto.Opt[time.Time]
	Attachments      []Attachment
	ProjectID        osproto.Opt[string]
	UserID           string
	Links            []common.Link
	GroupID          osproto.Opt[string]
	ProviderID       osproto.Opt[string]
	ServiceUUID      osproto.Opt[string]
	SharedTargets    osproto.Opt[bool]
	ClusterName      osproto.Opt[string]
	ConsumesQuota    osproto.Opt[bool]
	Extra            map[string]any
}

var VolumeSchema = schema.MustBind[Volume]("volume",
	schema.Field("id", "ID", codec.String(), func(v *Volume) *string { return &v.ID }).Required(),
	schema.OptField("name", "Name", codec.String(), func(v *Volume) *osproto.Opt[string] { return &v.Name }),
	schema.Field("status", "Status", codec.Lenient(VolumeStatuses), func(v *Volume) *codec.Enum[VolumeStatus] { return &v.Status }),
	schema.OptField("attach_status", "AttachStatus", codec.Lenient(AttachStatuses),
		func(v *Volume) *osproto.Opt[codec.Enum[AttachStatus]] { return &v.AttachStatus }),
	schema.Field("size", "Size", codec.Int(), func(v *Volume) *int { return &v.Size }).Required(),
	schema.Field("availability_zone", "AvailabilityZone", codec.String(), func(v *Volume) *string { return &v.AvailabilityZone }),
	schema.Field("bootable", "Bootable", codec.BoolString(), func(v *Volume) *bool { return &v.Bootable }).Default(false),
	schema.Field("encrypted", "Encrypted", codec.Bool(), func(v *Volume) *bool { return &v.Encrypted }),
	schema.Field("multiattach", "Multiattach", codec.Bool(), func(v *Volume) *bool { return &v.Multiattach }),
	schema.OptField("volume_type", "VolumeType", codec.String(), func(v *Volume) *osproto.Opt[string] { return &v.VolumeType }),
	schema.OptField("description", "Description", codec.String(), func(v *Volume) *osproto.Opt[string] { return &v.Description }),
	schema.OptField("snapshot_id", "SnapshotID", codec.String(), func(v *Volume) *osproto.Opt[string] { return &v.SnapshotID }),
	schema.OptField("source_volid", "SourceVolID", codec.String(), func(v *Volume) *osproto.Opt[string] { return &v.SourceVolID }),
	schema.Field("metadata", "Metadata", codec.Map(codec.String()), func(v *Volume) *map[string]string { return &v.Metadata }),
	schema.Field("created_at", "CreatedAt", codec.Timestamp(), func(v *Volume) *time.Time { return &v.CreatedAt }),
	schema.OptField("updated_at", "UpdatedAt", codec.Timestamp(), func(v *Volume) *osproto.Opt[time.Time] { return &v.UpdatedAt }),
	schema.Field("attachments", "Attachments", codec.List(schema.Nested(AttachmentSchema)),
		func(v *Volume) *[]Attachment { return &v.Attachments }),
	schema.OptField("os-vol-tenant-attr:tenant_id", "ProjectID", codec.String(), func(v *Volume) *osproto.Opt[string] { return &v.ProjectID }),
	schema.Field("user_id", "UserID", codec.String(), func(v *Volume) *string { return &v.UserID }),
	schema.Field("links", "Links", common.Links, func(v *Volume) *[]common.Link { return &v.Links }),
	schema.OptField("group_id", "GroupID", codec.String(),
		func(v *Volume) *osproto.Opt[string] { return &v.GroupID }).Since(osproto.MV(3, 13)),
	schema.OptField("provider_id", "ProviderID", codec.String(),
		func(v *Volume) *osproto.Opt[string] { return &v.ProviderID }).Since(osproto.MV(3, 21)),
	schema.OptField("service_uuid", "ServiceUUID", codec.String(),
		func(v *Volume) *osproto.Opt[string] { return &v.ServiceUUID }).Since(osproto.MV(3, 48)),
	schema.OptField("shared_targets", "SharedTargets", codec.Bool(),
		func(v *Volume) *osproto.Opt[bool] { return &v.SharedTargets }).Since(osproto.MV(3, 48)),
	schema.OptField("cluster_name", "ClusterName", codec.String(),
		func(v *Volume) *osproto.Opt[string] { return &v.ClusterName }).Since(osproto.MV(3, 61)),
	schema.OptField("consumes_quota", "ConsumesQuota", codec.Bool(),
		func(v *Volume) *osproto.Opt[bool] { return &v.ConsumesQuota }).Since(osproto.MV(3, 65)),
	schema.Extras(func(v *Volume) *map[string]any { return &v.Extra }),
)

// Schemas lists the block storage schemas for registry assembly.
func Schemas() []schema.Entry {
	return []schema.Entry{VolumeSchema, AttachmentSchema}
}
