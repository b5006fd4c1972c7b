// Package compute declares the Compute (Nova) resource schemas.
package compute

import (
	"time"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/resources/common"
	"github.com/reoring/osproto/schema"
)

// Address is one entry of a server's addresses map.
type Address struct {
	Addr    string
	Version int
	Type    osproto.Opt[codec.Enum[AddressType]]
	MAC     osproto.Opt[string]
	Extra   map[string]any
}

var AddressSchema = schema.MustBind[Address]("address",
	schema.Field("addr", "Addr", codec.String(), func(a *Address) *string { return &a.Addr }).Required(),
	schema.Field("version", "Version", codec.Int(), func(a *Address) *int { return &a.Version }).Default(4),
	schema.OptField("OS-EXT-IPS:type", "Type", codec.Lenient(AddressTypes),
		func(a *Address) *osproto.Opt[codec.Enum[AddressType]] { return &a.Type }),
	schema.OptField("OS-EXT-IPS-MAC:mac_addr", "MAC", codec.String(), func(a *Address) *osproto.Opt[string] { return &a.MAC }),
	schema.Extras(func(a *Address) *map[string]any { return &a.Extra }),
)

// FlavorRef is the flavor embedded in a server. Before 2.47 it is a
// reference ({id, links}); from 2.47 on it is a copy of the flavor without
// id or links.
type FlavorRef struct {
	ID           string
	Links        []common.Link
	OriginalName string
	VCPUs        int
	RAM          int
	Disk         int
	Ephemeral    int
	Swap         int
	ExtraSpecs   map[string]string
	Extra        map[string]any
}

var FlavorRefSchema = schema.MustBind[FlavorRef]("flavor_ref",
	schema.Field("id", "ID", codec.String(), func(f *FlavorRef) *string { return &f.ID }).Until(osproto.MV(2, 47)),
	schema.Field("links", "Links", common.Links, func(f *FlavorRef) *[]common.Link { return &f.Links }).Until(osproto.MV(2, 47)),
	schema.Field("original_name", "OriginalName", codec.String(), func(f *FlavorRef) *string { return &f.OriginalName }).Since(osproto.MV(2, 47)),
	schema.Field("vcpus", "VCPUs", codec.Int(), func(f *FlavorRef) *int { return &f.VCPUs }).Since(osproto.MV(2, 47)),
	schema.Field("ram", "RAM", codec.Int(), func(f *FlavorRef) *int { return &f.RAM }).Since(osproto.MV(2, 47)),
	schema.Field("disk", "Disk", codec.Int(), func(f *FlavorRef) *int { return &f.Disk }).Since(osproto.MV(2, 47)),
	schema.Field("ephemeral", "Ephemeral", codec.Int(), func(f *FlavorRef) *int { return &f.Ephemeral }).Since(osproto.MV(2, 47)),
	schema.Field("swap", "Swap", codec.Int(), func(f *FlavorRef) *int { return &f.Swap }).Since(osproto.MV(2, 47)),
	schema.Field("extra_specs", "ExtraSpecs", codec.Map(codec.String()),
		func(f *FlavorRef) *map[string]string { return &f.ExtraSpecs }).Since(osproto.MV(2, 47)),
	schema.Extras(func(f *FlavorRef) *map[string]any { return &f.Extra }),
)

// Fault describes why a server is in ERROR.
type Fault struct {
	Code    int
	Message string
	Details osproto.Opt[string]
	Created time.Time
	Extra   map[string]any
}

var FaultSchema = schema.MustBind[Fault]("fault",
	schema.Field("code", "Code", codec.Int(), func(f *Fault) *int { return &f.Code }).Required(),
	schema.Field("message", "Message", codec.String(), func(f *Fault) *string { return &f.Message }).Required(),
	schema.OptField("details", "Details", codec.String(), func(f *Fault) *osproto.Opt[string] { return &f.Details }),
	schema.Field("created", "Created", codec.Timestamp(), func(f *Fault) *time.Time { return &f.Created }),
	schema.Extras(func(f *Fault) *map[string]any { return &f.Extra }),
)

// Server is a compute instance.
type Server struct {
	ID               string
	Name             string
	Status           codec.Enum[ServerStatus]
	ProjectID        string
	UserID           string
	HostID           string
	Created          time.Time
	Updated          osproto.Opt[time.Time]
	AccessIPv4       osproto.Opt[string]
	AccessIPv6       osproto.Opt[string]
	Addresses        map[string][]Address
	Metadata         osproto.Opt[map[string]string]
	Image            osproto.Opt[common.Ref]
	Flavor           osproto.Opt[FlavorRef]
	Links            []common.Link
	Fault            osproto.Opt[Fault]
	KeyName          osproto.Opt[string]
	ConfigDrive      osproto.Opt[bool]
	Progress         osproto.Opt[int]
	AvailabilityZone osproto.Opt[string]
	PowerState       osproto.Opt[int]
	TaskState        osproto.Opt[string]
	VMState          osproto.Opt[string]
	Locked           osproto.Opt[bool]
	Description      osproto.Opt[string]
	Tags             []string
	LockedReason     osproto.Opt[string]
	Extra            map[string]any
}

var ServerSchema = schema.MustBind[Server]("server",
	schema.Field("id", "ID", codec.String(), func(s *Server) *string { return &s.ID }).Required(),
	schema.Field("name", "Name", codec.String(), func(s *Server) *string { return &s.Name }),
	schema.Field("status", "Status", codec.Lenient(ServerStatuses), func(s *Server) *codec.Enum[ServerStatus] { return &s.Status }),
	schema.Field("tenant_id", "ProjectID", codec.String(), func(s *Server) *string { return &s.ProjectID }),
	schema.Field("user_id", "UserID", codec.String(), func(s *Server) *string { return &s.UserID }),
	schema.Field("hostId", "HostID", codec.String(), func(s *Server) *string { return &s.HostID }),
	schema.Field("created", "Created", codec.Timestamp(), func(s *Server) *time.Time { return &s.Created }),
	schema.OptField("updated", "Updated", codec.Timestamp(), func(s *Server) *osproto.Opt[time.Time] { return &s.Updated }),
	schema.OptField("accessIPv4", "AccessIPv4", codec.String(), func(s *Server) *osproto.Opt[string] { return &s.AccessIPv4 }).EmptyAsNull(),
	schema.OptField("accessIPv6", "AccessIPv6", codec.String(), func(s *Server) *osproto.Opt[string] { return &s.AccessIPv6 }).EmptyAsNull(),
	schema.Field("addresses", "Addresses", codec.Map(codec.List(schema.Nested(AddressSchema))),
		func(s *Server) *map[string][]Address { return &s.Addresses }),
	schema.OptField("metadata", "Metadata", codec.Map(codec.String()), func(s *Server) *osproto.Opt[map[string]string] { return &s.Metadata }),
	schema.OptField("image", "Image", schema.Nested(common.RefSchema), func(s *Server) *osproto.Opt[common.Ref] { return &s.Image }).EmptyAsNull(),
	schema.OptField("flavor", "Flavor", schema.Nested(FlavorRefSchema), func(s *Server) *osproto.Opt[FlavorRef] { return &s.Flavor }),
	schema.Field("links", "Links", common.Links, func(s *Server) *[]common.Link { return &s.Links }),
	schema.OptField("fault", "Fault", schema.Nested(FaultSchema), func(s *Server) *osproto.Opt[Fault] { return &s.Fault }),
	schema.OptField("key_name", "KeyName", codec.String(), func(s *Server) *osproto.Opt[string] { return &s.KeyName }),
	schema.OptField("config_drive", "ConfigDrive", codec.Bool(), func(s *Server) *osproto.Opt[bool] { return &s.ConfigDrive }).EmptyAsNull(),
	schema.OptField("progress", "Progress", codec.Int(), func(s *Server) *osproto.Opt[int] { return &s.Progress }),
	schema.OptField("OS-EXT-AZ:availability_zone", "AvailabilityZone", codec.String(),
		func(s *Server) *osproto.Opt[string] { return &s.AvailabilityZone }),
	schema.OptField("OS-EXT-STS:power_state", "PowerState", codec.Int(), func(s *Server) *osproto.Opt[int] { return &s.PowerState }),
	schema.OptField("OS-EXT-STS:task_state", "TaskState", codec.String(), func(s *Server) *osproto.Opt[string] { return &s.TaskState }),
	schema.OptField("OS-EXT-STS:vm_state", "VMState", codec.String(), func(s *Server) *osproto.Opt[string] { return &s.VMState }),
	schema.OptField("locked", "Locked", codec.Bool(), func(s *Server) *osproto.Opt[bool] { return &s.Locked }).Since(osproto.MV(2, 9)),
	schema.OptField("description", "Description", codec.String(),
		func(s *Server) *osproto.Opt[string] { return &s.Description }).Since(osproto.MV(2, 19)),
	schema.Field("tags", "Tags", codec.List(codec.String()), func(s *Server) *[]string { return &s.Tags }).Since(osproto.MV(2, 26)),
	schema.OptField("locked_reason", "LockedReason", codec.String(),
		func(s *Server) *osproto.Opt[string] { return &s.LockedReason }).Since(osproto.MV(2, 73)),
	schema.Extras(func(s *Server) *map[string]any { return &s.Extra }),
)

// ServerCreate is the body of a create-server request. Wrap it under the
// "server" key.
type ServerCreate struct {
	Name             string
	ImageRef         osproto.Opt[string]
	FlavorRef        string
	Networks         any
	KeyName          string
	Metadata         map[string]string
	AvailabilityZone string
	UserData         string
	ConfigDrive      osproto.Opt[bool]
	Description      osproto.Opt[string]
	Tags             []string
	Extra            map[string]any
}

var ServerCreateSchema = schema.MustBind[ServerCreate]("server_create",
	schema.Field("name", "Name", codec.String(), func(s *ServerCreate) *string { return &s.Name }).Required(),
	schema.OptField("imageRef", "ImageRef", codec.String(), func(s *ServerCreate) *osproto.Opt[string] { return &s.ImageRef }).EmptyAsNull(),
	schema.Field("flavorRef", "FlavorRef", codec.String(), func(s *ServerCreate) *string { return &s.FlavorRef }).Required(),
	// "auto", "none" or a list of {uuid, port, fixed_ip} objects.
	schema.Field("networks", "Networks", codec.Raw(), func(s *ServerCreate) *any { return &s.Networks }),
	schema.Field("key_name", "KeyName", codec.String(), func(s *ServerCreate) *string { return &s.KeyName }),
	schema.Field("metadata", "Metadata", codec.Map(codec.String()), func(s *ServerCreate) *map[string]string { return &s.Metadata }),
	schema.Field("availability_zone", "AvailabilityZone", codec.String(), func(s *ServerCreate) *string { return &s.AvailabilityZone }),
	schema.Field("user_data", "UserData", codec.String(), func(s *ServerCreate) *string { return &s.UserData }),
	schema.OptField("config_drive", "ConfigDrive", codec.Bool(), func(s *ServerCreate) *osproto.Opt[bool] { return &s.ConfigDrive }),
	schema.OptField("description", "Description", codec.String(),
		func(s *ServerCreate) *osproto.Opt[string] { return &s.Description }).Since(osproto.MV(2, 19)),
	schema.Field("tags", "Tags", codec.List(codec.String()), func(s *ServerCreate) *[]string { return &s.Tags }).Since(osproto.MV(2, 52)),
	schema.Extras(func(s *ServerCreate) *map[string]any { return &s.Extra }),
)
