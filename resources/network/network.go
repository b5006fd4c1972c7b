// Package network declares the Networking (Neutron) resource schemas.
package network

import (
	_ "embed"
	"time"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/schema"
)

//go:embed aliases.yaml
var _aliases []byte

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusBuild  Status = "BUILD"
	StatusDown   Status = "DOWN"
	StatusError  Status = "ERROR"
	// StatusNA is reported for ports whose status is not applicable.
	StatusNA Status = "N/A"
)

type VNICType string

const (
	VNICNormal    VNICType = "normal"
	VNICDirect    VNICType = "direct"
	VNICBaremetal VNICType = "baremetal"
)

var (
	NetworkStatuses = codec.MustLoadAliases[Status](_aliases, "network_status")
	PortStatuses    = codec.MustLoadAliases[Status](_aliases, "port_status")
	VNICTypes       = codec.MustLoadAliases[VNICType](_aliases, "vnic_type")
)

// Network is a Neutron network. Neutron still sends tenant_id next to
// project_id; both decode into ProjectID.
type Network struct {
	ID             string
	Name           string
	Status         codec.Enum[Status]
	AdminStateUp   bool
	Shared         bool
	External       osproto.Opt[bool]
	ProjectID      string
	Subnets        []string
	MTU            osproto.Opt[int]
	Description    string
	CreatedAt      osproto.Opt[time.Time]
	UpdatedAt      osproto.Opt[time.Time]
	RevisionNumber int
	Tags           []string
	Extra          map[string]any
}

var NetworkSchema = schema.MustBind[Network]("network",
	schema.Field("id", "ID", codec.String(), func(n *Network) *string { return &n.ID }).Required(),
	schema.Field("name", "Name", codec.String(), func(n *Network) *string { return &n.Name }),
	schema.Field("status", "Status", codec.Lenient(NetworkStatuses), func(n *Network) *codec.Enum[Status] { return &n.Status }),
	schema.Field("admin_state_up", "AdminStateUp", codec.Bool(), func(n *Network) *bool { return &n.AdminStateUp }).Default(true),
	schema.Field("shared", "Shared", codec.Bool(), func(n *Network) *bool { return &n.Shared }),
	schema.OptField("router:external", "External", codec.Bool(), func(n *Network) *osproto.Opt[bool] { return &n.External }),
	schema.Field("project_id", "ProjectID", codec.String(), func(n *Network) *string { return &n.ProjectID }).Alias("tenant_id"),
	schema.Field("subnets", "Subnets", codec.List(codec.String()), func(n *Network) *[]string { return &n.Subnets }),
	schema.OptField("mtu", "MTU", codec.Int(), func(n *Network) *osproto.Opt[int] { return &n.MTU }),
	schema.Field("description", "Description", codec.String(), func(n *Network) *string { return &n.Description }),
	schema.OptField("created_at", "CreatedAt", codec.Timestamp(), func(n *Network) *osproto.Opt[time.Time] { return &n.CreatedAt }),
	schema.OptField("updated_at", "UpdatedAt", codec.Timestamp(), func(n *Network) *osproto.Opt[time.Time] { return &n.UpdatedAt }),
	schema.Field("revision_number", "RevisionNumber", codec.Int(), func(n *Network) *int { return &n.RevisionNumber }),
	schema.Field("tags", "Tags", codec.List(codec.String()), func(n *Network) *[]string { return &n.Tags }),
	schema.Extras(func(n *Network) *map[string]any { return &n.Extra }),
)

// FixedIP is one entry of a port's fixed_ips.
type FixedIP struct {
	SubnetID  string
	IPAddress string
	Extra     map[string]any
}

var FixedIPSchema = schema.MustBind[FixedIP]("fixed_ip",
	schema.Field("subnet_id", "SubnetID", codec.String(), func(f *FixedIP) *string { return &f.SubnetID }),
	schema.Field("ip_address", "IPAddress", codec.String(), func(f *FixedIP) *string { return &f.IPAddress }),
	schema.Extras(func(f *FixedIP) *map[string]any { return &f.Extra }),
)

// Port is a Neutron port.
type Port struct {
	ID             string
	Name           string
	NetworkID      string
	MACAddress     string
	FixedIPs       []FixedIP
	DeviceID       string
	DeviceOwner    string
	Status         codec.Enum[Status]
	AdminStateUp   bool
	ProjectID      string
	SecurityGroups []string
	VNICType       osproto.Opt[codec.Enum[VNICType]]
	HostID         osproto.Opt[string]
	Description    string
	Tags           []string
	Extra          map[string]any
}

var PortSchema = schema.MustBind[Port]("port",
	schema.Field("id", "ID", codec.String(), func(p *Port) *string { return &p.ID }).Required(),
	schema.Field("name", "Name", codec.String(), func(p *Port) *string { return &p.Name }),
	schema.Field("network_id", "NetworkID", codec.String(), func(p *Port) *string { return &p.NetworkID }).Required(),
	schema.Field("mac_address", "MACAddress", codec.String(), func(p *Port) *string { return &p.MACAddress }),
	schema.Field("fixed_ips", "FixedIPs", codec.List(schema.Nested(FixedIPSchema)), func(p *Port) *[]FixedIP { return &p.FixedIPs }),
	schema.Field("device_id", "DeviceID", codec.String(), func(p *Port) *string { return &p.DeviceID }),
	schema.Field("device_owner", "DeviceOwner", codec.String(), func(p *Port) *string { return &p.DeviceOwner }),
	schema.Field("status", "Status", codec.Lenient(PortStatuses), func(p *Port) *codec.Enum[Status] { return &p.Status }),
	schema.Field("admin_state_up", "AdminStateUp", codec.Bool(), func(p *Port) *bool { return &p.AdminStateUp }).Default(true),
	schema.Field("project_id", "ProjectID", codec.String(), func(p *Port) *string { return &p.ProjectID }).Alias("tenant_id"),
	schema.Field("security_groups", "SecurityGroups", codec.List(codec.String()), func(p *Port) *[]string { return &p.SecurityGroups }),
	schema.OptField("binding:vnic_type", "VNICType", codec.Lenient(VNICTypes),
		func(p *Port) *osproto.Opt[codec.Enum[VNICType]] { return &p.VNICType }),
	schema.OptField("binding:host_id", "HostID", codec.String(), func(p *Port) *osproto.Opt[string] { return &p.HostID }).EmptyAsNull(),
	schema.Field("description", "Description", codec.String(), func(p *Port) *string { return &p.Description }),
	schema.Field("tags", "Tags", codec.List(codec.String()), func(p *Port) *[]string { return &p.Tags }),
	schema.Extras(func(p *Port) *map[string]any { return &p.Extra }),
)

// Schemas lists the networking schemas for registry assembly.
func Schemas() []schema.Entry {
	return []schema.Entry{NetworkSchema, PortSchema, FixedIPSchema}
}
