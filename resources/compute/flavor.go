package compute

import (
	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/resources/common"
	"github.com/reoring/osproto/schema"
)

// Flavor is a compute flavor.
type Flavor struct {
	ID          string
	Name        string
	VCPUs       int
	RAM         int
	Disk        int
	Ephemeral   int
	Swap        osproto.Opt[int]
	RxTxFactor  float64
	IsPublic    bool
	Disabled    bool
	Description osproto.Opt[string]
	ExtraSpecs  map[string]string
	Links       []common.Link
	Extra       map[string]any
}

var FlavorSchema = schema.MustBind[Flavor]("flavor",
	schema.Field("id", "ID", codec.String(), func(f *Flavor) *string { return &f.ID }).Required(),
	schema.Field("name", "Name", codec.String(), func(f *Flavor) *string { return &f.Name }),
	schema.Field("vcpus", "VCPUs", codec.Int(), func(f *Flavor) *int { return &f.VCPUs }),
	schema.Field("ram", "RAM", codec.Int(), func(f *Flavor) *int { return &f.RAM }),
	schema.Field("disk", "Disk", codec.Int(), func(f *Flavor) *int { return &f.Disk }),
	schema.Field("OS-FLV-EXT-DATA:ephemeral", "Ephemeral", codec.Int(), func(f *Flavor) *int { return &f.Ephemeral }),
	// Older microversions send "" for no swap.
	schema.OptField("swap", "Swap", codec.Int(), func(f *Flavor) *osproto.Opt[int] { return &f.Swap }).EmptyAsNull(),
	schema.Field("rxtx_factor", "RxTxFactor", codec.Float(), func(f *Flavor) *float64 { return &f.RxTxFactor }).Default(1.0),
	schema.Field("os-flavor-access:is_public", "IsPublic", codec.Bool(), func(f *Flavor) *bool { return &f.IsPublic }).Default(true),
	schema.Field("OS-FLV-DISABLED:disabled", "Disabled", codec.Bool(), func(f *Flavor) *bool { return &f.Disabled }),
	schema.OptField("description", "Description", codec.String(),
		func(f *Flavor) *osproto.Opt[string] { return &f.Description }).Since(osproto.MV(2, 55)),
	schema.Field("extra_specs", "ExtraSpecs", codec.Map(codec.String()),
		func(f *Flavor) *map[string]string { return &f.ExtraSpecs }).Since(osproto.MV(2, 61)),
	schema.Field("links", "Links", common.Links, func(f *Flavor) *[]common.Link { return &f.Links }),
	schema.Extras(func(f *Flavor) *map[string]any { return &f.Extra }),
)
