package compute

import (
	"time"

	"github.com/reoring/osproto"
	"github.com/reoring/osproto/codec"
	"github.com/reoring/osproto/schema"
)

// Keypair is an SSH or x509 keypair. PrivateKey is only returned when Nova
// generated the key.
type Keypair struct {
	Name        string
	PublicKey   string
	PrivateKey  osproto.Opt[string]
	Fingerprint string
	Type        codec.Enum[KeypairType]
	UserID      string
	CreatedAt   osproto.Opt[time.Time]
	Extra       map[string]any
}

var KeypairSchema = schema.MustBind[Keypair]("keypair",
	schema.Field("name", "Name", codec.String(), func(k *Keypair) *string { return &k.Name }).Required(),
	schema.Field("public_key", "PublicKey", codec.String(), func(k *Keypair) *string { return &k.PublicKey }),
	schema.OptField("private_key", "PrivateKey", codec.String(), func(k *Keypair) *osproto.Opt[string] { return &k.PrivateKey }),
	schema.Field("fingerprint", "Fingerprint", codec.String(), func(k *Keypair) *string { return &k.Fingerprint }),
	schema.Field("type", "Type", codec.Lenient(KeypairTypes), func(k *Keypair) *codec.Enum[KeypairType] { return &k.Type }).
		Default(codec.Variant(KeypairSSH)).Since(osproto.MV(2, 2)),
	schema.Field("user_id", "UserID", codec.String(), func(k *Keypair) *string { return &k.UserID }).Since(osproto.MV(2, 10)),
	schema.OptField("created_at", "CreatedAt", codec.Timestamp(), func(k *Keypair) *osproto.Opt[time.Time] { return &k.CreatedAt }),
	schema.Extras(func(k *Keypair) *map[string]any { return &k.Extra }),
)

// Schemas lists the compute schemas for registry assembly.
func Schemas() []schema.Entry {
	return []schema.Entry{
		ServerSchema, AddressSchema, FlavorRefSchema, FaultSchema,
		FlavorSchema, KeypairSchema, ServerCreateSchema,
	}
}
