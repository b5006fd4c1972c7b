package compute

import (
	_ "embed"

	"github.com/reoring/osproto/codec"
)

//go:embed aliases.yaml
var _aliases []byte

// ServerStatus is the user-facing server status.
type ServerStatus string

const (
	StatusActive           ServerStatus = "ACTIVE"
	StatusBuild            ServerStatus = "BUILD"
	StatusDeleted          ServerStatus = "DELETED"
	StatusError            ServerStatus = "ERROR"
	StatusHardReboot       ServerStatus = "HARD_REBOOT"
	StatusMigrating        ServerStatus = "MIGRATING"
	StatusPassword         ServerStatus = "PASSWORD"
	StatusPaused           ServerStatus = "PAUSED"
	StatusReboot           ServerStatus = "REBOOT"
	StatusRebuild          ServerStatus = "REBUILD"
	StatusRescue           ServerStatus = "RESCUE"
	StatusResize           ServerStatus = "RESIZE"
	StatusRevertResize     ServerStatus = "REVERT_RESIZE"
	StatusShelved          ServerStatus = "SHELVED"
	StatusShelvedOffloaded ServerStatus = "SHELVED_OFFLOADED"
	StatusShutoff          ServerStatus = "SHUTOFF"
	StatusSoftDeleted      ServerStatus = "SOFT_DELETED"
	StatusSuspended        ServerStatus = "SUSPENDED"
	StatusUnknown          ServerStatus = "UNKNOWN"
	StatusVerifyResize     ServerStatus = "VERIFY_RESIZE"
)

// AddressType is OS-EXT-IPS:type.
type AddressType string

const (
	AddressFixed    AddressType = "fixed"
	AddressFloating AddressType = "floating"
)

// KeypairType is the type of a keypair (2.2+).
type KeypairType string

const (
	KeypairSSH  KeypairType = "ssh"
	KeypairX509 KeypairType = "x509"
)

var (
	ServerStatuses = codec.MustLoadAliases[ServerStatus](_aliases, "server_status")
	AddressTypes   = codec.MustLoadAliases[AddressType](_aliases, "address_type")
	KeypairTypes   = codec.MustLoadAliases[KeypairType](_aliases, "keypair_type")
)
