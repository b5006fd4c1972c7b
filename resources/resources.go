// Package resources assembles the per-service schema tables.
package resources

import (
	"github.com/reoring/osproto/resources/blockstorage"
	"github.com/reoring/osproto/resources/common"
	"github.com/reoring/osproto/resources/compute"
	"github.com/reoring/osproto/resources/identity"
	"github.com/reoring/osproto/resources/network"
	"github.com/reoring/osproto/schema"
)

// NewRegistry returns a registry holding every schema of this module.
func NewRegistry() (*schema.Registry, error) {
	var entries []schema.Entry
	for _, group := range [][]schema.Entry{
		common.Schemas(),
		compute.Schemas(),
		blockstorage.Schemas(),
		network.Schemas(),
		identity.Schemas(),
	} {
		entries = append(entries, group...)
	}
	return schema.NewRegistry(entries...)
}
