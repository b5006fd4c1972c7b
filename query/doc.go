// Package query encodes typed filter and pagination requests into the wire
// query strings of the OpenStack API family.
//
// Filters render as key=value, or with the operator folded into the key
// (key__gt=value, the default StyleSuffix) or the value (key=gt:value,
// StylePrefix as used by Glance). Parameters tagged with a minimum
// microversion are silently dropped when the caller's microversion is lower.
// Output order is declaration order.
package query
