// Package osproto normalizes the JSON wire representations of the OpenStack API
// family into typed records and back.
//
// Package osproto provides:
//
// - Opt[T], a three-state optional (unset / explicitly null / present) that survives a round trip
// - Microversion, the (major, minor) pair negotiated per request
// - The Adapter contract implemented by primitive codecs, nested schemas and custom types
// - A stable error model via Issues (dotted field path, code, message)
//
// Design policy:
// - Keep only the shared vocabulary in the root package.
// - Primitive adapters live under codec/, descriptor tables under schema/, wrapper objects
// under envelope/, outgoing parameters under query/ and error bodies under errorbody/.
// - Concrete services live under resources/.
// - Nothing here performs I/O. Callers hand in raw bodies and status codes and get typed
// values back.
//
// Typical usage:
//
//	ctx = osproto.DecodeOpt{Microversion: osproto.MV(2, 60)}.Apply(ctx)
//	env, err := compute.ServerEnvelope.Unwrap(ctx, body, envelope.ShapeSingle)
//	srv := env.Resource
//
//	q := query.Spec{Filters: []query.Filter{query.Eq("status", "ACTIVE")}, Limit: 50}
//	raw := query.Encode(q, osproto.MV(2, 60))
//
//	rec := errorbody.Decode(resp.StatusCode, body)
package osproto
