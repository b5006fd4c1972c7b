// Package errorbody turns the error bodies of the OpenStack API family into
// one canonical Record. Decoding never fails: bodies that match no known
// shape become a generic record carrying the raw text and the HTTP status.
//
// Shapes, tried in order:
//
//   - flat: {"code": ..., "message": ...}
//   - nested under a service key: {"itemNotFound": {"code": 404, "message": ...}},
//     {"NeutronError": {"type": ..., "message": ...}}, Keystone's {"error": {...}},
//     Ironic's {"error_message": "<JSON-encoded fault>"}
//   - list: {"errors": [{"code": ..., "title": ..., "detail": ...}]}
package errorbody
