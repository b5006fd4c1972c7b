// Package codec provides the primitive adapters: encode/decode rules for
// values that the OpenStack wire format represents inconsistently.
//
// Every constructor returns an osproto.Adapter. Adapters are stateless after
// construction and safe for concurrent use.
//
//   - String, Raw: plain strings and pass-through JSON values.
//   - Int, Int64, IntString, Float: numbers that some services send quoted.
//   - Bool, BoolString: booleans sent as true/"true"/"True"/1.
//   - Timestamp: ISO-8601 with or without fraction and offset, encoded as RFC3339Nano UTC.
//   - URL: absolute URLs (link hrefs, catalog endpoints).
//   - Lenient: enums with alias spellings and an Unknown catch-all.
//   - List, Map: containers of another adapter.
//
// Decode errors are osproto.Issues with paths relative to the decoded value;
// containers rebase element issues under [i] or the map key.
package codec
