// Package envelope strips and applies the wrapping objects services put
// around Resource Schema payloads: {"server": {...}} for single resources,
// {"servers": [...]} for collections and collections with pagination links.
//
// The last page of a collection is an explicit NoMorePages state, never an
// error. Recognized pagination conventions, tried in order:
//
//   - "<plural>_links": [{"rel": "next", "href": ...}] (Nova, Cinder, Neutron)
//   - "links": {"next": ..., "self": ...} (Keystone, Designate)
//   - "next": "/v2/images?marker=..." (Glance, Ironic)
package envelope
