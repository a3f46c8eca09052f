// Package invoice provides the data model of a bindle invoice together with
// the structural queries the resolver builds upon.
//
// An invoice is the manifest of a bindle. It lists the parcels of the bundle,
// each identified by the sha256 fingerprint of its content. Parcels relate to
// each other only indirectly: a parcel declares the group labels it is a
// member of and the group labels it requires.
//
//	[[parcel]]
//	[parcel.label]
//	sha256 = "..."
//	name = "server.wasm"
//	[parcel.conditions]
//	requires = ["db"]
//
//	[[parcel]]
//	[parcel.label]
//	sha256 = "..."
//	name = "postgres.wasm"
//	[parcel.conditions]
//	memberOf = ["db"]
//
// A group label has no existence of its own beyond being referenced in those
// two lists. All queries in this package are total: absent optional fields
// yield empty results, never errors.
//
// Besides the queries, the package decodes and encodes invoices in the bindle
// TOML format as well as YAML and JSON, and validates their metadata.
package invoice
