// Package config models instance and template configuration records.
//
// A Record is the persisted unit of configuration. Records are written by
// hand, by this client, and by backend plugins, so the model keeps every key
// it does not recognize in an opaque remainder map and round-trips it
// verbatim.
//
// Several fields accept more than one on-disk shape (a loader is either a
// single string or a {client, server} object; packages are either a flat
// list or an object partitioned by side; arguments are either a list or a
// space-joined string). Each of these is an explicit type that normalizes at
// the JSON boundary instead of leaving shape checks to consumers.
package config
