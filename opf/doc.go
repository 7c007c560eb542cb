// Package opf parses and edits the EPUB package document (OPF): the root XML
// descriptor declaring metadata, manifest, spine, and guide.
//
// The package document is held as a live XML tree rather than being
// materialized into structs, because it is the authoritative, mutable source
// of truth for metadata: fields are queried against the tree on every read,
// and writes edit the tree in place so the document can be persisted back
// into the archive.
//
// # Mutation contract
//
// Every metadata write re-serializes and re-parses the backing document
// before returning. Queries against a tree mutated mid-session are not
// guaranteed to observe inserted or removed nodes, so the round-trip is part
// of the write operation itself: after any Set call the [Package] holds a
// fresh, fully requeryable document. Callers never need to force this
// themselves, but must not retain element references across writes.
package opf
