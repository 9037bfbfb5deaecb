// Package wasteland implements a chunked storage layer over a
// size-bounded, optionally authenticated key-value transport.
//
// Payloads larger than the transport's per-entry limit are split into
// fixed-size fragments and stored as a balanced tree of records: leaves
// hold fragments of user data, interior records hold "pointer buffers" -
// ordered lists of child addresses. The root of the tree is published
// either content-addressed (immutable) or under a signed,
// sequence-numbered keypair-bound address (mutable). Reading the root
// address transparently reassembles the original payload.
//
// The transport itself is pluggable; see the transport subpackages for
// the reference in-memory implementation, the Grenache grape client, and
// composable cache/logging wrappers.
package wasteland
