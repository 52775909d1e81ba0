// Package hkdf implements RFC 5869 Extract-then-Expand key derivation over
// HMAC-SHA-256.
//
// This is a first-class component of the protocol, not a convenience
// wrapper: the reference handshake code hand-rolls the exact same two-step
// construction inline (see x3dh's hkdfSHA256 helper), so this package keeps
// that shape but gives it its own name, its own overflow check, and its own
// tests.
package hkdf
