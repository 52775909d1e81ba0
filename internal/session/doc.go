// Package session wires the transport, handshake, and channel packages
// together into a single blocking API: dial or accept, get back a Session
// whose Send and Receive already speak the AEAD envelope. It owns the
// goroutine-free run loop that drives a handshake to completion and logs
// state transitions — never key material — through log/slog.
package session
