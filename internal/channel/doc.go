// Package channel implements the post-handshake AEAD channel: AES-256-GCM
// sealing and opening under the encryption key a handshake derived, wrapped
// in the JSON envelope the wire protocol uses for application messages.
package channel
