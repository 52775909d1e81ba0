// Package crypto exposes the minimal primitives the handshake and channel
// layers build on: P-256 ECDH, HMAC-SHA-256, AES-256-GCM, a sanity-checked
// CSPRNG draw, and a constant-time buffer comparison.
//
// Nothing above this package reaches into crypto/ecdh, crypto/hmac, or
// crypto/aes directly — every other package goes through here so the choice
// of curve, MAC, and AEAD stays in one place.
package crypto
