package crypto

import "errors"

var (
	// ErrInsufficientEntropy is returned when the OS CSPRNG hands back a
	// buffer that is all-zero or all-0xFF, a cheap sanity check against a
	// catastrophically broken random source.
	ErrInsufficientEntropy = errors.New("crypto: insufficient entropy")

	// ErrInvalidPublicKey is returned when a peer's elliptic-curve point is
	// rejected by the underlying curve implementation (off-curve, identity
	// point, or wrong length).
	ErrInvalidPublicKey = errors.New("crypto: invalid public key")

	// ErrAeadTagMismatch is returned when an AEAD open fails authentication.
	ErrAeadTagMismatch = errors.New("crypto: aead tag mismatch")
)
