package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

const (
	// SharedSecretSize is the width of the X-coordinate ECDH yields on P-256.
	SharedSecretSize = 32
	// MacSize is the HMAC-SHA-256 tag length.
	MacSize = 32
	// AeadKeySize is the AES-256-GCM key width.
	AeadKeySize = 32
	// AeadIVSize is the AES-GCM nonce width used everywhere in this module.
	AeadIVSize = 12
	// AeadTagSize is the AES-GCM authentication tag width.
	AeadTagSize = 16
)

// EphemeralKeyPair is a fresh P-256 key pair generated once per handshake.
type EphemeralKeyPair struct {
	priv *ecdh.PrivateKey
}

// GenerateEphemeralKeyPair draws a fresh P-256 private key from the OS CSPRNG.
func GenerateEphemeralKeyPair() (*EphemeralKeyPair, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("crypto: generate ephemeral key: %w", err)
	}
	return &EphemeralKeyPair{priv: priv}, nil
}

// PublicBytes returns the uncompressed SEC1 encoding of the public half.
func (k *EphemeralKeyPair) PublicBytes() []byte {
	return k.priv.PublicKey().Bytes()
}

// ECDH computes the shared secret with a peer's SEC1-encoded public key.
// The underlying curve implementation refuses off-curve points and the
// identity point, surfaced here as ErrInvalidPublicKey.
func (k *EphemeralKeyPair) ECDH(peerPublicKey []byte) ([]byte, error) {
	peer, err := ecdh.P256().NewPublicKey(peerPublicKey)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	secret, err := k.priv.ECDH(peer)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	if len(secret) != SharedSecretSize {
		return nil, ErrInvalidPublicKey
	}
	return secret, nil
}

// Destroy zeroizes nothing exportable; the private scalar lives inside the
// opaque *ecdh.PrivateKey and is dropped for the GC when k goes out of scope.
func (k *EphemeralKeyPair) Destroy() {
	k.priv = nil
}

// HMACSHA256 computes a 32-byte HMAC-SHA-256 tag over data under key.
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// RandomBytes draws n bytes from the OS CSPRNG and rejects an all-zero or
// all-0xFF result as a cheap sanity check against a catastrophically broken
// entropy source.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("crypto: read random: %w", err)
	}
	if isAllByte(buf, 0x00) || isAllByte(buf, 0xFF) {
		return nil, ErrInsufficientEntropy
	}
	return buf, nil
}

func isAllByte(b []byte, v byte) bool {
	for _, c := range b {
		if c != v {
			return false
		}
	}
	return true
}

// ConstantTimeEqual reports whether a and b hold the same bytes. Lengths are
// compared first (a length mismatch is allowed to short-circuit — only the
// content comparison must run in constant time); the content comparison
// folds a running XOR accumulator across every byte with no branch on the
// result until the very end, so the number of compared bytes never depends
// on where the first difference falls.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var acc byte
	for i := range a {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}

// SealAES256GCM encrypts plaintext under key with a freshly drawn 12-byte IV,
// returning (ciphertext, tag, iv). additionalData may be nil.
func SealAES256GCM(key, plaintext, additionalData []byte) (ciphertext, tag, iv []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, nil, err
	}
	iv, err = RandomBytes(AeadIVSize)
	if err != nil {
		return nil, nil, nil, err
	}
	sealed := aead.Seal(nil, iv, plaintext, additionalData)
	ciphertext = sealed[:len(sealed)-AeadTagSize]
	tag = sealed[len(sealed)-AeadTagSize:]
	return ciphertext, tag, iv, nil
}

// OpenAES256GCM decrypts ciphertext||tag under key and iv, failing with
// ErrAeadTagMismatch on any alteration.
func OpenAES256GCM(key, ciphertext, tag, iv, additionalData []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	sealed := append(append([]byte{}, ciphertext...), tag...)
	plaintext, err := aead.Open(nil, iv, sealed, additionalData)
	if err != nil {
		return nil, ErrAeadTagMismatch
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != AeadKeySize {
		return nil, fmt.Errorf("crypto: aes-256-gcm key must be %d bytes, got %d", AeadKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, AeadIVSize)
	if err != nil {
		return nil, err
	}
	return aead, nil
}
