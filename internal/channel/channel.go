package channel

import (
	"encoding/json"
	"fmt"

	"subtylsocket/internal/crypto"
	"subtylsocket/internal/memzero"
)

const (
	envelopeType = "encrypted-plugin-message"
	algorithmName = "aes-256-gcm"
)

// AEAD is the capability set a confirmed handshake hands its owner: seal
// and open application payloads, plus the algorithm name advertised on the
// wire, without exposing the key itself.
type AEAD interface {
	Encrypt(plaintext, additionalData []byte) ([]byte, error)
	Decrypt(envelope, additionalData []byte) ([]byte, error)
	AlgorithmName() string
}

// encryptedPart is the "encrypted" object inside the wire envelope.
type encryptedPart struct {
	Data     []byte   `json:"data"`
	Metadata metadata `json:"metadata"`
}

type metadata struct {
	IV  []byte `json:"iv"`
	Tag []byte `json:"tag"`
}

// envelope is the full wire message a Channel produces and consumes.
type envelope struct {
	Type      string        `json:"type"`
	Algorithm string        `json:"algorithm"`
	Encrypted encryptedPart `json:"encrypted"`
}

// Channel seals and opens application messages under a single AES-256-GCM
// key. It holds no handshake state — by the time one exists the handshake
// that produced its key has already destroyed everything else.
type Channel struct {
	key [32]byte
}

var _ AEAD = (*Channel)(nil)

// New wraps a 32-byte encryption key. The caller retains ownership of key;
// New copies it rather than taking a reference.
func New(key [32]byte) *Channel {
	return &Channel{key: key}
}

// AlgorithmName reports the algorithm this channel advertises on the wire.
func (c *Channel) AlgorithmName() string { return algorithmName }

// Fingerprint returns a short hex fingerprint of the channel's key, for
// operator-facing debug output. It is a one-way hash: nothing that observes
// the fingerprint can recover the key, so this does not violate the key's
// confidentiality.
func (c *Channel) Fingerprint() string {
	return crypto.Fingerprint(c.key[:])
}

// Encrypt seals plaintext and marshals the result as a wire envelope.
// additionalData is authenticated but not encrypted; it may be nil.
func (c *Channel) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	ciphertext, tag, iv, err := crypto.SealAES256GCM(c.key[:], plaintext, additionalData)
	if err != nil {
		return nil, fmt.Errorf("channel: seal: %w", err)
	}
	env := envelope{
		Type:      envelopeType,
		Algorithm: algorithmName,
		Encrypted: encryptedPart{
			Data:     ciphertext,
			Metadata: metadata{IV: iv, Tag: tag},
		},
	}
	out, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("channel: marshal envelope: %w", err)
	}
	return out, nil
}

// Decrypt parses a wire envelope and opens its ciphertext. It rejects any
// envelope that does not advertise this channel's algorithm name, and any
// ciphertext whose AEAD tag does not verify.
func (c *Channel) Decrypt(raw, additionalData []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("channel: unmarshal envelope: %w", err)
	}
	if env.Type != envelopeType {
		return nil, fmt.Errorf("channel: unexpected envelope type %q", env.Type)
	}
	if env.Algorithm != algorithmName {
		return nil, fmt.Errorf("channel: unsupported algorithm %q", env.Algorithm)
	}
	plaintext, err := crypto.OpenAES256GCM(c.key[:], env.Encrypted.Data, env.Encrypted.Metadata.Tag, env.Encrypted.Metadata.IV, additionalData)
	if err != nil {
		return nil, crypto.ErrAeadTagMismatch
	}
	return plaintext, nil
}

// Destroy zeroizes the channel's key. Encrypt and Decrypt calls made after
// Destroy will fail AEAD verification or produce garbage ciphertext; callers
// must stop using the channel once they call this.
func (c *Channel) Destroy() {
	memzero.Array32(&c.key)
}
