package handshake

import "encoding/json"

const (
	typeHandshakeInit     = "handshake-init"
	typeHandshakeResponse = "handshake-response"
	typeKeyConfirmRequest = "key-confirmation-request"
	typeKeyConfirmation   = "key-confirmation"

	protocolVersion = 1
)

// CipherAESGCM and HashSHA256 are the only algorithm names this version
// negotiates; the fields exist on the wire so a future version can widen
// the set without breaking the JSON shape.
const (
	CipherAESGCM = "aes-256-gcm"
	HashSHA256   = "sha256"
)

// handshakeInitWire is HANDSHAKE_INIT. Binary fields are plain []byte:
// encoding/json marshals []byte as standard-alphabet base64 with padding,
// which is exactly the wire encoding spec.md §6 requires.
//
// The wire vocabulary calls the Initiator the "provider" and the Responder
// the "consumer" (spec.md §1); ProviderNonce/ConsumerNonce below are that
// vocabulary, not a second pair of roles.
type handshakeInitWire struct {
	Type             string   `json:"type"`
	Version          int      `json:"version"`
	SessionID        []byte   `json:"sessionId"`
	PublicKey        []byte   `json:"publicKey"`
	ProviderNonce    []byte   `json:"providerNonce"`
	SupportedCiphers []string `json:"supportedCiphers"`
	SupportedHashes  []string `json:"supportedHashes"`
}

// handshakeResponseWire is HANDSHAKE_RESPONSE.
type handshakeResponseWire struct {
	Type           string `json:"type"`
	SessionID      []byte `json:"sessionId"`
	PublicKey      []byte `json:"publicKey"`
	ConsumerNonce  []byte `json:"consumerNonce"`
	SelectedCipher string `json:"selectedCipher"`
	SelectedHash   string `json:"selectedHash"`
}

// keyConfirmRequestWire is KEY_CONFIRM_REQUEST.
type keyConfirmRequestWire struct {
	Type            string `json:"type"`
	SessionID       []byte `json:"sessionId,omitempty"`
	ConfirmationMac []byte `json:"confirmationMac"`
}

// keyConfirmationWire is KEY_CONFIRMATION.
type keyConfirmationWire struct {
	Type            string `json:"type"`
	SessionID       []byte `json:"sessionId"`
	PublicKey       []byte `json:"publicKey"`
	ConfirmationMac []byte `json:"confirmationMac"`
}

// wireType peeks at the "type" discriminator without validating the rest of
// the message, so the caller can dispatch to the right concrete decode.
func wireType(msg []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return "", err
	}
	return head.Type, nil
}

func marshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Every wire type here marshals unconditionally (no cyclic fields,
		// no channels, no unsupported types); a failure here is a bug in
		// this package, not a runtime condition callers should handle.
		panic("handshake: marshal of internal wire type failed: " + err.Error())
	}
	return b
}

// supportedCipherIntersects reports whether offered contains our one
// supported cipher.
func supportedCipherIntersects(offered []string) bool {
	for _, c := range offered {
		if c == CipherAESGCM {
			return true
		}
	}
	return false
}

func supportedHashIntersects(offered []string) bool {
	for _, h := range offered {
		if h == HashSHA256 {
			return true
		}
	}
	return false
}
