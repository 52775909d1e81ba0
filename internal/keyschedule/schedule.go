package keyschedule

import (
	"subtylsocket/internal/hkdf"
	"subtylsocket/internal/memzero"
)

const (
	keySize = 32

	infoVersion = 1

	labelEncryption     = "SubtylSocket-Encryption"
	labelAuthentication = "SubtylSocket-Authentication"
	labelConfirmation   = "SubtylSocket-KeyConfirmation"
)

// Keys holds the three 32-byte keys a handshake derives. They are always
// installed together — there is no constructor that can produce a partial
// Keys value outside this package.
type Keys struct {
	Encryption     [32]byte
	Authentication [32]byte
	Confirmation   [32]byte
}

// Destroy zeroizes all three key buffers.
func (k *Keys) Destroy() {
	memzero.Array32(&k.Encryption)
	memzero.Array32(&k.Authentication)
	memzero.Array32(&k.Confirmation)
}

// DestroyConfirmation zeroizes only the confirmation key, leaving encryption
// and authentication intact. The confirmation key's job ends the moment the
// last confirmation MAC has been computed or verified; it must never be
// exposed outside the handshake, unlike the other two.
func (k *Keys) DestroyConfirmation() {
	memzero.Array32(&k.Confirmation)
}

// Derive computes the three session keys from the ECDH shared secret and the
// two peer nonces. salt = initiatorNonce || responderNonce, per spec.
func Derive(sharedSecret, initiatorNonce, responderNonce []byte) (Keys, error) {
	salt := make([]byte, 0, len(initiatorNonce)+len(responderNonce))
	salt = append(salt, initiatorNonce...)
	salt = append(salt, responderNonce...)

	enc, err := hkdf.Derive(salt, sharedSecret, info(labelEncryption), keySize)
	if err != nil {
		return Keys{}, err
	}
	auth, err := hkdf.Derive(salt, sharedSecret, info(labelAuthentication), keySize)
	if err != nil {
		return Keys{}, err
	}
	conf, err := hkdf.Derive(salt, sharedSecret, info(labelConfirmation), keySize)
	if err != nil {
		return Keys{}, err
	}

	var out Keys
	copy(out.Encryption[:], enc)
	copy(out.Authentication[:], auth)
	copy(out.Confirmation[:], conf)
	memzero.Bytes(enc)
	memzero.Bytes(auth)
	memzero.Bytes(conf)
	return out, nil
}

// info builds the HKDF info parameter: [len(label)] || utf8(label) || [version].
// The length prefix and version octet must be byte-exact across
// implementations to interoperate.
func info(label string) []byte {
	out := make([]byte, 0, 1+len(label)+1)
	out = append(out, byte(len(label)))
	out = append(out, []byte(label)...)
	out = append(out, infoVersion)
	return out
}
