package hkdf

import (
	"errors"

	"subtylsocket/internal/crypto"
)

// MaxLength is the largest output RFC 5869 Expand can produce with a
// 32-byte-output MAC: 255 * 32.
const MaxLength = 255 * 32

// ErrLengthTooLarge is returned when Expand is asked for more than
// MaxLength bytes.
var ErrLengthTooLarge = errors.New("hkdf: requested length exceeds 255 * HashLen")

// Extract computes PRK = HMAC(salt, ikm), the first stage of RFC 5869.
func Extract(salt, ikm []byte) []byte {
	return crypto.HMACSHA256(salt, ikm)
}

// Expand computes OKM = T(1) || T(2) || ... || T(n), truncated to length,
// where T(0) is empty and T(i) = HMAC(prk, T(i-1) || info || byte(i)).
func Expand(prk, info []byte, length int) ([]byte, error) {
	if length > MaxLength {
		return nil, ErrLengthTooLarge
	}
	var (
		t      []byte
		okm    = make([]byte, 0, length+crypto.MacSize)
		blocks = (length + crypto.MacSize - 1) / crypto.MacSize
	)
	for i := 1; i <= blocks; i++ {
		buf := make([]byte, 0, len(t)+len(info)+1)
		buf = append(buf, t...)
		buf = append(buf, info...)
		buf = append(buf, byte(i))
		t = crypto.HMACSHA256(prk, buf)
		okm = append(okm, t...)
	}
	return okm[:length], nil
}

// Derive runs Extract then Expand in one call.
func Derive(salt, ikm, info []byte, length int) ([]byte, error) {
	prk := Extract(salt, ikm)
	return Expand(prk, info, length)
}
