package handshake

import "subtylsocket/internal/crypto"

// initiatorConfirmationMac computes MAC_I = HMAC(K_conf, N_I || N_R || PK_I || PK_R).
// The asymmetric byte order between this and responderConfirmationMac is
// what binds each MAC to a direction — swapping one peer's MAC in for the
// other's must not verify.
func initiatorConfirmationMac(confirmationKey, initiatorNonce, responderNonce, initiatorPub, responderPub []byte) []byte {
	return crypto.HMACSHA256(confirmationKey, concat(initiatorNonce, responderNonce, initiatorPub, responderPub))
}

// responderConfirmationMac computes MAC_R = HMAC(K_conf, N_R || N_I || PK_R || PK_I).
func responderConfirmationMac(confirmationKey, initiatorNonce, responderNonce, initiatorPub, responderPub []byte) []byte {
	return crypto.HMACSHA256(confirmationKey, concat(responderNonce, initiatorNonce, responderPub, initiatorPub))
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
