// Package keyschedule derives the three session keys — encryption,
// authentication, confirmation — from the ECDH shared secret and the two
// peer nonces, with full domain separation between the three via distinct
// info strings per RFC 5869.
package keyschedule
