// Package handshake implements the four-message authenticated key-agreement
// handshake: Initiator and Responder each drive a small single-threaded
// state machine that turns an ECDH exchange and two transcript-bound MACs
// into a confirmed pair of session keys.
//
// Neither type performs any I/O. Start and Handle return a Result
// describing the message to transmit, if any, and the new Status; the
// caller — normally the session package — owns the transport.
package handshake

import (
	"subtylsocket/internal/keyschedule"
	"subtylsocket/internal/memzero"
)

func zeroBytes(b []byte) {
	memzero.Bytes(b)
}

func memzeroConf(k *keyschedule.Keys) {
	k.Destroy()
}

// zeroConfirmationKey scrubs only the confirmation key once it has served
// its last MAC. Encryption and authentication stay resident until the peer
// reaches Failed or is explicitly destroyed, since Confirmed must still be
// able to hand them out via DerivedKeys.
func zeroConfirmationKey(k *keyschedule.Keys) {
	k.DestroyConfirmation()
}
