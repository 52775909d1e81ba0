package handshake

import (
	"encoding/hex"
	"encoding/json"

	"subtylsocket/internal/crypto"
	"subtylsocket/internal/keyschedule"
)

// responderPhase is the Responder's half of the state machine:
// Fresh -> InitRecv -> Confirmed | Failed. The responder verifies the
// initiator's confirmation MAC before it ever transmits its own, so sending
// KEY_CONFIRMATION and reaching Confirmed happen in the same step; there is
// no separate wait state symmetric with the initiator's AwaitingConfirm.
type responderPhase int

const (
	rPhaseFresh responderPhase = iota
	rPhaseInitRecv
	rPhaseConfirmed
	rPhaseFailed
)

// Responder drives the handshake from the side that waits for
// HANDSHAKE_INIT. It has no Start method: the first call is always Handle
// with the inbound HANDSHAKE_INIT bytes.
type Responder struct {
	phase responderPhase

	sessionID []byte
	nonce     []byte // our nonce, 32 bytes
	peerNonce []byte // initiator's nonce, 32 bytes

	ephemeral     *crypto.EphemeralKeyPair
	peerPublicKey []byte

	keys keyschedule.Keys
}

// NewResponder draws a fresh nonce and ephemeral P-256 key pair. The
// session id is adopted from the inbound HANDSHAKE_INIT, not generated here.
func NewResponder() (*Responder, error) {
	nonce, err := crypto.RandomBytes(32)
	if err != nil {
		return nil, err
	}
	ephemeral, err := crypto.GenerateEphemeralKeyPair()
	if err != nil {
		return nil, err
	}
	return &Responder{phase: rPhaseFresh, nonce: nonce, ephemeral: ephemeral}, nil
}

// Handle dispatches an inbound wire message according to the current phase.
func (r *Responder) Handle(msg []byte) Result {
	switch r.phase {
	case rPhaseFresh:
		return r.handleInit(msg)
	case rPhaseInitRecv:
		return r.handleConfirmRequest(msg)
	default:
		return r.fail(newError(UnexpectedMessage, "handshake already concluded", nil))
	}
}

func (r *Responder) handleInit(raw []byte) Result {
	typ, err := wireType(raw)
	if err != nil {
		return r.fail(newError(MalformedMessage, "could not read type discriminator", err))
	}
	if typ != typeHandshakeInit {
		return r.fail(newError(UnexpectedMessage, "expected handshake-init, got "+typ, nil))
	}

	var init handshakeInitWire
	if err := json.Unmarshal(raw, &init); err != nil {
		return r.fail(newError(MalformedMessage, "decode handshake-init", err))
	}
	if init.Version != protocolVersion {
		return r.fail(newError(UnsupportedVersion, "unsupported protocol version", nil))
	}
	if !supportedCipherIntersects(init.SupportedCiphers) || !supportedHashIntersects(init.SupportedHashes) {
		return r.fail(newError(UnsupportedAlgorithm, "no common cipher/hash with initiator", nil))
	}
	if len(init.SessionID) != 16 {
		return r.fail(newError(MalformedMessage, "sessionId must be 16 bytes", nil))
	}
	if len(init.ProviderNonce) != 32 {
		return r.fail(newError(MalformedMessage, "providerNonce must be 32 bytes", nil))
	}

	secret, err := r.ephemeral.ECDH(init.PublicKey)
	if err != nil {
		return r.fail(newError(InvalidPublicKey, "initiator public key rejected by curve", err))
	}

	keys, err := keyschedule.Derive(secret, init.ProviderNonce, r.nonce)
	zeroBytes(secret)
	if err != nil {
		return r.fail(newError(LengthTooLarge, "key schedule derivation failed", err))
	}

	r.sessionID = init.SessionID
	r.peerNonce = init.ProviderNonce
	r.peerPublicKey = init.PublicKey
	r.keys = keys

	out := handshakeResponseWire{
		Type:           typeHandshakeResponse,
		SessionID:      r.sessionID,
		PublicKey:      r.ephemeral.PublicBytes(),
		ConsumerNonce:  r.nonce,
		SelectedCipher: CipherAESGCM,
		SelectedHash:   HashSHA256,
	}
	r.phase = rPhaseInitRecv
	return Result{Outbound: marshal(out), Status: InProgress}
}

func (r *Responder) handleConfirmRequest(raw []byte) Result {
	typ, err := wireType(raw)
	if err != nil {
		return r.fail(newError(MalformedMessage, "could not read type discriminator", err))
	}
	if typ != typeKeyConfirmRequest {
		return r.fail(newError(UnexpectedMessage, "expected key-confirmation-request, got "+typ, nil))
	}

	var req keyConfirmRequestWire
	if err := json.Unmarshal(raw, &req); err != nil {
		return r.fail(newError(MalformedMessage, "decode key-confirmation-request", err))
	}
	if len(req.SessionID) > 0 && !crypto.ConstantTimeEqual(req.SessionID, r.sessionID) {
		return r.fail(newError(SessionIdMismatch, "key-confirmation-request sessionId does not match", nil))
	}

	expected := initiatorConfirmationMac(r.keys.Confirmation[:], r.peerNonce, r.nonce, r.peerPublicKey, r.ephemeral.PublicBytes())
	if !crypto.ConstantTimeEqual(req.ConfirmationMac, expected) {
		return r.fail(newError(KeyConfirmationFailed, "initiator confirmation MAC did not verify", nil))
	}

	mac := responderConfirmationMac(r.keys.Confirmation[:], r.peerNonce, r.nonce, r.peerPublicKey, r.ephemeral.PublicBytes())
	out := keyConfirmationWire{
		Type:            typeKeyConfirmation,
		SessionID:       r.sessionID,
		PublicKey:       r.ephemeral.PublicBytes(),
		ConfirmationMac: mac,
	}

	r.phase = rPhaseConfirmed
	r.ephemeral.Destroy()
	zeroConfirmationKey(&r.keys)
	return Result{Outbound: marshal(out), Status: Confirmed}
}

// DerivedKeys returns the session keys and true once Confirmed has been
// reached; otherwise it returns the zero value and false.
func (r *Responder) DerivedKeys() (SessionKeys, bool) {
	if r.phase != rPhaseConfirmed {
		return SessionKeys{}, false
	}
	return sessionKeysFrom(r.keys), true
}

// SessionID returns the handshake's session id as lowercase hex. It is
// empty until HANDSHAKE_INIT has been processed.
func (r *Responder) SessionID() string { return hex.EncodeToString(r.sessionID) }

// Confirmed reports whether the handshake reached the Confirmed phase.
func (r *Responder) Confirmed() bool { return r.phase == rPhaseConfirmed }

// Failed reports whether the handshake reached the Failed phase.
func (r *Responder) Failed() bool { return r.phase == rPhaseFailed }

// Destroy zeroizes everything sensitive and marks the handshake Failed,
// regardless of the phase it was in. Calling it more than once, or before a
// handshake concludes, is safe: DerivedKeys and Confirmed report as if the
// handshake had failed from this point on.
func (r *Responder) Destroy() {
	if r.ephemeral != nil {
		r.ephemeral.Destroy()
	}
	memzeroConf(&r.keys)
	zeroBytes(r.nonce)
	r.phase = rPhaseFailed
}

func (r *Responder) fail(e *HandshakeError) Result {
	r.phase = rPhaseFailed
	memzeroConf(&r.keys)
	return Result{Status: Failed, Err: e}
}
