package handshake

import (
	"encoding/hex"
	"encoding/json"

	"subtylsocket/internal/crypto"
	"subtylsocket/internal/keyschedule"
)

// initiatorPhase is the Initiator's half of the handshake state machine:
// Fresh -> InitSent -> AwaitingConfirm -> Confirmed | Failed.
type initiatorPhase int

const (
	iPhaseFresh initiatorPhase = iota
	iPhaseInitSent
	iPhaseAwaitingConfirm
	iPhaseConfirmed
	iPhaseFailed
)

// Initiator drives the handshake from the side that sends HANDSHAKE_INIT
// first. It is single-threaded: Start and Handle must not be called
// concurrently, and the caller must transmit Result.Outbound before
// dispatching the next inbound message.
type Initiator struct {
	phase initiatorPhase

	sessionID []byte
	nonce     []byte // our nonce, 32 bytes
	peerNonce []byte // responder's nonce, 32 bytes

	ephemeral     *crypto.EphemeralKeyPair
	peerPublicKey []byte

	keys keyschedule.Keys
}

// NewInitiator draws a fresh session id, nonce, and ephemeral P-256 key
// pair. The handshake does not start until Start is called.
func NewInitiator() (*Initiator, error) {
	sessionID, err := crypto.RandomBytes(16)
	if err != nil {
		return nil, err
	}
	nonce, err := crypto.RandomBytes(32)
	if err != nil {
		return nil, err
	}
	ephemeral, err := crypto.GenerateEphemeralKeyPair()
	if err != nil {
		return nil, err
	}
	return &Initiator{
		phase:     iPhaseFresh,
		sessionID: sessionID,
		nonce:     nonce,
		ephemeral: ephemeral,
	}, nil
}

// Start produces HANDSHAKE_INIT. It may only be called once, from iPhaseFresh.
func (in *Initiator) Start() Result {
	if in.phase != iPhaseFresh {
		return in.fail(newError(UnexpectedMessage, "Start called outside Fresh phase", nil))
	}
	msg := handshakeInitWire{
		Type:             typeHandshakeInit,
		Version:          protocolVersion,
		SessionID:        in.sessionID,
		PublicKey:        in.ephemeral.PublicBytes(),
		ProviderNonce:    in.nonce,
		SupportedCiphers: []string{CipherAESGCM},
		SupportedHashes:  []string{HashSHA256},
	}
	in.phase = iPhaseInitSent
	return Result{Outbound: marshal(msg), Status: InProgress}
}

// Handle dispatches an inbound wire message according to the current phase.
func (in *Initiator) Handle(msg []byte) Result {
	switch in.phase {
	case iPhaseInitSent:
		return in.handleResponse(msg)
	case iPhaseAwaitingConfirm:
		return in.handleConfirmation(msg)
	case iPhaseFresh:
		return in.fail(newError(UnexpectedMessage, "Handle called before Start", nil))
	default:
		return in.fail(newError(UnexpectedMessage, "handshake already concluded", nil))
	}
}

func (in *Initiator) handleResponse(raw []byte) Result {
	typ, err := wireType(raw)
	if err != nil {
		return in.fail(newError(MalformedMessage, "could not read type discriminator", err))
	}
	if typ != typeHandshakeResponse {
		return in.fail(newError(UnexpectedMessage, "expected handshake-response, got "+typ, nil))
	}

	var resp handshakeResponseWire
	if err := json.Unmarshal(raw, &resp); err != nil {
		return in.fail(newError(MalformedMessage, "decode handshake-response", err))
	}
	if !crypto.ConstantTimeEqual(resp.SessionID, in.sessionID) {
		return in.fail(newError(SessionIdMismatch, "handshake-response sessionId does not match", nil))
	}
	if resp.SelectedCipher != CipherAESGCM || resp.SelectedHash != HashSHA256 {
		return in.fail(newError(UnsupportedAlgorithm, "responder selected an algorithm we do not support", nil))
	}
	if len(resp.ConsumerNonce) != 32 {
		return in.fail(newError(MalformedMessage, "consumerNonce must be 32 bytes", nil))
	}

	secret, err := in.ephemeral.ECDH(resp.PublicKey)
	if err != nil {
		return in.fail(newError(InvalidPublicKey, "responder public key rejected by curve", err))
	}

	keys, err := keyschedule.Derive(secret, in.nonce, resp.ConsumerNonce)
	zeroBytes(secret)
	if err != nil {
		return in.fail(newError(LengthTooLarge, "key schedule derivation failed", err))
	}

	in.peerNonce = resp.ConsumerNonce
	in.peerPublicKey = resp.PublicKey
	in.keys = keys

	mac := initiatorConfirmationMac(in.keys.Confirmation[:], in.nonce, in.peerNonce, in.ephemeral.PublicBytes(), in.peerPublicKey)
	out := keyConfirmRequestWire{
		Type:            typeKeyConfirmRequest,
		SessionID:       in.sessionID,
		ConfirmationMac: mac,
	}
	in.phase = iPhaseAwaitingConfirm
	return Result{Outbound: marshal(out), Status: InProgress}
}

func (in *Initiator) handleConfirmation(raw []byte) Result {
	typ, err := wireType(raw)
	if err != nil {
		return in.fail(newError(MalformedMessage, "could not read type discriminator", err))
	}
	if typ != typeKeyConfirmation {
		return in.fail(newError(UnexpectedMessage, "expected key-confirmation, got "+typ, nil))
	}

	var conf keyConfirmationWire
	if err := json.Unmarshal(raw, &conf); err != nil {
		return in.fail(newError(MalformedMessage, "decode key-confirmation", err))
	}
	if !crypto.ConstantTimeEqual(conf.SessionID, in.sessionID) {
		return in.fail(newError(SessionIdMismatch, "key-confirmation sessionId does not match", nil))
	}
	if !crypto.ConstantTimeEqual(conf.PublicKey, in.peerPublicKey) {
		return in.fail(newError(SessionIdMismatch, "key-confirmation echoed a different responder public key", nil))
	}

	expected := responderConfirmationMac(in.keys.Confirmation[:], in.nonce, in.peerNonce, in.ephemeral.PublicBytes(), in.peerPublicKey)
	if !crypto.ConstantTimeEqual(conf.ConfirmationMac, expected) {
		return in.fail(newError(KeyConfirmationFailed, "responder confirmation MAC did not verify", nil))
	}

	in.phase = iPhaseConfirmed
	in.ephemeral.Destroy()
	zeroConfirmationKey(&in.keys)
	return Result{Status: Confirmed}
}

// DerivedKeys returns the session keys and true once Confirmed has been
// reached; otherwise it returns the zero value and false.
func (in *Initiator) DerivedKeys() (SessionKeys, bool) {
	if in.phase != iPhaseConfirmed {
		return SessionKeys{}, false
	}
	return sessionKeysFrom(in.keys), true
}

// SessionID returns the handshake's session id as lowercase hex.
func (in *Initiator) SessionID() string { return hex.EncodeToString(in.sessionID) }

// Confirmed reports whether the handshake reached the Confirmed phase.
func (in *Initiator) Confirmed() bool { return in.phase == iPhaseConfirmed }

// Failed reports whether the handshake reached the Failed phase.
func (in *Initiator) Failed() bool { return in.phase == iPhaseFailed }

// Destroy zeroizes everything sensitive and marks the handshake Failed,
// regardless of the phase it was in. Calling it more than once, or before a
// handshake concludes, is safe: DerivedKeys and Confirmed report as if the
// handshake had failed from this point on.
func (in *Initiator) Destroy() {
	if in.ephemeral != nil {
		in.ephemeral.Destroy()
	}
	memzeroConf(&in.keys)
	zeroBytes(in.nonce)
	in.phase = iPhaseFailed
}

func (in *Initiator) fail(e *HandshakeError) Result {
	in.phase = iPhaseFailed
	memzeroConf(&in.keys)
	return Result{Status: Failed, Err: e}
}
