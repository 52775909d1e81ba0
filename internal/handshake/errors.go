package handshake

import "fmt"

// ErrorKind is the closed set of ways a handshake can fail. Callers should
// switch on Kind rather than compare error strings.
type ErrorKind int

const (
	// MalformedMessage means the bytes handed to Handle did not parse as
	// JSON, or parsed but were missing a required field.
	MalformedMessage ErrorKind = iota
	// UnexpectedMessage means the message's type was well-formed but not
	// valid in the peer's current state.
	UnexpectedMessage
	// UnsupportedVersion means HANDSHAKE_INIT named a protocol version this
	// implementation does not speak.
	UnsupportedVersion
	// UnsupportedAlgorithm means neither peer's offered cipher/hash sets
	// had anything in common.
	UnsupportedAlgorithm
	// SessionIdMismatch means a later message echoed a sessionId or
	// publicKey that does not match what this peer recorded earlier in the
	// handshake.
	SessionIdMismatch
	// InvalidPublicKey means a peer's EC point was rejected by the curve.
	InvalidPublicKey
	// KeyConfirmationFailed means a confirmation MAC did not verify.
	KeyConfirmationFailed
	// LengthTooLarge means an HKDF expansion was asked for more output
	// than RFC 5869 allows.
	LengthTooLarge
	// InsufficientEntropy means the CSPRNG sanity check rejected a draw.
	InsufficientEntropy
	// AeadTagMismatch means an AES-256-GCM open failed authentication.
	AeadTagMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedMessage:
		return "MalformedMessage"
	case UnexpectedMessage:
		return "UnexpectedMessage"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case UnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case SessionIdMismatch:
		return "SessionIdMismatch"
	case InvalidPublicKey:
		return "InvalidPublicKey"
	case KeyConfirmationFailed:
		return "KeyConfirmationFailed"
	case LengthTooLarge:
		return "LengthTooLarge"
	case InsufficientEntropy:
		return "InsufficientEntropy"
	case AeadTagMismatch:
		return "AeadTagMismatch"
	default:
		return "Unknown"
	}
}

// HandshakeError wraps an ErrorKind with the underlying cause, if any, so
// callers can use errors.As to recover the Kind while still seeing a useful
// Error() string and an unbroken errors.Is/Unwrap chain.
type HandshakeError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *HandshakeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("handshake: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("handshake: %s: %s", e.Kind, e.Msg)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string, cause error) *HandshakeError {
	return &HandshakeError{Kind: kind, Msg: msg, Err: cause}
}
