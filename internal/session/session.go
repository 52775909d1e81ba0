package session

import (
	"fmt"
	"io"
	"log/slog"

	"subtylsocket/internal/channel"
	"subtylsocket/internal/handshake"
	"subtylsocket/internal/transport"
)

// Session is a confirmed handshake plus the AEAD channel it produced, bound
// to one connection. It performs blocking I/O directly on the wrapped
// io.ReadWriter; callers that want concurrency run a Session per goroutine.
type Session struct {
	framed    *transport.Framed
	ch        *channel.Channel
	sessionID string
	log       *slog.Logger
}

// DialInitiator runs the handshake as the initiating peer over conn and
// returns a ready Session once both confirmation MACs have verified.
func DialInitiator(conn io.ReadWriter, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	framed := transport.New(conn)

	peer, err := handshake.NewInitiator()
	if err != nil {
		return nil, fmt.Errorf("session: new initiator: %w", err)
	}

	res := peer.Start()
	log.Info("handshake started", "role", "initiator")
	for {
		if res.Outbound != nil {
			if err := framed.WriteFrame(res.Outbound); err != nil {
				peer.Destroy()
				return nil, fmt.Errorf("session: write frame: %w", err)
			}
		}
		switch res.Status {
		case handshake.Confirmed:
			return finishInitiator(peer, framed, log)
		case handshake.Failed:
			log.Warn("handshake failed", "role", "initiator", "kind", res.Err.Kind.String())
			peer.Destroy()
			return nil, res.Err
		}

		inbound, err := framed.ReadFrame()
		if err != nil {
			peer.Destroy()
			return nil, fmt.Errorf("session: read frame: %w", err)
		}
		res = peer.Handle(inbound)
	}
}

func finishInitiator(peer *handshake.Initiator, framed *transport.Framed, log *slog.Logger) (*Session, error) {
	keys, ok := peer.DerivedKeys()
	if !ok {
		peer.Destroy()
		return nil, fmt.Errorf("session: confirmed but no derived keys")
	}
	sessionID := peer.SessionID()
	ch := channel.New(keys.Encryption)
	keys.Destroy()
	peer.Destroy()
	log.Info("handshake confirmed", "role", "initiator", "sessionId", sessionID)
	return &Session{framed: framed, ch: ch, sessionID: sessionID, log: log}, nil
}

// AcceptResponder runs the handshake as the responding peer over conn,
// blocking on the first inbound frame, and returns a ready Session once the
// initiator's confirmation MAC has verified and KEY_CONFIRMATION has been
// written. It does not wait to learn whether the initiator accepted that
// confirmation.
func AcceptResponder(conn io.ReadWriter, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	framed := transport.New(conn)

	peer, err := handshake.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("session: new responder: %w", err)
	}

	log.Info("handshake waiting", "role", "responder")
	for {
		inbound, err := framed.ReadFrame()
		if err != nil {
			peer.Destroy()
			return nil, fmt.Errorf("session: read frame: %w", err)
		}
		res := peer.Handle(inbound)
		if res.Outbound != nil {
			if err := framed.WriteFrame(res.Outbound); err != nil {
				peer.Destroy()
				return nil, fmt.Errorf("session: write frame: %w", err)
			}
		}
		switch res.Status {
		case handshake.Confirmed:
			return finishResponder(peer, framed, log)
		case handshake.Failed:
			log.Warn("handshake failed", "role", "responder", "kind", res.Err.Kind.String())
			peer.Destroy()
			return nil, res.Err
		}
	}
}

func finishResponder(peer *handshake.Responder, framed *transport.Framed, log *slog.Logger) (*Session, error) {
	keys, ok := peer.DerivedKeys()
	if !ok {
		peer.Destroy()
		return nil, fmt.Errorf("session: confirmed but no derived keys")
	}
	sessionID := peer.SessionID()
	ch := channel.New(keys.Encryption)
	keys.Destroy()
	peer.Destroy()
	log.Info("handshake confirmed", "role", "responder", "sessionId", sessionID)
	return &Session{framed: framed, ch: ch, sessionID: sessionID, log: log}, nil
}

// Send seals plaintext and writes it as a framed envelope.
func (s *Session) Send(plaintext []byte) error {
	env, err := s.ch.Encrypt(plaintext, nil)
	if err != nil {
		return fmt.Errorf("session: encrypt: %w", err)
	}
	return s.framed.WriteFrame(env)
}

// Receive reads one framed envelope and opens it.
func (s *Session) Receive() ([]byte, error) {
	raw, err := s.framed.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("session: read frame: %w", err)
	}
	plaintext, err := s.ch.Decrypt(raw, nil)
	if err != nil {
		s.log.Warn("envelope failed to decrypt", "sessionId", s.sessionID)
		return nil, err
	}
	return plaintext, nil
}

// SessionID returns the confirmed handshake's session id as lowercase hex.
func (s *Session) SessionID() string { return s.sessionID }

// Fingerprint returns a short hex fingerprint of the session's encryption
// key, for operator-facing debug output. It never exposes the key itself.
func (s *Session) Fingerprint() string { return s.ch.Fingerprint() }

// Close zeroizes the channel key. It does not close the underlying
// connection — callers that passed in a net.Conn own its lifecycle.
func (s *Session) Close() {
	s.ch.Destroy()
}
