package transport

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single frame so a corrupt or hostile length prefix
// can't make a reader allocate an unbounded buffer.
const MaxFrameSize = 1 << 20 // 1 MiB

// ErrFrameTooLarge is returned by ReadFrame when a peer's length prefix
// exceeds MaxFrameSize, and wrapped by WriteFrame when a payload does.
var ErrFrameTooLarge = errors.New("transport: frame exceeds MaxFrameSize")

// Framed wraps an io.ReadWriter — typically a net.Conn — with length-prefixed
// framing. It is not safe for concurrent use by multiple goroutines on the
// same direction (two goroutines both calling Write, or both calling Read).
type Framed struct {
	rw io.ReadWriter
	r  *bufio.Reader
}

// New wraps rw for length-prefixed framing.
func New(rw io.ReadWriter) *Framed {
	return &Framed{rw: rw, r: bufio.NewReader(rw)}
}

// WriteFrame writes a 4-byte big-endian length prefix followed by payload.
func (f *Framed) WriteFrame(payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("transport: refusing to send %d-byte frame: %w", len(payload), ErrFrameTooLarge)
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := f.rw.Write(header[:]); err != nil {
		return fmt.Errorf("transport: write length prefix: %w", err)
	}
	if _, err := f.rw.Write(payload); err != nil {
		return fmt.Errorf("transport: write payload: %w", err)
	}
	return nil
}

// ReadFrame reads and returns one length-prefixed payload, blocking until a
// full frame is available or the underlying reader returns an error.
func (f *Framed) ReadFrame() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(f.r, header[:]); err != nil {
		return nil, fmt.Errorf("transport: read length prefix: %w", err)
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(f.r, payload); err != nil {
		return nil, fmt.Errorf("transport: read payload: %w", err)
	}
	return payload, nil
}
