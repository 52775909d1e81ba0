// Package transport carries handshake and channel wire messages over a
// byte stream. It knows nothing about the handshake or channel protocols —
// it frames and deframes opaque JSON payloads with a 4-byte big-endian
// length prefix so a reader can tell where one message ends and the next
// begins on a stream-oriented net.Conn.
package transport
