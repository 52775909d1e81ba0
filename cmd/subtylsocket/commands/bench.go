package commands

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"subtylsocket/internal/session"
)

// bench --addr --n --size: connect, run the handshake, then send n messages
// of size bytes through the AEAD channel, waiting for each one's echo before
// sending the next, and report round-trip throughput.
// It exists to give the framing and AEAD layers a repeatable load-bearing
// exercise against a real listener, not just the unit tests.
func benchCmd() *cobra.Command {
	var addr string
	var n int
	var size int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure channel throughput against a running listener",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return fmt.Errorf("dial: %w", err)
			}
			defer conn.Close()

			handshakeStart := time.Now()
			sess, err := session.DialInitiator(conn, logger)
			if err != nil {
				return fmt.Errorf("handshake: %w", err)
			}
			defer sess.Close()
			fmt.Printf("handshake confirmed in %s, session %s\n", time.Since(handshakeStart), sess.SessionID())

			payload := make([]byte, size)
			for i := range payload {
				payload[i] = byte(i)
			}

			start := time.Now()
			for i := 0; i < n; i++ {
				if err := sess.Send(payload); err != nil {
					return fmt.Errorf("send: %w", err)
				}
				if _, err := sess.Receive(); err != nil {
					return fmt.Errorf("receive: %w", err)
				}
			}
			elapsed := time.Since(start)

			totalBytes := int64(n) * int64(size)
			fmt.Printf("%d messages of %d bytes round-tripped in %s (%.0f msg/s, %.2f MiB/s)\n",
				n, size, elapsed,
				float64(n)/elapsed.Seconds(),
				float64(totalBytes)/elapsed.Seconds()/(1<<20))
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:9443", "address to connect to")
	cmd.Flags().IntVar(&n, "n", 100000, "number of messages to exchange")
	cmd.Flags().IntVar(&size, "size", 256, "size in bytes of each message")
	return cmd
}
