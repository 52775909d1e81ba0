package commands

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"subtylsocket/internal/session"
)

// dial --addr: connect, run the initiator side of the handshake, then send
// every line read from stdin as a plaintext message and print replies.
func dialCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "dial",
		Short: "Connect and run the initiator side of the handshake",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return fmt.Errorf("dial: %w", err)
			}
			defer conn.Close()

			sess, err := session.DialInitiator(conn, logger)
			if err != nil {
				return fmt.Errorf("handshake: %w", err)
			}
			defer sess.Close()
			fmt.Println("confirmed session", sess.SessionID())

			replies := make(chan error, 1)
			go func() {
				for {
					plaintext, err := sess.Receive()
					if err != nil {
						replies <- err
						return
					}
					fmt.Println(string(plaintext))
				}
			}()

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if err := sess.Send(scanner.Bytes()); err != nil {
					return fmt.Errorf("send: %w", err)
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:9443", "address to connect to")
	return cmd
}
