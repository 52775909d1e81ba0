package commands

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"subtylsocket/internal/session"
)

// listen --addr: accept one connection, run the responder side of the
// handshake, then echo every decrypted message back encrypted.
func listenCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Accept one connection and run the responder side of the handshake",
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			defer ln.Close()
			logger.Info("listening", "addr", addr)

			conn, err := ln.Accept()
			if err != nil {
				return fmt.Errorf("accept: %w", err)
			}
			defer conn.Close()
			logger.Info("accepted connection", "remote", conn.RemoteAddr())

			sess, err := session.AcceptResponder(conn, logger)
			if err != nil {
				return fmt.Errorf("handshake: %w", err)
			}
			defer sess.Close()
			fmt.Println("confirmed session", sess.SessionID())

			for {
				plaintext, err := sess.Receive()
				if err != nil {
					return fmt.Errorf("receive: %w", err)
				}
				fmt.Println(string(plaintext))
				if err := sess.Send(plaintext); err != nil {
					return fmt.Errorf("send: %w", err)
				}
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9443", "address to listen on")
	return cmd
}
