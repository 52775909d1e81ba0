package commands

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"subtylsocket/internal/session"
)

// fingerprint: run a full Initiator/Responder handshake in-process over a
// net.Pipe and print the confirmed session's key fingerprint. Useful for
// smoke-testing a build without standing up a listener and a dialer.
func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Run an in-process handshake and print the session key fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			initConn, respConn := net.Pipe()

			type result struct {
				sess *session.Session
				err  error
			}
			initCh := make(chan result, 1)
			respCh := make(chan result, 1)

			go func() {
				s, err := session.DialInitiator(initConn, logger)
				initCh <- result{s, err}
			}()
			go func() {
				s, err := session.AcceptResponder(respConn, logger)
				respCh <- result{s, err}
			}()

			initRes := <-initCh
			if initRes.err != nil {
				return fmt.Errorf("initiator handshake: %w", initRes.err)
			}
			respRes := <-respCh
			if respRes.err != nil {
				return fmt.Errorf("responder handshake: %w", respRes.err)
			}
			defer initRes.sess.Close()
			defer respRes.sess.Close()

			fmt.Printf("session %s\n", initRes.sess.SessionID())
			fmt.Printf("fingerprint: %s\n", initRes.sess.Fingerprint())
			return nil
		},
	}
	return cmd
}
