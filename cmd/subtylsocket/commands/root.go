package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

// Execute builds and runs the subtylsocket root command.
func Execute() error {
	root := &cobra.Command{
		Use:   "subtylsocket",
		Short: "Authenticated key-agreement handshake and AEAD channel over TCP",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(listenCmd(), dialCmd(), benchCmd(), fingerprintCmd())
	return root.Execute()
}
