// Package commands wires the subtylsocket CLI: one cobra.Command factory
// per subcommand, a shared package-level logger set up in a
// PersistentPreRunE, following the layout ciphera uses for its own CLI.
package commands
