package main

import (
	"os"

	"subtylsocket/cmd/subtylsocket/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
