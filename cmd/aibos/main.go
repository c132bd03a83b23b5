package main

import (
	"os"

	"github.com/aibos-dev/aibos/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
