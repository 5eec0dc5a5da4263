package main

import (
	"os"

	"github.com/RassulYunussov/tinderclient/cmd/tinderctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
