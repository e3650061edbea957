package main

import (
	"os"

	"github.com/gwalsh/redsift/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
