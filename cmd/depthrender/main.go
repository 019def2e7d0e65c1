package main

import (
	"os"

	"depthmap-renderer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
