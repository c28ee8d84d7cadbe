package main

import (
	"os"

	"github.com/kyleseneker/matomo-contract/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
