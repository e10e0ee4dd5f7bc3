package main

import (
	"os"

	"github.com/rustyeddy/optrader/cmd/optrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
