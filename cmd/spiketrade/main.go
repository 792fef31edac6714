package main

import (
	"os"

	"github.com/spiketrade/spiketrade/cmd/spiketrade/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
