package main

import (
	"os"

	"github.com/gnoverse/papagaio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
