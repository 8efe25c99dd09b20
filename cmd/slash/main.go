// Package main is the entry point for the slash server.
package main

import (
	"os"

	"github.com/donaldgifford/slash/cmd/slash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
