// Package main is the entry point for the slashctl CLI client.
package main

import (
	"github.com/donaldgifford/slash/cmd/slashctl/cmd"
)

func main() {
	cmd.Execute()
}
