package main

import (
	"os"

	"github.com/nrfta/records-paging/cmd/recordctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
