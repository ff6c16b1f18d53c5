package main

import (
	"os"

	"github.com/fleetctl/fleetctl/pkg/cmd"
)

func main() {
	command := cmd.NewDefaultFleetctlCommand()

	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
