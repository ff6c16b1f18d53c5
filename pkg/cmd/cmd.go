// Package cmd is the entrypoint to the fleetctl CLI.
package cmd

import (
	"io"
	"os"

	"github.com/fleetctl/fleetctl/pkg/cmd/converge"
	"github.com/fleetctl/fleetctl/pkg/cmd/lift"
	"github.com/fleetctl/fleetctl/pkg/cmd/watch"
	"github.com/fleetctl/fleetctl/pkg/terminal"
	"github.com/spf13/cobra"
)

func NewDefaultFleetctlCommand() *cobra.Command {
	cmd := NewFleetctlCommand(os.Stdin, os.Stdout, os.Stderr)
	return cmd
}

func NewFleetctlCommand(_ io.Reader, _ io.Writer, _ io.Writer) *cobra.Command {
	t := terminal.New()

	cmds := &cobra.Command{
		Use:   "fleetctl",
		Short: "declarative node-fleet orchestrator",
		Long: `
      fleetctl reconciles a live fleet of nodes against declared group
      specs: create or destroy nodes to close the gap, then run phases
      against the result.`,
		Run: runHelp,
	}

	cmds.AddCommand(converge.NewCmdConverge(t))
	cmds.AddCommand(lift.NewCmdLift(t))
	cmds.AddCommand(watch.NewCmdWatch(t))

	return cmds
}

func runHelp(cmd *cobra.Command, _ []string) {
	_ = cmd.Help()
}
