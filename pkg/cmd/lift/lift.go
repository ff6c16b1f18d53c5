// Package lift wires the lift operation driver into a cobra subcommand:
// run a phase sequence against an explicit node set without touching
// node counts.
package lift

import (
	"context"
	"fmt"

	"github.com/fleetctl/fleetctl/pkg/cmd/cmdutil"
	"github.com/fleetctl/fleetctl/pkg/cmd/fleetfile"
	"github.com/fleetctl/fleetctl/pkg/compute"
	"github.com/fleetctl/fleetctl/pkg/config"
	"github.com/fleetctl/fleetctl/pkg/environment"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/node"
	"github.com/fleetctl/fleetctl/pkg/operation"
	"github.com/fleetctl/fleetctl/pkg/terminal"
	"github.com/spf13/cobra"
)

func NewCmdLift(t *terminal.Terminal) *cobra.Command {
	var envPath string
	var group string

	cmd := &cobra.Command{
		Use:   "lift <fleet-file>",
		Short: "Run settings/caller phases against a group's current nodes",
		Long: `
Lift runs the settings phase, then any caller-supplied phases, against
every live node matching the named group — without creating or
destroying anything.`,
		Example: `
  fleetctl lift fleet.yaml --group web
		`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runLift(t, args[0], group, envPath)
		},
	}

	cmd.Flags().StringVarP(&envPath, "environment", "e", "", "environment overlay file")
	cmd.Flags().StringVarP(&group, "group", "g", "", "group to lift (required)")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func runLift(t *terminal.Terminal, fleetFilePath, groupName, envPath string) error {
	cfg, err := fleetfile.Load(fleetFilePath)
	if err != nil {
		return fleeterrors.WrapAndTrace(err)
	}

	var target model.GroupSpec
	found := false
	for _, g := range cfg.Groups {
		if g.GroupName == groupName {
			target, found = g, true
			break
		}
	}
	if !found {
		return fleeterrors.NewValidationError("no such group in fleet file: " + groupName)
	}

	envOverlay, err := environment.Load(envPath)
	if err != nil {
		return fleeterrors.WrapAndTrace(err)
	}

	execUser, err := cmdutil.ExecutorUser(cfg)
	if err != nil {
		return fleeterrors.WrapAndTrace(err)
	}
	exec, err := cmdutil.BuildExecutor(cfg)
	if err != nil {
		return fleeterrors.WrapAndTrace(err)
	}
	provider := cmdutil.BuildProvider(cfg)

	nodes, err := liveNodesForGroup(provider, target)
	if err != nil {
		return fleeterrors.WrapAndTrace(err)
	}

	opts := operation.Options{
		Compute:     provider,
		Executor:    exec,
		User:        execUser,
		Environment: envOverlay,
	}

	result, err := operation.Lift(context.Background(), nodes, target, opts)
	t.Printf(t.Green("lifted %d target(s)\n"), len(result.Targets))
	if err != nil {
		return fleeterrors.WrapAndTrace(err)
	}
	return nil
}

func liveNodesForGroup(provider compute.Provider, group model.GroupSpec) ([]node.Node, error) {
	all, err := provider.Nodes(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	filter := model.DefaultNodeFilter(config.GlobalConfig.GetGroupNameTagKey(), group.GroupName)
	var out []node.Node
	for _, n := range all {
		if filter(n) {
			out = append(out, n)
		}
	}
	return out, nil
}
