// Package converge wires the converge operation driver into a cobra
// subcommand, the way the teacher's pkg/cmd/ls wires brevapi calls into
// one: parse flags, load the fleet file, confirm destructive intent,
// delegate to the engine, print results via pkg/terminal.
package converge

import (
	"context"
	"fmt"

	"github.com/fleetctl/fleetctl/pkg/cmd/cmdutil"
	"github.com/fleetctl/fleetctl/pkg/cmd/fleetfile"
	"github.com/fleetctl/fleetctl/pkg/environment"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/operation"
	"github.com/fleetctl/fleetctl/pkg/terminal"
	"github.com/spf13/cobra"
)

func NewCmdConverge(t *terminal.Terminal) *cobra.Command {
	var envPath string
	var yes bool
	var async bool

	cmd := &cobra.Command{
		Use:   "converge <fleet-file>",
		Short: "Reconcile a live fleet against its declared group specs",
		Long: `
Converge reads group declarations from a fleet file, diffs them against
the live compute provider, creates or destroys nodes to close the gap,
then runs the settings/bootstrap phases against the result.`,
		Example: `
  fleetctl converge fleet.yaml
  fleetctl converge fleet.yaml --environment prod.yaml --yes
		`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConverge(t, args[0], envPath, yes, async)
		},
	}

	cmd.Flags().StringVarP(&envPath, "environment", "e", "", "environment overlay file")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the destructive-change confirmation prompt")
	cmd.Flags().BoolVar(&async, "async", false, "return immediately with an operation id instead of blocking")

	return cmd
}

func runConverge(t *terminal.Terminal, fleetFilePath, envPath string, yes, async bool) error {
	cfg, err := fleetfile.Load(fleetFilePath)
	if err != nil {
		return fleeterrors.WrapAndTrace(err)
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

	if !yes {
		summary := fmt.Sprintf("converge will reconcile %d group(s) against the live fleet, possibly creating or destroying nodes.", len(cfg.Groups))
		if !terminal.ConfirmDestructive(t, summary) {
			t.Print("aborted")
			return nil
		}
	}

	opts := operation.Options{
		Compute:     provider,
		Executor:    exec,
		User:        execUser,
		Environment: envOverlay,
		Async:       async,
	}

	ctx := context.Background()
	if async {
		op := operation.ConvergeAsync(ctx, cfg.Groups, nil, opts)
		t.Printf("operation %s started\n", op.ID)
		return nil
	}

	result, err := operation.Converge(ctx, cfg.Groups, nil, opts)
	printResult(t, result)
	if err != nil {
		return fleeterrors.WrapAndTrace(err)
	}
	return nil
}

func printResult(t *terminal.Terminal, result operation.Result) {
	t.Printf(t.Green("targets: %d, destroyed: %d\n"), len(result.Targets), len(result.OldNodeIDs))
	for _, r := range result.Results {
		if r.Failed() {
			t.Eprint(t.Red(fmt.Sprintf("target %s: phase failed", r.Target.ID())))
		}
	}
}
