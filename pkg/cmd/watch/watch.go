// Package watch drives periodic reconciliation: wrap a Converge call in
// a tasks.Task and run it on a cron schedule, optionally detached as a
// daemon, the way the teacher's ssh.SSHConfigurerTask wraps ConfigUpdater
// for tasks.RunTasks.
package watch

import (
	"context"
	"os/user"

	"github.com/fleetctl/fleetctl/pkg/cmd/cmdutil"
	"github.com/fleetctl/fleetctl/pkg/cmd/fleetfile"
	"github.com/fleetctl/fleetctl/pkg/compute"
	"github.com/fleetctl/fleetctl/pkg/environment"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/executor"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/operation"
	"github.com/fleetctl/fleetctl/pkg/spec"
	"github.com/fleetctl/fleetctl/pkg/tasks"
	"github.com/fleetctl/fleetctl/pkg/terminal"
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

// convergeTask adapts operation.Converge into a tasks.Task so it can be
// driven by tasks.RunTasks' cron scheduler.
type convergeTask struct {
	groups   []model.GroupSpec
	provider compute.Provider
	exec     executor.Executor
	env      spec.Environment
	cronSpec string
	user     string
}

var _ tasks.Task = &convergeTask{}

func (c *convergeTask) Configure(u *user.User) error {
	if c.user == "" {
		c.user = u.Username
	}
	return nil
}

func (c *convergeTask) GetTaskSpec() tasks.TaskSpec {
	return tasks.TaskSpec{Cron: c.cronSpec, RunCronImmediately: true}
}

func (c *convergeTask) Run() error {
	opts := operation.Options{
		Compute:     c.provider,
		Executor:    c.exec,
		User:        c.user,
		Environment: c.env,
	}
	result, err := operation.Converge(context.Background(), c.groups, nil, opts)
	log.WithFields(log.Fields{
		"targets":   len(result.Targets),
		"destroyed": len(result.OldNodeIDs),
	}).Info("watch: converge iteration complete")
	return err
}

func NewCmdWatch(t *terminal.Terminal) *cobra.Command {
	var envPath string
	var cronSpec string
	var daemonize bool

	cmd := &cobra.Command{
		Use:   "watch <fleet-file>",
		Short: "Continuously reconcile a fleet on a cron schedule",
		Long: `
Watch runs converge once immediately, then again on the given cron
schedule until interrupted, optionally detached as a daemon.`,
		Example: `
  fleetctl watch fleet.yaml --cron "@every 5m"
  fleetctl watch fleet.yaml --cron "@every 5m" --daemon
		`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runWatch(t, args[0], envPath, cronSpec, daemonize)
		},
	}

	cmd.Flags().StringVarP(&envPath, "environment", "e", "", "environment overlay file")
	cmd.Flags().StringVar(&cronSpec, "cron", "@every 5m", "cron schedule to re-converge on")
	cmd.Flags().BoolVar(&daemonize, "daemon", false, "detach and run as a background daemon")

	return cmd
}

func runWatch(t *terminal.Terminal, fleetFilePath, envPath, cronSpec string, daemonize bool) error {
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

	task := &convergeTask{
		groups:   cfg.Groups,
		provider: provider,
		exec:     exec,
		env:      envOverlay,
		cronSpec: cronSpec,
		user:     execUser,
	}

	t.Printf("watching %d group(s) on schedule %q\n", len(cfg.Groups), cronSpec)

	if daemonize {
		if err := tasks.RunTaskAsDaemon([]tasks.Task{task}); err != nil {
			return fleeterrors.WrapAndTrace(err)
		}
		return nil
	}
	if err := tasks.RunTasks([]tasks.Task{task}); err != nil {
		return fleeterrors.WrapAndTrace(err)
	}
	return nil
}
