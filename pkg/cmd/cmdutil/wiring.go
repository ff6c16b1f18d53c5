// Package cmdutil holds the compute-provider/executor wiring shared by
// the converge, lift, and watch subcommands, the way the teacher's
// cmdcontext package centralizes cross-command setup.
package cmdutil

import (
	"os/user"

	"github.com/fleetctl/fleetctl/pkg/cmd/fleetfile"
	"github.com/fleetctl/fleetctl/pkg/compute"
	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/executor"
)

// BuildProvider returns the HTTP compute provider when a fleet file
// names one, or the in-memory fake for a dry run against no real
// backend (spec.md §6 Non-goals: "no concrete compute provider beyond a
// reference HTTP provider and an in-memory fake").
func BuildProvider(cfg fleetfile.Config) compute.Provider {
	if cfg.Compute.URL == "" {
		return compute.NewFakeProvider()
	}
	return compute.NewHTTPProvider(cfg.Compute.URL, cfg.Compute.Token)
}

// BuildExecutor returns a local-shell executor when the fleet file asks
// for one, otherwise an SSH executor for the named user, falling back to
// the current OS user.
func BuildExecutor(cfg fleetfile.Config) (executor.Executor, error) {
	if cfg.Executor.Local {
		return executor.LocalExecutor{}, nil
	}
	execUser := cfg.Executor.User
	if execUser == "" {
		u, err := user.Current()
		if err != nil {
			return nil, fleeterrors.NewValidationError("resolving current user for ssh executor: " + err.Error())
		}
		execUser = u.Username
	}
	return executor.NewSSHExecutor(execUser), nil
}

// ExecutorUser returns the effective user name the session's Options.User
// field should carry — the same resolution BuildExecutor applies, needed
// separately since options.User is a plain string, not an executor.
func ExecutorUser(cfg fleetfile.Config) (string, error) {
	if cfg.Executor.User != "" {
		return cfg.Executor.User, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", fleeterrors.NewValidationError("resolving current user: " + err.Error())
	}
	return u.Username, nil
}
