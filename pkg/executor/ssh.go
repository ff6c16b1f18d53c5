package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/kevinburke/ssh_config"
	"github.com/samber/mo"
)

// SSHExecutor dispatches actions over SSH using the user's own
// ~/.ssh/config, read with kevinburke/ssh_config the way the teacher's
// pkg/ssh reads host aliases, and shells out to the system `ssh` binary
// rather than embedding a client — the teacher does the same for `brev
// open`/`brev shell`.
type SSHExecutor struct {
	User       string
	ConfigPath string
}

var _ Executor = (*SSHExecutor)(nil)

func NewSSHExecutor(user string) *SSHExecutor {
	home, _ := os.UserHomeDir()
	return &SSHExecutor{User: user, ConfigPath: filepath.Join(home, ".ssh", "config")}
}

func (e *SSHExecutor) hostAlias(t model.Target) string {
	if t.Node == nil {
		return ""
	}
	return t.Node.BaseName()
}

// resolveHost looks the target's host alias up in the ssh_config file,
// falling back to the node's own primary IP when the alias isn't
// configured — mirrors the teacher's "not every host is a brev host"
// fallback in pkg/ssh.
func (e *SSHExecutor) resolveHost(t model.Target) string {
	alias := e.hostAlias(t)
	f, err := os.Open(e.ConfigPath) //nolint:gosec // path is user-controlled by design
	if err != nil {
		return fallbackHost(t)
	}
	defer f.Close()
	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return fallbackHost(t)
	}
	host, err := cfg.Get(alias, "HostName")
	if err != nil || host == "" {
		return fallbackHost(t)
	}
	return host
}

func fallbackHost(t model.Target) string {
	if t.Node != nil {
		return t.Node.PrimaryIP()
	}
	return ""
}

func (e *SSHExecutor) Execute(ctx context.Context, t model.Target, action Action) mo.Result[model.ActionResult] {
	host := e.resolveHost(t)
	if host == "" {
		return mo.Err[model.ActionResult](fmt.Errorf("no resolvable host for target %s", t.ID()))
	}

	command := action.Command
	if action.SudoUser != "" {
		command = "sudo -u " + shellescape.Quote(action.SudoUser) + " -- " + command
	}

	args := []string{fmt.Sprintf("%s@%s", e.User, host), shellescape.QuoteCommand([]string{"sh", "-c", command})}
	cmd := exec.CommandContext(ctx, "ssh", args...) //nolint:gosec // remote command is user-declared plan content

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := model.ActionResult{
		Action: action.Command,
		Output: strings.TrimSpace(stdout.String() + stderr.String()),
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		result.Err = fmt.Errorf("action %q exited %d: %s", action.Command, result.ExitCode, result.Output)
		return mo.Ok(result)
	}
	if err != nil {
		return mo.Err[model.ActionResult](err)
	}
	return mo.Ok(result)
}
