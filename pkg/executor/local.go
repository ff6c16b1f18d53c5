package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/samber/mo"
)

// LocalExecutor runs actions as subprocesses on the machine driving the
// operation, for targets whose phases are meant to run locally rather
// than over SSH (e.g. a `:create-group` phase with no node yet).
type LocalExecutor struct{}

var _ Executor = LocalExecutor{}

func (LocalExecutor) Execute(ctx context.Context, _ model.Target, action Action) mo.Result[model.ActionResult] {
	cmd := exec.CommandContext(ctx, "sh", "-c", action.Command) //nolint:gosec // plan-declared command
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()

	result := model.ActionResult{Action: action.Command, Output: strings.TrimSpace(out.String())}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		result.Err = fmt.Errorf("action %q exited %d", action.Command, result.ExitCode)
		return mo.Ok(result)
	}
	if err != nil {
		return mo.Err[model.ActionResult](err)
	}
	return mo.Ok(result)
}
