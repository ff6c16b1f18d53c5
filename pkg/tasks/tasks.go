// Package tasks runs recurring or one-shot jobs, optionally detached as a
// daemon. The `watch` subcommand wraps a Converge operation in a Task and
// drives it on a cron schedule through RunTasks/RunTaskAsDaemon.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/fleetctl/fleetctl/pkg/config"
	cron "github.com/robfig/cron/v3"
	"github.com/sevlyar/go-daemon"

	wraperrors "github.com/fleetctl/fleetctl/pkg/errors"
)

func RunTaskAsDaemon(tasks []Task) error {
	home := config.GlobalConfig.GetHomeDir()
	if err := os.MkdirAll(home, 0o755); err != nil {
		return wraperrors.WrapAndTrace(err)
	}
	pidFile := fmt.Sprintf("%s/task_daemon.pid", home)
	logFile := fmt.Sprintf("%s/task_daemon.log", home)
	cntxt := &daemon.Context{
		PidFileName: pidFile,
		PidFilePerm: 0o644,
		LogFileName: logFile,
		LogFilePerm: 0o640,
		WorkDir:     home,
		Umask:       0o27,
		Args:        []string{},
	}

	fmt.Printf("PID File: %s\n", pidFile)
	fmt.Printf("Log File: %s\n", logFile)

	d, err := cntxt.Reborn()
	if err != nil {
		if errors.Is(err, daemon.ErrWouldBlock) {
			log.Print("daemon already running")
			return nil
		}
		return wraperrors.WrapAndTrace(err)
	}
	if d != nil {
		return nil
	}

	log.Print("- - - - - - - - - - - - - - -")
	log.Print("daemon started")

	if err := RunTasks(tasks); err != nil {
		return wraperrors.WrapAndTrace(err)
	}

	if err := cntxt.Release(); err != nil {
		return wraperrors.WrapAndTrace(err)
	}
	return nil
}

func RunTasks(tasks []Task) error {
	d := NewTaskRunner(tasks)
	if err := d.Run(); err != nil {
		return wraperrors.WrapAndTrace(err)
	}
	return nil
}

// Task is one reconciliation job; Configure receives the user driving the
// cron/daemon process (used to resolve SSH identity, not as a plan-state
// value).
type Task interface {
	Run() error
	Configure(*user.User) error
	GetTaskSpec() TaskSpec
}

type TaskSpec struct {
	Cron               string // "" means run once
	RunCronImmediately bool
}

type TaskRunner struct {
	Tasks       []Task
	StopSignals chan os.Signal
}

func NewTaskRunner(tasks []Task) *TaskRunner {
	return &TaskRunner{
		Tasks:       tasks,
		StopSignals: make(chan os.Signal, 1),
	}
}

func LogErr(f func() error) func() {
	return func() {
		if err := f(); err != nil {
			log.Print(err)
		}
	}
}

func (tr TaskRunner) Run() error {
	c := cron.New()
	for _, t := range tr.Tasks {
		spec := t.GetTaskSpec()
		if spec.Cron != "" {
			e, err := c.AddFunc(spec.Cron, LogErr(t.Run))
			if err != nil {
				return wraperrors.WrapAndTrace(err)
			}
			if spec.RunCronImmediately {
				c.Entry(e).Job.Run()
			}
		} else {
			e, err := c.AddFunc("@yearly", LogErr(t.Run))
			if err != nil {
				return wraperrors.WrapAndTrace(err)
			}
			c.Entry(e).Job.Run()
			c.Remove(e)
		}
	}

	c.Start()

	tr.WaitTillSignal(c.Stop)
	log.Print("stopped")

	return nil
}

func (tr TaskRunner) WaitTillSignal(ctxfn func() context.Context) {
	signal.Notify(tr.StopSignals, syscall.SIGQUIT)
	signal.Notify(tr.StopSignals, syscall.SIGTERM)
	signal.Notify(tr.StopSignals, syscall.SIGHUP)
	signal.Notify(tr.StopSignals, syscall.SIGINT)

	defer signal.Stop(tr.StopSignals)
	<-tr.StopSignals
	log.Print("stopping")
	<-ctxfn().Done()
}

func (tr *TaskRunner) SendStop() {
	tr.StopSignals <- syscall.SIGQUIT
}
