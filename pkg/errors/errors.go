// Package errors implements the taxonomy from spec.md §7: validation,
// provider, domain, plan-crash, aggregate, timeout and cancellation
// errors, plus stack-annotated wrapping and an error reporter.
package errors

import (
	"fmt"
	"runtime"
	"time"

	"github.com/fleetctl/fleetctl/pkg/config"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

// FleetError is satisfied by every error the engine raises directly; the
// Directive is surfaced by the CLI alongside Error().
type FleetError interface {
	Error() string
	Directive() string
}

type ErrorReporter interface {
	Setup() func()
	Flush()
	ReportMessage(string) string
	ReportError(error) string
	AddTag(key string, value string)
}

func GetDefaultErrorReporter() ErrorReporter {
	return SentryErrorReporter{}
}

type SentryErrorReporter struct{}

var _ ErrorReporter = SentryErrorReporter{}

func (s SentryErrorReporter) Setup() func() {
	dsn := config.GlobalConfig.GetSentryDSN()
	if dsn != "" {
		err := sentry.Init(sentry.ClientOptions{Dsn: dsn})
		if err != nil {
			fmt.Println(err)
		}
	}
	return func() {
		err := recover()
		if err != nil {
			sentry.CurrentHub().Recover(err)
			sentry.Flush(time.Second * 5)
			panic(err)
		}
		sentry.Flush(2 * time.Second)
	}
}

func (s SentryErrorReporter) Flush() {
	sentry.Flush(time.Second * 2)
}

func (s SentryErrorReporter) ReportMessage(msg string) string {
	event := sentry.CaptureMessage(msg)
	if event != nil {
		return string(*event)
	}
	return ""
}

func (s SentryErrorReporter) ReportError(e error) string {
	event := sentry.CaptureException(e)
	if event != nil {
		return string(*event)
	}
	return ""
}

func (s SentryErrorReporter) AddTag(key string, value string) {
	scope := sentry.CurrentHub().Scope()
	scope.SetTag(key, value)
}

// NoopErrorReporter is an ErrorReporter that does nothing and never makes
// a network call.
type NoopErrorReporter struct{}

var _ ErrorReporter = NoopErrorReporter{}

func (NoopErrorReporter) Setup() func()              { return func() {} }
func (NoopErrorReporter) Flush()                     {}
func (NoopErrorReporter) ReportMessage(string) string { return "" }
func (NoopErrorReporter) ReportError(error) string    { return "" }
func (NoopErrorReporter) AddTag(key, value string)    {}

// ValidationError — malformed group-spec / options; raised before any effect.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) ValidationError {
	return ValidationError{Message: message}
}

var _ error = ValidationError{}

func (v ValidationError) Error() string     { return v.Message }
func (v ValidationError) Directive() string { return "fix the group-spec or options and retry" }

// ProviderError — compute or executor failure; attached to the spec whose
// task raised it.
type ProviderError struct {
	GroupName string
	Cause     error
}

func NewProviderError(groupName string, cause error) ProviderError {
	return ProviderError{GroupName: groupName, Cause: cause}
}

func (p ProviderError) Error() string {
	return fmt.Sprintf("provider error for group %q: %s", p.GroupName, p.Cause)
}

func (p ProviderError) Directive() string { return "check the compute provider's health and credentials" }
func (p ProviderError) Unwrap() error     { return p.Cause }

// DomainError — a recognized plan failure (non-zero exit, condition
// unmet); attached to the action result, flow continues.
type DomainError struct {
	Action   string
	ExitCode int
	Message  string
}

func (d DomainError) Error() string {
	return fmt.Sprintf("action %q failed with exit code %d: %s", d.Action, d.ExitCode, d.Message)
}

func (d DomainError) Directive() string { return "inspect the action output for the underlying cause" }

// PlanCrashError — unexpected exception inside a plan function; carries
// the target's group name and the recovered cause and propagates up the
// phase. The partial results are returned next to it by the phase
// executor, not held inside it.
type PlanCrashError struct {
	TargetGroupName string
	Cause           error
}

func (p PlanCrashError) Error() string {
	return fmt.Sprintf("plan function crashed for target in group %q: %s", p.TargetGroupName, p.Cause)
}

func (p PlanCrashError) Directive() string { return "fix the plan function; this is not a domain-level failure" }
func (p PlanCrashError) Unwrap() error     { return p.Cause }

// AggregateError combines multiple child errors from a parallel fan-out
// while preserving causes (spec.md §7 "Aggregate error").
type AggregateError struct {
	*multiErrorAdapter
}

func NewAggregateError(errs ...error) *AggregateError {
	m := newMultiErrorAdapter()
	for _, e := range errs {
		if e != nil {
			m.Append(e)
		}
	}
	if m.Len() == 0 {
		return nil
	}
	return &AggregateError{m}
}

// CombineErrors is NewAggregateError with the nil-interface gotcha
// handled: callers that accumulate []error and return it as a plain
// `error` must not return a nil *AggregateError boxed in a non-nil
// interface.
func CombineErrors(errs ...error) error {
	agg := NewAggregateError(errs...)
	if agg == nil {
		return nil
	}
	return agg
}

func (a *AggregateError) Directive() string {
	return "see the wrapped errors for individual causes"
}

// TimeoutError — a dedicated error kind distinguishable from provider
// errors, returned when a synchronous wait exceeds timeout-ms.
type TimeoutError struct {
	TimeoutMS int
}

func (t TimeoutError) Error() string {
	return fmt.Sprintf("operation did not complete within %dms", t.TimeoutMS)
}

func (t TimeoutError) Directive() string { return "increase timeout-ms or poll the Operation handle" }

// CancellationError is what a cancelled Operation reports when it ends
// with an error, and what Operation.Await returns when the caller's own
// context ends first.
type CancellationError struct{}

func (CancellationError) Error() string     { return "operation was cancelled" }
func (CancellationError) Directive() string { return "the caller cancelled; no action needed" }

func WrapAndTrace(err error, messages ...string) error {
	if err == nil {
		return nil
	}
	message := ""
	for _, m := range messages {
		message += fmt.Sprintf(" %s", m)
	}
	return errors.Wrap(err, MakeErrorMessage(message))
}

func MakeErrorMessage(message string) string {
	_, fn, line, _ := runtime.Caller(2)
	return fmt.Sprintf("[error] %s:%d %s\n\t", fn, line, message)
}
