package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingExecutorDefaultsToSuccess(t *testing.T) {
	r := NewRecordingExecutor()
	result := r.Execute(context.Background(), model.Target{}, Action{Command: "echo hi"})
	require.True(t, result.IsOk())
	val, _ := result.Get()
	assert.Equal(t, 0, val.ExitCode)
	require.Len(t, r.Calls, 1)
	assert.Equal(t, "echo hi", r.Calls[0].Action.Command)
}

func TestRecordingExecutorStubError(t *testing.T) {
	r := NewRecordingExecutor()
	r.StubError("exit 1", 1, errors.New("boom"))
	result := r.Execute(context.Background(), model.Target{}, Action{Command: "exit 1"})
	require.True(t, result.IsOk())
	val, _ := result.Get()
	assert.Equal(t, 1, val.ExitCode)
	assert.EqualError(t, val.Err, "boom")
	assert.False(t, val.Succeeded())
}
