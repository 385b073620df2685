package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcTask struct {
	name string
	run  func(ctx context.Context) error
}

func (t funcTask) Run(ctx context.Context) error { return t.run(ctx) }
func (t funcTask) Name() string                  { return t.name }

func blockUntilDone(stopped *atomic.Bool) funcTask {
	return funcTask{name: "blocking", run: func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Store(true)
		return ctx.Err()
	}}
}

func TestRunAll_FinishedTaskStopsOthers(t *testing.T) {
	var stopped atomic.Bool
	done := funcTask{name: "done", run: func(ctx context.Context) error {
		return nil
	}}

	err := RunAll(context.Background(), done, blockUntilDone(&stopped))
	require.NoError(t, err)
	assert.True(t, stopped.Load())
}

func TestRunAll_ErrorPropagates(t *testing.T) {
	var stopped atomic.Bool
	boom := errors.New("boom")
	failing := funcTask{name: "failing", run: func(ctx context.Context) error {
		return boom
	}}

	err := RunAll(context.Background(), failing, blockUntilDone(&stopped))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.True(t, stopped.Load())
}

func TestRunAll_ParentCancel(t *testing.T) {
	var a, b atomic.Bool
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := RunAll(ctx, blockUntilDone(&a), blockUntilDone(&b))
	require.NoError(t, err)
	assert.True(t, a.Load())
	assert.True(t, b.Load())
}
