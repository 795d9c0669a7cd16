package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPruner struct {
	calls atomic.Int32
	err   error
}

func (p *countingPruner) PruneExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return 3, p.err
}

func TestRunCallsPruner(t *testing.T) {
	p := &countingPruner{}
	task := NewTokenTask(p, "0 0 3 * * *")
	task.Run()
	p.err = errors.New("db gone")
	task.Run()
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	task := NewTokenTask(&countingPruner{}, "every tuesday")
	assert.Error(t, task.Start())
}

func TestStartAndStop(t *testing.T) {
	task := NewTokenTask(&countingPruner{}, "0 0 3 * * *")
	require.NoError(t, task.Start())
	assert.Len(t, task.cron.Entries(), 1)
	task.Stop()
}
