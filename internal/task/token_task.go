// Package task runs shopdesk's scheduled jobs.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shashiranjanraj/shopdesk/pkg/logger"
)

// Pruner deletes expired access tokens and reports how many went.
type Pruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// TokenTask prunes expired access tokens on a cron schedule.
type TokenTask struct {
	pruner   Pruner
	schedule string
	cron     *cron.Cron
	timeout  time.Duration
}

// NewTokenTask takes a six-field (seconds first) cron expression.
func NewTokenTask(pruner Pruner, schedule string) *TokenTask {
	return &TokenTask{
		pruner:   pruner,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		timeout:  time.Minute,
	}
}

// Start registers the job and starts the scheduler.
func (t *TokenTask) Start() error {
	if _, err := t.cron.AddFunc(t.schedule, t.Run); err != nil {
		return fmt.Errorf("task: schedule token prune %q: %w", t.schedule, err)
	}
	t.cron.Start()
	logger.Info("task: token prune scheduled", "schedule", t.schedule)
	return nil
}

// Run prunes once.
func (t *TokenTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	n, err := t.pruner.PruneExpired(ctx)
	if err != nil {
		logger.Error("task: token prune failed", "error", err)
		return
	}
	logger.Info("task: tokens pruned", "count", n)
}

// Stop halts the scheduler and waits for a running prune to finish.
func (t *TokenTask) Stop() {
	<-t.cron.Stop().Done()
}
