package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type StaleTaskStore interface {
	ExpireStaleTasks(ctx context.Context, cutoff time.Time) (int64, error)
}

// ExpireStaleTasksJob cancels open tasks whose scheduled date has passed
// without a cleaner accepting them.
type ExpireStaleTasksJob struct {
	store  StaleTaskStore
	logger *zap.Logger
	now    func() time.Time
}

func NewExpireStaleTasksJob(store StaleTaskStore, logger *zap.Logger) *ExpireStaleTasksJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpireStaleTasksJob{store: store, logger: logger, now: time.Now}
}

func (j *ExpireStaleTasksJob) Name() string       { return "expire-stale-tasks" }
func (j *ExpireStaleTasksJob) Schedule() Schedule { return Hourly }

func (j *ExpireStaleTasksJob) Execute(ctx context.Context) error {
	cutoff := j.now().UTC().Truncate(24 * time.Hour)
	n, err := j.store.ExpireStaleTasks(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("expire stale tasks: %w", err)
	}
	if n > 0 {
		j.logger.Info("expired stale tasks", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return nil
}
