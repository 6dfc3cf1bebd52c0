package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"backoffice/internal/config"
	"backoffice/internal/utils/logger"
)

// TaskClient enqueues background work.
type TaskClient struct {
	client *asynq.Client
	logger *logger.Logger
}

// NewTaskClient creates a client against the configured redis.
func NewTaskClient(cfg config.RedisConfig) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	return &TaskClient{
		client: asynq.NewClient(redisOpt),
		logger: logger.New("TASKS"),
	}
}

// Enqueue submits a task for processing.
func (c *TaskClient) Enqueue(ctx context.Context, taskType string, payload []byte, opts ...asynq.Option) error {
	task := asynq.NewTask(taskType, payload, opts...)
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	c.logger.Info("enqueued task %s id=%s queue=%s", taskType, info.ID, info.Queue)
	return nil
}

// EnqueueAuditPurge submits an on-demand retention purge of soft-deleted
// audit entries, same task the nightly schedule runs.
func (c *TaskClient) EnqueueAuditPurge(ctx context.Context) error {
	return c.Enqueue(ctx, TaskTypeAuditPurge, nil,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutMedium),
	)
}

// Close closes the underlying asynq client.
func (c *TaskClient) Close() error {
	return c.client.Close()
}
