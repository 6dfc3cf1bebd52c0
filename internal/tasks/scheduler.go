package tasks

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	"backoffice/internal/config"
	"backoffice/internal/utils/logger"
)

// Cron specs for the periodic maintenance tasks.
const (
	scheduleAuditPurge   = "0 3 * * *"  // daily at 03:00
	scheduleSessionPrune = "30 3 * * *" // daily at 03:30
)

// Scheduler enqueues the periodic maintenance tasks.
type Scheduler struct {
	scheduler *asynq.Scheduler
	logger    *logger.Logger
}

// NewScheduler creates a new task scheduler.
func NewScheduler(cfg config.RedisConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		&asynq.SchedulerOpts{},
	)
	return &Scheduler{
		scheduler: scheduler,
		logger:    logger.New("SCHEDULER"),
	}
}

// Start registers the periodic tasks and runs the scheduler. Blocks until
// Stop is called.
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}
	s.logger.Info("starting task scheduler")
	return s.scheduler.Run()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}

// registerTasks registers all periodic tasks.
func (s *Scheduler) registerTasks() error {
	entries := []struct {
		spec     string
		taskType string
		opts     []asynq.Option
	}{
		{scheduleAuditPurge, TaskTypeAuditPurge, []asynq.Option{
			asynq.Queue(QueueLow),
			asynq.MaxRetry(RetryDefault),
			asynq.Timeout(TimeoutMedium),
		}},
		{scheduleSessionPrune, TaskTypeSessionPrune, []asynq.Option{
			asynq.Queue(QueueLow),
			asynq.MaxRetry(RetryDefault),
			asynq.Timeout(TimeoutShort),
		}},
	}

	for _, entry := range entries {
		// Validate up front so a bad spec fails at startup, not silently.
		if _, err := cron.ParseStandard(entry.spec); err != nil {
			return fmt.Errorf("invalid cron spec %q for %s: %w", entry.spec, entry.taskType, err)
		}
		entryID, err := s.scheduler.Register(entry.spec, asynq.NewTask(entry.taskType, nil), entry.opts...)
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", entry.taskType, err)
		}
		s.logger.Info("registered periodic task %s %s %s", entry.taskType, entry.spec, entryID)
	}
	return nil
}
