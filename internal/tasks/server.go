package tasks

import (
	"fmt"

	"github.com/hibiken/asynq"

	"backoffice/internal/config"
	"backoffice/internal/utils/logger"
)

// Server processes background tasks.
type Server struct {
	server  *asynq.Server
	handler *TaskHandler
	logger  *logger.Logger
}

// NewServer creates a new task processing server.
func NewServer(cfg config.RedisConfig, handler *TaskHandler) *Server {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			StrictPriority: true,
		},
	)

	return &Server{
		server:  server,
		handler: handler,
		logger:  logger.New("TASK-SERVER"),
	}
}

// Start registers the handlers and begins processing.
func (s *Server) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeAuditPurge, s.handler.HandleAuditPurge)
	mux.HandleFunc(TaskTypeSessionPrune, s.handler.HandleSessionPrune)

	s.logger.Info("starting task processing server")
	if err := s.server.Start(mux); err != nil {
		return fmt.Errorf("failed to start task server: %w", err)
	}
	return nil
}

// Stop stops the task processing server.
func (s *Server) Stop() {
	s.server.Stop()
	s.logger.Info("task processing server stopped")
}

// Shutdown gracefully shuts down the task processing server.
func (s *Server) Shutdown() {
	s.logger.Info("shutting down task processing server")
	s.server.Shutdown()
}
