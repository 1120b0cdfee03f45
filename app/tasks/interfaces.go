package tasks

import (
	"context"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the HTTP API to run end sessions.
// Example usage:
//
//	scheduler := NewScheduler(pipelines.SessionTasks, runRepo, 3, 0)
//	scheduler.Start()
//	defer scheduler.Stop()
//	session, err := scheduler.RunSession(ctx)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) (<-chan Result, error)
	RunSession(ctx context.Context) (*SessionResult, error)
	GetStats() Stats
	Health() map[string]interface{}
}
