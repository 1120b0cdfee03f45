package database

import (
	"time"
)

// TaskRun is one executed end-session task
type TaskRun struct {
	ID         int64
	SessionID  string
	TaskType   string
	Success    bool
	Message    string // stdout on success, error text on failure
	StartedAt  time.Time
	DurationMs int64
}
