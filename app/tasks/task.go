package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeIssueRecords TaskType = "genissuerecords"
	TaskTypeLatestData   TaskType = "generate_latest_data"
	TaskTypeInsights     TaskType = "generate_insights"
)

// SessionTaskTypes lists the end-session tasks in submission order
var SessionTaskTypes = []TaskType{TaskTypeIssueRecords, TaskTypeInsights, TaskTypeLatestData}

type TaskInterface interface {
	// Execute runs the task and returns its human-readable output
	Execute(ctx context.Context) (string, error)
	GetID() string
	GetType() TaskType
	GetSessionID() string
	Start()
	GetStartedAt() time.Time
	GetDuration() time.Duration
}

// Result is the outcome of one executed task
type Result struct {
	Success bool   `json:"success"`
	Stdout  string `json:"stdout,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Task struct {
	ID        string
	Type      TaskType
	SessionID string
	StartedAt *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetSessionID() string {
	return t.SessionID
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetStartedAt() time.Time {
	if t.StartedAt == nil {
		return time.Time{}
	}
	return *t.StartedAt
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, sessionID string) Task {
	return Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		SessionID: sessionID,
	}
}
