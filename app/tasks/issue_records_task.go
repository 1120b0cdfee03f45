package tasks

import (
	"context"
	"fmt"

	"github.com/lysyi3m/bundle-desk/app/issues"
)

type IssueRecordsTask struct {
	Task
	paths issues.RecordsPaths
}

func NewIssueRecordsTask(sessionID string, paths issues.RecordsPaths) *IssueRecordsTask {
	return &IssueRecordsTask{
		Task:  NewTask(TaskTypeIssueRecords, sessionID),
		paths: paths,
	}
}

func (t *IssueRecordsTask) Execute(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	records, err := issues.GenerateRecords(t.paths)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Wrote %d issue records to %s", len(records), t.paths.Output), nil
}
