package tasks

import (
	"context"
	"fmt"

	"github.com/lysyi3m/bundle-desk/app/issues"
)

type LatestDataTask struct {
	Task
	paths issues.LatestPaths
}

func NewLatestDataTask(sessionID string, paths issues.LatestPaths) *LatestDataTask {
	return &LatestDataTask{
		Task:  NewTask(TaskTypeLatestData, sessionID),
		paths: paths,
	}
}

func (t *LatestDataTask) Execute(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	result, err := issues.GenerateLatest(t.paths)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Latest issue #%d: %d bundle entries, %d showcase entries",
		result.LatestIssue, result.BundleCount, result.ShowcaseCount), nil
}
