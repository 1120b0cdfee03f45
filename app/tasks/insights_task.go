package tasks

import (
	"context"
	"fmt"

	"github.com/lysyi3m/bundle-desk/app/insights"
)

type InsightsTask struct {
	Task
	generator *insights.Generator
	paths     insights.Paths
}

func NewInsightsTask(sessionID string, generator *insights.Generator, paths insights.Paths) *InsightsTask {
	return &InsightsTask{
		Task:      NewTask(TaskTypeInsights, sessionID),
		generator: generator,
		paths:     paths,
	}
}

func (t *InsightsTask) Execute(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	s, err := t.generator.Run(t.paths)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Insights: %d entries, %d posts, %d sites, %d releases, %d authors",
		s.TotalEntries, s.BlogPosts, s.Sites, s.Releases, s.TotalAuthors), nil
}
