package tasks

import (
	"github.com/lysyi3m/bundle-desk/app/insights"
	"github.com/lysyi3m/bundle-desk/app/issues"
)

// SessionTasksFunc builds the tasks of one end session
type SessionTasksFunc func(sessionID string) []TaskInterface

// Pipelines holds everything the end-session tasks read and write
type Pipelines struct {
	Records   issues.RecordsPaths
	Latest    issues.LatestPaths
	Insights  insights.Paths
	Generator *insights.Generator
}

// SessionTasks returns the three end-session tasks for sessionID
func (p Pipelines) SessionTasks(sessionID string) []TaskInterface {
	return []TaskInterface{
		NewIssueRecordsTask(sessionID, p.Records),
		NewInsightsTask(sessionID, p.Generator, p.Insights),
		NewLatestDataTask(sessionID, p.Latest),
	}
}

// SessionResult collects the results of one end session by task type
type SessionResult struct {
	ID      string
	Results map[TaskType]Result
}

// Success reports whether every task of the session succeeded
func (r *SessionResult) Success() bool {
	for _, res := range r.Results {
		if !res.Success {
			return false
		}
	}
	return true
}
