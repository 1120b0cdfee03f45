package database

type TaskRunRepository interface {
	RecordRun(run TaskRun) (int64, error)
	GetRecentRuns(limit int) ([]TaskRun, error)
	GetRunCount() (int, error)
	GetLastSuccess(taskType string) (*TaskRun, error)
}
