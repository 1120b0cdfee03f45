package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLTaskRunRepository handles database operations for task runs
type SQLTaskRunRepository struct {
	db *DB
}

// NewTaskRunRepository creates a new task run repository
func NewTaskRunRepository(db *DB) *SQLTaskRunRepository {
	return &SQLTaskRunRepository{db: db}
}

// RecordRun stores a finished task run and returns its row ID
func (r *SQLTaskRunRepository) RecordRun(run TaskRun) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO task_runs (session_id, task_type, success, message, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.SessionID, run.TaskType, run.Success, run.Message,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.DurationMs)
	if err != nil {
		return 0, fmt.Errorf("failed to record task run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get task run ID: %w", err)
	}
	return id, nil
}

// GetRecentRuns returns up to limit runs, newest first
func (r *SQLTaskRunRepository) GetRecentRuns(limit int) ([]TaskRun, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, task_type, success, message, started_at, duration_ms
		FROM task_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query task runs: %w", err)
	}
	defer rows.Close()

	runs := []TaskRun{}
	for rows.Next() {
		run, err := scanTaskRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task runs: %w", err)
	}
	return runs, nil
}

// GetRunCount returns the number of recorded runs
func (r *SQLTaskRunRepository) GetRunCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM task_runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count task runs: %w", err)
	}
	return count, nil
}

// GetLastSuccess returns the latest successful run of a task type, or nil
func (r *SQLTaskRunRepository) GetLastSuccess(taskType string) (*TaskRun, error) {
	row := r.db.QueryRow(`
		SELECT id, session_id, task_type, success, message, started_at, duration_ms
		FROM task_runs
		WHERE task_type = ? AND success = 1
		ORDER BY id DESC
		LIMIT 1
	`, taskType)

	run, err := scanTaskRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTaskRun(s scanner) (*TaskRun, error) {
	var run TaskRun
	var startedAt string

	err := s.Scan(&run.ID, &run.SessionID, &run.TaskType, &run.Success,
		&run.Message, &startedAt, &run.DurationMs)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task run: %w", err)
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at %q: %w", startedAt, err)
	}
	return &run, nil
}
