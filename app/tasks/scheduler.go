package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/bundle-desk/app/database"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

var ErrSchedulerStopped = errors.New("scheduler stopped")

const (
	queueSize   = 30
	taskTimeout = 5 * time.Minute
)

// Stats holds scheduler statistics
type Stats struct {
	TotalProcessed     int64
	TotalErrors        int64
	CurrentWorkers     int
	QueueSize          int
	LastProcessedAt    *time.Time
	AverageProcessTime time.Duration
	processTimes       []time.Duration
}

type job struct {
	task   TaskInterface
	result chan Result
}

type Scheduler struct {
	sessionTasks SessionTasksFunc
	runRepo      database.TaskRunRepository
	interval     time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan job
	stats        *Stats
	mu           sync.RWMutex
}

// NewScheduler creates a worker pool for end-session tasks. A zero interval
// disables periodic sessions.
func NewScheduler(sessionTasks SessionTasksFunc, runRepo database.TaskRunRepository,
	workerCount int, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if workerCount < 1 {
		workerCount = 1
	}

	return &Scheduler{
		sessionTasks: sessionTasks,
		runRepo:      runRepo,
		interval:     interval,
		workerCount:  workerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan job, queueSize),
		stats: &Stats{
			CurrentWorkers: workerCount,
			processTimes:   make([]time.Duration, 0, 100),
		},
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if s.interval <= 0 {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.RunSession(s.ctx); err != nil && !errors.Is(err, ErrSchedulerStopped) {
					slog.Warn("Scheduled session failed", "error", err)
				}
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// EnqueueTask queues a task and returns a channel receiving its result.
// It fails fast when the queue is full.
func (s *Scheduler) EnqueueTask(task TaskInterface) (<-chan Result, error) {
	if s.ctx.Err() != nil {
		return nil, ErrSchedulerStopped
	}

	j := job{task: task, result: make(chan Result, 1)}
	select {
	case s.taskQueue <- j:
		return j.result, nil
	case <-s.ctx.Done():
		return nil, ErrSchedulerStopped
	default:
		return nil, fmt.Errorf("task queue is full")
	}
}

// RunSession enqueues every end-session task and waits for all results
func (s *Scheduler) RunSession(ctx context.Context) (*SessionResult, error) {
	session := &SessionResult{
		ID:      uuid.NewString(),
		Results: make(map[TaskType]Result),
	}
	start := time.Now()

	pending := make(map[TaskType]<-chan Result)
	for _, task := range s.sessionTasks(session.ID) {
		ch, err := s.EnqueueTask(task)
		if err != nil {
			if errors.Is(err, ErrSchedulerStopped) {
				return nil, err
			}
			slog.Warn("Failed to enqueue task", "type", string(task.GetType()), "session", session.ID, "error", err)
			session.Results[task.GetType()] = Result{Success: false, Error: fmt.Sprintf("failed to enqueue task: %v", err)}
			continue
		}
		pending[task.GetType()] = ch
	}

	for taskType, ch := range pending {
		select {
		case res := <-ch:
			session.Results[taskType] = res
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.ctx.Done():
			return nil, ErrSchedulerStopped
		}
	}

	slog.Info("Session completed",
		"session", session.ID,
		"success", session.Success(),
		"duration", time.Since(start))

	return session, nil
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case j := <-s.taskQueue:
			j.result <- s.executeTask(id, j.task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) Result {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	stdout, err := task.Execute(taskCtx)
	duration := task.GetDuration()

	res := Result{Success: err == nil, Stdout: stdout}
	message := stdout
	if err != nil {
		res.Error = err.Error()
		message = res.Error
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "error", err)
	} else {
		slog.Info("Task completed", "type", string(task.GetType()), "session", task.GetSessionID(), "duration", duration)
	}

	s.recordStats(duration, err)

	if s.runRepo != nil {
		_, recErr := s.runRepo.RecordRun(database.TaskRun{
			SessionID:  task.GetSessionID(),
			TaskType:   string(task.GetType()),
			Success:    res.Success,
			Message:    message,
			StartedAt:  task.GetStartedAt(),
			DurationMs: duration.Milliseconds(),
		})
		if recErr != nil {
			slog.Warn("Failed to record task run", "type", string(task.GetType()), "id", task.GetID(), "error", recErr)
		}
	}

	return res
}

func (s *Scheduler) recordStats(duration time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalProcessed++
	now := time.Now()
	s.stats.LastProcessedAt = &now

	s.stats.processTimes = append(s.stats.processTimes, duration)
	if len(s.stats.processTimes) > 100 {
		s.stats.processTimes = s.stats.processTimes[1:]
	}

	var total time.Duration
	for _, d := range s.stats.processTimes {
		total += d
	}
	s.stats.AverageProcessTime = total / time.Duration(len(s.stats.processTimes))

	if err != nil {
		s.stats.TotalErrors++
	}
}

// GetStats returns current scheduler statistics
func (s *Scheduler) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statsCopy := *s.stats
	statsCopy.processTimes = nil
	statsCopy.QueueSize = len(s.taskQueue)
	return statsCopy
}

// Health returns the health status of the scheduler
func (s *Scheduler) Health() map[string]interface{} {
	stats := s.GetStats()

	health := map[string]interface{}{
		"status":               "healthy",
		"workers":              stats.CurrentWorkers,
		"queue_size":           stats.QueueSize,
		"total_processed":      stats.TotalProcessed,
		"total_errors":         stats.TotalErrors,
		"average_process_time": stats.AverageProcessTime.String(),
	}

	if stats.LastProcessedAt != nil {
		health["last_processed_at"] = stats.LastProcessedAt.Format(time.RFC3339)
	}

	if stats.TotalProcessed > 0 {
		errorRate := float64(stats.TotalErrors) / float64(stats.TotalProcessed)
		if errorRate > 0.5 {
			health["status"] = "unhealthy"
		} else if errorRate > 0.1 {
			health["status"] = "degraded"
		}
		health["error_rate"] = errorRate
	}

	return health
}
