package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount determines how many generation tasks run concurrently.
	WorkerCount int

	// QueueSize is the buffer size of the in-memory task queue.
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 4,
		QueueSize:   100,
	}
}

// Runner processes generation tasks on a fixed pool of workers. Task
// records are created by the submitting service; the runner drives
// their running, completed, and failed transitions through the tracker.
type Runner struct {
	tracker  *Tracker
	taskChan chan Task
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	config   RunnerConfig
	logger   *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(tracker *Tracker, config RunnerConfig, logger *slog.Logger) (*Runner, error) {
	if tracker == nil {
		return nil, ErrNilTracker
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		tracker:  tracker,
		taskChan: make(chan Task, config.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
		config:   config,
		logger:   logger.With("component", "task_runner"),
	}, nil
}

// Submit adds a task to the queue. Returns ErrQueueFull when the
// queue has no room; the caller decides how to surface that.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	select {
	case r.taskChan <- task:
		return nil
	default:
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(r.taskChan))
	}
}

// Start fails durable records orphaned by a previous run, then starts
// the worker goroutines.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.tracker.FailOrphans(ctx); err != nil {
		return fmt.Errorf("failed to recover task records: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	return nil
}

// Stop shuts the runner down. Tasks already being processed run to
// completion; queued tasks are abandoned and failed on next startup.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return
		case task := <-r.taskChan:
			r.processTask(task, id)
		}
	}
}

func (r *Runner) processTask(task Task, workerID int) {
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	r.tracker.MarkRunning(task.ID())
	logger.Info("processing task")

	if err := task.Execute(r.ctx); err != nil {
		logger.Error("task execution failed", "error", err)
		r.tracker.MarkFailed(task.ID(), err.Error())
		return
	}

	logger.Info("task completed")
	r.tracker.MarkCompleted(task.ID())
}
