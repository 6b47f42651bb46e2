package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/store"
)

// Tracker owns all mutation of task progress records. Updates from
// workers and chapter jobs are serialized through a single goroutine,
// so concurrent chapter completions never race on one record. Reads
// consult the in-memory tier first and fall back to the durable store.
type Tracker struct {
	store   store.TaskStore
	cache   *statusCache
	updates chan trackerUpdate

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

type trackerUpdate struct {
	id    uuid.UUID
	apply func(*domain.GenerationTask)
	done  chan struct{}
}

// NewTracker builds a tracker over the given durable store with an
// in-memory tier of cacheSize records.
func NewTracker(taskStore store.TaskStore, cacheSize int, logger *slog.Logger) (*Tracker, error) {
	if taskStore == nil {
		return nil, ErrNilStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		store:   taskStore,
		cache:   newStatusCache(cacheSize),
		updates: make(chan trackerUpdate, 256),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger.With("component", "task_tracker"),
	}, nil
}

// Start launches the update loop.
func (t *Tracker) Start() {
	t.wg.Add(1)
	go t.loop()
}

// Stop shuts the update loop down after draining queued updates.
func (t *Tracker) Stop() {
	t.cancel()
	t.wg.Wait()
}

// Create records a new task in both tiers. The durable write is
// synchronous so the caller can refuse the submission when persistence
// is unavailable.
func (t *Tracker) Create(ctx context.Context, task *domain.GenerationTask) error {
	if err := t.store.Create(ctx, task); err != nil {
		return fmt.Errorf("failed to save task record: %w", err)
	}
	t.cache.Put(task)
	return nil
}

// GetStatus returns the current record for the task, preferring the
// in-memory tier. Returns store.ErrTaskNotFound when neither tier has
// the record.
func (t *Tracker) GetStatus(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
	if task := t.cache.Get(id); task != nil {
		return task, nil
	}
	return t.store.GetByID(ctx, id)
}

// MarkRunning transitions the record to running.
func (t *Tracker) MarkRunning(id uuid.UUID) {
	t.submit(id, func(task *domain.GenerationTask) {
		task.Status = domain.TaskStatusRunning
	})
}

// MarkCompleted transitions the record to completed.
func (t *Tracker) MarkCompleted(id uuid.UUID) {
	t.submit(id, func(task *domain.GenerationTask) {
		task.Status = domain.TaskStatusCompleted
	})
}

// MarkFailed transitions the record to failed with a diagnostic message.
func (t *Tracker) MarkFailed(id uuid.UUID, errMsg string) {
	t.submit(id, func(task *domain.GenerationTask) {
		task.Status = domain.TaskStatusFailed
		task.Error = errMsg
	})
}

// Step appends a progress step and makes it the current one.
func (t *Tracker) Step(id uuid.UUID, step string) {
	t.submit(id, func(task *domain.GenerationTask) {
		task.Steps = append(task.Steps, step)
		task.CurrentStep = step
	})
}

// ChapterFinished bumps the completion counters for one settled
// chapter job.
func (t *Tracker) ChapterFinished(id uuid.UUID, failed bool) {
	t.submit(id, func(task *domain.GenerationTask) {
		task.Completed++
		if failed {
			task.Failed++
		}
	})
}

// Sync blocks until every update submitted before the call has been
// applied.
func (t *Tracker) Sync() {
	done := make(chan struct{})
	select {
	case t.updates <- trackerUpdate{done: done}:
		select {
		case <-done:
		case <-t.ctx.Done():
		}
	case <-t.ctx.Done():
	}
}

// FailOrphans marks every unsettled durable record as failed. Called
// once at startup: an unsettled record with no live task behind it can
// never progress.
func (t *Tracker) FailOrphans(ctx context.Context) error {
	orphans, err := t.store.ListUnsettled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unsettled tasks: %w", err)
	}

	for _, task := range orphans {
		task.Status = domain.TaskStatusFailed
		task.Error = "interrupted by server restart"
		task.UpdatedAt = time.Now().UTC()
		if err := t.store.Update(ctx, task); err != nil {
			t.logger.Error("failed to fail orphaned task",
				"task_id", task.ID, "error", err)
		}
	}

	if len(orphans) > 0 {
		t.logger.Info("failed orphaned tasks from previous run", "count", len(orphans))
	}
	return nil
}

func (t *Tracker) submit(id uuid.UUID, apply func(*domain.GenerationTask)) {
	select {
	case t.updates <- trackerUpdate{id: id, apply: apply}:
	case <-t.ctx.Done():
		t.logger.Warn("dropping task update, tracker stopped", "task_id", id)
	}
}

func (t *Tracker) loop() {
	defer t.wg.Done()

	for {
		select {
		case u := <-t.updates:
			t.handle(u)
		case <-t.ctx.Done():
			// Drain whatever was queued before shutdown.
			for {
				select {
				case u := <-t.updates:
					t.handle(u)
				default:
					return
				}
			}
		}
	}
}

func (t *Tracker) handle(u trackerUpdate) {
	if u.done != nil {
		close(u.done)
		return
	}

	record := t.cache.Get(u.id)
	if record == nil {
		// Evicted from the memory tier; fall back to the durable copy.
		var err error
		record, err = t.store.GetByID(context.Background(), u.id)
		if err != nil {
			t.logger.Error("dropping update for unknown task",
				"task_id", u.id, "error", err)
			return
		}
	}

	u.apply(record)
	record.UpdatedAt = time.Now().UTC()
	t.cache.Put(record)

	// The durable tier mirrors best-effort; a write failure must not
	// stall generation.
	if err := t.store.Update(context.Background(), record); err != nil {
		t.logger.Error("failed to mirror task update to durable store",
			"task_id", u.id, "error", err)
	}
}
